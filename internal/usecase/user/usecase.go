package user

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "user-deletion-service/internal/domain/user"
	apperrors "user-deletion-service/pkg/errors"
	"user-deletion-service/pkg/logger"
	"user-deletion-service/pkg/metrics"
)

const (
	sideEffectTimeout = 5 * time.Second
	maxAuditErrorLen  = 512
)

// Service implements Usecase on top of the identity provider.
// Audit and event collaborators are optional; nil disables them.
type Service struct {
	provider Provider
	audit    AuditRepository
	events   EventPublisher
	metrics  *metrics.Metrics
	log      *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

// New creates a new Service.
func New(p Provider, audit AuditRepository, events EventPublisher, m *metrics.Metrics, log *zap.Logger) *Service {
	v := validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("path_segment", validatePathSegment)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		provider: p,
		audit:    audit,
		events:   events,
		metrics:  m,
		log:      log,
		validate: v,
		now:      time.Now,
	}
}

// validatePathSegment rejects the dot segments "." and "..", which would
// resolve to a different admin path once placed in the provider URL.
func validatePathSegment(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s != "." && s != ".."
}

// formatValidationError converts validator.ValidationErrors into a ValidationError
// naming the first offending field.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err
	}

	e := validationErrors[0]
	switch e.Tag() {
	case "required":
		if e.Field() == "user_id" {
			return apperrors.ErrUserIDRequired
		}
		return apperrors.NewValidationError(e.Field(), fmt.Sprintf("%s is required", e.Field()))
	default:
		return apperrors.NewValidationError(e.Field(), fmt.Sprintf("%s is invalid", e.Field()))
	}
}

// DeleteUser asks the identity provider to delete in.UserID.
// The provider's outcome is returned unchanged: nil on 204, otherwise one of
// the typed errors from pkg/errors. Every provider call is audited, and a
// successful one is announced; failures of either side effect are only logged.
func (s *Service) DeleteUser(ctx context.Context, in DeleteUserRequest) (*DeleteUserResponse, error) {
	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("delete user validation failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	ctx = logger.ContextWithUserID(ctx, in.UserID)
	log := logger.WithContext(ctx, s.log)
	log.Info("deleting user")

	start := s.now()
	err := s.provider.DeleteUser(ctx, in.UserID)
	s.metrics.ObserveProviderLatency(s.now().Sub(start))

	rec := newDeletionRecord(in.UserID, logger.GetRequestID(ctx), err)
	s.metrics.ObserveDeletion(string(rec.Outcome))

	s.runSideEffects(ctx, rec)

	if err != nil {
		log.Warn("delete user failed",
			zap.String("outcome", string(rec.Outcome)),
			zap.Int("provider_status", rec.ProviderStatus),
			zap.Error(err),
		)
		return nil, err
	}

	log.Info("user deleted")
	return &DeleteUserResponse{UserID: in.UserID}, nil
}

// runSideEffects writes the audit record and, on success, publishes the
// deletion event. Both run concurrently and are awaited. They are detached
// from caller cancellation since the provider call has already happened.
func (s *Service) runSideEffects(ctx context.Context, rec *domain.DeletionRecord) {
	if s.audit == nil && (s.events == nil || rec.Outcome != domain.OutcomeDeleted) {
		return
	}

	sideCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	log := logger.WithContext(ctx, s.log)

	var g errgroup.Group

	if s.audit != nil {
		g.Go(func() error {
			if err := s.audit.Create(sideCtx, rec); err != nil {
				log.Warn("failed to write deletion audit record", zap.Error(err))
				return fmt.Errorf("audit: %w", err)
			}
			return nil
		})
	}

	if s.events != nil && rec.Outcome == domain.OutcomeDeleted {
		evt := domain.UserDeletedEvent{
			UserID:    rec.UserID,
			RequestID: rec.RequestID,
			DeletedAt: rec.CreatedAt,
		}
		g.Go(func() error {
			if err := s.events.PublishUserDeleted(sideCtx, evt); err != nil {
				log.Warn("failed to publish user deleted event", zap.Error(err))
				return fmt.Errorf("publish: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Debug("deletion side effects incomplete", zap.Error(err))
	}
}

func newDeletionRecord(userID, requestID string, err error) *domain.DeletionRecord {
	rec := &domain.DeletionRecord{
		UserID:    userID,
		RequestID: requestID,
		Outcome:   domain.OutcomeDeleted,
		CreatedAt: time.Now().UTC(),
	}
	if err == nil {
		return rec
	}

	var (
		providerErr *apperrors.ProviderError
		invalidErr  *apperrors.InvalidResponseError
	)
	switch {
	case errors.As(err, &providerErr):
		rec.Outcome = domain.OutcomeProviderError
		rec.ProviderStatus = providerErr.StatusCode
	case errors.As(err, &invalidErr):
		rec.Outcome = domain.OutcomeInvalidResponse
		rec.ProviderStatus = invalidErr.StatusCode
	default:
		rec.Outcome = domain.OutcomeTransportError
	}

	rec.Error = err.Error()
	if len(rec.Error) > maxAuditErrorLen {
		rec.Error = rec.Error[:maxAuditErrorLen]
	}
	return rec
}
