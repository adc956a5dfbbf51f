package user

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-deletion-service/internal/domain/user"
	apperrors "user-deletion-service/pkg/errors"
	"user-deletion-service/pkg/logger"
	"user-deletion-service/pkg/metrics"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, rec *domain.DeletionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishUserDeleted(ctx context.Context, evt domain.UserDeletedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type testDeps struct {
	svc      *Service
	provider *MockProvider
	audit    *MockAuditRepository
	events   *MockEventPublisher
	metrics  *metrics.Metrics
}

func setupTestService(t *testing.T) testDeps {
	d := testDeps{
		provider: new(MockProvider),
		audit:    new(MockAuditRepository),
		events:   new(MockEventPublisher),
		metrics:  metrics.New("test"),
	}
	d.svc = New(d.provider, d.audit, d.events, d.metrics, zaptest.NewLogger(t))
	t.Cleanup(func() {
		d.provider.AssertExpectations(t)
		d.audit.AssertExpectations(t)
		d.events.AssertExpectations(t)
	})
	return d
}

func TestDeleteUser_RequiresUserID(t *testing.T) {
	d := setupTestService(t)

	resp, err := d.svc.DeleteUser(context.Background(), DeleteUserRequest{UserID: ""})

	assert.Nil(t, resp)
	assert.Same(t, apperrors.ErrUserIDRequired, err)
	d.provider.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
	d.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeleteUser_RejectsDotSegments(t *testing.T) {
	for _, id := range []string{".", ".."} {
		t.Run(id, func(t *testing.T) {
			d := setupTestService(t)

			resp, err := d.svc.DeleteUser(context.Background(), DeleteUserRequest{UserID: id})

			assert.Nil(t, resp)
			var validationErr *apperrors.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, "user_id", validationErr.Field)
			assert.Equal(t, "user_id is invalid", validationErr.Message)
			d.provider.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
		})
	}
}

func TestDeleteUser_AllowsDotsInsideIdentifier(t *testing.T) {
	d := setupTestService(t)

	d.provider.On("DeleteUser", mock.Anything, "...").Return(nil)
	d.audit.On("Create", mock.Anything, mock.Anything).Return(nil)
	d.events.On("PublishUserDeleted", mock.Anything, mock.Anything).Return(nil)

	_, err := d.svc.DeleteUser(context.Background(), DeleteUserRequest{UserID: "..."})
	require.NoError(t, err)
}

func TestDeleteUser_Success(t *testing.T) {
	d := setupTestService(t)
	ctx, requestID := logger.ContextWithRequestID(context.Background(), "req-1")

	d.provider.On("DeleteUser", mock.Anything, "abc123").Return(nil)
	d.audit.On("Create", mock.Anything, mock.MatchedBy(func(rec *domain.DeletionRecord) bool {
		return rec.UserID == "abc123" &&
			rec.Outcome == domain.OutcomeDeleted &&
			rec.ProviderStatus == 0 &&
			rec.RequestID == requestID &&
			rec.Error == ""
	})).Return(nil)
	d.events.On("PublishUserDeleted", mock.Anything, mock.MatchedBy(func(evt domain.UserDeletedEvent) bool {
		return evt.UserID == "abc123" && evt.RequestID == requestID && !evt.DeletedAt.IsZero()
	})).Return(nil)

	resp, err := d.svc.DeleteUser(ctx, DeleteUserRequest{UserID: "abc123"})

	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.UserID)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.UserDeletionsTotal.WithLabelValues("deleted")))
}

func TestDeleteUser_ProviderError(t *testing.T) {
	d := setupTestService(t)
	providerErr := apperrors.NewProviderError(http.StatusNotFound, []byte(`{"msg":"User not found"}`))

	d.provider.On("DeleteUser", mock.Anything, "missing-user").Return(providerErr)
	d.audit.On("Create", mock.Anything, mock.MatchedBy(func(rec *domain.DeletionRecord) bool {
		return rec.Outcome == domain.OutcomeProviderError &&
			rec.ProviderStatus == http.StatusNotFound &&
			rec.Error != ""
	})).Return(nil)

	resp, err := d.svc.DeleteUser(context.Background(), DeleteUserRequest{UserID: "missing-user"})

	assert.Nil(t, resp)
	assert.Same(t, providerErr, err)
	d.events.AssertNotCalled(t, "PublishUserDeleted", mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.UserDeletionsTotal.WithLabelValues("provider_error")))
}

func TestDeleteUser_FailureOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		outcome domain.Outcome
		status  int
	}{
		{"transport", apperrors.NewTransportError(errors.New("connection refused"), false), domain.OutcomeTransportError, 0},
		{"timeout", apperrors.NewTransportError(context.DeadlineExceeded, true), domain.OutcomeTransportError, 0},
		{"invalid response", apperrors.NewInvalidResponseError(http.StatusBadGateway, nil), domain.OutcomeInvalidResponse, http.StatusBadGateway},
		{"untyped", errors.New("boom"), domain.OutcomeTransportError, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupTestService(t)

			d.provider.On("DeleteUser", mock.Anything, "abc123").Return(tt.err)
			d.audit.On("Create", mock.Anything, mock.MatchedBy(func(rec *domain.DeletionRecord) bool {
				return rec.Outcome == tt.outcome && rec.ProviderStatus == tt.status
			})).Return(nil)

			_, err := d.svc.DeleteUser(context.Background(), DeleteUserRequest{UserID: "abc123"})

			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.UserDeletionsTotal.WithLabelValues(string(tt.outcome))))
		})
	}
}

func TestDeleteUser_SideEffectFailuresDoNotChangeResult(t *testing.T) {
	d := setupTestService(t)

	d.provider.On("DeleteUser", mock.Anything, "abc123").Return(nil)
	d.audit.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	d.events.On("PublishUserDeleted", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	resp, err := d.svc.DeleteUser(context.Background(), DeleteUserRequest{UserID: "abc123"})

	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.UserID)
}

func TestDeleteUser_SideEffectsSurviveCallerCancellation(t *testing.T) {
	d := setupTestService(t)
	ctx, cancel := context.WithCancel(context.Background())

	d.provider.On("DeleteUser", mock.Anything, "abc123").
		Run(func(mock.Arguments) { cancel() }).
		Return(nil)
	liveCtx := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
	d.audit.On("Create", liveCtx, mock.Anything).Return(nil)
	d.events.On("PublishUserDeleted", liveCtx, mock.Anything).Return(nil)

	_, err := d.svc.DeleteUser(ctx, DeleteUserRequest{UserID: "abc123"})
	require.NoError(t, err)
}

func TestDeleteUser_WithoutOptionalCollaborators(t *testing.T) {
	provider := new(MockProvider)
	svc := New(provider, nil, nil, nil, zaptest.NewLogger(t))

	provider.On("DeleteUser", mock.Anything, "abc123").Return(nil)

	resp, err := svc.DeleteUser(context.Background(), DeleteUserRequest{UserID: "abc123"})

	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.UserID)
	provider.AssertExpectations(t)
}

func TestNewDeletionRecord_TruncatesError(t *testing.T) {
	long := make([]byte, 2*maxAuditErrorLen)
	for i := range long {
		long[i] = 'x'
	}

	rec := newDeletionRecord("abc123", "", errors.New(string(long)))

	assert.Len(t, rec.Error, maxAuditErrorLen)
	assert.Equal(t, domain.OutcomeTransportError, rec.Outcome)
}
