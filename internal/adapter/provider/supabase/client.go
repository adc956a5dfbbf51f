// Package supabase talks to the Supabase GoTrue admin API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	apperrors "user-deletion-service/pkg/errors"
	"user-deletion-service/pkg/logger"
)

const (
	deleteUserPath = "/auth/v1/admin/users/{user_id}"
	apiKeyHeader   = "apikey"
)

// Config holds the admin API location and credential.
type Config struct {
	BaseURL        string
	ServiceRoleKey string
	Timeout        time.Duration // zero leaves the transport default in place
}

// Client calls the provider's admin endpoints with the service-role key.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// NewClient creates an admin API client. The service-role key is sent both as
// the apikey header and as a bearer token on every request.
func NewClient(cfg Config, log *zap.Logger) *Client {
	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader(apiKeyHeader, cfg.ServiceRoleKey).
		SetAuthToken(cfg.ServiceRoleKey).
		SetLogger(log.Sugar()).
		SetRetryCount(0)

	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}

	return &Client{http: rc, log: log}
}

// DeleteUser removes a user through the admin API. It returns nil when the
// provider answers 204, *errors.ProviderError for any other status carrying a
// JSON body, *errors.InvalidResponseError when that body is empty or not JSON,
// and *errors.TransportError when no response was received.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	log := logger.WithContext(ctx, c.log)

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("user_id", userID).
		Delete(deleteUserPath)
	if err != nil {
		timeout := isTimeout(err)
		log.Error("identity provider request failed", zap.Bool("timeout", timeout), zap.Error(err))
		return apperrors.NewTransportError(err, timeout)
	}

	status := resp.StatusCode()
	log.Debug("identity provider responded",
		zap.Int("status", status),
		zap.Duration("elapsed", resp.Time()),
	)

	if status == http.StatusNoContent {
		return nil
	}

	body := resp.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		log.Warn("identity provider returned empty error body", zap.Int("status", status))
		return apperrors.NewInvalidResponseError(status, errors.New("empty body"))
	}
	if !json.Valid(body) {
		log.Warn("identity provider returned non-JSON body", zap.Int("status", status))
		return apperrors.NewInvalidResponseError(status, fmt.Errorf("body is not JSON (content-type %q)", resp.Header().Get("Content-Type")))
	}

	return apperrors.NewProviderError(status, body)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
