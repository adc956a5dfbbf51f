package logger

import (
	"context"

	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the header carrying the request ID in and out of the service.
	RequestIDHeader = "X-Request-ID"
	// MaxRequestIDLength matches the request_id column of the audit table.
	MaxRequestIDLength = 64
)

// NewRequestID generates a fresh request ID.
func NewRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID stores the request ID in ctx. An empty id, or one longer
// than MaxRequestIDLength, is replaced with a generated one.
func ContextWithRequestID(ctx context.Context, id string) (context.Context, string) {
	if id == "" || len(id) > MaxRequestIDLength {
		id = NewRequestID()
	}
	return context.WithValue(ctx, RequestIDKey, id), id
}
