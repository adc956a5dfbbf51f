package logger

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLogLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLogLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, parseLogLevel("bogus"))
}

func TestNewWithConfig(t *testing.T) {
	l, err := NewWithConfig(Config{
		Level:          "info",
		Format:         "json",
		OutputPath:     "stderr",
		ServiceName:    "user-deletion-service",
		ServiceVersion: "test",
		Environment:    "test",
	})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestWithContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx, id := ContextWithRequestID(context.Background(), "")
	ctx = ContextWithUserID(ctx, "abc123")
	require.NotEmpty(t, id)

	WithContext(ctx, base).Info("deleting")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, id, fields["request_id"])
	assert.Equal(t, "abc123", fields["user_id"])
}

func TestContextWithRequestID_KeepsGivenID(t *testing.T) {
	ctx, id := ContextWithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", id)
	assert.Equal(t, "req-1", GetRequestID(ctx))
}

func TestContextWithRequestID_ReplacesOversizedID(t *testing.T) {
	atLimit := strings.Repeat("a", MaxRequestIDLength)
	_, id := ContextWithRequestID(context.Background(), atLimit)
	assert.Equal(t, atLimit, id)

	ctx, id := ContextWithRequestID(context.Background(), atLimit+"a")
	assert.NotEqual(t, atLimit+"a", id)
	assert.LessOrEqual(t, len(id), MaxRequestIDLength)
	assert.Equal(t, id, GetRequestID(ctx))
}
