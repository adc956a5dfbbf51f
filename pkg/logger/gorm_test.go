package logger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedAuditLogger(logLevel string, slowSeconds float64) (*AuditStoreLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewAuditStoreLogger(zap.New(core), "sqlite", slowSeconds, logLevel), logs
}

func TestAuditStoreLogger_Trace(t *testing.T) {
	insert := func() (string, int64) { return `INSERT INTO "user_deletions" ("user_id") VALUES ("abc123")`, 1 }

	tests := []struct {
		name     string
		logLevel string
		begin    time.Time
		err      error
		wantMsg  string
		wantLvl  zapcore.Level
	}{
		{"query at debug", "debug", time.Now(), nil, "audit store query", zapcore.DebugLevel},
		{"failure", "warn", time.Now(), errors.New("database is locked"), "audit store query failed", zapcore.ErrorLevel},
		{"slow", "warn", time.Now().Add(-time.Second), nil, "audit store slow query", zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, logs := newObservedAuditLogger(tt.logLevel, 0.2)

			l.Trace(context.Background(), tt.begin, insert, tt.err)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantMsg, entries[0].Message)
			assert.Equal(t, tt.wantLvl, entries[0].Level)
			assert.Equal(t, "audit_store", entries[0].LoggerName)
			fields := entries[0].ContextMap()
			assert.Equal(t, "sqlite", fields["driver"])
			assert.Equal(t, int64(1), fields["rows_affected"])
		})
	}
}

func TestAuditStoreLogger_QuietCases(t *testing.T) {
	l, logs := newObservedAuditLogger("warn", 0.2)
	query := func() (string, int64) { return "SELECT 1", 0 }

	l.Trace(context.Background(), time.Now(), query, nil)
	l.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)
	l.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), query, errors.New("ignored"))

	assert.Zero(t, logs.Len())
}

func TestAuditStoreLogger_TruncatesSQL(t *testing.T) {
	l, logs := newObservedAuditLogger("debug", 0)
	long := strings.Repeat("x", 2*maxLoggedSQL)

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return long, 0 }, nil)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Len(t, fields["sql"], maxLoggedSQL+3)
	assert.Equal(t, true, fields["sql_truncated"])
}

func TestAuditStoreLogger_Messages(t *testing.T) {
	l, logs := newObservedAuditLogger("info", 0)

	l.Info(context.Background(), "migrated %s", "user_deletions")
	l.LogMode(gormlogger.Error).Warn(context.Background(), "dropped")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "migrated user_deletions", logs.All()[0].Message)
	assert.Equal(t, "sqlite", logs.All()[0].ContextMap()["driver"])
}
