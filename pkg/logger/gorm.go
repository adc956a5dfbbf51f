package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const maxLoggedSQL = 1000

// AuditStoreLogger reports deletion audit store queries through zap. Every
// entry carries the store driver; failed and slow statements are logged at
// error and warn level, the rest at debug.
type AuditStoreLogger struct {
	log           *zap.Logger
	driver        string
	slowThreshold time.Duration
	level         gormlogger.LogLevel
}

// NewAuditStoreLogger builds a gorm logger for the audit store. logLevel uses
// the service's LOG_LEVEL values.
func NewAuditStoreLogger(log *zap.Logger, driver string, slowQuerySeconds float64, logLevel string) *AuditStoreLogger {
	return &AuditStoreLogger{
		log:           log.Named("audit_store"),
		driver:        driver,
		slowThreshold: time.Duration(slowQuerySeconds * float64(time.Second)),
		level:         gormLevel(logLevel),
	}
}

func gormLevel(logLevel string) gormlogger.LogLevel {
	switch logLevel {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// LogMode implements gormlogger.Interface
func (l *AuditStoreLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *AuditStoreLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.logf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

// Warn implements gormlogger.Interface
func (l *AuditStoreLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.logf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

// Error implements gormlogger.Interface
func (l *AuditStoreLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.logf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *AuditStoreLogger) logf(ctx context.Context, threshold gormlogger.LogLevel, lvl zapcore.Level, msg string, data []interface{}) {
	if l.level < threshold {
		return
	}
	WithContext(ctx, l.log).Log(lvl, fmt.Sprintf(msg, data...), zap.String("driver", l.driver))
}

// Trace implements gormlogger.Interface
func (l *AuditStoreLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.String("driver", l.driver),
		zap.Int64("rows_affected", rows),
		zap.Duration("elapsed", elapsed),
	}
	if len(sql) > maxLoggedSQL {
		fields = append(fields, zap.String("sql", sql[:maxLoggedSQL]+"..."), zap.Bool("sql_truncated", true))
	} else {
		fields = append(fields, zap.String("sql", sql))
	}

	log := WithContext(ctx, l.log)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		log.Error("audit store query failed", append(fields, zap.Error(err))...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		log.Warn("audit store slow query", append(fields, zap.Duration("threshold", l.slowThreshold))...)
	case l.level >= gormlogger.Info:
		log.Debug("audit store query", fields...)
	}
}
