package middleware

import (
	"time"

	"user-deletion-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger writes one access log entry per request.
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}

		l := logger.WithContext(c.Request.Context(), log)
		switch {
		case status >= 500:
			l.Error("request completed", fields...)
		case status >= 400:
			l.Warn("request completed", fields...)
		default:
			l.Info("request completed", fields...)
		}
	}
}
