package middleware

import (
	"user-deletion-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestID propagates X-Request-ID, generating one when the caller sent none.
// The ID is stored in the request context for logging and echoed back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, id := logger.ContextWithRequestID(c.Request.Context(), c.GetHeader(logger.RequestIDHeader))
		c.Request = c.Request.WithContext(ctx)
		c.Header(logger.RequestIDHeader, id)
		c.Next()
	}
}
