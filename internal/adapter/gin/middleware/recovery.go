package middleware

import (
	apperrors "user-deletion-service/pkg/errors"
	"user-deletion-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery turns panics into a 500 JSON response.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithContext(c.Request.Context(), log).Error("panic recovered in HTTP handler",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(apperrors.ErrInternal.HTTPStatus(), gin.H{
					"error": apperrors.ErrInternal.Message,
				})
			}
		}()
		c.Next()
	}
}
