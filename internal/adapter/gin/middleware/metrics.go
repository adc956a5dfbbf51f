package middleware

import (
	"strconv"
	"time"

	"user-deletion-service/pkg/metrics"

	"github.com/gin-gonic/gin"
)

const metricsPath = "/metrics"

// Metrics records request counts and latency per route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil || c.Request.URL.Path == metricsPath {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDurationSeconds.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
