package server

import (
	"net/http"
	"time"

	ginhandler "user-deletion-service/internal/adapter/gin/handler"
	ginrouter "user-deletion-service/internal/adapter/gin/router"

	"go.uber.org/zap"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	handler *ginhandler.UserHandler,
	opts ginrouter.Options,
	addr string,
	writeTimeout time.Duration,
	l *zap.Logger,
) *http.Server {
	// Setup Gin router with all middleware and routes
	router := ginrouter.SetupRouter(handler, opts, l)

	l.Info("Gin REST API configured",
		zap.String("address", addr),
		zap.Duration("write_timeout", writeTimeout),
	)

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}
}
