package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	ginhandler "user-deletion-service/internal/adapter/gin/handler"
	ginrouter "user-deletion-service/internal/adapter/gin/router"
	"user-deletion-service/internal/config"

	"go.uber.org/zap"
)

// writeTimeoutMargin covers the audit and event writes that follow the
// provider call, plus request decoding and response encoding.
const writeTimeoutMargin = 15 * time.Second

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, handler *ginhandler.UserHandler, opts ginrouter.Options) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		Gin:    SetupGinServer(handler, opts, httpAddress(cfg), writeTimeout(cfg), l),
	}
}

// Start serves HTTP until the server is shut down. A graceful shutdown is
// not reported as an error.
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.Gin.Addr))

	if err := s.Gin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve HTTP: %w", err)
	}
	return nil
}

// httpAddress returns the HTTP server address
func httpAddress(cfg *config.Config) string {
	return ":" + cfg.App.HTTPPort
}

// writeTimeout bounds response writes so that a provider call running to its
// own timeout still gets its answer delivered. With no provider timeout the
// write is unbounded too.
func writeTimeout(cfg *config.Config) time.Duration {
	if cfg.Provider.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(cfg.Provider.TimeoutSeconds)*time.Second + writeTimeoutMargin
}
