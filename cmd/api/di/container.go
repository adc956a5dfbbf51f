package di

import (
	"context"
	"fmt"
	"time"

	"user-deletion-service/cmd/api/infrastructure"
	"user-deletion-service/internal/adapter/db/postgres"
	"user-deletion-service/internal/adapter/event"
	ginhandler "user-deletion-service/internal/adapter/gin/handler"
	ginrouter "user-deletion-service/internal/adapter/gin/router"
	"user-deletion-service/internal/adapter/provider/supabase"
	"user-deletion-service/internal/config"
	"user-deletion-service/internal/usecase/user"
	"user-deletion-service/pkg/metrics"
	redisclient "user-deletion-service/pkg/redis"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrateTimeout = 30 * time.Second

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	DB            *gorm.DB            // nil when auditing is disabled
	RedisClient   *redisclient.Client // nil when events are disabled
	Metrics       *metrics.Metrics
	UserUC        user.Usecase
	GinHandler    *ginhandler.UserHandler
	RouterOptions ginrouter.Options
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (_ *Container, err error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	c.Metrics = metrics.New(cfg.Logger.ServiceName)

	provider := supabase.NewClient(supabase.Config{
		BaseURL:        cfg.Provider.URL,
		ServiceRoleKey: cfg.Provider.ServiceRoleKey,
		Timeout:        time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
	}, l)

	// Audit store is optional; a nil interface disables it in the usecase.
	var audit user.AuditRepository
	if cfg.AuditEnabled() {
		c.DB, err = infrastructure.NewDatabase(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}

		repo := postgres.NewDeletionRepoPG(c.DB, l)
		ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
		err = repo.Migrate(ctx)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("failed to migrate audit store: %w", err)
		}
		audit = repo
	} else {
		l.Info("deletion audit disabled")
	}

	var events user.EventPublisher
	if cfg.Redis.Enabled {
		c.RedisClient, err = infrastructure.NewRedisClient(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		events = event.NewRedisEventPublisher(c.RedisClient.Client, cfg.Redis.Channel, l)
	}

	c.UserUC = user.New(provider, audit, events, c.Metrics, l)
	c.GinHandler = ginhandler.NewUserHandler(c.UserUC, l)

	c.RouterOptions = ginrouter.Options{
		ServiceName:        cfg.Logger.ServiceName,
		CORSAllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		SwaggerEnabled:     cfg.HTTP.SwaggerEnabled,
	}
	if cfg.HTTP.MetricsEnabled {
		c.RouterOptions.Metrics = c.Metrics
	}

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
