package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported audit store drivers. DriverNone disables auditing.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverNone     = "none"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig
	Provider ProviderConfig
	DB       DatabaseConfig
	Redis    RedisConfig
	HTTP     HTTPConfig
	Logger   LoggerConfig
}

// AppConfig holds configuration for the application server
type AppConfig struct {
	Env                    string `mapstructure:"APP_ENV"`
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// ProviderConfig points the service at the identity provider's admin API
type ProviderConfig struct {
	URL            string `mapstructure:"SUPABASE_URL"`
	ServiceRoleKey string `mapstructure:"SUPABASE_SERVICE_ROLE_KEY"`
	TimeoutSeconds int    `mapstructure:"PROVIDER_TIMEOUT_SECONDS"`
}

// DatabaseConfig holds configuration for the deletion audit store
type DatabaseConfig struct {
	Driver     string `mapstructure:"DB_DRIVER"`
	Host       string `mapstructure:"DB_HOST"`
	Port       string `mapstructure:"DB_PORT"`
	User       string `mapstructure:"DB_USER"`
	Password   string `mapstructure:"DB_PASSWORD"`
	Name       string `mapstructure:"DB_NAME"`
	SSLMode    string `mapstructure:"DB_SSLMODE"`
	SQLitePath string `mapstructure:"DB_SQLITE_PATH"`
}

// RedisConfig holds configuration for the deletion event publisher
type RedisConfig struct {
	Enabled  bool   `mapstructure:"REDIS_ENABLED"`
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	PoolSize int    `mapstructure:"REDIS_POOL_SIZE"`
	Channel  string `mapstructure:"EVENT_CHANNEL"`
}

// HTTPConfig holds the optional HTTP surfaces
type HTTPConfig struct {
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	MetricsEnabled     bool     `mapstructure:"METRICS_ENABLED"`
	SwaggerEnabled     bool     `mapstructure:"SWAGGER_ENABLED"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// LoadConfig reads configuration from path/app.env and environment variables.
// A .env file in path, if present, is loaded into the process environment
// first; variables already set are not overridden.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	// APP_ENV may come from app.env, so environment-dependent defaults wait for it.
	applyEnvDefaults(v)

	var config Config

	config.App.Env = v.GetString("APP_ENV")
	config.App.HTTPPort = v.GetString("HTTP_PORT")
	config.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.Provider.URL = strings.TrimRight(v.GetString("SUPABASE_URL"), "/")
	config.Provider.ServiceRoleKey = v.GetString("SUPABASE_SERVICE_ROLE_KEY")
	config.Provider.TimeoutSeconds = v.GetInt("PROVIDER_TIMEOUT_SECONDS")

	config.DB.Driver = strings.ToLower(v.GetString("DB_DRIVER"))
	config.DB.Host = v.GetString("DB_HOST")
	config.DB.Port = v.GetString("DB_PORT")
	config.DB.User = v.GetString("DB_USER")
	config.DB.Password = v.GetString("DB_PASSWORD")
	config.DB.Name = v.GetString("DB_NAME")
	config.DB.SSLMode = v.GetString("DB_SSLMODE")
	config.DB.SQLitePath = v.GetString("DB_SQLITE_PATH")

	config.Redis.Enabled = v.GetBool("REDIS_ENABLED")
	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.Channel = v.GetString("EVENT_CHANNEL")

	config.HTTP.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	config.HTTP.MetricsEnabled = v.GetBool("METRICS_ENABLED")
	config.HTTP.SwaggerEnabled = v.GetBool("SWAGGER_ENABLED")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "5000")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	v.SetDefault("PROVIDER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "user_deletion_service")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_SQLITE_PATH", "deletions.db")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("EVENT_CHANNEL", "user.deleted")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("SWAGGER_ENABLED", true)

	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "user-deletion-service")
	v.SetDefault("SERVICE_VERSION", "1.0.0")
}

// applyEnvDefaults sets the logger defaults that depend on APP_ENV.
func applyEnvDefaults(v *viper.Viper) {
	if v.GetString("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
		return
	}
	v.SetDefault("LOG_LEVEL", "debug")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_ENABLE_SAMPLING", false)
}

// Validate checks that the configuration can start the service.
func (c *Config) Validate() error {
	var errs []error

	if c.Provider.URL == "" {
		errs = append(errs, errors.New("SUPABASE_URL is required"))
	} else if u, err := url.Parse(c.Provider.URL); err != nil || !u.IsAbs() || u.Host == "" {
		errs = append(errs, fmt.Errorf("SUPABASE_URL must be an absolute URL, got %q", c.Provider.URL))
	}
	if c.Provider.ServiceRoleKey == "" {
		errs = append(errs, errors.New("SUPABASE_SERVICE_ROLE_KEY is required"))
	}
	if c.Provider.TimeoutSeconds < 0 {
		errs = append(errs, errors.New("PROVIDER_TIMEOUT_SECONDS must not be negative"))
	}

	switch c.DB.Driver {
	case DriverNone, DriverPostgres:
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			errs = append(errs, errors.New("DB_SQLITE_PATH is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver))
	}

	if c.Redis.Enabled && c.Redis.Channel == "" {
		errs = append(errs, errors.New("EVENT_CHANNEL is required when REDIS_ENABLED is set"))
	}
	if c.App.HTTPPort == "" {
		errs = append(errs, errors.New("HTTP_PORT is required"))
	}

	return errors.Join(errs...)
}

// AuditEnabled reports whether deletion attempts are persisted.
func (c *Config) AuditEnabled() bool {
	return c.DB.Driver != DriverNone
}

// DSN returns the PostgreSQL Data Source Name
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
