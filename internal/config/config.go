package config

import (
	"fmt"
	"time"

	"github.com/eaaniwezi/anirecs/pkg/config"
	"github.com/eaaniwezi/anirecs/pkg/database"
	"github.com/eaaniwezi/anirecs/pkg/tracing"
)

// Config holds all runtime configuration for the service, loaded from the
// environment.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"anirecs-api"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTP     HTTPConfig
	Postgres database.PostgresConfig
	Redis    database.RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Tracing  tracing.Config
}

// HTTPConfig holds the HTTP server settings.
type HTTPConfig struct {
	Port            int           `env:"HTTP_PORT" envDefault:"8000"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// KafkaConfig holds the Kafka producer settings.
type KafkaConfig struct {
	Enabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"anirecs.events"`
}

// JWTConfig holds the token signing settings.
type JWTConfig struct {
	Secret          string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Environment != "development" {
		if c.JWT.Secret == "" || c.JWT.Secret == "dev-secret-change-me" {
			return fmt.Errorf("JWT_SECRET must be set outside development")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters, got %d", len(c.JWT.Secret))
		}
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be positive")
	}
	if c.JWT.RefreshTokenTTL <= c.JWT.AccessTokenTTL {
		return fmt.Errorf("JWT_REFRESH_TTL must exceed JWT_ACCESS_TTL")
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", c.HTTP.Port)
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
