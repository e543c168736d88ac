package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds the connection settings for a Postgres pool.
type PostgresConfig struct {
	Host         string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port         int           `env:"POSTGRES_PORT" envDefault:"5432"`
	User         string        `env:"POSTGRES_USER" envDefault:"postgres"`
	Password     string        `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	Database     string        `env:"POSTGRES_DB" envDefault:"anirecs"`
	SSLMode      string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	MaxConns     int32         `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns     int32         `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	MaxConnIdle  time.Duration `env:"POSTGRES_MAX_CONN_IDLE" envDefault:"5m"`
	ConnLifetime time.Duration `env:"POSTGRES_CONN_LIFETIME" envDefault:"30m"`
}

// DSN returns the connection string for the configuration.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// NewPostgresPool creates a pgx connection pool and verifies connectivity.
// Connection attempts are retried with jittered backoff because the database
// container may still be starting when the service comes up.
func NewPostgresPool(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdle
	poolCfg.MaxConnLifetime = cfg.ConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	const attempts = 3
	for i := 0; i < attempts; i++ {
		if err = pool.Ping(ctx); err == nil {
			return pool, nil
		}
		if i < attempts-1 {
			backoff := time.Duration(i+1)*time.Second + time.Duration(rand.Intn(500))*time.Millisecond
			select {
			case <-ctx.Done():
				pool.Close()
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	pool.Close()
	return nil, fmt.Errorf("ping postgres after %d attempts: %w", attempts, err)
}
