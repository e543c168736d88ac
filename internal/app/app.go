// Package app wires together all dependencies and runs the service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/eaaniwezi/anirecs/internal/auth"
	"github.com/eaaniwezi/anirecs/internal/config"
	"github.com/eaaniwezi/anirecs/internal/event"
	handler "github.com/eaaniwezi/anirecs/internal/handler/http"
	"github.com/eaaniwezi/anirecs/internal/repository"
	"github.com/eaaniwezi/anirecs/internal/repository/postgres"
	redisrepo "github.com/eaaniwezi/anirecs/internal/repository/redis"
	"github.com/eaaniwezi/anirecs/internal/service"
	"github.com/eaaniwezi/anirecs/migrations"
	"github.com/eaaniwezi/anirecs/pkg/database"
	"github.com/eaaniwezi/anirecs/pkg/health"
	pkgkafka "github.com/eaaniwezi/anirecs/pkg/kafka"
	"github.com/eaaniwezi/anirecs/pkg/tracing"
)

const version = "0.1.0"

// App holds the long-lived components of the running service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redisClient    *goredis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// New creates the application, connecting to all backing services.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, cfg.Tracing, cfg.ServiceName, version)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.Postgres.Host),
		slog.Int("port", cfg.Postgres.Port),
		slog.String("database", cfg.Postgres.Database),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		database.NewPoolStatsCollector(pool, cfg.ServiceName),
	)

	// Redis backs the recommendation cache. The service degrades to
	// cache-less operation when it is unreachable at startup.
	var redisClient *goredis.Client
	var recCache repository.RecommendationCache
	redisClient, err = database.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, recommendation caching disabled",
			slog.String("addr", cfg.Redis.Addr),
			slog.String("error", err.Error()),
		)
		redisClient = nil
	} else {
		recCache = redisrepo.NewRecommendationCache(redisClient)
		logger.Info("connected to Redis", slog.String("addr", cfg.Redis.Addr))
	}

	var producer *pkgkafka.Producer
	var publisher event.Publisher
	if cfg.Kafka.Enabled {
		producer = pkgkafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		publisher = producer
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.Kafka.Brokers))
	}

	tokenManager := auth.NewTokenManager(
		cfg.JWT.Secret, cfg.ServiceName, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	hasher := auth.NewPasswordHasher(auth.DefaultBcryptCost)
	eventProducer := event.NewProducer(publisher, logger)

	userRepo := postgres.NewUserRepository(pool)
	genreRepo := postgres.NewGenreRepository(pool)
	animeRepo := postgres.NewAnimeRepository(pool)
	favouriteRepo := postgres.NewFavouriteRepository(pool)
	preferenceRepo := postgres.NewPreferenceRepository(pool)
	animeGenreRepo := postgres.NewAnimeGenreRepository(pool)

	authService := service.NewAuthService(userRepo, hasher, tokenManager, eventProducer, logger)
	catalogService := service.NewCatalogService(
		genreRepo, animeRepo, favouriteRepo, preferenceRepo, animeGenreRepo,
		recCache, eventProducer, logger)

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}

	router := handler.NewRouter(handler.RouterDeps{
		AuthService:    authService,
		CatalogService: catalogService,
		HealthHandler:  healthHandler,
		Registry:       registry,
		Logger:         logger,
		CORS: handler.CORSConfig{
			AllowedOrigins: cfg.HTTP.CORSOrigins,
			Environment:    cfg.Environment,
		},
		ServiceName: cfg.ServiceName,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redisClient:    redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown stops all components in order: drain HTTP, flush spans, close
// the Kafka producer, close Redis, close the Postgres pool.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
