package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kevin07696/recurring-payment-service/internal/adapters/iats"
	"github.com/kevin07696/recurring-payment-service/internal/adapters/postgres"
	"github.com/kevin07696/recurring-payment-service/internal/adapters/redis"
	"github.com/kevin07696/recurring-payment-service/internal/config"
	"github.com/kevin07696/recurring-payment-service/internal/db/migrations"
	"github.com/kevin07696/recurring-payment-service/internal/handlers"
	"github.com/kevin07696/recurring-payment-service/internal/middleware"
	paymentService "github.com/kevin07696/recurring-payment-service/internal/services/payment"
	"github.com/kevin07696/recurring-payment-service/internal/services/processor"
	subscriptionService "github.com/kevin07696/recurring-payment-service/internal/services/subscription"
	"github.com/kevin07696/recurring-payment-service/pkg/observability"
	"github.com/kevin07696/recurring-payment-service/pkg/resilience"
	"github.com/kevin07696/recurring-payment-service/pkg/security"
	"github.com/kevin07696/recurring-payment-service/pkg/shutdown"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := security.BuildLogger(cfg.Logger.Level, cfg.Logger.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting recurring payment service",
		zap.String("environment", cfg.Environment),
		zap.Int("port", cfg.Server.Port),
		zap.Int("processors", len(cfg.Processors)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.ConnectionString())
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.QueryTimeout = cfg.Database.QueryTimeout

	dbPool, err := postgres.NewPool(ctx, poolCfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	// components shut down in reverse registration order
	shutdownMgr := shutdown.NewManager(logger, 30*time.Second)
	shutdownMgr.RegisterCloser("database", dbPool.Close)

	if cfg.Database.AutoMigrate {
		if err := runMigrations(dbPool, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	poolMonitor := shutdown.NewPeriodicWorker("db-pool-monitor", time.Minute, logger)
	poolMonitor.Start(postgres.PoolMonitor(dbPool, logger))
	shutdownMgr.Register("db-pool-monitor", poolMonitor.Shutdown)

	// Redis (optional)
	var redisClient *goredis.Client
	var idempotency *middleware.Idempotency
	if cfg.Redis.URL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		shutdownMgr.Register("redis", func(context.Context) error { return redisClient.Close() })

		storeCfg := redis.DefaultIdempotencyStoreConfig()
		storeCfg.ResponseTTL = cfg.Redis.ResponseTTL
		idempotency = middleware.NewIdempotency(redis.NewIdempotencyStore(redisClient, storeCfg), logger)
		logger.Info("Idempotency keys enabled", zap.Duration("ttl", cfg.Redis.ResponseTTL))
	} else {
		logger.Warn("REDIS_URL not set, Idempotency-Key headers are ignored")
	}

	// Processors
	registry, err := buildRegistry(ctx, cfg, dbPool, logger)
	if err != nil {
		logger.Fatal("Failed to configure processors", zap.Error(err))
	}

	// HTTP servers
	var rateLimiter *middleware.RateLimiter
	if cfg.Server.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, cfg.Server.TrustProxy, logger)
		shutdownMgr.RegisterCloser("rate-limiter", rateLimiter.Shutdown)
	}

	timeouts := resilience.DefaultTimeoutConfig()
	router := handlers.NewRouter(handlers.RouterConfig{
		Processors:    registry,
		Logger:        logger,
		Timeouts:      timeouts,
		Idempotency:   idempotency,
		RateLimiter:   rateLimiter,
		TrustProxy:    cfg.Server.TrustProxy,
		IsDevelopment: !cfg.IsProduction(),
		CronSecret:    cfg.Server.CronSecret,
		AdminSecret:   cfg.Server.AdminSecret,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      timeouts.CronJob + 5*time.Second,
	}

	healthChecker := observability.NewHealthChecker(dbPool, redisClient)
	metricsServer := observability.StartMetricsServer(strconv.Itoa(cfg.Server.MetricsPort), healthChecker, logger)
	shutdownMgr.Register("metrics-server", func(context.Context) error {
		return observability.ShutdownMetricsServer(metricsServer)
	})
	shutdownMgr.Register("http-server", httpServer.Shutdown)

	go func() {
		logger.Info("HTTP server listening", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownMgr.Shutdown()
}

// buildRegistry wires one payment and subscription service per configured processor
func buildRegistry(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, logger *zap.Logger) (*processor.Registry, error) {
	var secretCache *config.SecretCache
	if needsSecretManager(cfg.Processors) {
		secretMgr, err := initSecretManager(ctx, cfg.Secrets, logger)
		if err != nil {
			return nil, err
		}
		secretCache = config.NewSecretCache(secretMgr, logger, cfg.Secrets.CacheTTL)
	}

	tokens := postgres.NewCustomerTokenRepository(postgres.NewDBExecutor(dbPool), cfg.Database.QueryTimeout)
	serviceLogger := security.NewZapLogger(logger)
	registry := processor.NewRegistry()

	for _, pc := range cfg.Processors {
		settings, err := config.NewProcessorSettings(pc, cfg.Server.FallbackIP, secretCache)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", pc.Key, err)
		}
		profile, err := settings.Processor()
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", pc.Key, err)
		}

		clientCfg := iats.DefaultClientConfig()
		clientCfg.Timeout = cfg.Gateway.Timeout
		clientCfg.MaxRetries = cfg.Gateway.MaxRetries
		clientCfg.BaseURL = cfg.Gateway.BaseURL
		gateway := iats.NewClient(clientCfg, logger.With(zap.String("processor", pc.Key)))

		payments := paymentService.NewService(profile, gateway, tokens, settings, serviceLogger)
		subscriptions := subscriptionService.NewService(
			profile,
			tokens,
			subscriptionService.NewGatewayBillingInfoUpdater(gateway),
			settings,
			serviceLogger,
		)

		if problems := payments.CheckConfig(ctx); len(problems) > 0 {
			logger.Warn("Processor configuration incomplete",
				zap.String("processor", pc.Key),
				zap.Strings("problems", problems),
			)
		}

		if err := registry.Register(pc.Key, &processor.Entry{
			Processor:     profile,
			Payments:      payments,
			Subscriptions: subscriptions,
		}); err != nil {
			return nil, err
		}

		logger.Info("Processor registered",
			zap.String("processor", pc.Key),
			zap.String("domain", profile.Domain),
			zap.String("mode", string(profile.Mode)),
		)
	}

	return registry, nil
}

func needsSecretManager(processors []config.ProcessorConfig) bool {
	for _, p := range processors {
		if p.Password == "" && p.PasswordSecretPath != "" {
			return true
		}
	}
	return false
}

func runMigrations(pool *pgxpool.Pool, logger *zap.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil {
		return err
	}
	logger.Info("Database migrations applied")
	return nil
}
