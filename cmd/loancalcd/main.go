package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/homefinder/loancalc/internal/application/usecase"
	"github.com/homefinder/loancalc/internal/domain/port"
	"github.com/homefinder/loancalc/internal/domain/service"
	"github.com/homefinder/loancalc/internal/infrastructure/cache"
	"github.com/homefinder/loancalc/internal/infrastructure/config"
	"github.com/homefinder/loancalc/internal/infrastructure/export"
	"github.com/homefinder/loancalc/internal/infrastructure/kafka"
	"github.com/homefinder/loancalc/internal/infrastructure/metrics"
	"github.com/homefinder/loancalc/internal/infrastructure/persistence/memory"
	pgrepo "github.com/homefinder/loancalc/internal/infrastructure/persistence/postgres"
	"github.com/homefinder/loancalc/internal/infrastructure/persistence/sqlite"
	"github.com/homefinder/loancalc/internal/infrastructure/storage"
	grpcpresentation "github.com/homefinder/loancalc/internal/presentation/grpc"
	"github.com/homefinder/loancalc/internal/presentation/rest"
	"github.com/homefinder/loancalc/pkg/auth"
	pkgkafka "github.com/homefinder/loancalc/pkg/kafka"
	"github.com/homefinder/loancalc/pkg/observability"
	pkgpostgres "github.com/homefinder/loancalc/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	envErr := config.LoadDotEnv()
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	if envErr != nil {
		logger.Warn("ignoring .env file", "error", envErr)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting loancalc",
		"env", cfg.Environment,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"storage", cfg.Storage.Driver,
	)

	// Tracing is optional; without a collector spans are simply not exported.
	if cfg.Telemetry.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Telemetry.OTLPEndpoint,
			Insecure:    true,
			SampleRatio: cfg.Telemetry.SampleRatio,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort flush
	meter := meterProvider.Meter("github.com/homefinder/loancalc")
	// Spans go nowhere until InitTracer installs a provider.
	tracer := otel.Tracer("github.com/homefinder/loancalc")

	checks := map[string]rest.ReadinessCheck{}

	// --- History store ------------------------------------------------------
	repo, closeRepo, err := openRepository(ctx, cfg, checks, logger)
	if err != nil {
		logger.Error("failed to open history store", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	// --- Optional adapters --------------------------------------------------
	var resultCache port.ResultCache = port.NoopCache{}
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", "error", err)
		} else {
			defer client.Close()
			resultCache = cache.NewResultCache(client, "loancalc:", cfg.Redis.TTL)
			checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
			logger.Info("result cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
		}
	}

	var publisher port.EventPublisher = port.NoopPublisher{}
	if cfg.Kafka.Enabled() {
		producer, err := pkgkafka.NewProducer(pkgkafka.Config{
			ClientID:      cfg.Kafka.ClientID,
			Brokers:       cfg.Kafka.Brokers,
			TLS:           cfg.Kafka.TLS,
			SASLEnabled:   cfg.Kafka.SASLMechanism != "",
			SASLMechanism: cfg.Kafka.SASLMechanism,
			SASLUsername:  cfg.Kafka.SASLUsername,
			SASLPassword:  cfg.Kafka.SASLPassword,
		})
		if err != nil {
			logger.Error("failed to create kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = kafka.NewEventPublisher(producer, cfg.Kafka.Topic, logger)
		logger.Info("event publishing enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	var exportUC *usecase.ExportScheduleUseCase
	if cfg.S3.Enabled() {
		store, err := storage.NewMinioStore(storage.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Prefix:          cfg.S3.Prefix,
			UseSSL:          cfg.S3.UseSSL,
		})
		if err != nil {
			logger.Error("failed to create object store client", "error", err)
			os.Exit(1)
		}
		if err := store.EnsureBucket(ctx, cfg.S3.Region); err != nil {
			logger.Warn("export bucket check failed", "bucket", cfg.S3.Bucket, "error", err)
		}
		exportUC = usecase.NewExportScheduleUseCase(export.NewXLSXRenderer(cfg.ServiceName), store, publisher, cfg.S3.URLTTL, logger)
		logger.Info("schedule export enabled", "bucket", cfg.S3.Bucket)
	}

	calcMetrics, err := metrics.NewCalculationMetrics(meter)
	if err != nil {
		logger.Error("failed to register calculation metrics", "error", err)
		os.Exit(1)
	}

	// --- Use cases ----------------------------------------------------------
	scorer := service.NewEligibilityScorer()
	calculateEMIUC := usecase.NewCalculateEMIUseCase(repo, publisher, resultCache, calcMetrics, logger)
	checkEligibilityUC := usecase.NewCheckEligibilityUseCase(scorer, repo, publisher, calcMetrics, logger)
	getCalculationUC := usecase.NewGetCalculationUseCase(repo)
	listCalculationsUC := usecase.NewListCalculationsUseCase(repo)

	jwtSvc, err := newJWTService(cfg.JWT)
	if err != nil {
		logger.Error("failed to initialize JWT service", "error", err)
		os.Exit(1)
	}

	// --- gRPC server --------------------------------------------------------
	grpcHandler := grpcpresentation.NewCalculatorHandler(calculateEMIUC, checkEligibilityUC, getCalculationUC, listCalculationsUC, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, jwtSvc, grpcpresentation.ServerConfig{
		TLSCertFile: cfg.GRPC.TLSCertFile,
		TLSKeyFile:  cfg.GRPC.TLSKeyFile,
		Reflection:  cfg.GRPC.Reflection,
		Tracer:      tracer,
	}, logger)
	if err != nil {
		logger.Error("failed to create gRPC server", "error", err)
		os.Exit(1)
	}

	// --- HTTP server --------------------------------------------------------
	var limiter *rest.RateLimiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = rest.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	router, err := rest.NewRouter(rest.RouterConfig{
		Handler: rest.NewHandler(rest.UseCases{
			CalculateEMI:     calculateEMIUC,
			CheckEligibility: checkEligibilityUC,
			ExportSchedule:   exportUC,
			ShareSummary:     usecase.NewShareSummaryUseCase(scorer),
			GetCalculation:   getCalculationUC,
			ListCalculations: listCalculationsUC,
		}, logger),
		Health:  rest.NewHealthHandler(cfg.ServiceName, checks, logger),
		JWT:     jwtSvc,
		Limiter: limiter,
		Meter:   meter,
		Tracer:  tracer,
		Metrics: metricsHandler,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to build HTTP router", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("loancalc stopped")
}

// openRepository builds the history store selected by STORAGE_DRIVER and
// registers its readiness check.
func openRepository(ctx context.Context, cfg config.Config, checks map[string]rest.ReadinessCheck, logger *slog.Logger) (port.CalculationRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pgCfg := pkgpostgres.Config{
			Host:     cfg.Storage.DB.Host,
			Port:     cfg.Storage.DB.Port,
			User:     cfg.Storage.DB.User,
			Password: cfg.Storage.DB.Password,
			Database: cfg.Storage.DB.Name,
			SSLMode:  cfg.Storage.DB.SSLMode,
			MaxConns: cfg.Storage.DB.MaxConns,
		}

		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		defer dbCancel()

		pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("connected to database", "host", pgCfg.Host, "database", pgCfg.Database)

		if err := pkgpostgres.RunMigrations(pgCfg.DSN(), pgrepo.Migrations, pgrepo.MigrationsDir); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}

		checks["postgres"] = func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) }
		return pgrepo.NewCalculationRepo(pool), pool.Close, nil

	case config.StorageSQLite:
		store, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using sqlite history store", "path", cfg.Storage.SQLitePath)
		return store, func() { _ = store.Close() }, nil

	default:
		logger.Warn("using in-memory history store; records are lost on restart",
			"capacity", cfg.Storage.MemoryCapacity)
		return memory.NewCalculationRepo(cfg.Storage.MemoryCapacity), func() {}, nil
	}
}

// newJWTService builds a validation-only JWT service: public key preferred,
// shared secret as fallback.
func newJWTService(cfg config.JWTConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{Issuer: cfg.Issuer}
	switch {
	case cfg.PublicKey != "":
		jwtCfg.PublicKeyPEM = cfg.PublicKey
	case cfg.PublicKeyFile != "":
		keyData, err := auth.LoadKeyFromFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, err
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	default:
		jwtCfg.Secret = cfg.Secret
	}
	return auth.NewJWTService(jwtCfg)
}
