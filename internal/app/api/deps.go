package api

import (
	"context"
	"errors"
	"log/slog"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	usercache "github.com/Apurer/go-gin-user-directory/internal/domains/users/adapters/cache"
	usermemory "github.com/Apurer/go-gin-user-directory/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/go-gin-user-directory/internal/domains/users/adapters/observability"
	userpostgres "github.com/Apurer/go-gin-user-directory/internal/domains/users/adapters/persistence/postgres"
	userworkflows "github.com/Apurer/go-gin-user-directory/internal/domains/users/adapters/workflows"
	userapp "github.com/Apurer/go-gin-user-directory/internal/domains/users/application"
	userports "github.com/Apurer/go-gin-user-directory/internal/domains/users/ports"
	"github.com/Apurer/go-gin-user-directory/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-user-directory/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-user-directory/internal/platform/postgres"
	platformredis "github.com/Apurer/go-gin-user-directory/internal/platform/redis"
)

// Storage names the backing store picked by BuildRepository.
type Storage string

const (
	StorageMemory   Storage = "memory"
	StoragePostgres Storage = "postgres"
)

// Shared reports whether other processes (the worker) see the same rows.
func (s Storage) Shared() bool { return s == StoragePostgres }

// BuildRepository picks postgres when configured and reachable, memory otherwise,
// and puts the redis list cache in front when REDIS_URL is reachable.
func BuildRepository(ctx context.Context, cfg Config, logger *slog.Logger) (userports.Repository, Storage, func()) {
	var repo userports.Repository
	storage := StorageMemory
	cleanups := []func(){}

	db, closeDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	cleanups = append(cleanups, closeDB)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Warn("failed to apply user schema, falling back to in-memory repository", slog.String("error", err.Error()))
		} else {
			repo = userpostgres.NewRepository(db)
			storage = StoragePostgres
			logger.Info("user repository configured with postgres")
		}
	}
	if repo == nil {
		repo = usermemory.NewRepository()
	}

	if rdb, closeRedis := platformredis.ConnectOrDisable(ctx, cfg.RedisURL, logger); rdb != nil {
		cleanups = append(cleanups, closeRedis)
		repo = usercache.New(repo, rdb, usercache.WithTTL(cfg.ListCacheTTL), usercache.WithLogger(logger))
	}

	return repo, storage, func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
}

// BuildService wraps the core user service with tracing, logging and metrics.
func BuildService(repo userports.Repository, instruments *platformobservability.Instruments) userports.Service {
	return userobs.New(
		userapp.NewService(repo),
		userobs.WithLogger(instruments.Logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)
}

// BuildWorkflows returns the Temporal orchestrator when the cluster is reachable and
// the worker shares this process's storage. Otherwise creates run inline against service.
func BuildWorkflows(cfg Config, storage Storage, service userports.Service, instruments *platformobservability.Instruments) (userports.WorkflowOrchestrator, func()) {
	logger := effectiveLogger(instruments)
	inline := userworkflows.NewInlineUserWorkflows(service)
	if cfg.TemporalDisabled {
		logger.Info("Temporal workflows disabled, running inline CreateUser")
		return inline, func() {}
	}
	if !storage.Shared() {
		logger.Warn("Temporal workflows need shared storage, running inline CreateUser", slog.String("storage", string(storage)))
		return inline, func() {}
	}
	temporalClient, err := ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running inline CreateUser", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return userworkflows.NewTemporalUserWorkflows(temporalClient), temporalClient.Close
}

// ConnectTemporalClient dials Temporal with tracing and structured logging.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.Default()
}
