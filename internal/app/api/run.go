package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	userhandler "github.com/Apurer/go-gin-user-directory/internal/domains/users/adapters/http/handler"
	platformobservability "github.com/Apurer/go-gin-user-directory/internal/platform/observability"
)

const serviceName = "users-api"

// Run boots the users HTTP API and serves until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(serviceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, storage, cleanupRepo := BuildRepository(ctx, cfg, logger)
	defer cleanupRepo()
	userService := BuildService(repo, instruments)
	userWorkflows, closeWorkflows := BuildWorkflows(cfg, storage, userService, instruments)
	defer closeWorkflows()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	userAPI := userhandler.NewUserAPI(userService, userWorkflows, userhandler.WithLogger(logger))
	router := NewRouter(cfg, serviceName, logger, userAPI)

	return Serve(ctx, cfg, logger, router)
}

// Serve runs handler on cfg.Addr until ctx is done, then shuts down within cfg.ShutdownTimeout.
func Serve(ctx context.Context, cfg Config, logger *slog.Logger, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("users API listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("users API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down users API")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
