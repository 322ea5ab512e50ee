package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-user-directory/internal/app/api"
	useractivities "github.com/Apurer/go-gin-user-directory/internal/durable/temporal/activities/users"
	userworkflows "github.com/Apurer/go-gin-user-directory/internal/durable/temporal/workflows/users"
	platformobservability "github.com/Apurer/go-gin-user-directory/internal/platform/observability"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	cfg.TemporalDisabled = false

	ctx := context.Background()
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability("users-worker"))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, storage, cleanupRepo := api.BuildRepository(ctx, cfg, logger)
	defer cleanupRepo()
	if !storage.Shared() {
		logger.Error("worker requires POSTGRES_DSN: users stored in memory would be invisible to the API", slog.String("storage", string(storage)))
		return
	}
	userActivities := useractivities.NewActivities(api.BuildService(repo, instruments))

	temporalClient, err := api.ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		return
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, userworkflows.UserCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(userworkflows.UserCreationWorkflow, workflow.RegisterOptions{Name: userworkflows.UserCreationWorkflowName})
	w.RegisterActivityWithOptions(userActivities.CreateUser, activity.RegisterOptions{Name: useractivities.CreateUserActivityName})

	logger.Info("worker listening", slog.String("taskQueue", userworkflows.UserCreationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
