package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/medsafe/interactions-api/catalog"
	"github.com/medsafe/interactions-api/config"
	"github.com/medsafe/interactions-api/data"
	"github.com/medsafe/interactions-api/health"
	"github.com/medsafe/interactions-api/logging"
	"github.com/medsafe/interactions-api/scheduler"
	"github.com/medsafe/interactions-api/server"
	"github.com/medsafe/interactions-api/validation"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		logging.Debug("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogDir)

	container := data.NewContainer()
	container.SetServerStartTime(time.Now())

	validator := validation.NewValidator()
	loader := catalog.NewFileLoader(cfg.DatasetDir)

	sched := scheduler.NewScheduler(container, loader, validator)
	if err := sched.Start(); err != nil {
		// No valid catalog, no service.
		logging.Error("Failed to start catalog scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	checker := health.NewChecker(container)
	srv := server.NewServer(cfg, container, validator, checker)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown failed", "error", err)
		os.Exit(1)
	}
}
