package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dividendlab/highyield/internal/api"
	"github.com/dividendlab/highyield/internal/api/handlers"
	"github.com/dividendlab/highyield/internal/dataset"
	"github.com/dividendlab/highyield/internal/scheduler"
	"github.com/dividendlab/highyield/internal/scheduler/jobs"
	"github.com/dividendlab/highyield/pkg/config"
	"github.com/dividendlab/highyield/pkg/logger"
)

// serveCmd runs the dashboard API server with the scheduled fetch job.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	Long: `Starts the HTTP API server and the weekday fetch scheduler.

The server exposes the artifact files under /data/, the screening and
chart endpoints under /api/, and a manual refresh trigger at
POST /api/refresh.

Example:
  go run ./cmd/highyield serve
  PORT=9000 go run ./cmd/highyield serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)
	log.WithFields(map[string]interface{}{
		"env":      cfg.Env,
		"data_dir": cfg.DataDir,
	}).Info("Starting highyield server")

	orchestrator, err := buildOrchestrator(cfg, log)
	if err != nil {
		return err
	}

	sched := scheduler.New(log)
	if cfg.Fetch.AutoUpdateEnabled {
		job := jobs.NewFetchJob(orchestrator, cfg.Fetch.UpdateHourUTC, log)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("register fetch job: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	} else {
		log.Warn("Auto-update disabled, fetch job not scheduled")
	}

	handler := handlers.NewDashboardHandler(dataset.NewStore(cfg.DataDir), orchestrator, sched, log)
	router := api.NewRouter(handler, cfg.DataDir, log)
	server := api.New(cfg, log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
