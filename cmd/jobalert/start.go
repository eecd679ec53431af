package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harshusoma/job-alert-agent/internal/adapter"
	"github.com/harshusoma/job-alert-agent/internal/scheduler"
	"github.com/harshusoma/job-alert-agent/internal/store"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the aggregation daemon",
	Long:  "Runs the pipeline immediately, then on every configured interval; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"interval", cfg.Run.Interval.String(),
		"sources", len(cfg.Sources),
		"concurrency", cfg.Run.Concurrency,
		"freshness_window", cfg.Policy.FreshnessWindow.String(),
	)

	seenStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open seen store", "error", err)
		os.Exit(1)
	}
	defer seenStore.Close()

	httpClient := adapter.NewClient(cfg.Run.SourceTimeout, cfg.Run.UserAgent)
	n := setupNotifier(cfg, httpClient, logger)
	orch := buildOrchestrator(cfg, seenStore, httpClient, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(orch, n, seenStore, cfg.Run.Interval, cfg.Store.CleanupAfter, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
