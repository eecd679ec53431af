package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harshusoma/job-alert-agent/internal/adapter"
	"github.com/harshusoma/job-alert-agent/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one aggregation cycle and exit",
	Long:  "Fetches all configured sources once, notifies on new postings, records them as seen, then exits. Suitable for cron.",
	RunE:  runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"sources", len(cfg.Sources),
		"concurrency", cfg.Run.Concurrency,
		"source_timeout", cfg.Run.SourceTimeout.String(),
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

	res, err := orch.Run(ctx)
	if err != nil {
		logger.Error("aggregation run failed", "error", err)
		os.Exit(1)
	}

	if len(res.Postings) > 0 {
		if err := n.Notify(res.Postings); err != nil {
			logger.Error("notification failed", "error", err)
			os.Exit(1)
		}
	}

	if cfg.Store.CleanupAfter > 0 {
		if err := seenStore.Cleanup(cfg.Store.CleanupAfter); err != nil {
			logger.Warn("seen store cleanup failed", "error", err)
		}
	}

	logger.Info("run finished", "new_postings", len(res.Postings))
	return nil
}
