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

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run once without recording anything",
	Long:  "Dry run: fetches all sources, prints what would be emitted, but never writes to the seen store. Every posting appears new on each check.",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: nothing will be recorded as seen")

	httpClient := adapter.NewClient(cfg.Run.SourceTimeout, cfg.Run.UserAgent)
	n := setupNotifier(cfg, httpClient, logger)
	orch := buildOrchestrator(cfg, store.NewNopStore(), httpClient, logger)

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
		}
	}

	logger.Info("check complete", "would_emit", len(res.Postings))
	return nil
}
