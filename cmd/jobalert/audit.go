package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harshusoma/job-alert-agent/internal/adapter"
	"github.com/harshusoma/job-alert-agent/internal/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect filter decisions interactively (TUI)",
	Long:  "Shows a source picker, fetches that board's raw postings, and displays each posting's per-predicate filter outcome.",
	RunE:  runAuditCmd,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

func runAuditCmd(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	httpClient := adapter.NewClient(cfg.Run.SourceTimeout, cfg.Run.UserAgent)

	for {
		choice, err := audit.RunSourcePicker(cfg.Sources)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return nil
		}
		if choice < 0 {
			return nil
		}
		src := cfg.Sources[choice]

		fetcher, err := adapter.New(src, httpClient)
		if err != nil {
			fmt.Printf("Unsupported ATS: %s\n", src.Kind)
			continue
		}

		postings, err := audit.RunLoader(src.Name, fetcher.FetchPostings)
		if err != nil {
			fmt.Printf("Error fetching postings: %v\n", err)
			continue
		}

		if err := audit.RunViewer(src, postings, cfg.Policy); err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		// Back to the picker for another source.
	}
}
