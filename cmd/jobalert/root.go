package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/harshusoma/job-alert-agent/internal/adapter"
	"github.com/harshusoma/job-alert-agent/internal/config"
	"github.com/harshusoma/job-alert-agent/internal/dedup"
	"github.com/harshusoma/job-alert-agent/internal/model"
	"github.com/harshusoma/job-alert-agent/internal/notifier"
	"github.com/harshusoma/job-alert-agent/internal/orchestrator"
	"github.com/harshusoma/job-alert-agent/internal/ratelimit"
	"github.com/harshusoma/job-alert-agent/internal/retry"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobalert",
	Short: "Aggregate job postings from company career boards",
	Long:  "jobalert polls Greenhouse, Lever, Ashby, and Workday boards, filters for relevant roles, and alerts on postings it has not seen before.",
	// Default to `run` so that `jobalert` with no args does a one-shot
	// aggregation, matching cron-style deployments.
	RunE: runOnce,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBALERT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBALERT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBALERT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// buildSourceFetchers creates one decorated fetcher per configured source:
// adapter, then backend rate limiting, then retry.
func buildSourceFetchers(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []orchestrator.SourceFetcher {
	limiter := ratelimit.NewHostLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	var fetchers []orchestrator.SourceFetcher
	for _, src := range cfg.Sources {
		fetcher, err := adapter.New(src, httpClient)
		if err != nil {
			logger.Warn("skipping source", "source", src.Name, "error", err)
			continue
		}
		fetcher = ratelimit.NewLimitedFetcher(fetcher, limiter, src.Kind)
		fetcher = retry.NewFetcher(fetcher, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)

		fetchers = append(fetchers, orchestrator.SourceFetcher{Source: src, Fetcher: fetcher})
		logger.Info("registered source", "name", src.Name, "ats", src.Kind)
	}
	return fetchers
}

// buildOrchestrator assembles the full pipeline over the given seen store.
func buildOrchestrator(cfg *config.Config, seenStore model.SeenStore, httpClient *http.Client, logger *slog.Logger) *orchestrator.Orchestrator {
	fetchers := buildSourceFetchers(cfg, httpClient, logger)
	engine := dedup.NewEngine(seenStore, logger)
	return orchestrator.New(
		fetchers,
		cfg.Policy,
		engine,
		logger,
		cfg.Run.Concurrency,
		cfg.Run.SourceTimeout,
	)
}
