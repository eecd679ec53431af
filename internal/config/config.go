// Package config loads and validates the agent's YAML configuration:
// sources, filter policy overrides, run shape, seen store, notification, and
// politeness settings.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harshusoma/job-alert-agent/internal/filter"
	"github.com/harshusoma/job-alert-agent/internal/model"
)

// Config is the root configuration for the job alert agent.
type Config struct {
	Sources      []model.Source
	Policy       filter.Policy
	Run          RunConfig
	Store        StoreConfig
	Notification NotificationConfig
	RateLimit    RateLimitConfig
	Retry        RetryConfig
}

// RunConfig shapes one aggregation run and the daemon cadence.
type RunConfig struct {
	Interval      time.Duration // daemon mode: gap between runs
	Concurrency   int           // sources fetched in parallel
	SourceTimeout time.Duration // per-source fetch deadline
	UserAgent     string        // sent on every outbound request
}

// StoreConfig locates the durable seen store.
type StoreConfig struct {
	Path         string        // sqlite file path
	CleanupAfter time.Duration // purge identities older than this; zero disables
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// RateLimitConfig controls per-ATS-backend request pacing.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// RetryConfig controls the transient-failure retry decorator.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// rawConfig mirrors the YAML layout (snake_case, durations as strings).
type rawConfig struct {
	Sources      []rawSource        `yaml:"sources"`
	Filters      rawFilterConfig    `yaml:"filters"`
	Run          rawRunConfig       `yaml:"run"`
	Store        rawStoreConfig     `yaml:"store"`
	Notification NotificationConfig `yaml:"notification"`
	RateLimit    rawRateLimit       `yaml:"rate_limit"`
	Retry        rawRetry           `yaml:"retry"`
}

type rawSource struct {
	Name    string `yaml:"name"`
	ATS     string `yaml:"ats"`
	Board   string `yaml:"board"` // board URL or bare slug
	Enabled *bool  `yaml:"enabled"`
}

type rawFilterConfig struct {
	TargetRoles        []string `yaml:"target_roles"`
	ExperienceKeywords []string `yaml:"experience_keywords"`
	AssociateTitles    []string `yaml:"associate_titles"`
	ExcludeKeywords    []string `yaml:"exclude_keywords"`
	LocationIncludes   []string `yaml:"location_includes"`
	LocationExcludes   []string `yaml:"location_excludes"`
	FreshnessWindow    string   `yaml:"freshness_window"`
	MissingTimestamp   string   `yaml:"missing_timestamp"` // "fresh" or "reject"
}

type rawRunConfig struct {
	Interval      string `yaml:"interval"`
	Concurrency   int    `yaml:"concurrency"`
	SourceTimeout string `yaml:"source_timeout"`
	UserAgent     string `yaml:"user_agent"`
}

type rawStoreConfig struct {
	Path         string `yaml:"path"`
	CleanupAfter string `yaml:"cleanup_after"`
}

type rawRetry struct {
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

type rawRateLimit struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Defaults applied when the YAML omits a section.
const (
	defaultInterval      = 30 * time.Minute
	defaultConcurrency   = 4
	defaultSourceTimeout = 45 * time.Second
	defaultUserAgent     = "job-alert-agent/1.0"
	defaultStorePath     = "seen_postings.db"
	defaultMaxRetries    = 2
	defaultBaseDelay     = 2 * time.Second
	defaultReqPerSec     = 1.0
	defaultBurst         = 3
)

// Load reads and parses the YAML config file at path, validates it, and
// returns Config. Environment variable references ($VAR / ${VAR}) in the file
// are expanded before parsing, so secrets like webhook URLs can stay out of
// the file itself.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	sources, err := parseSources(raw.Sources)
	if err != nil {
		return nil, err
	}

	policy, err := parsePolicy(raw.Filters)
	if err != nil {
		return nil, err
	}

	run, err := parseRun(raw.Run)
	if err != nil {
		return nil, err
	}

	storeCfg, err := parseStore(raw.Store)
	if err != nil {
		return nil, err
	}

	retryCfg, err := parseRetry(raw.Retry)
	if err != nil {
		return nil, err
	}

	rateCfg := RateLimitConfig{
		RequestsPerSecond: raw.RateLimit.RequestsPerSecond,
		Burst:             raw.RateLimit.Burst,
	}
	if rateCfg.RequestsPerSecond <= 0 {
		rateCfg.RequestsPerSecond = defaultReqPerSec
	}
	if rateCfg.Burst <= 0 {
		rateCfg.Burst = defaultBurst
	}

	cfg := &Config{
		Sources:      sources,
		Policy:       policy,
		Run:          run,
		Store:        storeCfg,
		Notification: raw.Notification,
		RateLimit:    rateCfg,
		Retry:        retryCfg,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseSources(raws []rawSource) ([]model.Source, error) {
	var sources []model.Source
	for i, r := range raws {
		if r.Enabled != nil && !*r.Enabled {
			continue
		}
		if r.Name == "" {
			return nil, fmt.Errorf("sources[%d]: name is required", i)
		}
		if r.Board == "" {
			return nil, fmt.Errorf("sources[%d] (%s): board is required", i, r.Name)
		}
		kind := model.ATSKind(strings.ToLower(r.ATS))
		switch kind {
		case model.ATSGreenhouse, model.ATSLever, model.ATSWorkday, model.ATSAshby:
		default:
			return nil, fmt.Errorf("sources[%d] (%s): unsupported ats %q", i, r.Name, r.ATS)
		}
		sources = append(sources, model.Source{Name: r.Name, Kind: kind, BoardRef: r.Board})
	}
	return sources, nil
}

// parsePolicy starts from the stock policy and applies only the sets the file
// overrides, so a minimal config still filters sensibly.
func parsePolicy(raw rawFilterConfig) (filter.Policy, error) {
	p := filter.DefaultPolicy()

	if raw.TargetRoles != nil {
		p.TargetRoles = lowerAll(raw.TargetRoles)
	}
	if raw.ExperienceKeywords != nil {
		p.ExperienceKeywords = lowerAll(raw.ExperienceKeywords)
	}
	if raw.AssociateTitles != nil {
		p.AssociateTitles = lowerAll(raw.AssociateTitles)
	}
	if raw.ExcludeKeywords != nil {
		p.ExcludeKeywords = lowerAll(raw.ExcludeKeywords)
	}
	if raw.LocationIncludes != nil {
		p.LocationIncludes = lowerAll(raw.LocationIncludes)
	}
	if raw.LocationExcludes != nil {
		p.LocationExcludes = lowerAll(raw.LocationExcludes)
	}

	if raw.FreshnessWindow != "" {
		d, err := time.ParseDuration(raw.FreshnessWindow)
		if err != nil {
			return filter.Policy{}, fmt.Errorf("parse filters.freshness_window %q: %w", raw.FreshnessWindow, err)
		}
		p.FreshnessWindow = d
	}

	switch raw.MissingTimestamp {
	case "":
	case string(filter.MissingTreatAsFresh):
		p.MissingTimestamp = filter.MissingTreatAsFresh
	case string(filter.MissingReject):
		p.MissingTimestamp = filter.MissingReject
	default:
		return filter.Policy{}, fmt.Errorf("filters.missing_timestamp must be %q or %q, got %q",
			filter.MissingTreatAsFresh, filter.MissingReject, raw.MissingTimestamp)
	}

	return p, nil
}

func parseRun(raw rawRunConfig) (RunConfig, error) {
	run := RunConfig{
		Interval:      defaultInterval,
		Concurrency:   defaultConcurrency,
		SourceTimeout: defaultSourceTimeout,
		UserAgent:     defaultUserAgent,
	}
	var err error
	if raw.Interval != "" {
		run.Interval, err = time.ParseDuration(raw.Interval)
		if err != nil {
			return RunConfig{}, fmt.Errorf("parse run.interval %q: %w", raw.Interval, err)
		}
	}
	if raw.SourceTimeout != "" {
		run.SourceTimeout, err = time.ParseDuration(raw.SourceTimeout)
		if err != nil {
			return RunConfig{}, fmt.Errorf("parse run.source_timeout %q: %w", raw.SourceTimeout, err)
		}
	}
	if raw.Concurrency > 0 {
		run.Concurrency = raw.Concurrency
	}
	if raw.UserAgent != "" {
		run.UserAgent = raw.UserAgent
	}
	return run, nil
}

func parseStore(raw rawStoreConfig) (StoreConfig, error) {
	sc := StoreConfig{Path: defaultStorePath}
	if raw.Path != "" {
		sc.Path = raw.Path
	}
	if raw.CleanupAfter != "" {
		d, err := time.ParseDuration(raw.CleanupAfter)
		if err != nil {
			return StoreConfig{}, fmt.Errorf("parse store.cleanup_after %q: %w", raw.CleanupAfter, err)
		}
		sc.CleanupAfter = d
	}
	return sc, nil
}

func parseRetry(raw rawRetry) (RetryConfig, error) {
	rc := RetryConfig{MaxRetries: defaultMaxRetries, BaseDelay: defaultBaseDelay}
	if raw.MaxRetries != nil {
		if *raw.MaxRetries < 0 {
			return RetryConfig{}, fmt.Errorf("retry.max_retries must not be negative, got %d", *raw.MaxRetries)
		}
		rc.MaxRetries = *raw.MaxRetries
	}
	if raw.BaseDelay != "" {
		d, err := time.ParseDuration(raw.BaseDelay)
		if err != nil {
			return RetryConfig{}, fmt.Errorf("parse retry.base_delay %q: %w", raw.BaseDelay, err)
		}
		rc.BaseDelay = d
	}
	return rc, nil
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

func validate(cfg *Config) error {
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("at least one source must be enabled")
	}
	if cfg.Run.Interval <= 0 {
		return fmt.Errorf("run.interval must be positive, got %v", cfg.Run.Interval)
	}
	if cfg.Run.SourceTimeout <= 0 {
		return fmt.Errorf("run.source_timeout must be positive, got %v", cfg.Run.SourceTimeout)
	}
	if cfg.Policy.FreshnessWindow <= 0 {
		return fmt.Errorf("filters.freshness_window must be positive, got %v", cfg.Policy.FreshnessWindow)
	}

	switch cfg.Notification.Type {
	case "", "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}
