package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jobradar/internal/config"
	"jobradar/internal/mailer"
	"jobradar/internal/merge"
	"jobradar/internal/model"
	"jobradar/internal/pipeline"
	"jobradar/internal/recency"
	"jobradar/internal/report"
	"jobradar/internal/retry"
	"jobradar/internal/source"
	"jobradar/internal/store"
	"jobradar/internal/summary"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobradar",
	Short: "Job aggregation and email report agent",
	Long:  "JobRadar pulls job postings from multiple search APIs, merges them, and mails an AI-summarized report.",
	// Default to `serve` so that `jobradar` with no args runs the HTTP trigger.
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBRADAR_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBRADAR_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBRADAR_CONFIG"); env != "" {
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

// buildSources creates the two fetchers in fixed order: SerpAPI first, then
// JSearch. Merge order follows this slice, so SerpAPI wins duplicate keys.
func buildSources(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []model.PostingFetcher {
	serp := source.NewSerpAPIAdapter(
		cfg.SerpAPI.APIKey,
		cfg.Query,
		cfg.City,
		cfg.SerpAPI.MaxPages,
		cfg.SerpAPI.MaxPostings,
		cfg.SerpAPI.PageDelay,
		httpClient,
	)
	jsearch := source.NewJSearchAdapter(
		cfg.JSearch.APIKey,
		cfg.Query,
		cfg.City,
		cfg.JSearch.Pages,
		cfg.JSearch.MaxPostings,
		httpClient,
	)

	return []model.PostingFetcher{
		retry.NewRetryFetcher(serp, 2, 5*time.Second, logger),
		retry.NewRetryFetcher(jsearch, 2, 5*time.Second, logger),
	}
}

func setupSummarizer(cfg *config.Config, logger *slog.Logger) model.Summarizer {
	if cfg.Gemini.APIKey == "" {
		logger.Info("gemini key not set, summaries disabled")
		return summary.NewNop()
	}
	return summary.NewGemini(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
}

func setupNotifier(cfg *config.Config, logger *slog.Logger) model.Notifier {
	if cfg.Email.Recipient == "" {
		logger.Info("no recipient configured, reports will be logged only")
		return mailer.NewLogMailer(logger)
	}
	return mailer.NewSMTPMailer(
		cfg.Email.Host,
		cfg.Email.Port,
		cfg.Email.Username,
		cfg.Email.Password,
		cfg.Email.FromName,
		cfg.Email.Recipient,
		logger,
	)
}

// setupRunLog opens the SQLite run log when a path is configured. The caller
// owns the returned closer; a nil closer means the nop log is in use.
func setupRunLog(cfg *config.Config, logger *slog.Logger) (model.RunRecorder, func() error) {
	if cfg.RunLog == "" {
		return store.NewNopRunLog(), nil
	}
	runLog, err := store.NewRunLog(cfg.RunLog)
	if err != nil {
		logger.Warn("run log unavailable, continuing without it", "path", cfg.RunLog, "error", err)
		return store.NewNopRunLog(), nil
	}
	return runLog, runLog.Close
}

func buildOrchestrator(cfg *config.Config, recorder model.RunRecorder, logger *slog.Logger) *pipeline.Orchestrator {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	var geoLocations []string
	if cfg.Geo.Enabled {
		geoLocations = cfg.Geo.Locations
	}

	return pipeline.New(
		buildSources(cfg, httpClient, logger),
		recency.New(cfg.Recency.WindowDays, cfg.Recency.IncludeUnknown),
		merge.New(geoLocations),
		report.NewComposer(cfg.Query, cfg.City),
		setupSummarizer(cfg, logger),
		setupNotifier(cfg, logger),
		recorder,
		logger,
	)
}
