package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"jobradar/internal/model"
	"jobradar/internal/preview"
	"jobradar/internal/store"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Browse merged postings in the terminal",
	Long:  "Run one fetch-and-merge pass and browse the postings interactively. No summary, no email, nothing recorded.",
	RunE:  runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	// The TUI owns the terminal; route logs away from it.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		setupLogger(debug).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	orch := buildOrchestrator(cfg, store.NewNopRunLog(), logger)

	return preview.Run(cfg.Query, func(ctx context.Context) ([]model.JobPosting, error) {
		return orch.Collect(ctx), nil
	})
}
