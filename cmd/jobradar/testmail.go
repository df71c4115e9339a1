package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jobradar/internal/mailer"
)

var testMailCmd = &cobra.Command{
	Use:   "test-email",
	Short: "Send a test report email",
	Long:  "Send a dummy report to the configured recipient to verify SMTP settings.",
	RunE:  runTestMail,
}

func init() {
	rootCmd.AddCommand(testMailCmd)
}

func runTestMail(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	n := setupNotifier(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := mailer.SendTestReport(ctx, n); err != nil {
		logger.Error("test email failed", "error", err)
		os.Exit(1)
	}

	logger.Info("test email sent", "recipient", cfg.Email.Recipient)
	return nil
}
