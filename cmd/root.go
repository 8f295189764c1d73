package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/jira-report/internal/config"
)

var (
	cfgFile   string
	logLevel  string
	appConfig config.Config
	logger    zerolog.Logger
	version   = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:     "jira-report",
	Short:   "Generate Confluence status reports from JIRA filters",
	Long:    `A CLI tool that turns the issues matched by a JIRA filter into an LLM-summarized Confluence report page, with optional email-safe output.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(logLevel)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.jira-report.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logging level (debug, info, warn, error)")
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(parsed).With().Timestamp().Logger()
}

// loadConfig loads and validates configuration. Commands that need JIRA
// access call this.
func loadConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w\nRun 'jira-report config' to set up credentials", err)
	}
	appConfig = cfg
	return nil
}
