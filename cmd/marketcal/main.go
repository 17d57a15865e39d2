// Package main is the entry point of marketcal, the US stock market calendar generator.
//
// Running the binary without a subcommand writes us_stock_market_calendar_<year>.ics
// to the output directory. Subcommands serve the calendar over HTTP, audit the
// holiday table and print per-month summaries.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/marketcal/internal/config"
	"github.com/aristath/marketcal/internal/ical"
	"github.com/aristath/marketcal/internal/version"
	"github.com/aristath/marketcal/pkg/logger"
)

// globalFlags override the environment configuration
type globalFlags struct {
	tables    string
	style     string
	outputDir string
	noArchive bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "marketcal",
		Short:         "Generate the US stock market trading calendar as iCalendar",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.tables, "tables", "", "YAML tables file (defaults to MARKETCAL_TABLES_FILE or the built-in 2025 tables)")
	rootCmd.PersistentFlags().StringVar(&flags.style, "style", "", "Render style: reference or strict (defaults to MARKETCAL_STYLE)")
	rootCmd.PersistentFlags().StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory the .ics file is written to (defaults to MARKETCAL_OUTPUT_DIR)")
	rootCmd.PersistentFlags().BoolVar(&flags.noArchive, "no-archive", false, "Skip recording the generated file in the artifact archive")

	rootCmd.AddCommand(
		newGenerateCmd(flags),
		newServeCmd(flags),
		newAuditCmd(flags),
		newSummaryCmd(flags),
		newSessionsCmd(flags),
	)

	return rootCmd
}

// loadConfig reads the environment configuration and applies flag overrides
func loadConfig(flags *globalFlags) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Error().Err(err).Msg("Failed to load configuration")
		return nil, fallbackLog, err
	}

	if flags.tables != "" {
		cfg.TablesFile = flags.tables
	}
	if flags.style != "" {
		style, err := ical.ParseStyle(flags.style)
		if err != nil {
			return nil, zerolog.Nop(), err
		}
		cfg.Style = style
	}
	if flags.outputDir != "" {
		cfg.OutputDir = flags.outputDir
	}
	if flags.noArchive {
		cfg.ArchiveEnabled = false
		cfg.DataDir = ""
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	return cfg, log, nil
}
