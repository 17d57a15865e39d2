package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aristath/marketcal/internal/modules/market_calendar"
	"github.com/aristath/marketcal/internal/report"
)

func newSessionsCmd(flags *globalFlags) *cobra.Command {
	var (
		out string
		all bool
	)

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Export trading sessions as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(flags)
			if err != nil {
				return err
			}

			tables, err := cfg.LoadTables()
			if err != nil {
				log.Error().Err(err).Msg("Failed to load tables")
				return err
			}
			if err := tables.Validate(); err != nil {
				return err
			}

			if out == "" || out == "-" {
				return report.WriteSessionsCSV(cmd.OutOrStdout(), tables, all)
			}
			return writeSessionsFile(out, tables, all)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "CSV output path (defaults to stdout)")
	cmd.Flags().BoolVar(&all, "all", false, "Include weekends and holidays")

	return cmd
}

func writeSessionsFile(path string, tables *market_calendar.Tables, all bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &market_calendar.WriteError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &market_calendar.WriteError{Path: path, Err: cerr}
		}
	}()

	return report.WriteSessionsCSV(f, tables, all)
}
