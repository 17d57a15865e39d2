package main

import (
	"github.com/spf13/cobra"

	"github.com/aristath/marketcal/internal/report"
)

func newSummaryCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print per-month trading day counts",
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

			report.Summarize(tables).Render(cmd.OutOrStdout())
			return nil
		},
	}
}
