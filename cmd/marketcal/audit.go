package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/aristath/marketcal/internal/modules/market_calendar"
)

func newAuditCmd(flags *globalFlags) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Compare the holiday table with rule-derived US holidays",
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

			findings := market_calendar.AuditHolidays(tables)

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Date", "Name", "Status", "Rule"})
			missing := 0
			for _, f := range findings {
				if f.Status == market_calendar.AuditMissing {
					missing++
				}
				table.Append([]string{f.Date.Format("2006-01-02"), f.Name, string(f.Status), f.Rule})
			}
			table.Render()

			if strict && missing > 0 {
				return fmt.Errorf("%d rule-derived holidays are missing from the table", missing)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when a rule-derived holiday is missing from the table")

	return cmd
}
