package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/marketcal/internal/di"
)

const successMessage = "Calendar has been generated successfully!"

func newGenerateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Write us_stock_market_calendar_<year>.ics (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, flags)
		},
	}
}

func runGenerate(cmd *cobra.Command, flags *globalFlags) error {
	cfg, log, err := loadConfig(flags)
	if err != nil {
		return err
	}

	container, err := di.Wire(cmd.Context(), cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to wire dependencies")
		return err
	}
	defer container.Close()

	result, err := container.GenerationService.GenerateToFile(cmd.Context())
	if err != nil {
		log.Error().Err(err).Msg("Calendar generation failed")
		return err
	}

	log.Debug().Str("path", result.Path).Msg("Calendar file ready")
	fmt.Fprintln(cmd.OutOrStdout(), successMessage)

	return nil
}
