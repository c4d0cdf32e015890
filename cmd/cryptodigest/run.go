package main

import (
	"github.com/spf13/cobra"
	"github.com/ternarybob/cryptodigest/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build and send today's digest once",
	Long:  `Fetches prices and headlines, generates the analysis and sends exactly one email. Exits non-zero on failure.`,
	RunE:  runDigest,
}

func runDigest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	application, err := app.New(ctx, config, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize application")
		return err
	}

	report, err := application.Digest.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Str("run_id", report.RunID).Msg("Digest run failed")
		return err
	}

	logger.Info().
		Str("run_id", report.RunID).
		Str("bitcoin", report.BitcoinQuote).
		Int("analysis_length", len(report.Analysis)).
		Msg("Digest run complete")
	return nil
}
