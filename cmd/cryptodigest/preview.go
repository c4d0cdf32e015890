package main

import (
	"github.com/spf13/cobra"
	"github.com/ternarybob/cryptodigest/internal/app"
	"github.com/ternarybob/cryptodigest/internal/services/mailer"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Run the full pipeline but print the email instead of sending it",
	RunE:  runPreview,
}

var previewShowPrompt bool

func init() {
	previewCmd.Flags().BoolVar(&previewShowPrompt, "prompt", false, "Also print the prompt sent to the model")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	application, err := app.New(ctx, config, logger,
		app.WithMailer(mailer.NewWriterMailer(config.Email.Address, out)))
	if err != nil {
		return err
	}

	report, err := application.Digest.Run(ctx)
	if err != nil {
		return err
	}

	if previewShowPrompt {
		cmd.Printf("\n----- prompt (run %s) -----%s", report.RunID, report.Prompt)
	}
	return nil
}
