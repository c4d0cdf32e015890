package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ternarybob/cryptodigest/internal/app"
	"github.com/ternarybob/cryptodigest/internal/common"
	"github.com/ternarybob/cryptodigest/internal/services/scheduler"
)

const digestJobName = "daily-digest"

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Send the digest on a cron schedule until interrupted",
	Long:  `Runs in the foreground and sends the digest whenever the configured cron expression fires. A failed run is logged; the schedule continues.`,
	RunE:  runSchedule,
}

var (
	scheduleCron   string
	scheduleRunNow bool
)

func init() {
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "", "5-field cron expression (overrides schedule.cron / DIGEST_SCHEDULE)")
	scheduleCmd.Flags().BoolVar(&scheduleRunNow, "now", false, "Also run once immediately")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	expr := config.Schedule.Cron
	if scheduleCron != "" {
		if err := common.ValidateSchedule(scheduleCron); err != nil {
			return err
		}
		expr = scheduleCron
	}
	if expr == "" {
		return fmt.Errorf("no schedule configured (set DIGEST_SCHEDULE, schedule.cron or --cron)")
	}

	application, err := app.New(ctx, config, logger)
	if err != nil {
		return err
	}

	sched := scheduler.NewService(logger)
	err = sched.RegisterJob(digestJobName, expr, func() error {
		_, err := application.Digest.Run(ctx)
		return err
	})
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}

	if scheduleRunNow {
		// Failure is recorded on the job status and logged by the scheduler
		_ = sched.TriggerJob(digestJobName)
	}

	if status, err := sched.GetJobStatus(digestJobName); err == nil && status.NextRun != nil {
		logger.Info().
			Str("schedule", status.Schedule).
			Str("next_run", status.NextRun.Format("2006-01-02 15:04:05 MST")).
			Msg("Scheduler ready - Press Ctrl+C to stop")
	}

	<-ctx.Done()
	logger.Info().Msg("Interrupt signal received")

	return sched.Stop()
}
