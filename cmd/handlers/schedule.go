package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"daybrief/internal/config"
	"daybrief/internal/logger"
	"daybrief/internal/pipeline"
	"daybrief/internal/scheduler"
)

// NewScheduleCmd creates the schedule command: an unattended daily digest
// loop driven by a cron expression.
func NewScheduleCmd() *cobra.Command {
	var (
		cronSpec     string
		inputPattern string
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the digest pipeline on a cron schedule",
		Long: `Run the digest pipeline unattended on a cron schedule.

On each tick the input path is derived from the configured pattern with
today's date (e.g. browsing-digest-2025-01-19.json). A run that fails,
for example because the export has not landed yet, is logged and the
schedule keeps going.

Example:
  daybrief schedule --cron "0 22 * * *" --input "exports/browsing-digest-%s.json"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()

			spec := cfg.Schedule.Cron
			if cronSpec != "" {
				spec = cronSpec
			}
			pattern := cfg.Schedule.InputPattern
			if inputPattern != "" {
				pattern = inputPattern
			}

			gateway, err := newGateway(cmd.Context(), cfg, "", "")
			if err != nil {
				return err
			}

			job := func() {
				inputPath := fmt.Sprintf(pattern, time.Now().Format("2006-01-02"))
				logger.Info("Scheduled digest run starting", "input", inputPath)

				result, err := pipeline.Run(cmd.Context(), gateway, pipeline.Options{
					InputPath: inputPath,
					OutputDir: cfg.Output.Directory,
				})
				if err != nil {
					logger.Error("Scheduled digest run failed", err, "input", inputPath)
					return
				}
				logger.Info("Scheduled digest run complete", "path", result.OutputPath)
			}

			sched, err := scheduler.New(spec, job)
			if err != nil {
				return err
			}

			err = sched.Run(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", "", "Cron expression override (default from config, nightly at 22:00)")
	cmd.Flags().StringVar(&inputPattern, "input", "", "Input path pattern with a %s slot for the date")

	return cmd
}
