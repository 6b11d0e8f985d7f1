package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"moderator/internal/bootstrap"
	"moderator/internal/bootstrap/logging"
	domainmoderation "moderator/internal/domain/moderation"
	"moderator/internal/errs"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Run or queue named moderation jobs",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the job names the runner accepts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, name := range domainmoderation.JobNames() {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
				return errs.Wrap(err, "write job list")
			}
		}
		return nil
	},
}

var jobsEnqueueCmd = &cobra.Command{
	Use:     "enqueue <job-name>",
	Short:   "Run a job inline, or publish it with --queue",
	Example: `  moderator jobs enqueue addTag --payload '{"commentId":12,"tagId":3,"userId":1}'`,
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
		name, err := domainmoderation.ParseJobName(args[0])
		if err != nil {
			return err
		}
		ctx := logging.WithAttrs(cmd.Context(), slog.String("job", string(name)))

		payload, _ := cmd.Flags().GetString("payload")
		if !json.Valid([]byte(payload)) {
			return fmt.Errorf("--payload is not valid JSON")
		}
		deferred, _ := cmd.Flags().GetBool("queue")
		if deferred {
			if err := requireDurableQueue(app); err != nil {
				return err
			}
		}

		job, err := app.Jobs.Enqueue(ctx, name, json.RawMessage(payload), !deferred)
		if err != nil {
			logging.Error(ctx, "job failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrapf(err, "enqueue %s", name)
		}

		verb := "ran"
		if deferred {
			verb = "queued"
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s job=%s\n", verb, job.Name, job.ID); err != nil {
			return errs.Wrap(err, "write enqueue output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsListCmd, jobsEnqueueCmd)

	jobsEnqueueCmd.Flags().String("payload", "{}", "Job payload as JSON")
	jobsEnqueueCmd.Flags().Bool("queue", false, "Publish to the job queue instead of running inline")
}
