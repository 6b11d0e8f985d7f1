package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"moderator/internal/bootstrap"
	"moderator/internal/errs"
)

var denormCmd = &cobra.Command{
	Use:   "denorm",
	Short: "Recompute flag summaries and article/category counters",
}

var denormCommentCmd = &cobra.Command{
	Use:   "comment <comment-id>...",
	Short: "Run the counter cascade for the given comments",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := app.Moderation.DenormalizeComment(cmd.Context(), id); err != nil {
				return errs.Wrapf(err, "denormalize comment %d", id)
			}
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "denormalized %d comments\n", len(ids)); err != nil {
			return errs.Wrap(err, "write denorm output")
		}
		return nil
	}),
}

var denormRecomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute every comment, article and category",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
		if err := app.Moderation.RecomputeAll(cmd.Context()); err != nil {
			return errs.Wrap(err, "recompute all")
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), "recompute finished"); err != nil {
			return errs.Wrap(err, "write recompute output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(denormCmd)
	denormCmd.AddCommand(denormCommentCmd, denormRecomputeCmd)
}
