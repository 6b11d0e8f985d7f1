package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"moderator/internal/bootstrap"
	"moderator/internal/errs"
)

var decisionsCmd = &cobra.Command{
	Use:   "decisions",
	Short: "Inspect decisions waiting to be sent back to the publisher",
}

var decisionsPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List current decisions not yet sent back",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
		limit, _ := cmd.Flags().GetInt("limit")

		items, err := app.Moderation.ListPendingDecisions(cmd.Context(), limit)
		if err != nil {
			return errs.Wrap(err, "list pending decisions")
		}
		for _, d := range items {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d comment=%d status=%s source=%s created=%s\n",
				d.DecisionID, d.CommentID, d.Status, d.Source, d.CreatedAt.Format("2006-01-02T15:04:05Z07:00")); err != nil {
				return errs.Wrap(err, "write pending output")
			}
		}
		return nil
	}),
}

var decisionsConfirmCmd = &cobra.Command{
	Use:   "confirm <decision-id>...",
	Short: "Record that decisions were sent back to the publisher",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := app.Moderation.MarkDecisionSent(cmd.Context(), id); err != nil {
				return errs.Wrapf(err, "confirm decision %d", id)
			}
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "confirmed %d decisions\n", len(ids)); err != nil {
			return errs.Wrap(err, "write confirm output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(decisionsCmd)
	decisionsCmd.AddCommand(decisionsPendingCmd, decisionsConfirmCmd)

	decisionsPendingCmd.Flags().Int("limit", 100, "Maximum decisions to list, 0 for all")
}
