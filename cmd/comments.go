package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"moderator/internal/bootstrap"
	"moderator/internal/bootstrap/logging"
	domainmoderation "moderator/internal/domain/moderation"
	"moderator/internal/errs"
)

var commentsCmd = &cobra.Command{
	Use:   "comments",
	Short: "Apply accountable moderation actions to comments",
}

var commentsShowCmd = &cobra.Command{
	Use:   "show <comment-id>",
	Short: "Show a comment's moderation state and decision history",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		comment, err := app.Moderation.GetComment(ctx, ids[0])
		if err != nil {
			return errs.Wrap(err, "get comment")
		}
		decisions, err := app.Moderation.ListDecisions(ctx, ids[0])
		if err != nil {
			return errs.Wrap(err, "list decisions")
		}

		out := cmd.OutOrStdout()
		s := comment.State
		if _, err := fmt.Fprintf(out, "comment %d moderated=%t accepted=%s deferred=%t highlighted=%t scored=%t batch=%t auto=%t unresolved_flags=%d\n",
			comment.CommentID, s.IsModerated, s.Accepted, s.IsDeferred, s.IsHighlighted, s.IsScored, s.IsBatchResolved, s.IsAutoResolved, comment.UnresolvedFlagsCount); err != nil {
			return errs.Wrap(err, "write comment output")
		}
		for _, d := range decisions {
			if _, err := fmt.Fprintf(out, "  decision %d status=%s source=%s current=%t sent=%t\n",
				d.DecisionID, d.Status, d.Source, d.IsCurrentDecision, d.SentBackToPublisher != nil); err != nil {
				return errs.Wrap(err, "write decision output")
			}
		}
		return nil
	}),
}

func newCommentActionCmd(use string, short string, job domainmoderation.JobName) *cobra.Command {
	c := &cobra.Command{
		Use:   use + " <comment-id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			ctx := logging.WithAttrs(cmd.Context(), slog.String("job", string(job)))

			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			deferred, _ := cmd.Flags().GetBool("queue")
			autoConfirm, _ := cmd.Flags().GetBool("auto-confirm")
			if deferred {
				if err := requireDurableQueue(app); err != nil {
					return err
				}
			}

			userID := optionalUser(cmd)
			payloads := make([]domainmoderation.CommentActionPayload, 0, len(ids))
			for _, id := range ids {
				payloads = append(payloads, domainmoderation.CommentActionPayload{
					CommentID:           id,
					UserID:              userID,
					AutoConfirmDecision: autoConfirm,
				})
			}

			jobs, err := app.Jobs.EnqueueBatch(ctx, job, payloads, !deferred)
			if err != nil {
				logging.Error(ctx, "comment action failed", slog.Any("err", errs.Loggable(err)))
				return errs.Wrapf(err, "%s comments", use)
			}

			verb := "applied"
			if deferred {
				verb = "queued"
			}
			for _, j := range jobs {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s job=%s\n", verb, j.Name, j.ID); err != nil {
					return errs.Wrap(err, "write action output")
				}
			}
			return nil
		}),
	}
	c.Flags().Uint64("user", 0, "Acting moderator id; omit for rule-engine actions")
	c.Flags().Bool("queue", false, "Publish to the job queue instead of running inline")
	c.Flags().Bool("auto-confirm", false, "Mark the decision as already sent back to the publisher")
	return c
}

func init() {
	rootCmd.AddCommand(commentsCmd)

	commentsCmd.AddCommand(
		commentsShowCmd,
		newCommentActionCmd("approve", "Approve comments", domainmoderation.JobAcceptComments),
		newCommentActionCmd("reject", "Reject comments", domainmoderation.JobRejectComments),
		newCommentActionCmd("defer", "Defer comments for later review", domainmoderation.JobDeferComments),
		newCommentActionCmd("highlight", "Approve and highlight comments", domainmoderation.JobHighlightComments),
		newCommentActionCmd("reset", "Return comments to the unmoderated queue", domainmoderation.JobResetComments),
	)
}
