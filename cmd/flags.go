package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"moderator/internal/bootstrap"
	"moderator/internal/errs"
	"moderator/internal/usecase/moderation"
)

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Record and resolve reader flags on comments",
}

var flagsAddCmd = &cobra.Command{
	Use:   "add <comment-id>",
	Short: "Add a reader flag or recommendation to a comment",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		label, _ := cmd.Flags().GetString("label")
		detail, _ := cmd.Flags().GetString("detail")
		recommend, _ := cmd.Flags().GetBool("recommendation")

		flag, err := app.Moderation.AddFlag(cmd.Context(), moderation.FlagInput{
			CommentID:        ids[0],
			Label:            label,
			Detail:           detail,
			IsRecommendation: recommend,
		})
		if err != nil {
			return errs.Wrap(err, "add flag")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "flag %d added to comment %d\n", flag.FlagID, flag.CommentID); err != nil {
			return errs.Wrap(err, "write flag output")
		}
		return nil
	}),
}

var flagsResolveCmd = &cobra.Command{
	Use:   "resolve <comment-id>",
	Short: "Resolve every open flag on a comment",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		n, err := app.Moderation.ResolveFlags(cmd.Context(), ids[0])
		if err != nil {
			return errs.Wrap(err, "resolve flags")
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "resolved %d flags\n", n); err != nil {
			return errs.Wrap(err, "write resolve output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(flagsCmd)
	flagsCmd.AddCommand(flagsAddCmd, flagsResolveCmd)

	flagsAddCmd.Flags().String("label", "", "Flag label")
	flagsAddCmd.Flags().String("detail", "", "Free-form detail")
	flagsAddCmd.Flags().Bool("recommendation", false, "Record a recommendation instead of a complaint")
	_ = flagsAddCmd.MarkFlagRequired("label")
}
