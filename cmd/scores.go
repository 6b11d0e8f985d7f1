package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"moderator/internal/bootstrap"
	"moderator/internal/errs"
	"moderator/internal/usecase/moderation"
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Ingest machine scores and inspect top-scoring spans",
}

var scoresIngestCmd = &cobra.Command{
	Use:     "ingest",
	Short:   "Store machine scores for a comment and run rule triage",
	Example: "  moderator scores ingest --comment 12 --score 3=0.92 --score 4=0.1@0:17",
	Args:    cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
		commentID, _ := cmd.Flags().GetUint64("comment")
		rawScores, _ := cmd.Flags().GetStringArray("score")

		scores := make([]moderation.ScoreInput, 0, len(rawScores))
		for _, raw := range rawScores {
			score, err := parseScore(raw)
			if err != nil {
				return err
			}
			scores = append(scores, score)
		}

		res, err := app.Moderation.IngestScores(cmd.Context(), moderation.IngestScoresInput{
			CommentID: commentID,
			Scores:    scores,
		})
		if err != nil {
			return errs.Wrap(err, "ingest scores")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "comment %d scored: outcome=%s highlight=%t\n", commentID, res.Outcome, res.Highlight); err != nil {
			return errs.Wrap(err, "write ingest output")
		}
		return nil
	}),
}

var scoresTopCmd = &cobra.Command{
	Use:   "top <comment-id>...",
	Short: "Show the top span per comment for a tag, after tagging sensitivity",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		tagID, _ := cmd.Flags().GetUint64("tag")

		top, err := app.Moderation.TopScores(cmd.Context(), moderation.TopScoresInput{CommentIDs: ids, TagID: tagID})
		if err != nil {
			return errs.Wrap(err, "top scores")
		}

		commentIDs := make([]uint64, 0, len(top))
		for id := range top {
			commentIDs = append(commentIDs, id)
		}
		sort.Slice(commentIDs, func(i, j int) bool { return commentIDs[i] < commentIDs[j] })

		for _, id := range commentIDs {
			row := top[id]
			span := "-"
			if row.AnnotationStart != nil && row.AnnotationEnd != nil {
				span = fmt.Sprintf("%d:%d", *row.AnnotationStart, *row.AnnotationEnd)
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "comment %d tag %d score=%.3f span=%s\n", id, row.TagID, row.Score, span); err != nil {
				return errs.Wrap(err, "write top output")
			}
		}
		return nil
	}),
}

// parseScore reads TAG=SCORE with an optional @START:END span.
func parseScore(raw string) (moderation.ScoreInput, error) {
	tagPart, rest, ok := strings.Cut(raw, "=")
	if !ok {
		return moderation.ScoreInput{}, fmt.Errorf("score %q: want TAG=SCORE[@START:END]", raw)
	}
	tagID, err := strconv.ParseUint(strings.TrimSpace(tagPart), 10, 64)
	if err != nil {
		return moderation.ScoreInput{}, fmt.Errorf("score %q: invalid tag id", raw)
	}

	valuePart, spanPart, hasSpan := strings.Cut(rest, "@")
	value, err := strconv.ParseFloat(strings.TrimSpace(valuePart), 64)
	if err != nil {
		return moderation.ScoreInput{}, fmt.Errorf("score %q: invalid value", raw)
	}

	out := moderation.ScoreInput{TagID: tagID, Score: value}
	if hasSpan {
		startRaw, endRaw, ok := strings.Cut(spanPart, ":")
		if !ok {
			return moderation.ScoreInput{}, fmt.Errorf("score %q: span must be START:END", raw)
		}
		start, err := strconv.Atoi(startRaw)
		if err != nil {
			return moderation.ScoreInput{}, fmt.Errorf("score %q: invalid span start", raw)
		}
		end, err := strconv.Atoi(endRaw)
		if err != nil {
			return moderation.ScoreInput{}, fmt.Errorf("score %q: invalid span end", raw)
		}
		out.AnnotationStart = &start
		out.AnnotationEnd = &end
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(scoresCmd)
	scoresCmd.AddCommand(scoresIngestCmd, scoresTopCmd)

	scoresIngestCmd.Flags().Uint64("comment", 0, "Comment id")
	scoresIngestCmd.Flags().StringArray("score", nil, "Score as TAG=SCORE[@START:END], repeatable")
	_ = scoresIngestCmd.MarkFlagRequired("comment")
	_ = scoresIngestCmd.MarkFlagRequired("score")

	scoresTopCmd.Flags().Uint64("tag", 0, "Tag id")
	_ = scoresTopCmd.MarkFlagRequired("tag")
}
