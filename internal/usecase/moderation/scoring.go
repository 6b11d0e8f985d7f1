package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"moderator/internal/bootstrap/logging"
	domainmoderation "moderator/internal/domain/moderation"
	"moderator/internal/errs"
	"moderator/internal/ports"
)

// IngestScores stores machine scores for a comment, marks it scored and runs
// rule triage. Triage failures are logged and leave the comment unmoderated.
func (s *Service) IngestScores(ctx context.Context, input IngestScoresInput) (domainmoderation.Resolution, error) {
	none := domainmoderation.Resolution{Outcome: domainmoderation.OutcomeNone}
	if err := s.ready(ctx); err != nil {
		return none, err
	}
	if input.CommentID == 0 {
		return none, errCommentRequired
	}
	if len(input.Scores) == 0 {
		return none, fmt.Errorf("comment %d: at least one score is required", input.CommentID)
	}
	for _, score := range input.Scores {
		if score.TagID == 0 {
			return none, errTagRequired
		}
		if math.IsNaN(score.Score) || score.Score < 0 || score.Score > 1 {
			return none, fmt.Errorf("tag %d: score %v out of [0,1]", score.TagID, score.Score)
		}
	}

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		comment, err := s.repo.GetComment(txCtx, input.CommentID)
		if err != nil {
			return err
		}

		for _, score := range input.Scores {
			if _, err := s.repo.GetTag(txCtx, score.TagID); err != nil {
				return errs.Wrapf(err, "resolve tag %d", score.TagID)
			}
			if _, err := s.repo.CreateCommentScore(txCtx, ports.CommentScoreCreate{
				CommentID:       comment.CommentID,
				TagID:           score.TagID,
				Score:           score.Score,
				SourceType:      ports.ScoreSourceMachine,
				AnnotationStart: score.AnnotationStart,
				AnnotationEnd:   score.AnnotationEnd,
			}); err != nil {
				return err
			}
			if err := s.repo.UpsertSummaryScore(txCtx, comment.CommentID, score.TagID, score.Score); err != nil {
				return err
			}
		}

		if err := s.refreshSummaryTag(txCtx, comment.CommentID); err != nil {
			return err
		}

		state := comment.State
		state.IsScored = true
		return s.repo.UpdateCommentState(txCtx, comment.CommentID, state)
	}); err != nil {
		return none, err
	}

	res, _, err := s.triage(ctx, input.CommentID)
	if err != nil {
		logging.Warn(ctx, "rule triage failed; comment left for review",
			slog.String("component", "moderation"),
			slog.Uint64("comment_id", input.CommentID),
			slog.Any("err", errs.Loggable(err)),
		)
		res = none
	}

	if err := s.DenormalizeComment(ctx, input.CommentID); err != nil {
		return res, err
	}
	return res, nil
}

// refreshSummaryTag raises the summary tag row to the maximum of the other tags.
func (s *Service) refreshSummaryTag(ctx context.Context, commentID uint64) error {
	summaryTag, ok, err := s.repo.GetSummaryTag(ctx)
	if err != nil || !ok {
		return err
	}

	compiled, err := s.compiledScores(ctx, commentID)
	if err != nil {
		return err
	}
	value, ok := domainmoderation.SummaryTagScore(compiled, summaryTag.TagID)
	if !ok {
		return nil
	}
	return s.repo.UpsertSummaryScore(ctx, commentID, summaryTag.TagID, value)
}

func (s *Service) compiledScores(ctx context.Context, commentID uint64) (map[uint64]float64, error) {
	rows, err := s.repo.ListSummaryScores(ctx, commentID)
	if err != nil {
		return nil, err
	}

	scores := make([]domainmoderation.SummaryScore, 0, len(rows))
	for _, row := range rows {
		scores = append(scores, domainmoderation.SummaryScore{TagID: row.TagID, Score: row.Score})
	}
	return domainmoderation.CompileScores(scores), nil
}

// ProcessRules runs rule triage for one comment and, when the comment changed,
// the denormalization cascade.
func (s *Service) ProcessRules(ctx context.Context, commentID uint64) (domainmoderation.Resolution, error) {
	if err := s.ready(ctx); err != nil {
		return domainmoderation.Resolution{Outcome: domainmoderation.OutcomeNone}, err
	}
	if commentID == 0 {
		return domainmoderation.Resolution{Outcome: domainmoderation.OutcomeNone}, errCommentRequired
	}

	res, applied, err := s.triage(ctx, commentID)
	if err != nil {
		return res, err
	}
	if !applied {
		return res, nil
	}
	return res, s.DenormalizeComment(ctx, commentID)
}

// triage applies matching rules in automatic mode. It never touches
// lastModeratedAt and never overrides an accountable decision.
func (s *Service) triage(ctx context.Context, commentID uint64) (domainmoderation.Resolution, bool, error) {
	res := domainmoderation.Resolution{Outcome: domainmoderation.OutcomeNone}
	applied := false

	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		comment, err := s.repo.GetComment(txCtx, commentID)
		if err != nil {
			return err
		}
		if comment.ArticleID == nil {
			return nil
		}
		if comment.State.IsModerated && !comment.State.IsAutoResolved {
			return nil
		}

		article, err := s.repo.GetArticle(txCtx, *comment.ArticleID)
		if err != nil {
			return errs.Wrapf(err, "resolve article of comment %d", commentID)
		}
		if !article.IsAutoModerated {
			return nil
		}

		compiled, err := s.compiledScores(txCtx, commentID)
		if err != nil {
			return err
		}
		rules, err := s.repo.ListRulesForCategory(txCtx, article.CategoryID)
		if err != nil {
			return err
		}

		res = domainmoderation.Resolve(domainmoderation.MatchRules(rules, compiled))
		next, ok := domainmoderation.ApplyResolution(comment.State, res)
		if !ok {
			return nil
		}
		if err := s.repo.UpdateCommentState(txCtx, commentID, next); err != nil {
			return err
		}
		applied = true

		if !res.Terminal() && comment.State.IsModerated {
			// the earlier rule decision no longer describes the comment
			if err := s.repo.DemoteCurrentDecision(txCtx, commentID); err != nil {
				return err
			}
		}

		status, terminal := res.DecisionStatus()
		if !terminal || !s.auditRuleDecisions {
			return nil
		}
		_, err = s.repo.CreateDecision(txCtx, ports.DecisionCreate{
			CommentID: commentID,
			Status:    status,
			Source:    domainmoderation.SourceRule,
			CreatedAt: s.nowUTC(),
		})
		return err
	})
	if err != nil {
		return domainmoderation.Resolution{Outcome: domainmoderation.OutcomeNone}, false, err
	}

	if applied {
		logging.Info(ctx, "comment triaged by rules",
			slog.String("component", "moderation"),
			slog.Uint64("comment_id", commentID),
			slog.String("outcome", string(res.Outcome)),
			slog.Bool("highlight", res.Highlight),
		)
	}
	return res, applied, nil
}
