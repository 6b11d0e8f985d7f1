package moderation

import (
	"context"
	"log/slog"

	"moderator/internal/bootstrap/logging"
	domainmoderation "moderator/internal/domain/moderation"
	"moderator/internal/errs"
	"moderator/internal/ports"
)

func (s *Service) Approve(ctx context.Context, input ActionInput) error {
	return s.applyTransition(ctx, domainmoderation.TransitionApprove, input)
}

func (s *Service) Reject(ctx context.Context, input ActionInput) error {
	return s.applyTransition(ctx, domainmoderation.TransitionReject, input)
}

func (s *Service) Defer(ctx context.Context, input ActionInput) error {
	return s.applyTransition(ctx, domainmoderation.TransitionDefer, input)
}

// Highlight accepts the comment and marks it highlighted.
func (s *Service) Highlight(ctx context.Context, input ActionInput) error {
	return s.applyTransition(ctx, domainmoderation.TransitionHighlight, input)
}

// Reset clears the moderation flags. Decision history is kept as is.
func (s *Service) Reset(ctx context.Context, input ActionInput) error {
	return s.applyTransition(ctx, domainmoderation.TransitionReset, input)
}

// Transition runs any accountable transition by name.
func (s *Service) Transition(ctx context.Context, t domainmoderation.Transition, input ActionInput) error {
	return s.applyTransition(ctx, t, input)
}

// applyTransition writes the new flags, the decision and lastModeratedAt in one
// transaction, then runs the cascade.
func (s *Service) applyTransition(ctx context.Context, t domainmoderation.Transition, input ActionInput) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if input.CommentID == 0 {
		return errCommentRequired
	}

	now := s.nowUTC()
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		comment, err := s.repo.GetComment(txCtx, input.CommentID)
		if err != nil {
			return err
		}
		if err := s.requireUser(txCtx, input.UserID); err != nil {
			return err
		}

		next, status, err := domainmoderation.ApplyTransition(comment.State, t, input.IsBatchAction)
		if err != nil {
			return err
		}
		if err := s.repo.UpdateCommentState(txCtx, comment.CommentID, next); err != nil {
			return err
		}

		if status != nil {
			decision := ports.DecisionCreate{
				CommentID: comment.CommentID,
				UserID:    input.UserID,
				Status:    *status,
				Source:    domainmoderation.DecisionSourceFor(input.UserID),
				CreatedAt: now,
			}
			if input.AutoConfirmDecision {
				sentAt := now
				decision.SentBackToPublisher = &sentAt
			}
			if _, err := s.repo.CreateDecision(txCtx, decision); err != nil {
				return err
			}
		} else if err := s.repo.DemoteCurrentDecision(txCtx, comment.CommentID); err != nil {
			// a reset leaves nothing to report back to the publisher
			return err
		}

		if comment.ArticleID == nil {
			return nil
		}
		if err := s.repo.TouchArticleModeratedAt(txCtx, *comment.ArticleID, now); err != nil {
			return errs.Wrapf(err, "touch article of comment %d", comment.CommentID)
		}
		return nil
	}); err != nil {
		return err
	}

	logging.Info(ctx, "comment transition applied",
		slog.String("component", "moderation"),
		slog.Uint64("comment_id", input.CommentID),
		slog.String("transition", string(t)),
		slog.Bool("batch", input.IsBatchAction),
	)
	return s.DenormalizeComment(ctx, input.CommentID)
}
