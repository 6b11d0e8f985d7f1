package moderation

import (
	"context"
	"fmt"
	"log/slog"

	"moderator/internal/bootstrap/logging"
	domainmoderation "moderator/internal/domain/moderation"
	"moderator/internal/errs"
	"moderator/internal/ports"
)

// moderatorScore is the score carried by a tag a moderator applied by hand.
const moderatorScore = 1.0

// TagComment records a moderator annotation for the tag and confirms the
// comment's summary score for it.
func (s *Service) TagComment(ctx context.Context, input TagInput) error {
	return s.tagJob(ctx, domainmoderation.JobTagComments, input, func(txCtx context.Context) error {
		if _, err := s.repo.CreateCommentScore(txCtx, ports.CommentScoreCreate{
			CommentID:       input.CommentID,
			TagID:           input.TagID,
			Score:           moderatorScore,
			SourceType:      ports.ScoreSourceModerator,
			UserID:          input.UserID,
			AnnotationStart: input.AnnotationStart,
			AnnotationEnd:   input.AnnotationEnd,
		}); err != nil {
			return err
		}
		return s.confirmSummary(txCtx, input)
	})
}

// TagCommentSummaryScore sets the summary score for the tag without an annotation.
func (s *Service) TagCommentSummaryScore(ctx context.Context, input TagInput) error {
	return s.tagJob(ctx, domainmoderation.JobTagCommentSummaryScores, input, func(txCtx context.Context) error {
		return s.confirmSummary(txCtx, input)
	})
}

func (s *Service) ConfirmCommentSummaryScore(ctx context.Context, input TagInput) error {
	return s.tagJob(ctx, domainmoderation.JobConfirmCommentSummaryScore, input, func(txCtx context.Context) error {
		return s.repo.SetSummaryScoreConfirmation(txCtx, input.CommentID, input.TagID, domainmoderation.Confirmed, input.UserID)
	})
}

func (s *Service) RejectCommentSummaryScore(ctx context.Context, input TagInput) error {
	return s.tagJob(ctx, domainmoderation.JobRejectCommentSummaryScore, input, func(txCtx context.Context) error {
		return s.repo.SetSummaryScoreConfirmation(txCtx, input.CommentID, input.TagID, domainmoderation.Disputed, input.UserID)
	})
}

// AddTag adds a moderator annotation span and raises the summary score to match.
func (s *Service) AddTag(ctx context.Context, input TagInput) error {
	return s.tagJob(ctx, domainmoderation.JobAddTag, input, func(txCtx context.Context) error {
		created, err := s.repo.CreateCommentScore(txCtx, ports.CommentScoreCreate{
			CommentID:       input.CommentID,
			TagID:           input.TagID,
			Score:           moderatorScore,
			SourceType:      ports.ScoreSourceModerator,
			UserID:          input.UserID,
			AnnotationStart: input.AnnotationStart,
			AnnotationEnd:   input.AnnotationEnd,
		})
		if err != nil {
			return err
		}
		return s.repo.UpsertSummaryScore(txCtx, input.CommentID, input.TagID, created.Score)
	})
}

// RemoveTag deletes an annotation. The summary score is left as is.
func (s *Service) RemoveTag(ctx context.Context, input TagInput) error {
	return s.tagJob(ctx, domainmoderation.JobRemoveTag, input, func(txCtx context.Context) error {
		if _, err := s.annotation(txCtx, input); err != nil {
			return err
		}
		return s.repo.DeleteCommentScore(txCtx, input.CommentScoreID)
	})
}

func (s *Service) ConfirmTag(ctx context.Context, input TagInput) error {
	return s.setAnnotationConfirmation(ctx, domainmoderation.JobConfirmTag, input, domainmoderation.Confirmed)
}

func (s *Service) RejectTag(ctx context.Context, input TagInput) error {
	return s.setAnnotationConfirmation(ctx, domainmoderation.JobRejectTag, input, domainmoderation.Disputed)
}

func (s *Service) ResetTag(ctx context.Context, input TagInput) error {
	return s.setAnnotationConfirmation(ctx, domainmoderation.JobResetTag, input, domainmoderation.Unconfirmed)
}

func (s *Service) setAnnotationConfirmation(ctx context.Context, name domainmoderation.JobName, input TagInput, state domainmoderation.ConfirmState) error {
	return s.tagJob(ctx, name, input, func(txCtx context.Context) error {
		if _, err := s.annotation(txCtx, input); err != nil {
			return err
		}
		userID := input.UserID
		if state == domainmoderation.Unconfirmed {
			userID = nil
		}
		return s.repo.SetCommentScoreConfirmation(txCtx, input.CommentScoreID, state, userID)
	})
}

// annotation loads the addressed score row and checks it belongs to the comment.
func (s *Service) annotation(ctx context.Context, input TagInput) (ports.CommentScore, error) {
	score, err := s.repo.GetCommentScore(ctx, input.CommentScoreID)
	if err != nil {
		return ports.CommentScore{}, err
	}
	if score.CommentID != input.CommentID {
		return ports.CommentScore{}, fmt.Errorf("comment score %d of comment %d: %w", input.CommentScoreID, input.CommentID, ports.ErrCommentScoreNotFound)
	}
	return score, nil
}

func (s *Service) confirmSummary(ctx context.Context, input TagInput) error {
	if err := s.repo.UpsertSummaryScore(ctx, input.CommentID, input.TagID, moderatorScore); err != nil {
		return err
	}
	return s.repo.SetSummaryScoreConfirmation(ctx, input.CommentID, input.TagID, domainmoderation.Confirmed, input.UserID)
}

// tagJob resolves the comment, user and tag, runs fn in one transaction and
// then the cascade. Tag jobs never touch lastModeratedAt.
func (s *Service) tagJob(ctx context.Context, name domainmoderation.JobName, input TagInput, fn func(txCtx context.Context) error) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	payload := domainmoderation.TagPayload{
		CommentID:       input.CommentID,
		TagID:           input.TagID,
		CommentScoreID:  input.CommentScoreID,
		AnnotationStart: input.AnnotationStart,
		AnnotationEnd:   input.AnnotationEnd,
		UserID:          input.UserID,
		IsBatchAction:   input.IsBatchAction,
	}
	if err := payload.Validate(name); err != nil {
		return err
	}

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetComment(txCtx, input.CommentID); err != nil {
			return err
		}
		if err := s.requireUser(txCtx, input.UserID); err != nil {
			return err
		}
		if input.TagID != 0 {
			if _, err := s.repo.GetTag(txCtx, input.TagID); err != nil {
				return errs.Wrapf(err, "resolve tag %d", input.TagID)
			}
		}
		return fn(txCtx)
	}); err != nil {
		return err
	}

	logging.Info(ctx, "tag job applied",
		slog.String("component", "moderation"),
		slog.String("job", string(name)),
		slog.Uint64("comment_id", input.CommentID),
		slog.Bool("batch", payload.IsBatchAction),
	)
	return s.DenormalizeComment(ctx, input.CommentID)
}
