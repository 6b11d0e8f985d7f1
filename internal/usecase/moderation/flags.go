package moderation

import (
	"context"
	"errors"
	"strings"

	"moderator/internal/ports"
)

// AddFlag records a complaint against a comment and refreshes its aggregates.
func (s *Service) AddFlag(ctx context.Context, input FlagInput) (ports.CommentFlag, error) {
	if err := s.ready(ctx); err != nil {
		return ports.CommentFlag{}, err
	}
	if input.CommentID == 0 {
		return ports.CommentFlag{}, errCommentRequired
	}
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return ports.CommentFlag{}, errors.New("flag label is required")
	}

	var created ports.CommentFlag
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetComment(txCtx, input.CommentID); err != nil {
			return err
		}
		flag, err := s.repo.CreateCommentFlag(txCtx, ports.CommentFlagCreate{
			CommentID:        input.CommentID,
			Label:            label,
			Detail:           strings.TrimSpace(input.Detail),
			IsRecommendation: input.IsRecommendation,
		})
		if err != nil {
			return err
		}
		created = flag
		return nil
	}); err != nil {
		return ports.CommentFlag{}, err
	}

	return created, s.DenormalizeComment(ctx, input.CommentID)
}

// ResolveFlags marks every open flag of the comment resolved.
func (s *Service) ResolveFlags(ctx context.Context, commentID uint64) (int64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	if commentID == 0 {
		return 0, errCommentRequired
	}

	var resolved int64
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetComment(txCtx, commentID); err != nil {
			return err
		}
		n, err := s.repo.ResolveCommentFlags(txCtx, commentID)
		if err != nil {
			return err
		}
		resolved = n
		return nil
	}); err != nil {
		return 0, err
	}

	return resolved, s.DenormalizeComment(ctx, commentID)
}
