package moderation

import (
	"context"

	domainmoderation "moderator/internal/domain/moderation"
	"moderator/internal/ports"
)

// TopScores returns the highest span per comment for a tag, minus the ones
// inside their most specific tagging sensitivity band.
func (s *Service) TopScores(ctx context.Context, input TopScoresInput) (map[uint64]domainmoderation.TopScore, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if input.TagID == 0 {
		return nil, errTagRequired
	}

	rows, err := s.repo.ListTopScores(ctx, input.CommentIDs, input.TagID)
	if err != nil {
		return nil, err
	}
	top := make(map[uint64]domainmoderation.TopScore, len(rows))
	for _, row := range rows {
		top[row.CommentID] = row
	}
	if len(top) == 0 {
		return top, nil
	}

	categories, err := s.repo.ListCommentCategories(ctx, input.CommentIDs)
	if err != nil {
		return nil, err
	}
	sensitivities, err := s.repo.ListTaggingSensitivities(ctx)
	if err != nil {
		return nil, err
	}
	return domainmoderation.FilterTopScoresByTaggingSensitivity(top, categories, sensitivities), nil
}

func (s *Service) GetComment(ctx context.Context, commentID uint64) (ports.Comment, error) {
	if err := s.ready(ctx); err != nil {
		return ports.Comment{}, err
	}
	return s.repo.GetComment(ctx, commentID)
}

func (s *Service) ListDecisions(ctx context.Context, commentID uint64) ([]ports.Decision, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return s.repo.ListDecisions(ctx, commentID)
}

// ListPendingDecisions returns current decisions not yet mirrored to the publisher.
func (s *Service) ListPendingDecisions(ctx context.Context, limit int) ([]ports.Decision, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return s.repo.ListPendingDecisions(ctx, limit)
}

func (s *Service) MarkDecisionSent(ctx context.Context, decisionID uint64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.repo.MarkDecisionSent(ctx, decisionID, s.nowUTC())
}
