package moderation

import (
	"context"
	"errors"
	"time"

	"moderator/internal/errs"
	"moderator/internal/ports"
)

var (
	errCommentRequired = errors.New("comment id is required")
	errTagRequired     = errors.New("tag id is required")
)

type Service struct {
	repo               ports.ModerationRepository
	uow                ports.UnitOfWork
	notifier           ports.ChangeNotifier
	auditRuleDecisions bool
	now                func() time.Time
}

type Option func(*Service)

// WithRuleDecisionAudit controls whether rule triage records a Decision with source Rule.
func WithRuleDecisionAudit(enabled bool) Option {
	return func(s *Service) {
		s.auditRuleDecisions = enabled
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires moderation usecases. notifier may be nil.
func NewService(repo ports.ModerationRepository, uow ports.UnitOfWork, notifier ports.ChangeNotifier, opts ...Option) *Service {
	s := &Service{
		repo:               repo,
		uow:                uow,
		notifier:           notifier,
		auditRuleDecisions: true,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ActionInput drives the accountable comment transitions.
type ActionInput struct {
	CommentID           uint64
	UserID              *uint64
	IsBatchAction       bool
	AutoConfirmDecision bool
}

type ScoreInput struct {
	TagID           uint64
	Score           float64
	AnnotationStart *int
	AnnotationEnd   *int
}

type IngestScoresInput struct {
	CommentID uint64
	Scores    []ScoreInput
}

// TagInput addresses either a summary score (TagID) or an annotation (CommentScoreID).
type TagInput struct {
	CommentID       uint64
	TagID           uint64
	CommentScoreID  uint64
	AnnotationStart *int
	AnnotationEnd   *int
	UserID          *uint64
	IsBatchAction   bool
}

type FlagInput struct {
	CommentID        uint64
	Label            string
	Detail           string
	IsRecommendation bool
}

type TopScoresInput struct {
	CommentIDs []uint64
	TagID      uint64
}

func (s *Service) ready(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return errors.New("moderation repository is required")
	}
	if s.uow == nil {
		return errors.New("moderation unit of work is required")
	}
	return nil
}

func (s *Service) nowUTC() time.Time {
	return s.now().UTC()
}

// requireUser fails when an acting user is given but unknown.
func (s *Service) requireUser(ctx context.Context, userID *uint64) error {
	if userID == nil {
		return nil
	}
	if _, err := s.repo.GetUser(ctx, *userID); err != nil {
		return errs.Wrapf(err, "resolve user %d", *userID)
	}
	return nil
}
