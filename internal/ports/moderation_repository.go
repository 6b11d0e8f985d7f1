package ports

import (
	"context"
	"errors"
	"time"

	"moderator/internal/domain/moderation"
)

var (
	ErrCommentNotFound      = errors.New("comment not found")
	ErrArticleNotFound      = errors.New("article not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrTagNotFound          = errors.New("tag not found")
	ErrCommentScoreNotFound = errors.New("comment score not found")
	ErrDecisionNotFound     = errors.New("decision not found")
)

// IsNotFound reports whether err references an entity that does not exist.
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrCommentNotFound,
		ErrArticleNotFound,
		ErrCategoryNotFound,
		ErrUserNotFound,
		ErrTagNotFound,
		ErrCommentScoreNotFound,
		ErrDecisionNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type Comment struct {
	CommentID            uint64
	ArticleID            *uint64
	AuthorSourceID       string
	Text                 string
	State                moderation.CommentState
	FlagsSummary         map[string]moderation.FlagCounts
	UnresolvedFlagsCount int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type CommentCreate struct {
	ArticleID      *uint64
	AuthorSourceID string
	Text           string
}

type Article struct {
	ArticleID       uint64
	CategoryID      *uint64
	SourceID        string
	Title           string
	IsAutoModerated bool
	Counters        moderation.Counters
	LastModeratedAt *time.Time
	UpdatedAt       time.Time
}

type ArticleCreate struct {
	CategoryID      *uint64
	SourceID        string
	Title           string
	IsAutoModerated bool
}

type Category struct {
	CategoryID uint64
	Label      string
	Counters   moderation.Counters
	UpdatedAt  time.Time
}

type User struct {
	UserID uint64
	Name   string
	Group  string
}

type Tag struct {
	TagID          uint64
	Key            string
	Label          string
	IsSummaryScore bool
}

type SummaryScore struct {
	CommentID       uint64
	TagID           uint64
	Score           float64
	Confirmation    moderation.ConfirmState
	ConfirmedUserID *uint64
}

type ScoreSource string

const (
	ScoreSourceMachine   ScoreSource = "Machine"
	ScoreSourceModerator ScoreSource = "Moderator"
)

// CommentScore is one scored span (annotation) behind a summary score.
type CommentScore struct {
	CommentScoreID  uint64
	CommentID       uint64
	TagID           uint64
	Score           float64
	SourceType      ScoreSource
	UserID          *uint64
	AnnotationStart *int
	AnnotationEnd   *int
	Confirmation    moderation.ConfirmState
	ConfirmedUserID *uint64
	CreatedAt       time.Time
}

type CommentScoreCreate struct {
	CommentID       uint64
	TagID           uint64
	Score           float64
	SourceType      ScoreSource
	UserID          *uint64
	AnnotationStart *int
	AnnotationEnd   *int
}

type Decision struct {
	DecisionID          uint64
	CommentID           uint64
	UserID              *uint64
	Status              moderation.DecisionStatus
	Source              moderation.DecisionSource
	IsCurrentDecision   bool
	SentBackToPublisher *time.Time
	CreatedAt           time.Time
}

type DecisionCreate struct {
	CommentID           uint64
	UserID              *uint64
	Status              moderation.DecisionStatus
	Source              moderation.DecisionSource
	SentBackToPublisher *time.Time
	CreatedAt           time.Time
}

type CommentFlag struct {
	FlagID           uint64
	CommentID        uint64
	Label            string
	Detail           string
	IsRecommendation bool
	IsResolved       bool
	CreatedAt        time.Time
}

type CommentFlagCreate struct {
	CommentID        uint64
	Label            string
	Detail           string
	IsRecommendation bool
}

// ModerationReadRepository is the query side used by triage, the cascade and read paths.
type ModerationReadRepository interface {
	GetComment(ctx context.Context, commentID uint64) (Comment, error)
	GetArticle(ctx context.Context, articleID uint64) (Article, error)
	GetCategory(ctx context.Context, categoryID uint64) (Category, error)
	GetUser(ctx context.Context, userID uint64) (User, error)
	GetTag(ctx context.Context, tagID uint64) (Tag, error)
	GetSummaryTag(ctx context.Context) (Tag, bool, error)
	GetCommentScore(ctx context.Context, commentScoreID uint64) (CommentScore, error)
	ListSummaryScores(ctx context.Context, commentID uint64) ([]SummaryScore, error)
	ListRulesForCategory(ctx context.Context, categoryID *uint64) ([]moderation.Rule, error)
	ListTaggingSensitivities(ctx context.Context) ([]moderation.TaggingSensitivity, error)
	ListTopScores(ctx context.Context, commentIDs []uint64, tagID uint64) ([]moderation.TopScore, error)
	ListCommentCategories(ctx context.Context, commentIDs []uint64) (map[uint64]*uint64, error)
	ListDecisions(ctx context.Context, commentID uint64) ([]Decision, error)
	ListPendingDecisions(ctx context.Context, limit int) ([]Decision, error)
	ListCommentFlags(ctx context.Context, commentID uint64) ([]CommentFlag, error)
	CountArticleComments(ctx context.Context, articleID uint64) (moderation.Counters, error)
	ListArticles(ctx context.Context, categoryID *uint64) ([]Article, error)
	ListCategoryIDs(ctx context.Context) ([]uint64, error)
	ListCommentIDs(ctx context.Context) ([]uint64, error)
}

type ModerationRepository interface {
	ModerationReadRepository

	CreateComment(ctx context.Context, input CommentCreate) (Comment, error)
	UpdateCommentState(ctx context.Context, commentID uint64, state moderation.CommentState) error
	UpdateCommentFlagSummary(ctx context.Context, commentID uint64, summary map[string]moderation.FlagCounts, unresolved int) error

	UpsertSummaryScore(ctx context.Context, commentID uint64, tagID uint64, score float64) error
	SetSummaryScoreConfirmation(ctx context.Context, commentID uint64, tagID uint64, state moderation.ConfirmState, userID *uint64) error
	CreateCommentScore(ctx context.Context, input CommentScoreCreate) (CommentScore, error)
	DeleteCommentScore(ctx context.Context, commentScoreID uint64) error
	SetCommentScoreConfirmation(ctx context.Context, commentScoreID uint64, state moderation.ConfirmState, userID *uint64) error

	// CreateDecision demotes the comment's current decision and inserts the new current one.
	CreateDecision(ctx context.Context, input DecisionCreate) (Decision, error)
	// DemoteCurrentDecision clears the current flag without recording a new decision.
	DemoteCurrentDecision(ctx context.Context, commentID uint64) error
	MarkDecisionSent(ctx context.Context, decisionID uint64, sentAt time.Time) error

	CreateCommentFlag(ctx context.Context, input CommentFlagCreate) (CommentFlag, error)
	ResolveCommentFlags(ctx context.Context, commentID uint64) (int64, error)

	UpdateArticleCounters(ctx context.Context, articleID uint64, counters moderation.Counters) error
	TouchArticleModeratedAt(ctx context.Context, articleID uint64, at time.Time) error
	UpdateCategoryCounters(ctx context.Context, categoryID uint64, counters moderation.Counters) error

	CreateArticle(ctx context.Context, input ArticleCreate) (Article, error)
	CreateCategory(ctx context.Context, label string) (Category, error)
	CreateUser(ctx context.Context, name string, group string) (User, error)
	UpsertTag(ctx context.Context, tag Tag) (Tag, error)
	ReplaceRules(ctx context.Context, rules []moderation.Rule) error
	ReplaceTaggingSensitivities(ctx context.Context, sensitivities []moderation.TaggingSensitivity) error
}
