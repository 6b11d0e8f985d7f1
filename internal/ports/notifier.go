package ports

import (
	"context"
	"time"

	"moderator/internal/domain/moderation"
)

type ChangeKind string

const (
	ChangeArticle  ChangeKind = "article"
	ChangeCategory ChangeKind = "category"
)

// ChangeEvent tells observers that an aggregate was recomputed.
type ChangeEvent struct {
	Kind            ChangeKind          `json:"kind"`
	ID              uint64              `json:"id"`
	Counters        moderation.Counters `json:"counters"`
	LastModeratedAt *time.Time          `json:"lastModeratedAt,omitempty"`
}

// ChangeSink delivers change events to interested observers.
type ChangeSink interface {
	Publish(ctx context.Context, event ChangeEvent) error
}

// ChangeNotifier is what the cascade calls after recomputing aggregates.
type ChangeNotifier interface {
	ArticleChanged(ctx context.Context, article Article) error
	CategoryChanged(ctx context.Context, category Category) error
}
