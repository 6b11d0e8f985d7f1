package model

import "time"

// Counters is embedded by tables that carry denormalized comment counts.
type Counters struct {
	AllCount         int64 `gorm:"column:all_count;not null"`
	UnprocessedCount int64 `gorm:"column:unprocessed_count;not null"`
	UnmoderatedCount int64 `gorm:"column:unmoderated_count;not null"`
	ModeratedCount   int64 `gorm:"column:moderated_count;not null"`
	HighlightedCount int64 `gorm:"column:highlighted_count;not null"`
	ApprovedCount    int64 `gorm:"column:approved_count;not null"`
	RejectedCount    int64 `gorm:"column:rejected_count;not null"`
	DeferredCount    int64 `gorm:"column:deferred_count;not null"`
	FlaggedCount     int64 `gorm:"column:flagged_count;not null"`
	BatchedCount     int64 `gorm:"column:batched_count;not null"`
}

type Article struct {
	ArticleID       uint64     `gorm:"column:article_id;primaryKey;autoIncrement"`
	CategoryID      *uint64    `gorm:"column:category_id;index"`
	SourceID        string     `gorm:"column:source_id;type:varchar(255);not null;index"`
	Title           string     `gorm:"column:title;type:text;not null"`
	IsAutoModerated bool       `gorm:"column:is_auto_moderated;not null"`
	Counters        Counters   `gorm:"embedded"`
	LastModeratedAt *time.Time `gorm:"column:last_moderated_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;not null"`
}

func (Article) TableName() string {
	return "articles"
}

type Category struct {
	CategoryID uint64    `gorm:"column:category_id;primaryKey;autoIncrement"`
	Label      string    `gorm:"column:label;type:varchar(255);not null;uniqueIndex"`
	Counters   Counters  `gorm:"embedded"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

func (Category) TableName() string {
	return "categories"
}
