package model

import "time"

type Comment struct {
	CommentID            uint64    `gorm:"column:comment_id;primaryKey;autoIncrement"`
	ArticleID            *uint64   `gorm:"column:article_id;index"`
	AuthorSourceID       string    `gorm:"column:author_source_id;type:text;not null"`
	Text                 string    `gorm:"column:text;type:text;not null"`
	IsModerated          bool      `gorm:"column:is_moderated;not null;index"`
	IsAccepted           *bool     `gorm:"column:is_accepted;index"`
	IsDeferred           bool      `gorm:"column:is_deferred;not null"`
	IsHighlighted        bool      `gorm:"column:is_highlighted;not null"`
	IsScored             bool      `gorm:"column:is_scored;not null"`
	IsBatchResolved      bool      `gorm:"column:is_batch_resolved;not null"`
	IsAutoResolved       bool      `gorm:"column:is_auto_resolved;not null"`
	FlagsSummary         string    `gorm:"column:flags_summary;type:text;not null"`
	UnresolvedFlagsCount int       `gorm:"column:unresolved_flags_count;not null"`
	CreatedAt            time.Time `gorm:"column:created_at;not null"`
	UpdatedAt            time.Time `gorm:"column:updated_at;not null"`
}

func (Comment) TableName() string {
	return "comments"
}

type CommentFlag struct {
	FlagID           uint64    `gorm:"column:flag_id;primaryKey;autoIncrement"`
	CommentID        uint64    `gorm:"column:comment_id;not null;index"`
	Label            string    `gorm:"column:label;type:varchar(255);not null"`
	Detail           string    `gorm:"column:detail;type:text;not null"`
	IsRecommendation bool      `gorm:"column:is_recommendation;not null"`
	IsResolved       bool      `gorm:"column:is_resolved;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;not null"`
}

func (CommentFlag) TableName() string {
	return "comment_flags"
}
