package model

import "time"

type Tag struct {
	TagID          uint64 `gorm:"column:tag_id;primaryKey;autoIncrement"`
	Key            string `gorm:"column:key;type:varchar(255);not null;uniqueIndex"`
	Label          string `gorm:"column:label;type:text;not null"`
	IsSummaryScore bool   `gorm:"column:is_summary_score;not null"`
}

func (Tag) TableName() string {
	return "tags"
}

// CommentSummaryScore holds at most one row per (comment, tag).
type CommentSummaryScore struct {
	CommentID       uint64    `gorm:"column:comment_id;primaryKey"`
	TagID           uint64    `gorm:"column:tag_id;primaryKey"`
	Score           float64   `gorm:"column:score;not null"`
	IsConfirmed     *bool     `gorm:"column:is_confirmed"`
	ConfirmedUserID *uint64   `gorm:"column:confirmed_user_id"`
	UpdatedAt       time.Time `gorm:"column:updated_at;not null"`
}

func (CommentSummaryScore) TableName() string {
	return "comment_summary_scores"
}

type CommentScore struct {
	CommentScoreID  uint64    `gorm:"column:comment_score_id;primaryKey;autoIncrement"`
	CommentID       uint64    `gorm:"column:comment_id;not null;index:idx_comment_scores_comment_tag"`
	TagID           uint64    `gorm:"column:tag_id;not null;index:idx_comment_scores_comment_tag"`
	Score           float64   `gorm:"column:score;not null"`
	SourceType      string    `gorm:"column:source_type;type:varchar(32);not null"`
	UserID          *uint64   `gorm:"column:user_id"`
	AnnotationStart *int      `gorm:"column:annotation_start"`
	AnnotationEnd   *int      `gorm:"column:annotation_end"`
	IsConfirmed     *bool     `gorm:"column:is_confirmed"`
	ConfirmedUserID *uint64   `gorm:"column:confirmed_user_id"`
	CreatedAt       time.Time `gorm:"column:created_at;not null"`
}

func (CommentScore) TableName() string {
	return "comment_scores"
}
