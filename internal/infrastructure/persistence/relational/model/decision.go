package model

import "time"

// Decision rows are never deleted; superseded rows keep IsCurrentDecision=false.
type Decision struct {
	DecisionID          uint64     `gorm:"column:decision_id;primaryKey;autoIncrement"`
	CommentID           uint64     `gorm:"column:comment_id;not null;index:idx_decisions_comment_current"`
	UserID              *uint64    `gorm:"column:user_id"`
	Status              string     `gorm:"column:status;type:varchar(16);not null"`
	Source              string     `gorm:"column:source;type:varchar(16);not null"`
	IsCurrentDecision   bool       `gorm:"column:is_current_decision;not null;index:idx_decisions_comment_current"`
	SentBackToPublisher *time.Time `gorm:"column:sent_back_to_publisher"`
	CreatedAt           time.Time  `gorm:"column:created_at;not null"`
}

func (Decision) TableName() string {
	return "decisions"
}
