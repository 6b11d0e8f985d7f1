package model

type ModerationRule struct {
	RuleID         uint64  `gorm:"column:rule_id;primaryKey;autoIncrement"`
	TagID          uint64  `gorm:"column:tag_id;not null;index"`
	CategoryID     *uint64 `gorm:"column:category_id;index"`
	LowerThreshold float64 `gorm:"column:lower_threshold;not null"`
	UpperThreshold float64 `gorm:"column:upper_threshold;not null"`
	Action         string  `gorm:"column:action;type:varchar(32);not null"`
}

func (ModerationRule) TableName() string {
	return "moderation_rules"
}

type TaggingSensitivity struct {
	TaggingSensitivityID uint64  `gorm:"column:tagging_sensitivity_id;primaryKey;autoIncrement"`
	TagID                *uint64 `gorm:"column:tag_id"`
	CategoryID           *uint64 `gorm:"column:category_id"`
	LowerThreshold       float64 `gorm:"column:lower_threshold;not null"`
	UpperThreshold       float64 `gorm:"column:upper_threshold;not null"`
}

func (TaggingSensitivity) TableName() string {
	return "tagging_sensitivities"
}
