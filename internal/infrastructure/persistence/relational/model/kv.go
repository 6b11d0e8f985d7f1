package model

import "time"

// KV backs the database cache adapter.
type KV struct {
	Key       string     `gorm:"column:key;type:varchar(255);primaryKey"`
	Value     string     `gorm:"column:value;type:text;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null"`
}

func (KV) TableName() string {
	return "moderator_kv"
}
