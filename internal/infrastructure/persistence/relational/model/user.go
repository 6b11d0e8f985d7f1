package model

import "time"

type User struct {
	UserID    uint64    `gorm:"column:user_id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;type:text;not null"`
	Group     string    `gorm:"column:user_group;type:varchar(64);not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (User) TableName() string {
	return "users"
}
