package model

import "time"

// User is a Telegram account the bot has seen at least once.
// The ID comes from Telegram and is never generated locally.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	Username  string    `gorm:"type:text"`
	FirstName string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
