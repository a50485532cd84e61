package model

import "time"

// Reminder is a one-shot scheduled message for a Telegram user.
// RemindAt is stored with second precision; Sent transitions false to true
// exactly once and is never reset.
type Reminder struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    int64     `gorm:"index;not null"`
	Text      string    `gorm:"type:text;not null"`
	RemindAt  time.Time `gorm:"index;not null"`
	Sent      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
