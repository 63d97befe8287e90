package model

import "time"

// EmailConfirmToken activates a freshly registered account. Deleted on use.
type EmailConfirmToken struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"column:user_id;index;not null"`
	Token     string    `gorm:"size:64;uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time
}

func (EmailConfirmToken) TableName() string {
	return "email_confirm_tokens"
}

func (t EmailConfirmToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
