package model

import "time"

type UserRole string

const (
	RoleBuyer   UserRole = "buyer"
	RolePartner UserRole = "partner"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	ID           uint64   `gorm:"primaryKey;autoIncrement"`
	Email        string   `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string   `gorm:"column:password_hash;size:128"`
	FirstName    string   `gorm:"column:first_name;size:100"`
	LastName     string   `gorm:"column:last_name;size:100"`
	Company      string   `gorm:"size:100"`
	Position     string   `gorm:"size:100"`
	Role         UserRole `gorm:"size:16;not null;default:'buyer'"`
	IsActive     bool     `gorm:"column:is_active;not null;default:false"`
	AvatarPath   *string  `gorm:"column:avatar_path;size:512"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}

// ExternalIdentity links a local account to an OAuth provider subject.
type ExternalIdentity struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"column:user_id;index;not null"`
	Provider  string `gorm:"size:32;not null;uniqueIndex:ux_identity_provider_subject"`
	SubjectID string `gorm:"column:subject_id;size:255;not null;uniqueIndex:ux_identity_provider_subject"`
	CreatedAt time.Time
}

func (ExternalIdentity) TableName() string {
	return "external_identities"
}
