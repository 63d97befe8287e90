package model

import "time"

type Contact struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"column:user_id;index;not null"`
	City      string `gorm:"size:100"`
	Street    string `gorm:"size:255"`
	House     string `gorm:"size:10"`
	Building  string `gorm:"size:10"`
	Apartment string `gorm:"size:10"`
	Phone     string `gorm:"size:20"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Contact) TableName() string {
	return "contacts"
}
