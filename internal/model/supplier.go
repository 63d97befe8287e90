package model

import "time"

type Supplier struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	Name          string `gorm:"size:255;uniqueIndex;not null"`
	URL           *string
	UserID        uint64 `gorm:"column:user_id;uniqueIndex;not null"`
	AcceptsOrders bool   `gorm:"column:accepts_orders;not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Categories []Category `gorm:"many2many:supplier_categories"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
