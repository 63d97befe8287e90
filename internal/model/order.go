package model

import "time"

type OrderStatus string

const (
	OrderStatusBasket    OrderStatus = "basket"
	OrderStatusNew       OrderStatus = "new"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusAssembled OrderStatus = "assembled"
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// nextStatus holds the single legal forward transition per status.
// Cancel is additionally allowed from every non-terminal status.
var nextStatus = map[OrderStatus]OrderStatus{
	OrderStatusBasket:    OrderStatusNew,
	OrderStatusNew:       OrderStatusConfirmed,
	OrderStatusConfirmed: OrderStatusAssembled,
	OrderStatusAssembled: OrderStatusSent,
	OrderStatusSent:      OrderStatusDelivered,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusBasket, OrderStatusNew, OrderStatusConfirmed,
		OrderStatusAssembled, OrderStatusSent, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCanceled
}

// CanTransition reports whether an order may move from s to to.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if to == OrderStatusCanceled {
		return !s.Terminal()
	}
	return nextStatus[s] == to
}

type Order struct {
	ID        uint64      `gorm:"primaryKey;autoIncrement"`
	UserID    uint64      `gorm:"column:user_id;index;not null"`
	Status    OrderStatus `gorm:"size:16;not null;default:'basket';index"`
	ContactID *uint64     `gorm:"column:contact_id"`

	// Delivery contact snapshot, filled at checkout. Later contact
	// edits never change a placed order.
	DeliveryCity      string `gorm:"column:delivery_city;size:100"`
	DeliveryStreet    string `gorm:"column:delivery_street;size:255"`
	DeliveryHouse     string `gorm:"column:delivery_house;size:10"`
	DeliveryBuilding  string `gorm:"column:delivery_building;size:10"`
	DeliveryApartment string `gorm:"column:delivery_apartment;size:10"`
	DeliveryPhone     string `gorm:"column:delivery_phone;size:20"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	OrderID  uint64 `gorm:"column:order_id;not null;uniqueIndex:ux_order_items_order_offer"`
	OfferID  uint64 `gorm:"column:offer_id;not null;uniqueIndex:ux_order_items_order_offer"`
	Quantity uint   `gorm:"not null"`

	Offer ProductOffer `gorm:"foreignKey:OfferID"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
