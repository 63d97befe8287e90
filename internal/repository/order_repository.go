package repository

import (
	"context"
	"errors"

	"github.com/vterekhov/procurement-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderListFilter struct {
	UserID uint64
	Status *model.OrderStatus
	// SupplierID keeps orders containing at least one of the supplier's
	// offers (partner order listing).
	SupplierID uint64
	Limit      int
	Offset     int
}

type OrderRepository interface {
	FindBasket(ctx context.Context, userID uint64) (*model.Order, error)
	// FindBasketForUpdate takes a row lock on the basket. Call it
	// inside WithTx before creating or mutating the basket, so
	// concurrent requests for the same user serialize instead of both
	// observing the pre-write state.
	FindBasketForUpdate(ctx context.Context, userID uint64) (*model.Order, error)
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id uint64) (*model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
	Update(ctx context.Context, o *model.Order) error
	UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) error
	Delete(ctx context.Context, id uint64) error

	FindItem(ctx context.Context, orderID, offerID uint64) (*model.OrderItem, error)
	FindItemByID(ctx context.Context, id uint64) (*model.OrderItem, error)
	CreateItem(ctx context.Context, item *model.OrderItem) error
	UpdateItemQuantity(ctx context.Context, id uint64, quantity uint) error
	DeleteItem(ctx context.Context, id uint64) error
	DeleteItems(ctx context.Context, orderID uint64) error
	CountItems(ctx context.Context, orderID uint64) (int64, error)

	WithTx(ctx context.Context, fn func(tx OrderRepository) error) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) FindBasket(ctx context.Context, userID uint64) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Offer.Product.Category").
		Preload("Items.Offer.Supplier").
		Where("user_id = ? AND status = ?", userID, model.OrderStatusBasket).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) FindBasketForUpdate(ctx context.Context, userID uint64) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND status = ?", userID, model.OrderStatusBasket).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uint64) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Offer.Product.Category").
		Preload("Items.Offer.Supplier").
		First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status <> ?", model.OrderStatusBasket)
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.SupplierID != 0 {
		q = q.Where("id IN (?)", r.db.Model(&model.OrderItem{}).
			Select("order_items.order_id").
			Joins("JOIN product_offers ON product_offers.id = order_items.offer_id").
			Where("product_offers.supplier_id = ?", f.SupplierID))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	err := q.
		Preload("Items.Offer.Product.Category").
		Preload("Items.Offer.Supplier").
		Order("created_at desc").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) Update(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepository) Delete(ctx context.Context, id uint64) error {
	if err := r.DeleteItems(ctx, id); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&model.Order{}, id).Error
}

func (r *orderRepository) FindItem(ctx context.Context, orderID, offerID uint64) (*model.OrderItem, error) {
	var item model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND offer_id = ?", orderID, offerID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *orderRepository) FindItemByID(ctx context.Context, id uint64) (*model.OrderItem, error) {
	var item model.OrderItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *orderRepository) CreateItem(ctx context.Context, item *model.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *orderRepository) UpdateItemQuantity(ctx context.Context, id uint64, quantity uint) error {
	return r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *orderRepository) DeleteItem(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&model.OrderItem{}, id).Error
}

func (r *orderRepository) DeleteItems(ctx context.Context, orderID uint64) error {
	return r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error
}

func (r *orderRepository) CountItems(ctx context.Context, orderID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Where("order_id = ?", orderID).Count(&count).Error
	return count, err
}

func (r *orderRepository) WithTx(ctx context.Context, fn func(tx OrderRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(txdb *gorm.DB) error {
		return fn(&orderRepository{db: txdb})
	})
}
