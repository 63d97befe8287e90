package repository

import (
	"context"
	"errors"

	"github.com/vterekhov/procurement-backend/internal/model"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, id uint64) (*model.Supplier, error)
	FindByUserID(ctx context.Context, userID uint64) (*model.Supplier, error)
	FindByName(ctx context.Context, name string) (*model.Supplier, error)
	List(ctx context.Context, acceptingOnly bool) ([]model.Supplier, error)
	SetAcceptsOrders(ctx context.Context, id uint64, accepts bool) error
}

type supplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) Create(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supplierRepository) FindByID(ctx context.Context, id uint64) (*model.Supplier, error) {
	var s model.Supplier
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *supplierRepository) FindByUserID(ctx context.Context, userID uint64) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *supplierRepository) FindByName(ctx context.Context, name string) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *supplierRepository) List(ctx context.Context, acceptingOnly bool) ([]model.Supplier, error) {
	q := r.db.WithContext(ctx).Order("name")
	if acceptingOnly {
		q = q.Where("accepts_orders = ?", true)
	}
	var suppliers []model.Supplier
	if err := q.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *supplierRepository) SetAcceptsOrders(ctx context.Context, id uint64, accepts bool) error {
	return r.db.WithContext(ctx).Model(&model.Supplier{}).
		Where("id = ?", id).Update("accepts_orders", accepts).Error
}
