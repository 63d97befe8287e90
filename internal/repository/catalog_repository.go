package repository

import (
	"context"

	"github.com/vterekhov/procurement-backend/internal/model"
	"gorm.io/gorm"
)

// OfferFilter narrows the buyer/partner-facing offer listing.
type OfferFilter struct {
	Name        string
	Category    string
	Supplier    string
	PriceMin    *float64
	PriceMax    *float64
	QuantityMin *uint
	QuantityMax *uint

	// AcceptingOnly keeps only offers of suppliers with accepts_orders=true.
	AcceptingOnly bool
	// SupplierID scopes the listing to one supplier (partner views).
	SupplierID uint64

	Limit  int
	Offset int
}

type CatalogRepository interface {
	ListOffers(ctx context.Context, f OfferFilter) ([]model.ProductOffer, int64, error)
	FindOfferByID(ctx context.Context, id uint64) (*model.ProductOffer, error)
	ListCategories(ctx context.Context) ([]model.Category, error)

	GetOrCreateCategory(ctx context.Context, name string) (*model.Category, error)
	GetOrCreateProduct(ctx context.Context, name string, categoryID uint64) (*model.Product, error)
	ReplaceSupplierCategories(ctx context.Context, supplierID uint64, categoryIDs []uint64) error
	DeleteOffersBySupplier(ctx context.Context, supplierID uint64) error
	CreateOffer(ctx context.Context, offer *model.ProductOffer) error

	WithTx(ctx context.Context, fn func(tx CatalogRepository) error) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListOffers(ctx context.Context, f OfferFilter) ([]model.ProductOffer, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ProductOffer{}).
		Joins("JOIN products ON products.id = product_offers.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Joins("JOIN suppliers ON suppliers.id = product_offers.supplier_id")

	if f.AcceptingOnly {
		q = q.Where("suppliers.accepts_orders = ?", true)
	}
	if f.SupplierID != 0 {
		q = q.Where("product_offers.supplier_id = ?", f.SupplierID)
	}
	if f.Name != "" {
		q = q.Where("products.name LIKE ?", "%"+f.Name+"%")
	}
	if f.Category != "" {
		q = q.Where("categories.name LIKE ?", "%"+f.Category+"%")
	}
	if f.Supplier != "" {
		q = q.Where("suppliers.name LIKE ?", "%"+f.Supplier+"%")
	}
	if f.PriceMin != nil {
		q = q.Where("product_offers.price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("product_offers.price <= ?", *f.PriceMax)
	}
	if f.QuantityMin != nil {
		q = q.Where("product_offers.quantity >= ?", *f.QuantityMin)
	}
	if f.QuantityMax != nil {
		q = q.Where("product_offers.quantity <= ?", *f.QuantityMax)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var offers []model.ProductOffer
	err := q.
		Preload("Product.Category").
		Preload("Supplier").
		Preload("Parameters").
		Order("products.name").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&offers).Error
	if err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}

func (r *catalogRepository) FindOfferByID(ctx context.Context, id uint64) (*model.ProductOffer, error) {
	var offer model.ProductOffer
	err := r.db.WithContext(ctx).
		Preload("Product.Category").
		Preload("Supplier").
		Preload("Parameters").
		First(&offer, id).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Preload("Suppliers").Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *catalogRepository) GetOrCreateCategory(ctx context.Context, name string) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Where(model.Category{Name: name}).FirstOrCreate(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *catalogRepository) GetOrCreateProduct(ctx context.Context, name string, categoryID uint64) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where(model.Product{Name: name, CategoryID: categoryID}).
		FirstOrCreate(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *catalogRepository) ReplaceSupplierCategories(ctx context.Context, supplierID uint64, categoryIDs []uint64) error {
	categories := make([]model.Category, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		categories = append(categories, model.Category{ID: id})
	}
	return r.db.WithContext(ctx).
		Model(&model.Supplier{ID: supplierID}).
		Association("Categories").
		Replace(categories)
}

func (r *catalogRepository) DeleteOffersBySupplier(ctx context.Context, supplierID uint64) error {
	sub := r.db.Model(&model.ProductOffer{}).Select("id").Where("supplier_id = ?", supplierID)
	if err := r.db.WithContext(ctx).Where("offer_id IN (?)", sub).Delete(&model.OfferParameter{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("supplier_id = ?", supplierID).Delete(&model.ProductOffer{}).Error
}

func (r *catalogRepository) CreateOffer(ctx context.Context, offer *model.ProductOffer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *catalogRepository) WithTx(ctx context.Context, fn func(tx CatalogRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(txdb *gorm.DB) error {
		return fn(&catalogRepository{db: txdb})
	})
}
