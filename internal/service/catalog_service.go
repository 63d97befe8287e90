package service

import (
	"context"
	"errors"

	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/repository"
	"gorm.io/gorm"
)

type CatalogService interface {
	// ListOffers serves the buyer-facing catalog: only offers from
	// suppliers that accept orders.
	ListOffers(ctx context.Context, f repository.OfferFilter) ([]model.ProductOffer, int64, error)
	// ListSupplierOffers serves the partner's own unrestricted view.
	ListSupplierOffers(ctx context.Context, supplierID uint64, limit, offset int) ([]model.ProductOffer, int64, error)
	GetOffer(ctx context.Context, id uint64) (*model.ProductOffer, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
}

type catalogService struct {
	catalog   repository.CatalogRepository
	suppliers repository.SupplierRepository
}

func NewCatalogService(catalog repository.CatalogRepository, suppliers repository.SupplierRepository) CatalogService {
	return &catalogService{catalog: catalog, suppliers: suppliers}
}

func (s *catalogService) ListOffers(ctx context.Context, f repository.OfferFilter) ([]model.ProductOffer, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.AcceptingOnly = true
	f.SupplierID = 0
	return s.catalog.ListOffers(ctx, f)
}

func (s *catalogService) ListSupplierOffers(ctx context.Context, supplierID uint64, limit, offset int) ([]model.ProductOffer, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.catalog.ListOffers(ctx, repository.OfferFilter{
		SupplierID: supplierID,
		Limit:      limit,
		Offset:     offset,
	})
}

func (s *catalogService) GetOffer(ctx context.Context, id uint64) (*model.ProductOffer, error) {
	offer, err := s.catalog.FindOfferByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return offer, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.catalog.ListCategories(ctx)
}

func (s *catalogService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.suppliers.List(ctx, true)
}
