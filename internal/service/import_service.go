package service

import (
	"context"

	"github.com/vterekhov/procurement-backend/internal/metrics"
	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/pricelist"
	"github.com/vterekhov/procurement-backend/internal/repository"
	"go.uber.org/zap"
)

type ImportResult struct {
	SupplierID uint64
	Categories int
	Offers     int
}

type ImportService interface {
	// Import replaces the supplier's whole offer set with the document
	// contents in one transaction. The supplier is resolved by the
	// document's shop name and must belong to the calling partner.
	Import(ctx context.Context, user *model.User, doc *pricelist.Document) (*ImportResult, error)
}

type importService struct {
	suppliers repository.SupplierRepository
	catalog   repository.CatalogRepository
	metrics   *metrics.AppMetrics
	log       *zap.Logger
}

func NewImportService(suppliers repository.SupplierRepository, catalog repository.CatalogRepository, m *metrics.AppMetrics, log *zap.Logger) ImportService {
	return &importService{suppliers: suppliers, catalog: catalog, metrics: m, log: log}
}

func (s *importService) Import(ctx context.Context, user *model.User, doc *pricelist.Document) (*ImportResult, error) {
	if user.Role != model.RolePartner && user.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}

	supplier, err := s.suppliers.FindByName(ctx, doc.Shop)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		owned, err := s.suppliers.FindByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if owned != nil {
			// One supplier per partner account; a rename is not an import concern.
			return nil, validationf("account already owns supplier %q", owned.Name)
		}
		supplier = &model.Supplier{Name: doc.Shop, UserID: user.ID, AcceptsOrders: true}
		if err := s.suppliers.Create(ctx, supplier); err != nil {
			return nil, err
		}
	} else if supplier.UserID != user.ID && user.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}

	result := &ImportResult{SupplierID: supplier.ID}

	err = s.catalog.WithTx(ctx, func(tx repository.CatalogRepository) error {
		categoryIDs := make(map[string]uint64, len(doc.Categories))
		ids := make([]uint64, 0, len(doc.Categories))
		for _, name := range doc.Categories {
			c, err := tx.GetOrCreateCategory(ctx, name)
			if err != nil {
				return err
			}
			categoryIDs[name] = c.ID
			ids = append(ids, c.ID)
		}
		if err := tx.ReplaceSupplierCategories(ctx, supplier.ID, ids); err != nil {
			return err
		}

		if err := tx.DeleteOffersBySupplier(ctx, supplier.ID); err != nil {
			return err
		}

		for _, g := range doc.Goods {
			product, err := tx.GetOrCreateProduct(ctx, g.Name, categoryIDs[g.Category])
			if err != nil {
				return err
			}
			offer := &model.ProductOffer{
				SupplierID: supplier.ID,
				ProductID:  product.ID,
				ExternalID: g.ExternalID,
				Model:      g.Model,
				Name:       g.Name,
				Price:      g.Price,
				PriceRRC:   g.PriceRRC,
				Quantity:   g.Quantity,
			}
			for name, value := range g.Parameters {
				offer.Parameters = append(offer.Parameters, model.OfferParameter{Name: name, Value: value})
			}
			if err := tx.CreateOffer(ctx, offer); err != nil {
				return err
			}
		}

		result.Categories = len(doc.Categories)
		result.Offers = len(doc.Goods)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.PriceImports.Add(ctx, 1)
		s.metrics.OffersImported.Add(ctx, int64(result.Offers))
	}
	s.log.Info("price list imported",
		zap.Uint64("supplier_id", supplier.ID),
		zap.String("supplier", doc.Shop),
		zap.Int("offers", result.Offers))

	return result, nil
}
