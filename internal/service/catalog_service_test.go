package service

import (
	"context"
	"testing"

	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/repository"
)

func TestListOffersBuyerView(t *testing.T) {
	var got repository.OfferFilter
	catalog := &mockCatalogRepo{
		listOffersFn: func(ctx context.Context, f repository.OfferFilter) ([]model.ProductOffer, int64, error) {
			got = f
			return nil, 0, nil
		},
	}
	svc := NewCatalogService(catalog, &mockSupplierRepo{})

	_, _, err := svc.ListOffers(context.Background(), repository.OfferFilter{
		Name:       "iphone",
		SupplierID: 7,
		Limit:      500,
	})
	if err != nil {
		t.Fatalf("ListOffers: %v", err)
	}
	if !got.AcceptingOnly {
		t.Error("buyer listing must be restricted to accepting suppliers")
	}
	if got.SupplierID != 0 {
		t.Error("buyer listing must not be scoped to a supplier")
	}
	if got.Limit != 20 {
		t.Errorf("limit = %d, want capped default 20", got.Limit)
	}
}

func TestListSupplierOffersScoped(t *testing.T) {
	var got repository.OfferFilter
	catalog := &mockCatalogRepo{
		listOffersFn: func(ctx context.Context, f repository.OfferFilter) ([]model.ProductOffer, int64, error) {
			got = f
			return nil, 0, nil
		},
	}
	svc := NewCatalogService(catalog, &mockSupplierRepo{})

	if _, _, err := svc.ListSupplierOffers(context.Background(), 7, 10, 0); err != nil {
		t.Fatalf("ListSupplierOffers: %v", err)
	}
	if got.SupplierID != 7 || got.AcceptingOnly {
		t.Errorf("unexpected filter: %+v", got)
	}
}

func TestListSuppliersAcceptingOnly(t *testing.T) {
	var gotAccepting bool
	suppliers := &mockSupplierRepo{
		listFn: func(ctx context.Context, acceptingOnly bool) ([]model.Supplier, error) {
			gotAccepting = acceptingOnly
			return nil, nil
		},
	}
	svc := NewCatalogService(&mockCatalogRepo{}, suppliers)

	if _, err := svc.ListSuppliers(context.Background()); err != nil {
		t.Fatalf("ListSuppliers: %v", err)
	}
	if !gotAccepting {
		t.Error("public supplier list should only show accepting suppliers")
	}
}
