package service

import (
	"context"

	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/repository"
)

type PartnerService interface {
	// Supplier returns the supplier owned by the partner account.
	Supplier(ctx context.Context, user *model.User) (*model.Supplier, error)
	SetAcceptsOrders(ctx context.Context, user *model.User, accepts bool) (*model.Supplier, error)
}

type partnerService struct {
	suppliers repository.SupplierRepository
}

func NewPartnerService(suppliers repository.SupplierRepository) PartnerService {
	return &partnerService{suppliers: suppliers}
}

func (s *partnerService) Supplier(ctx context.Context, user *model.User) (*model.Supplier, error) {
	if user.Role != model.RolePartner && user.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	supplier, err := s.suppliers.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, ErrNotFound
	}
	return supplier, nil
}

func (s *partnerService) SetAcceptsOrders(ctx context.Context, user *model.User, accepts bool) (*model.Supplier, error) {
	supplier, err := s.Supplier(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.suppliers.SetAcceptsOrders(ctx, supplier.ID, accepts); err != nil {
		return nil, err
	}
	supplier.AcceptsOrders = accepts
	return supplier, nil
}
