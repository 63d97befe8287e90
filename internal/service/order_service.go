package service

import (
	"context"
	"errors"

	"github.com/vterekhov/procurement-backend/internal/metrics"
	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderService interface {
	// GetBasket returns the user's live cart, nil when empty.
	GetBasket(ctx context.Context, userID uint64) (*model.Order, error)
	AddItem(ctx context.Context, userID, offerID uint64, quantity uint) (*model.Order, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID uint64, quantity uint) (*model.Order, error)
	RemoveItem(ctx context.Context, userID, itemID uint64) (*model.Order, error)
	ClearBasket(ctx context.Context, userID uint64) error

	Checkout(ctx context.Context, user *model.User, contactID uint64) (*model.Order, error)
	List(ctx context.Context, userID uint64, status *model.OrderStatus, limit, offset int) ([]model.Order, int64, error)
	Get(ctx context.Context, user *model.User, orderID uint64) (*model.Order, error)
	ListForSupplier(ctx context.Context, supplierID uint64, limit, offset int) ([]model.Order, int64, error)
	AdvanceStatus(ctx context.Context, actor *model.User, orderID uint64, to model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	orders    repository.OrderRepository
	catalog   repository.CatalogRepository
	contacts  repository.ContactRepository
	users     repository.UserRepository
	suppliers repository.SupplierRepository
	notify    NotificationService
	metrics   *metrics.AppMetrics
	log       *zap.Logger
}

func NewOrderService(
	orders repository.OrderRepository,
	catalog repository.CatalogRepository,
	contacts repository.ContactRepository,
	users repository.UserRepository,
	suppliers repository.SupplierRepository,
	notify NotificationService,
	m *metrics.AppMetrics,
	log *zap.Logger,
) OrderService {
	return &orderService{
		orders:    orders,
		catalog:   catalog,
		contacts:  contacts,
		users:     users,
		suppliers: suppliers,
		notify:    notify,
		metrics:   m,
		log:       log,
	}
}

func (s *orderService) GetBasket(ctx context.Context, userID uint64) (*model.Order, error) {
	return s.orders.FindBasket(ctx, userID)
}

func (s *orderService) AddItem(ctx context.Context, userID, offerID uint64, quantity uint) (*model.Order, error) {
	if quantity == 0 {
		return nil, validationf("quantity must be positive")
	}

	offer, err := s.catalog.FindOfferByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !offer.Supplier.AcceptsOrders {
		return nil, validationf("supplier is not accepting orders")
	}
	if offer.Quantity == 0 {
		return nil, ErrInsufficientStock
	}

	var basketID uint64
	err = s.orders.WithTx(ctx, func(tx repository.OrderRepository) error {
		basket, err := tx.FindBasketForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if basket == nil {
			basket = &model.Order{UserID: userID, Status: model.OrderStatusBasket}
			if err := tx.Create(ctx, basket); err != nil {
				return err
			}
		}
		basketID = basket.ID

		item, err := tx.FindItem(ctx, basket.ID, offerID)
		if err != nil {
			return err
		}
		total := quantity
		if item != nil {
			total += item.Quantity
		}
		if total > offer.Quantity {
			return ErrInsufficientStock
		}
		if item == nil {
			return tx.CreateItem(ctx, &model.OrderItem{OrderID: basket.ID, OfferID: offerID, Quantity: quantity})
		}
		return tx.UpdateItemQuantity(ctx, item.ID, total)
	})
	if err != nil {
		return nil, err
	}

	return s.orders.FindByID(ctx, basketID)
}

func (s *orderService) UpdateItemQuantity(ctx context.Context, userID, itemID uint64, quantity uint) (*model.Order, error) {
	if quantity == 0 {
		return nil, validationf("quantity must be positive")
	}

	var basketID uint64
	err := s.orders.WithTx(ctx, func(tx repository.OrderRepository) error {
		basket, item, err := s.basketItem(ctx, tx, userID, itemID)
		if err != nil {
			return err
		}
		basketID = basket.ID

		offer, err := s.catalog.FindOfferByID(ctx, item.OfferID)
		if err != nil {
			return err
		}
		if quantity > offer.Quantity {
			return ErrInsufficientStock
		}
		return tx.UpdateItemQuantity(ctx, item.ID, quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.orders.FindByID(ctx, basketID)
}

func (s *orderService) RemoveItem(ctx context.Context, userID, itemID uint64) (*model.Order, error) {
	var basketID uint64
	err := s.orders.WithTx(ctx, func(tx repository.OrderRepository) error {
		basket, item, err := s.basketItem(ctx, tx, userID, itemID)
		if err != nil {
			return err
		}
		basketID = basket.ID
		return tx.DeleteItem(ctx, item.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.orders.FindByID(ctx, basketID)
}

// basketItem resolves an item id against the user's basket, rejecting
// items of placed orders.
func (s *orderService) basketItem(ctx context.Context, tx repository.OrderRepository, userID, itemID uint64) (*model.Order, *model.OrderItem, error) {
	item, err := tx.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	basket, err := tx.FindBasketForUpdate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if basket == nil || basket.ID != item.OrderID {
		order, err := tx.FindByID(ctx, item.OrderID)
		if err != nil {
			return nil, nil, err
		}
		if order.UserID != userID {
			return nil, nil, ErrNotFound
		}
		return nil, nil, statef("order %d is not a basket", order.ID)
	}
	return basket, item, nil
}

func (s *orderService) ClearBasket(ctx context.Context, userID uint64) error {
	return s.orders.WithTx(ctx, func(tx repository.OrderRepository) error {
		basket, err := tx.FindBasketForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if basket == nil {
			return nil
		}
		return tx.Delete(ctx, basket.ID)
	})
}

func (s *orderService) Checkout(ctx context.Context, user *model.User, contactID uint64) (*model.Order, error) {
	contact, err := s.contacts.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if contact.UserID != user.ID {
		return nil, validationf("contact does not belong to user")
	}

	var placed *model.Order
	err = s.orders.WithTx(ctx, func(tx repository.OrderRepository) error {
		basket, err := tx.FindBasketForUpdate(ctx, user.ID)
		if err != nil {
			return err
		}
		if basket == nil {
			return ErrEmptyCart
		}
		count, err := tx.CountItems(ctx, basket.ID)
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrEmptyCart
		}

		basket.Status = model.OrderStatusNew
		basket.ContactID = &contact.ID
		basket.DeliveryCity = contact.City
		basket.DeliveryStreet = contact.Street
		basket.DeliveryHouse = contact.House
		basket.DeliveryBuilding = contact.Building
		basket.DeliveryApartment = contact.Apartment
		basket.DeliveryPhone = contact.Phone
		if err := tx.Update(ctx, basket); err != nil {
			return err
		}
		placed = basket
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.OrderPlaced(ctx, user, placed)
	if s.metrics != nil {
		s.metrics.OrdersPlaced.Add(ctx, 1)
	}
	s.log.Info("order placed", zap.Uint64("order_id", placed.ID), zap.Uint64("user_id", user.ID))

	return s.orders.FindByID(ctx, placed.ID)
}

func (s *orderService) List(ctx context.Context, userID uint64, status *model.OrderStatus, limit, offset int) ([]model.Order, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.orders.List(ctx, repository.OrderListFilter{
		UserID: userID,
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
}

func (s *orderService) Get(ctx context.Context, user *model.User, orderID uint64) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.UserID != user.ID && user.Role != model.RoleAdmin {
		return nil, ErrNotFound
	}
	return order, nil
}

func (s *orderService) ListForSupplier(ctx context.Context, supplierID uint64, limit, offset int) ([]model.Order, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.orders.List(ctx, repository.OrderListFilter{
		SupplierID: supplierID,
		Limit:      limit,
		Offset:     offset,
	})
}

func (s *orderService) AdvanceStatus(ctx context.Context, actor *model.User, orderID uint64, to model.OrderStatus) (*model.Order, error) {
	if actor.Role != model.RolePartner && actor.Role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	if !to.Valid() || to == model.OrderStatusBasket {
		return nil, validationf("unknown status %q", to)
	}

	var updated *model.Order
	err := s.orders.WithTx(ctx, func(tx repository.OrderRepository) error {
		order, err := tx.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if order.Status == model.OrderStatusBasket {
			return statef("order %d has not been placed", order.ID)
		}

		if actor.Role == model.RolePartner {
			supplier, err := s.suppliers.FindByUserID(ctx, actor.ID)
			if err != nil {
				return err
			}
			if supplier == nil || !orderHasSupplier(order, supplier.ID) {
				return ErrForbidden
			}
		}

		if !order.Status.CanTransition(to) {
			return statef("cannot transition %s -> %s", order.Status, to)
		}
		if err := tx.UpdateStatus(ctx, order.ID, to); err != nil {
			return err
		}
		order.Status = to
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if owner, err := s.users.FindByID(ctx, updated.UserID); err == nil {
		s.notify.OrderStatusChanged(ctx, owner, updated)
	} else {
		s.log.Warn("load order owner for notification", zap.Uint64("order_id", updated.ID), zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.StatusChanges.Add(ctx, 1)
	}

	return updated, nil
}

func orderHasSupplier(order *model.Order, supplierID uint64) bool {
	for _, item := range order.Items {
		if item.Offer.SupplierID == supplierID {
			return true
		}
	}
	return false
}
