package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newOrderService(orders *mockOrderRepo, catalog *mockCatalogRepo, contacts *mockContactRepo, users *mockUserRepo, suppliers *mockSupplierRepo, notify *mockNotifier) OrderService {
	return NewOrderService(orders, catalog, contacts, users, suppliers, notify, nil, zap.NewNop())
}

func acceptingOffer(id uint64, stock uint) *model.ProductOffer {
	return &model.ProductOffer{
		ID:         id,
		SupplierID: 7,
		Quantity:   stock,
		Supplier:   model.Supplier{ID: 7, AcceptsOrders: true},
	}
}

func TestAddItemZeroQuantity(t *testing.T) {
	svc := newOrderService(&mockOrderRepo{}, &mockCatalogRepo{}, nil, nil, nil, nil)

	_, err := svc.AddItem(context.Background(), 1, 10, 0)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAddItemOfferNotFound(t *testing.T) {
	catalog := &mockCatalogRepo{
		findOfferByIDFn: func(ctx context.Context, id uint64) (*model.ProductOffer, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newOrderService(&mockOrderRepo{}, catalog, nil, nil, nil, nil)

	_, err := svc.AddItem(context.Background(), 1, 10, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddItemSupplierNotAccepting(t *testing.T) {
	offer := acceptingOffer(10, 5)
	offer.Supplier.AcceptsOrders = false
	catalog := &mockCatalogRepo{
		findOfferByIDFn: func(ctx context.Context, id uint64) (*model.ProductOffer, error) {
			return offer, nil
		},
	}
	svc := newOrderService(&mockOrderRepo{}, catalog, nil, nil, nil, nil)

	_, err := svc.AddItem(context.Background(), 1, 10, 1)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAddItemCreatesBasket(t *testing.T) {
	catalog := &mockCatalogRepo{
		findOfferByIDFn: func(ctx context.Context, id uint64) (*model.ProductOffer, error) {
			return acceptingOffer(10, 5), nil
		},
	}

	var created *model.OrderItem
	basketExists := false
	orders := &mockOrderRepo{
		findBasketFn: func(ctx context.Context, userID uint64) (*model.Order, error) {
			if !basketExists {
				return nil, nil
			}
			return &model.Order{ID: 42, UserID: userID, Status: model.OrderStatusBasket}, nil
		},
		createFn: func(ctx context.Context, o *model.Order) error {
			if o.Status != model.OrderStatusBasket {
				t.Fatalf("new order created with status %q", o.Status)
			}
			o.ID = 42
			basketExists = true
			return nil
		},
		findItemFn: func(ctx context.Context, orderID, offerID uint64) (*model.OrderItem, error) {
			return nil, nil
		},
		createItemFn: func(ctx context.Context, item *model.OrderItem) error {
			created = item
			return nil
		},
		findByIDFn: func(ctx context.Context, id uint64) (*model.Order, error) {
			return &model.Order{ID: id, Status: model.OrderStatusBasket}, nil
		},
	}
	svc := newOrderService(orders, catalog, nil, nil, nil, nil)

	basket, err := svc.AddItem(context.Background(), 1, 10, 3)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if basket.ID != 42 {
		t.Errorf("basket id = %d, want 42", basket.ID)
	}
	if created == nil || created.OrderID != 42 || created.OfferID != 10 || created.Quantity != 3 {
		t.Errorf("unexpected item created: %+v", created)
	}
}

func TestAddItemAccumulatesAgainstStock(t *testing.T) {
	catalog := &mockCatalogRepo{
		findOfferByIDFn: func(ctx context.Context, id uint64) (*model.ProductOffer, error) {
			return acceptingOffer(10, 5), nil
		},
	}
	orders := &mockOrderRepo{
		findBasketFn: func(ctx context.Context, userID uint64) (*model.Order, error) {
			return &model.Order{ID: 42, UserID: userID, Status: model.OrderStatusBasket}, nil
		},
		findItemFn: func(ctx context.Context, orderID, offerID uint64) (*model.OrderItem, error) {
			return &model.OrderItem{ID: 9, OrderID: 42, OfferID: 10, Quantity: 4}, nil
		},
	}
	svc := newOrderService(orders, catalog, nil, nil, nil, nil)

	// 4 already in the basket, 2 more exceeds stock of 5.
	_, err := svc.AddItem(context.Background(), 1, 10, 2)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestCheckoutEmptyBasket(t *testing.T) {
	contacts := &mockContactRepo{
		findByIDFn: func(ctx context.Context, id uint64) (*model.Contact, error) {
			return &model.Contact{ID: id, UserID: 1, City: "Москва", Phone: "+7 900 000 00 00"}, nil
		},
	}
	orders := &mockOrderRepo{
		findBasketFn: func(ctx context.Context, userID uint64) (*model.Order, error) {
			return nil, nil
		},
	}
	svc := newOrderService(orders, &mockCatalogRepo{}, contacts, nil, nil, &mockNotifier{})

	_, err := svc.Checkout(context.Background(), &model.User{ID: 1}, 5)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckoutForeignContact(t *testing.T) {
	contacts := &mockContactRepo{
		findByIDFn: func(ctx context.Context, id uint64) (*model.Contact, error) {
			return &model.Contact{ID: id, UserID: 99}, nil
		},
	}
	svc := newOrderService(&mockOrderRepo{}, &mockCatalogRepo{}, contacts, nil, nil, &mockNotifier{})

	_, err := svc.Checkout(context.Background(), &model.User{ID: 1}, 5)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCheckoutSnapshotsContact(t *testing.T) {
	contact := &model.Contact{
		ID:     5,
		UserID: 1,
		City:   "Москва",
		Street: "Тверская",
		House:  "1",
		Phone:  "+7 900 000 00 00",
	}
	contacts := &mockContactRepo{
		findByIDFn: func(ctx context.Context, id uint64) (*model.Contact, error) { return contact, nil },
	}

	var saved *model.Order
	orders := &mockOrderRepo{
		findBasketFn: func(ctx context.Context, userID uint64) (*model.Order, error) {
			return &model.Order{ID: 42, UserID: userID, Status: model.OrderStatusBasket}, nil
		},
		countItemsFn: func(ctx context.Context, orderID uint64) (int64, error) { return 2, nil },
		updateFn: func(ctx context.Context, o *model.Order) error {
			saved = o
			return nil
		},
		findByIDFn: func(ctx context.Context, id uint64) (*model.Order, error) {
			return saved, nil
		},
	}
	notify := &mockNotifier{}
	svc := newOrderService(orders, &mockCatalogRepo{}, contacts, nil, nil, notify)

	order, err := svc.Checkout(context.Background(), &model.User{ID: 1}, 5)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if order.Status != model.OrderStatusNew {
		t.Errorf("status = %q, want %q", order.Status, model.OrderStatusNew)
	}
	if order.DeliveryCity != "Москва" || order.DeliveryStreet != "Тверская" || order.DeliveryPhone != "+7 900 000 00 00" {
		t.Errorf("delivery snapshot not copied: %+v", order)
	}
	if len(notify.placed) != 1 || notify.placed[0] != 42 {
		t.Errorf("order placed notification = %v, want [42]", notify.placed)
	}
}

func TestAddItemReusesLockedBasket(t *testing.T) {
	catalog := &mockCatalogRepo{
		findOfferByIDFn: func(ctx context.Context, id uint64) (*model.ProductOffer, error) {
			return acceptingOffer(10, 5), nil
		},
	}

	// The plain read predates a concurrent insert; only the locked
	// read sees the basket. A second Create here would violate the
	// one-basket-per-user invariant.
	var created *model.OrderItem
	orders := &mockOrderRepo{
		findBasketFn: func(ctx context.Context, userID uint64) (*model.Order, error) {
			return nil, nil
		},
		findBasketForUpdateFn: func(ctx context.Context, userID uint64) (*model.Order, error) {
			return &model.Order{ID: 42, UserID: userID, Status: model.OrderStatusBasket}, nil
		},
		createFn: func(ctx context.Context, o *model.Order) error {
			t.Fatal("created a second basket instead of reusing the locked one")
			return nil
		},
		findItemFn: func(ctx context.Context, orderID, offerID uint64) (*model.OrderItem, error) {
			return nil, nil
		},
		createItemFn: func(ctx context.Context, item *model.OrderItem) error {
			created = item
			return nil
		},
		findByIDFn: func(ctx context.Context, id uint64) (*model.Order, error) {
			return &model.Order{ID: id, Status: model.OrderStatusBasket}, nil
		},
	}
	svc := newOrderService(orders, catalog, nil, nil, nil, nil)

	basket, err := svc.AddItem(context.Background(), 1, 10, 3)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if basket.ID != 42 {
		t.Errorf("basket id = %d, want 42", basket.ID)
	}
	if created == nil || created.OrderID != 42 {
		t.Errorf("item not added to the existing basket: %+v", created)
	}
}

func TestCheckoutLockedBasketGone(t *testing.T) {
	contacts := &mockContactRepo{
		findByIDFn: func(ctx context.Context, id uint64) (*model.Contact, error) {
			return &model.Contact{ID: id, UserID: 1, City: "Москва", Phone: "+7 900 000 00 00"}, nil
		},
	}

	// A concurrent checkout already placed the basket; the plain read
	// still returns the stale row but the locked read does not.
	orders := &mockOrderRepo{
		findBasketFn: func(ctx context.Context, userID uint64) (*model.Order, error) {
			return &model.Order{ID: 42, UserID: userID, Status: model.OrderStatusBasket}, nil
		},
		findBasketForUpdateFn: func(ctx context.Context, userID uint64) (*model.Order, error) {
			return nil, nil
		},
		updateFn: func(ctx context.Context, o *model.Order) error {
			t.Fatal("placed an order from a stale basket read")
			return nil
		},
	}
	notify := &mockNotifier{}
	svc := newOrderService(orders, &mockCatalogRepo{}, contacts, nil, nil, notify)

	_, err := svc.Checkout(context.Background(), &model.User{ID: 1}, 5)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if len(notify.placed) != 0 {
		t.Errorf("notification sent for an order that was not placed: %v", notify.placed)
	}
}

func TestAdvanceStatusRequiresPartner(t *testing.T) {
	svc := newOrderService(&mockOrderRepo{}, &mockCatalogRepo{}, nil, nil, nil, nil)

	_, err := svc.AdvanceStatus(context.Background(), &model.User{ID: 1, Role: model.RoleBuyer}, 42, model.OrderStatusConfirmed)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAdvanceStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    model.OrderStatus
		to      model.OrderStatus
		wantErr error
	}{
		{"new to confirmed", model.OrderStatusNew, model.OrderStatusConfirmed, nil},
		{"confirmed to assembled", model.OrderStatusConfirmed, model.OrderStatusAssembled, nil},
		{"sent to delivered", model.OrderStatusSent, model.OrderStatusDelivered, nil},
		{"cancel from new", model.OrderStatusNew, model.OrderStatusCanceled, nil},
		{"cancel from sent", model.OrderStatusSent, model.OrderStatusCanceled, nil},
		{"skip a step", model.OrderStatusNew, model.OrderStatusAssembled, ErrState},
		{"backwards", model.OrderStatusAssembled, model.OrderStatusConfirmed, ErrState},
		{"out of delivered", model.OrderStatusDelivered, model.OrderStatusCanceled, ErrState},
		{"out of canceled", model.OrderStatusCanceled, model.OrderStatusNew, ErrState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &model.Order{
				ID:     42,
				UserID: 1,
				Status: tt.from,
				Items: []model.OrderItem{
					{Offer: model.ProductOffer{SupplierID: 7}},
				},
			}
			orders := &mockOrderRepo{
				findByIDFn: func(ctx context.Context, id uint64) (*model.Order, error) { return order, nil },
				updateStatusFn: func(ctx context.Context, id uint64, status model.OrderStatus) error {
					return nil
				},
			}
			suppliers := &mockSupplierRepo{
				findByUserIDFn: func(ctx context.Context, userID uint64) (*model.Supplier, error) {
					return &model.Supplier{ID: 7, UserID: userID}, nil
				},
			}
			users := &mockUserRepo{
				findByIDFn: func(ctx context.Context, id uint64) (*model.User, error) {
					return &model.User{ID: id, Email: "buyer@example.com"}, nil
				},
			}
			svc := newOrderService(orders, &mockCatalogRepo{}, nil, users, suppliers, &mockNotifier{})

			actor := &model.User{ID: 2, Role: model.RolePartner}
			updated, err := svc.AdvanceStatus(context.Background(), actor, 42, tt.to)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AdvanceStatus: %v", err)
			}
			if updated.Status != tt.to {
				t.Errorf("status = %q, want %q", updated.Status, tt.to)
			}
		})
	}
}

func TestAdvanceStatusForeignSupplier(t *testing.T) {
	orders := &mockOrderRepo{
		findByIDFn: func(ctx context.Context, id uint64) (*model.Order, error) {
			return &model.Order{
				ID:     42,
				Status: model.OrderStatusNew,
				Items:  []model.OrderItem{{Offer: model.ProductOffer{SupplierID: 8}}},
			}, nil
		},
	}
	suppliers := &mockSupplierRepo{
		findByUserIDFn: func(ctx context.Context, userID uint64) (*model.Supplier, error) {
			return &model.Supplier{ID: 7, UserID: userID}, nil
		},
	}
	svc := newOrderService(orders, &mockCatalogRepo{}, nil, nil, suppliers, &mockNotifier{})

	_, err := svc.AdvanceStatus(context.Background(), &model.User{ID: 2, Role: model.RolePartner}, 42, model.OrderStatusConfirmed)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateItemOnPlacedOrder(t *testing.T) {
	orders := &mockOrderRepo{
		findItemByIDFn: func(ctx context.Context, id uint64) (*model.OrderItem, error) {
			return &model.OrderItem{ID: id, OrderID: 42, OfferID: 10, Quantity: 1}, nil
		},
		findBasketFn: func(ctx context.Context, userID uint64) (*model.Order, error) {
			return nil, nil
		},
		findByIDFn: func(ctx context.Context, id uint64) (*model.Order, error) {
			return &model.Order{ID: id, UserID: 1, Status: model.OrderStatusNew}, nil
		},
	}
	svc := newOrderService(orders, &mockCatalogRepo{}, nil, nil, nil, nil)

	_, err := svc.UpdateItemQuantity(context.Background(), 1, 9, 2)
	if !errors.Is(err, ErrState) {
		t.Fatalf("expected ErrState, got %v", err)
	}
}

func TestListForSupplierFilters(t *testing.T) {
	var got repository.OrderListFilter
	orders := &mockOrderRepo{
		listFn: func(ctx context.Context, f repository.OrderListFilter) ([]model.Order, int64, error) {
			got = f
			return nil, 0, nil
		},
	}
	svc := newOrderService(orders, &mockCatalogRepo{}, nil, nil, nil, nil)

	if _, _, err := svc.ListForSupplier(context.Background(), 7, 0, -5); err != nil {
		t.Fatalf("ListForSupplier: %v", err)
	}
	if got.SupplierID != 7 || got.Limit != 20 || got.Offset != 0 {
		t.Errorf("unexpected filter: %+v", got)
	}
}
