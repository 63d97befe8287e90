package service

import (
	"context"

	"github.com/vterekhov/procurement-backend/internal/model"
	"github.com/vterekhov/procurement-backend/internal/queue"
	"github.com/vterekhov/procurement-backend/internal/repository"
)

type mockUserRepo struct {
	createFn           func(ctx context.Context, u *model.User) error
	findByIDFn         func(ctx context.Context, id uint64) (*model.User, error)
	findByEmailFn      func(ctx context.Context, email string) (*model.User, error)
	existsByEmailFn    func(ctx context.Context, email string) (bool, error)
	updateFn           func(ctx context.Context, u *model.User) error
	updateAvatarPathFn func(ctx context.Context, id uint64, path string) error
	createConfirmFn    func(ctx context.Context, t *model.EmailConfirmToken) error
	findConfirmFn      func(ctx context.Context, token string) (*model.EmailConfirmToken, error)
	deleteConfirmFn    func(ctx context.Context, id uint64) error
	findIdentityFn     func(ctx context.Context, provider, subjectID string) (*model.ExternalIdentity, error)
	createIdentityFn   func(ctx context.Context, ident *model.ExternalIdentity) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *model.User) error { return m.createFn(ctx, u) }
func (m *mockUserRepo) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.findByEmailFn(ctx, email)
}
func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.existsByEmailFn(ctx, email)
}
func (m *mockUserRepo) Update(ctx context.Context, u *model.User) error { return m.updateFn(ctx, u) }
func (m *mockUserRepo) UpdateAvatarPath(ctx context.Context, id uint64, path string) error {
	return m.updateAvatarPathFn(ctx, id, path)
}
func (m *mockUserRepo) CreateConfirmToken(ctx context.Context, t *model.EmailConfirmToken) error {
	return m.createConfirmFn(ctx, t)
}
func (m *mockUserRepo) FindConfirmToken(ctx context.Context, token string) (*model.EmailConfirmToken, error) {
	return m.findConfirmFn(ctx, token)
}
func (m *mockUserRepo) DeleteConfirmToken(ctx context.Context, id uint64) error {
	return m.deleteConfirmFn(ctx, id)
}
func (m *mockUserRepo) FindIdentity(ctx context.Context, provider, subjectID string) (*model.ExternalIdentity, error) {
	return m.findIdentityFn(ctx, provider, subjectID)
}
func (m *mockUserRepo) CreateIdentity(ctx context.Context, ident *model.ExternalIdentity) error {
	return m.createIdentityFn(ctx, ident)
}

type mockSupplierRepo struct {
	createFn       func(ctx context.Context, s *model.Supplier) error
	findByIDFn     func(ctx context.Context, id uint64) (*model.Supplier, error)
	findByUserIDFn func(ctx context.Context, userID uint64) (*model.Supplier, error)
	findByNameFn   func(ctx context.Context, name string) (*model.Supplier, error)
	listFn         func(ctx context.Context, acceptingOnly bool) ([]model.Supplier, error)
	setAcceptsFn   func(ctx context.Context, id uint64, accepts bool) error
}

func (m *mockSupplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	return m.createFn(ctx, s)
}
func (m *mockSupplierRepo) FindByID(ctx context.Context, id uint64) (*model.Supplier, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockSupplierRepo) FindByUserID(ctx context.Context, userID uint64) (*model.Supplier, error) {
	return m.findByUserIDFn(ctx, userID)
}
func (m *mockSupplierRepo) FindByName(ctx context.Context, name string) (*model.Supplier, error) {
	return m.findByNameFn(ctx, name)
}
func (m *mockSupplierRepo) List(ctx context.Context, acceptingOnly bool) ([]model.Supplier, error) {
	return m.listFn(ctx, acceptingOnly)
}
func (m *mockSupplierRepo) SetAcceptsOrders(ctx context.Context, id uint64, accepts bool) error {
	return m.setAcceptsFn(ctx, id, accepts)
}

type mockCatalogRepo struct {
	listOffersFn        func(ctx context.Context, f repository.OfferFilter) ([]model.ProductOffer, int64, error)
	findOfferByIDFn     func(ctx context.Context, id uint64) (*model.ProductOffer, error)
	listCategoriesFn    func(ctx context.Context) ([]model.Category, error)
	getOrCreateCatFn    func(ctx context.Context, name string) (*model.Category, error)
	getOrCreateProdFn   func(ctx context.Context, name string, categoryID uint64) (*model.Product, error)
	replaceCategoriesFn func(ctx context.Context, supplierID uint64, categoryIDs []uint64) error
	deleteOffersFn      func(ctx context.Context, supplierID uint64) error
	createOfferFn       func(ctx context.Context, offer *model.ProductOffer) error
}

func (m *mockCatalogRepo) ListOffers(ctx context.Context, f repository.OfferFilter) ([]model.ProductOffer, int64, error) {
	return m.listOffersFn(ctx, f)
}
func (m *mockCatalogRepo) FindOfferByID(ctx context.Context, id uint64) (*model.ProductOffer, error) {
	return m.findOfferByIDFn(ctx, id)
}
func (m *mockCatalogRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	return m.listCategoriesFn(ctx)
}
func (m *mockCatalogRepo) GetOrCreateCategory(ctx context.Context, name string) (*model.Category, error) {
	return m.getOrCreateCatFn(ctx, name)
}
func (m *mockCatalogRepo) GetOrCreateProduct(ctx context.Context, name string, categoryID uint64) (*model.Product, error) {
	return m.getOrCreateProdFn(ctx, name, categoryID)
}
func (m *mockCatalogRepo) ReplaceSupplierCategories(ctx context.Context, supplierID uint64, categoryIDs []uint64) error {
	return m.replaceCategoriesFn(ctx, supplierID, categoryIDs)
}
func (m *mockCatalogRepo) DeleteOffersBySupplier(ctx context.Context, supplierID uint64) error {
	return m.deleteOffersFn(ctx, supplierID)
}
func (m *mockCatalogRepo) CreateOffer(ctx context.Context, offer *model.ProductOffer) error {
	return m.createOfferFn(ctx, offer)
}
func (m *mockCatalogRepo) WithTx(ctx context.Context, fn func(tx repository.CatalogRepository) error) error {
	return fn(m)
}

type mockOrderRepo struct {
	findBasketFn          func(ctx context.Context, userID uint64) (*model.Order, error)
	findBasketForUpdateFn func(ctx context.Context, userID uint64) (*model.Order, error)
	createFn              func(ctx context.Context, o *model.Order) error
	findByIDFn            func(ctx context.Context, id uint64) (*model.Order, error)
	listFn                func(ctx context.Context, f repository.OrderListFilter) ([]model.Order, int64, error)
	updateFn              func(ctx context.Context, o *model.Order) error
	updateStatusFn        func(ctx context.Context, id uint64, status model.OrderStatus) error
	deleteFn              func(ctx context.Context, id uint64) error
	findItemFn            func(ctx context.Context, orderID, offerID uint64) (*model.OrderItem, error)
	findItemByIDFn        func(ctx context.Context, id uint64) (*model.OrderItem, error)
	createItemFn          func(ctx context.Context, item *model.OrderItem) error
	updateItemQtyFn       func(ctx context.Context, id uint64, quantity uint) error
	deleteItemFn          func(ctx context.Context, id uint64) error
	deleteItemsFn         func(ctx context.Context, orderID uint64) error
	countItemsFn          func(ctx context.Context, orderID uint64) (int64, error)
}

func (m *mockOrderRepo) FindBasket(ctx context.Context, userID uint64) (*model.Order, error) {
	return m.findBasketFn(ctx, userID)
}
func (m *mockOrderRepo) FindBasketForUpdate(ctx context.Context, userID uint64) (*model.Order, error) {
	if m.findBasketForUpdateFn != nil {
		return m.findBasketForUpdateFn(ctx, userID)
	}
	return m.findBasketFn(ctx, userID)
}
func (m *mockOrderRepo) Create(ctx context.Context, o *model.Order) error { return m.createFn(ctx, o) }
func (m *mockOrderRepo) FindByID(ctx context.Context, id uint64) (*model.Order, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockOrderRepo) List(ctx context.Context, f repository.OrderListFilter) ([]model.Order, int64, error) {
	return m.listFn(ctx, f)
}
func (m *mockOrderRepo) Update(ctx context.Context, o *model.Order) error { return m.updateFn(ctx, o) }
func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) error {
	return m.updateStatusFn(ctx, id, status)
}
func (m *mockOrderRepo) Delete(ctx context.Context, id uint64) error { return m.deleteFn(ctx, id) }
func (m *mockOrderRepo) FindItem(ctx context.Context, orderID, offerID uint64) (*model.OrderItem, error) {
	return m.findItemFn(ctx, orderID, offerID)
}
func (m *mockOrderRepo) FindItemByID(ctx context.Context, id uint64) (*model.OrderItem, error) {
	return m.findItemByIDFn(ctx, id)
}
func (m *mockOrderRepo) CreateItem(ctx context.Context, item *model.OrderItem) error {
	return m.createItemFn(ctx, item)
}
func (m *mockOrderRepo) UpdateItemQuantity(ctx context.Context, id uint64, quantity uint) error {
	return m.updateItemQtyFn(ctx, id, quantity)
}
func (m *mockOrderRepo) DeleteItem(ctx context.Context, id uint64) error {
	return m.deleteItemFn(ctx, id)
}
func (m *mockOrderRepo) DeleteItems(ctx context.Context, orderID uint64) error {
	return m.deleteItemsFn(ctx, orderID)
}
func (m *mockOrderRepo) CountItems(ctx context.Context, orderID uint64) (int64, error) {
	return m.countItemsFn(ctx, orderID)
}
func (m *mockOrderRepo) WithTx(ctx context.Context, fn func(tx repository.OrderRepository) error) error {
	return fn(m)
}

type mockContactRepo struct {
	createFn     func(ctx context.Context, c *model.Contact) error
	findByIDFn   func(ctx context.Context, id uint64) (*model.Contact, error)
	listByUserFn func(ctx context.Context, userID uint64) ([]model.Contact, error)
	updateFn     func(ctx context.Context, c *model.Contact) error
	deleteFn     func(ctx context.Context, id uint64) error
}

func (m *mockContactRepo) Create(ctx context.Context, c *model.Contact) error {
	return m.createFn(ctx, c)
}
func (m *mockContactRepo) FindByID(ctx context.Context, id uint64) (*model.Contact, error) {
	return m.findByIDFn(ctx, id)
}
func (m *mockContactRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Contact, error) {
	return m.listByUserFn(ctx, userID)
}
func (m *mockContactRepo) Update(ctx context.Context, c *model.Contact) error {
	return m.updateFn(ctx, c)
}
func (m *mockContactRepo) Delete(ctx context.Context, id uint64) error { return m.deleteFn(ctx, id) }

type mockTaskQueue struct {
	tasks []queue.Task
	err   error
}

func (m *mockTaskQueue) Enqueue(ctx context.Context, task queue.Task) error {
	if m.err != nil {
		return m.err
	}
	m.tasks = append(m.tasks, task)
	return nil
}

type mockNotifier struct {
	placed    []uint64
	statuses  []model.OrderStatus
	confirmed []string
}

func (m *mockNotifier) OrderPlaced(ctx context.Context, user *model.User, order *model.Order) {
	m.placed = append(m.placed, order.ID)
}
func (m *mockNotifier) OrderStatusChanged(ctx context.Context, user *model.User, order *model.Order) {
	m.statuses = append(m.statuses, order.Status)
}
func (m *mockNotifier) ConfirmRegistration(ctx context.Context, user *model.User, confirmURL string) {
	m.confirmed = append(m.confirmed, confirmURL)
}
