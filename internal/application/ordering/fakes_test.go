package ordering

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopdesk/backend/internal/domain/catalog"
	"github.com/shopdesk/backend/internal/domain/ordering"
	"github.com/shopdesk/backend/internal/domain/shared"
)

// fakeStore is an in-memory backing store shared by the fake repositories.
// Lookups return copies so that only Update/Create calls are visible to
// later reads, mirroring a real persistence layer.
type fakeStore struct {
	customers map[uuid.UUID]catalog.Customer
	products  map[uuid.UUID]catalog.Product
	orders    map[uuid.UUID]ordering.Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers: make(map[uuid.UUID]catalog.Customer),
		products:  make(map[uuid.UUID]catalog.Product),
		orders:    make(map[uuid.UUID]ordering.Order),
	}
}

func (s *fakeStore) scope() *NoOpTransactionScope {
	return NewNoOpTransactionScope(
		&fakeCustomerRepo{store: s},
		&fakeProductRepo{store: s},
		&fakeOrderRepo{store: s},
	)
}

type fakeCustomerRepo struct {
	store *fakeStore
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *catalog.Customer) error {
	for _, existing := range r.store.customers {
		if existing.Email == customer.Email {
			return shared.ErrAlreadyExists
		}
	}
	r.store.customers[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Customer, error) {
	customer, ok := r.store.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &customer, nil
}

func (r *fakeCustomerRepo) FindByEmail(_ context.Context, email string) (*catalog.Customer, error) {
	for _, customer := range r.store.customers {
		if customer.Email == email {
			c := customer
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCustomerRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Customer, error) {
	customers := make([]catalog.Customer, 0, len(r.store.customers))
	for _, customer := range r.store.customers {
		customers = append(customers, customer)
	}
	return customers, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *catalog.Customer) error {
	if _, ok := r.store.customers[customer.ID]; !ok {
		return shared.ErrNotFound
	}
	r.store.customers[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.customers[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.store.customers, id)
	return nil
}

type fakeProductRepo struct {
	store *fakeStore
}

func (r *fakeProductRepo) Create(_ context.Context, product *catalog.Product) error {
	r.store.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, ok := r.store.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &product, nil
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	products := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := r.store.products[id]; ok {
			products = append(products, product)
		}
	}
	return products, nil
}

func (r *fakeProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	products := make([]catalog.Product, 0, len(r.store.products))
	for _, product := range r.store.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *catalog.Product) error {
	if _, ok := r.store.products[product.ID]; !ok {
		return shared.ErrNotFound
	}
	r.store.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.store.products, id)
	return nil
}

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) Create(_ context.Context, order *ordering.Order) error {
	r.store.orders[order.ID] = *order
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*ordering.Order, error) {
	order, ok := r.store.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	order.Items = append([]ordering.LineItem(nil), order.Items...)
	return &order, nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]ordering.Order, error) {
	orders := make([]ordering.Order, 0, len(r.store.orders))
	for _, order := range r.store.orders {
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *fakeOrderRepo) FindByCustomer(_ context.Context, customerID uuid.UUID) ([]ordering.Order, error) {
	orders := make([]ordering.Order, 0)
	for _, order := range r.store.orders {
		if order.CustomerID == customerID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (r *fakeOrderRepo) UpdateFields(_ context.Context, id uuid.UUID, patch ordering.OrderPatch) error {
	order, ok := r.store.orders[id]
	if !ok {
		return shared.ErrNotFound
	}
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if patch.TotalAmount != nil {
		order.TotalAmount = *patch.TotalAmount
	}
	if patch.PlacedAt != nil {
		order.PlacedAt = *patch.PlacedAt
	}
	r.store.orders[id] = order
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.orders[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.store.orders, id)
	return nil
}

func (r *fakeOrderRepo) ReplaceItems(_ context.Context, orderID uuid.UUID, items []ordering.LineItem) error {
	order, ok := r.store.orders[orderID]
	if !ok {
		return shared.ErrNotFound
	}
	order.Items = append([]ordering.LineItem(nil), items...)
	r.store.orders[orderID] = order
	return nil
}

func (r *fakeOrderRepo) ListItems(_ context.Context, orderID uuid.UUID) ([]ordering.LineItem, error) {
	order, ok := r.store.orders[orderID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return append([]ordering.LineItem(nil), order.Items...), nil
}

func (r *fakeOrderRepo) CountByCustomer(_ context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	for _, order := range r.store.orders {
		if order.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeOrderRepo) ExistsByProduct(_ context.Context, productID uuid.UUID) (bool, error) {
	for _, order := range r.store.orders {
		for _, item := range order.Items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

var (
	_ catalog.CustomerRepository = (*fakeCustomerRepo)(nil)
	_ catalog.ProductRepository  = (*fakeProductRepo)(nil)
	_ ordering.OrderRepository   = (*fakeOrderRepo)(nil)
)
