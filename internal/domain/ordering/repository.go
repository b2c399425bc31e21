package ordering

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderPatch is a closed set of optional order header fields for partial
// updates. Absent fields are left untouched.
type OrderPatch struct {
	Status      *OrderStatus
	TotalAmount *decimal.Decimal
	PlacedAt    *time.Time
}

// IsEmpty returns true when the patch carries no changes
func (p OrderPatch) IsEmpty() bool {
	return p.Status == nil && p.TotalAmount == nil && p.PlacedAt == nil
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create inserts a new order together with its line items
	Create(ctx context.Context, order *Order) error

	// FindByID finds an order by ID with its line items loaded
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll finds all orders (line items loaded) matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByCustomer finds all orders belonging to a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error)

	// UpdateFields applies a partial update to the order header
	UpdateFields(ctx context.Context, id uuid.UUID, patch OrderPatch) error

	// Delete removes an order and its line items
	Delete(ctx context.Context, id uuid.UUID) error

	// ReplaceItems replaces the order's entire line item set
	ReplaceItems(ctx context.Context, orderID uuid.UUID, items []LineItem) error

	// ListItems lists the line items of an order
	ListItems(ctx context.Context, orderID uuid.UUID) ([]LineItem, error)

	// CountByCustomer counts orders belonging to a customer
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)

	// ExistsByProduct reports whether any line item references the product
	ExistsByProduct(ctx context.Context, productID uuid.UUID) (bool, error)
}
