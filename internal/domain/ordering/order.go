package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "New"
	OrderStatusPaid      OrderStatus = "Paid"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusFulfilled OrderStatus = "Fulfilled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusPaid, OrderStatusShipped, OrderStatusFulfilled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// LineItem represents a product/quantity pair owned by exactly one order.
// A line item is never persisted with zero quantity; reducing it to zero
// removes it from the order instead.
type LineItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity  int64     `gorm:"not null"`
}

// NewLineItem creates a new line item for an order
func NewLineItem(orderID, productID uuid.UUID, quantity int64) (*LineItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Line item quantity must be positive")
	}

	return &LineItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
	}, nil
}

// Order represents an order aggregate root.
// TotalAmount always equals the sum of quantity x product price over the
// order's line items after any committed mutation. PlacedAt is refreshed
// whenever the total changes (a proxy for "last monetary change").
type Order struct {
	shared.BaseEntity
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	PlacedAt    time.Time       `gorm:"not null"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'New'"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Items       []LineItem
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in the New status
func NewOrder(customerID uuid.UUID, total decimal.Decimal) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Order total cannot be negative")
	}

	base := shared.NewBaseEntity()
	return &Order{
		BaseEntity:  base,
		CustomerID:  customerID,
		PlacedAt:    base.CreatedAt,
		Status:      OrderStatusNew,
		TotalAmount: total,
		Items:       make([]LineItem, 0),
	}, nil
}

// AddItem appends a line item for a product
func (o *Order) AddItem(productID uuid.UUID, quantity int64) error {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order")
		}
	}

	item, err := NewLineItem(o.ID, productID, quantity)
	if err != nil {
		return err
	}

	o.Items = append(o.Items, *item)
	o.UpdatedAt = time.Now()

	return nil
}

// SetStatus sets the order status. Any of the four statuses may be selected
// in any sequence; only structural edits are gated on the New status.
func (o *Order) SetStatus(status OrderStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}

	o.Status = status
	o.UpdatedAt = time.Now()

	return nil
}

// SetTotal sets the order total and refreshes PlacedAt when the amount changed
func (o *Order) SetTotal(total decimal.Decimal) error {
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Order total cannot be negative")
	}

	if !o.TotalAmount.Equal(total) {
		o.PlacedAt = time.Now()
	}
	o.TotalAmount = total
	o.UpdatedAt = time.Now()

	return nil
}

// CanModifyItems returns true if the line item set may be changed
func (o *Order) CanModifyItems() bool {
	return o.Status == OrderStatusNew
}

// ItemQuantities returns the committed line items as a product-to-quantity map
func (o *Order) ItemQuantities() map[uuid.UUID]int64 {
	quantities := make(map[uuid.UUID]int64, len(o.Items))
	for _, item := range o.Items {
		quantities[item.ProductID] = item.Quantity
	}
	return quantities
}

// ItemsDiffer reports whether the target product-to-quantity map describes a
// different line item set than the committed one. Zero-quantity entries in the
// target are treated as absent.
func (o *Order) ItemsDiffer(target map[uuid.UUID]int64) bool {
	current := o.ItemQuantities()
	count := 0
	for productID, quantity := range target {
		if quantity == 0 {
			continue
		}
		count++
		if current[productID] != quantity {
			return true
		}
	}
	return count != len(current)
}

// IsNew returns true if the order is in the New status
func (o *Order) IsNew() bool {
	return o.Status == OrderStatusNew
}
