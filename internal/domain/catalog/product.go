package catalog

import (
	"strings"
	"time"

	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog. Stock is the number of units
// currently available for new orders; the checkout and reconciliation engines
// are the only writers besides direct manual edits.
type Product struct {
	shared.BaseEntity
	Name  string          `gorm:"type:varchar(200);not null"`
	Price decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Stock int64           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with initial price and stock
func NewProduct(name string, price decimal.Decimal, stock int64) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Price:      price,
		Stock:      stock,
	}, nil
}

// Update updates the product's name, price and stock level
func (p *Product) Update(name string, price decimal.Decimal, stock int64) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	p.Name = name
	p.Price = price
	p.Stock = stock
	p.UpdatedAt = time.Now()

	return nil
}

// RemoveStock deducts quantity units from stock.
// Stock never goes negative; overselling is rejected.
func (p *Product) RemoveStock(quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if quantity > p.Stock {
		return shared.ErrInsufficientStock
	}

	p.Stock -= quantity
	p.UpdatedAt = time.Now()

	return nil
}

// AddStock returns quantity units to stock
func (p *Product) AddStock(quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	p.Stock += quantity
	p.UpdatedAt = time.Now()

	return nil
}

// ApplyStockDelta adjusts stock by a signed delta (negative releases units back).
// Used by order reconciliation where only the net difference moves.
func (p *Product) ApplyStockDelta(delta int64) error {
	if delta > 0 {
		return p.RemoveStock(delta)
	}
	return p.AddStock(-delta)
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
