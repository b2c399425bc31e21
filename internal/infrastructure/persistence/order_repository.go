package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopdesk/backend/internal/domain/ordering"
	"github.com/shopdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements ordering.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts a new order together with its line items
func (r *GormOrderRepository) Create(ctx context.Context, order *ordering.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID finds an order by ID with its line items loaded
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds all orders with their line items loaded
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ordering.Order, error) {
	query := r.db.WithContext(ctx).Model(&ordering.Order{}).Preload("Items")
	query = applyOrdering(query, filter, map[string]bool{"placed_at": true, "status": true, "total_amount": true, "created_at": true}, "placed_at")

	var orders []ordering.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByCustomer finds all orders belonging to a customer
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]ordering.Order, error) {
	var orders []ordering.Order
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("customer_id = ?", customerID).
		Order("placed_at desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateFields applies a partial update to the order header
func (r *GormOrderRepository) UpdateFields(ctx context.Context, id uuid.UUID, patch ordering.OrderPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	updates := make(map[string]interface{}, 3)
	if patch.Status != nil {
		updates["status"] = *patch.Status
	}
	if patch.TotalAmount != nil {
		updates["total_amount"] = *patch.TotalAmount
	}
	if patch.PlacedAt != nil {
		updates["placed_at"] = *patch.PlacedAt
	}

	result := r.db.WithContext(ctx).Model(&ordering.Order{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an order and its line items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ordering.LineItem{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&ordering.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ReplaceItems replaces the order's entire line item set
func (r *GormOrderRepository) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []ordering.LineItem) error {
	if err := r.db.WithContext(ctx).Delete(&ordering.LineItem{}, "order_id = ?", orderID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// ListItems lists the line items of an order
func (r *GormOrderRepository) ListItems(ctx context.Context, orderID uuid.UUID) ([]ordering.LineItem, error) {
	var items []ordering.LineItem
	if err := r.db.WithContext(ctx).Find(&items, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountByCustomer counts orders belonging to a customer
func (r *GormOrderRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ordering.Order{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByProduct reports whether any line item references the product
func (r *GormOrderRepository) ExistsByProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ordering.LineItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
