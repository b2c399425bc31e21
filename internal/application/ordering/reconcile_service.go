package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopdesk/backend/internal/domain/ordering"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReconcileService rewrites an existing order's line items and status while
// keeping product stock consistent with the committed line items.
//
// For every product touched, the stock delta is the difference between the
// new and the original quantity: raising a quantity decrements stock further,
// lowering or removing one returns stock. The legal new quantity for a product
// is therefore bounded by current stock plus the quantity the order already
// holds. All writes land in a single transaction.
type ReconcileService struct {
	scope TransactionScope
}

// NewReconcileService creates a new ReconcileService
func NewReconcileService(scope TransactionScope) *ReconcileService {
	return &ReconcileService{scope: scope}
}

// Reconcile applies the target line item set and status to the order.
//
// A structural change (any difference in the line item set) is only legal
// while the order status is New; otherwise the call fails with ITEMS_LOCKED
// and has no effect. A status-only change is always legal. A target quantity
// of 0 removes that product's line item. The total is recomputed from the
// surviving line items at current prices, and the placement timestamp is
// refreshed only when the total actually changes.
func (s *ReconcileService) Reconcile(ctx context.Context, orderID uuid.UUID, req ReconcileOrderRequest) (*OrderResponse, error) {
	if !req.Status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}

	target, lines, err := normalizeTarget(req.Lines)
	if err != nil {
		return nil, err
	}

	var response *OrderResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		changed := order.ItemsDiffer(target)
		if changed && !order.CanModifyItems() {
			return ErrItemsLocked
		}

		if changed {
			if err := s.applyStockDeltas(ctx, repos, order, target); err != nil {
				return err
			}

			items := make([]ordering.LineItem, 0, len(lines))
			for _, line := range lines {
				if line.Quantity == 0 {
					continue
				}
				item, err := ordering.NewLineItem(order.ID, line.ProductID, line.Quantity)
				if err != nil {
					return err
				}
				items = append(items, *item)
			}
			if err := repos.OrderRepo().ReplaceItems(ctx, order.ID, items); err != nil {
				return err
			}
			order.Items = items
		}

		if err := order.SetStatus(req.Status); err != nil {
			return err
		}

		total, err := s.priceItems(ctx, repos, order.Items)
		if err != nil {
			return err
		}
		if err := order.SetTotal(total); err != nil {
			return err
		}

		patch := ordering.OrderPatch{
			Status:      &order.Status,
			TotalAmount: &order.TotalAmount,
			PlacedAt:    &order.PlacedAt,
		}
		if err := repos.OrderRepo().UpdateFields(ctx, order.ID, patch); err != nil {
			return err
		}

		resp := ToOrderResponse(order)
		response = &resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

// applyStockDeltas persists the per-product stock adjustment for every
// product in the union of the original and the target line item sets.
func (s *ReconcileService) applyStockDeltas(ctx context.Context, repos TransactionalRepositories, order *ordering.Order, target map[uuid.UUID]int64) error {
	original := order.ItemQuantities()

	touched := make(map[uuid.UUID]struct{}, len(original)+len(target))
	for productID := range original {
		touched[productID] = struct{}{}
	}
	for productID := range target {
		touched[productID] = struct{}{}
	}

	for productID := range touched {
		delta := target[productID] - original[productID]
		if delta == 0 {
			continue
		}

		product, err := repos.ProductRepo().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if err := product.ApplyStockDelta(delta); err != nil {
			return err
		}
		if err := repos.ProductRepo().Update(ctx, product); err != nil {
			return err
		}
	}

	return nil
}

// priceItems sums quantity times current product price over the given items
func (s *ReconcileService) priceItems(ctx context.Context, repos TransactionalRepositories, items []ordering.LineItem) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range items {
		product, err := repos.ProductRepo().FindByID(ctx, item.ProductID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(item.Quantity)))
	}
	return total, nil
}

// normalizeTarget validates the target lines and merges duplicate products by
// summing. Unlike a checkout cart, a zero quantity is legal here; it removes
// the product from the order. Returns both the quantity map and the merged
// lines in first-seen order.
func normalizeTarget(lines []CartLine) (map[uuid.UUID]int64, []CartLine, error) {
	target := make(map[uuid.UUID]int64, len(lines))
	merged := make([]CartLine, 0, len(lines))
	index := make(map[uuid.UUID]int, len(lines))

	for _, line := range lines {
		if line.Quantity < 0 {
			return nil, nil, shared.NewDomainError("INVALID_QUANTITY", "Line item quantity cannot be negative")
		}
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			target[line.ProductID] = merged[i].Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
		target[line.ProductID] = line.Quantity
	}

	return target, merged, nil
}
