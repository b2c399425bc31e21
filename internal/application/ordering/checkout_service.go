package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopdesk/backend/internal/domain/catalog"
	"github.com/shopdesk/backend/internal/domain/ordering"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CheckoutService turns a validated cart into a committed order.
// All writes of a checkout land in a single transaction: the order header,
// its line items, and every stock decrement commit or roll back together.
type CheckoutService struct {
	scope TransactionScope
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(scope TransactionScope) *CheckoutService {
	return &CheckoutService{scope: scope}
}

// Checkout validates the cart, prices it against current product prices,
// creates the order with its line items and decrements matching stock.
// Validation happens before any write; a rejection leaves every store untouched.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	lines, err := normalizeCart(req.Lines)
	if err != nil {
		return nil, err
	}

	var response *CheckoutResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.CustomerRepo().FindByID(ctx, req.CustomerID); err != nil {
			return err
		}

		products, err := resolveProducts(ctx, repos.ProductRepo(), lines)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range lines {
			product := products[line.ProductID]
			if err := product.RemoveStock(line.Quantity); err != nil {
				return err
			}
			if err := repos.ProductRepo().Update(ctx, product); err != nil {
				return err
			}
			total = total.Add(product.Price.Mul(decimal.NewFromInt(line.Quantity)))
		}

		order, err := ordering.NewOrder(req.CustomerID, total)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := order.AddItem(line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().Create(ctx, order); err != nil {
			return err
		}

		response = &CheckoutResponse{OrderID: order.ID, TotalAmount: order.TotalAmount}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

// ComputeCartTotal prices a cart against current product prices without
// committing anything. No store is mutated.
func (s *CheckoutService) ComputeCartTotal(ctx context.Context, req CartTotalRequest) (*CartTotalResponse, error) {
	lines, err := normalizeCart(req.Lines)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		products, err := resolveProducts(ctx, repos.ProductRepo(), lines)
		if err != nil {
			return err
		}
		for _, line := range lines {
			total = total.Add(products[line.ProductID].Price.Mul(decimal.NewFromInt(line.Quantity)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CartTotalResponse{TotalAmount: total}, nil
}

// normalizeCart validates a cart and merges duplicate product lines by
// summing their quantities, preserving first-seen order.
func normalizeCart(lines []CartLine) ([]CartLine, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	merged := make([]CartLine, 0, len(lines))
	index := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		if line.Quantity == 0 {
			return nil, ErrZeroQuantity
		}
		if line.Quantity < 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Cart quantity cannot be negative")
		}
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}

	return merged, nil
}

// resolveProducts loads every product referenced by the cart, failing with
// NOT_FOUND if any id does not resolve.
func resolveProducts(ctx context.Context, repo catalog.ProductRepository, lines []CartLine) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	products, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, line := range lines {
		if _, ok := byID[line.ProductID]; !ok {
			return nil, shared.ErrNotFound
		}
	}

	return byID, nil
}
