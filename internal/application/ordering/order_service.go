package ordering

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopdesk/backend/internal/domain/ordering"
	"github.com/shopdesk/backend/internal/domain/shared"
)

// OrderService handles order header operations outside the checkout and
// reconciliation flows
type OrderService struct {
	orderRepo ordering.OrderRepository
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo ordering.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// GetByID retrieves an order with its line items
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders matching the filter
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "placed_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	if filter.CustomerID != nil {
		orders, err := s.orderRepo.FindByCustomer(ctx, *filter.CustomerID)
		if err != nil {
			return nil, err
		}
		return ToOrderResponses(orders), nil
	}

	orders, err := s.orderRepo.FindAll(ctx, shared.Filter{
		Search:   filter.Search,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	})
	if err != nil {
		return nil, err
	}

	return ToOrderResponses(orders), nil
}

// Update applies a partial update to the order header. Only the closed set
// of fields on UpdateOrderRequest can be changed; line items are the
// reconciliation flow's business. Setting a new total refreshes the
// placement timestamp unless the caller pins it explicitly.
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := ordering.OrderPatch{}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status")
		}
		patch.Status = req.Status
	}
	if req.TotalAmount != nil {
		if req.TotalAmount.IsNegative() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Order total cannot be negative")
		}
		patch.TotalAmount = req.TotalAmount
		if req.PlacedAt == nil && !order.TotalAmount.Equal(*req.TotalAmount) {
			now := time.Now()
			patch.PlacedAt = &now
		}
	}
	if req.PlacedAt != nil {
		patch.PlacedAt = req.PlacedAt
	}

	if patch.IsEmpty() {
		response := ToOrderResponse(order)
		return &response, nil
	}

	if err := s.orderRepo.UpdateFields(ctx, id, patch); err != nil {
		return nil, err
	}

	order, err = s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// Delete removes an order together with its line items
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.orderRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.orderRepo.Delete(ctx, id)
}
