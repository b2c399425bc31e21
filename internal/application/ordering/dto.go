package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopdesk/backend/internal/domain/ordering"
	"github.com/shopspring/decimal"
)

// CartLine represents one proposed product/quantity pair in a cart
type CartLine struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity"`
}

// CheckoutRequest represents a request to turn a cart into a committed order
type CheckoutRequest struct {
	CustomerID uuid.UUID  `json:"customer_id" binding:"required"`
	Lines      []CartLine `json:"lines"`
}

// CartTotalRequest represents a request to price a cart without committing it
type CartTotalRequest struct {
	Lines []CartLine `json:"lines"`
}

// ReconcileOrderRequest represents a request to rewrite an order's line items
// and status. A line with quantity 0 removes that product from the order.
type ReconcileOrderRequest struct {
	Status ordering.OrderStatus `json:"status" binding:"required"`
	Lines  []CartLine           `json:"lines"`
}

// UpdateOrderRequest represents a partial update of order header fields.
// Absent fields are left untouched.
type UpdateOrderRequest struct {
	Status      *ordering.OrderStatus `json:"status"`
	TotalAmount *decimal.Decimal      `json:"total_amount"`
	PlacedAt    *time.Time            `json:"placed_at"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search     string     `form:"search"`
	CustomerID *uuid.UUID `form:"customer_id"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          uuid.UUID            `json:"id"`
	CustomerID  uuid.UUID            `json:"customer_id"`
	PlacedAt    time.Time            `json:"placed_at"`
	Status      ordering.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	Items       []LineItemResponse   `json:"items"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// CheckoutResponse represents the outcome of a successful checkout
type CheckoutResponse struct {
	OrderID     uuid.UUID       `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// CartTotalResponse represents the priced value of a cart
type CartTotalResponse struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ToLineItemResponse converts a domain line item to a response DTO
func ToLineItemResponse(item ordering.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(order *ordering.Order) OrderResponse {
	items := make([]LineItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ToLineItemResponse(item))
	}

	return OrderResponse{
		ID:          order.ID,
		CustomerID:  order.CustomerID,
		PlacedAt:    order.PlacedAt,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Items:       items,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders to response DTOs
func ToOrderResponses(orders []ordering.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}
	return responses
}
