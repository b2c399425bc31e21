package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderingapp "github.com/shopdesk/backend/internal/application/ordering"
)

// OrderHandler handles order API endpoints, including checkout and
// reconciliation of previously placed orders.
type OrderHandler struct {
	BaseHandler
	orderService     *orderingapp.OrderService
	checkoutService  *orderingapp.CheckoutService
	reconcileService *orderingapp.ReconcileService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(
	orderService *orderingapp.OrderService,
	checkoutService *orderingapp.CheckoutService,
	reconcileService *orderingapp.ReconcileService,
) *OrderHandler {
	return &OrderHandler{
		orderService:     orderService,
		checkoutService:  checkoutService,
		reconcileService: reconcileService,
	}
}

// Checkout handles POST /orders/checkout. It validates the cart, prices it
// at current product prices and commits the order with its stock decrements.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req orderingapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// CartTotal handles POST /orders/cart-total. It prices a cart without
// placing an order or touching stock.
func (h *OrderHandler) CartTotal(c *gin.Context) {
	var req orderingapp.CartTotalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.checkoutService.ComputeCartTotal(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Reconcile handles PUT /orders/:id/reconcile. The request carries the full
// desired line item set; quantity zero removes a product from the order.
func (h *OrderHandler) Reconcile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req orderingapp.ReconcileOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.reconcileService.Reconcile(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByID handles GET /orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List handles GET /orders with optional customer_id, order_by and
// order_dir query parameters.
func (h *OrderHandler) List(c *gin.Context) {
	filter := orderingapp.OrderListFilter{
		OrderBy:  c.Query("order_by"),
		OrderDir: c.Query("order_dir"),
	}
	if raw := c.Query("customer_id"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid customer_id format")
			return
		}
		filter.CustomerID = &customerID
	}

	orders, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, orders)
}

// Update handles PATCH /orders/:id. Only status, total amount and placement
// time can be patched; absent fields keep their stored values.
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req orderingapp.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete handles DELETE /orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
