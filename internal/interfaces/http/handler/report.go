package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/shopdesk/backend/internal/application/report"
)

// ReportHandler handles reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// TopCustomers handles GET /reports/top-customers
func (h *ReportHandler) TopCustomers(c *gin.Context) {
	var filter reportapp.TopCustomersFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rows, err := h.reportService.TopCustomers(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rows)
}

// OrdersPerDay handles GET /reports/orders-per-day
func (h *ReportHandler) OrdersPerDay(c *gin.Context) {
	rows, err := h.reportService.OrdersPerDay(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rows)
}

// CustomerConnections handles GET /reports/customer-connections
func (h *ReportHandler) CustomerConnections(c *gin.Context) {
	rows, err := h.reportService.CustomerConnections(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rows)
}
