package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	transferapp "github.com/shopdesk/backend/internal/application/transfer"
)

// maxImportSize caps uploaded import files at 10MB
const maxImportSize = 10 << 20

// TransferHandler handles export and import API endpoints
type TransferHandler struct {
	BaseHandler
	exportService *transferapp.ExportService
	importService *transferapp.ImportService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(
	exportService *transferapp.ExportService,
	importService *transferapp.ImportService,
) *TransferHandler {
	return &TransferHandler{
		exportService: exportService,
		importService: importService,
	}
}

// ExportCustomers handles GET /transfer/customers/export
func (h *TransferHandler) ExportCustomers(c *gin.Context) {
	h.export(c, "customers", h.exportService.ExportCustomers)
}

// ExportProducts handles GET /transfer/products/export
func (h *TransferHandler) ExportProducts(c *gin.Context) {
	h.export(c, "products", h.exportService.ExportProducts)
}

// ExportOrders handles GET /transfer/orders/export
func (h *TransferHandler) ExportOrders(c *gin.Context) {
	h.export(c, "orders", h.exportService.ExportOrders)
}

// ImportCustomers handles POST /transfer/customers/import
func (h *TransferHandler) ImportCustomers(c *gin.Context) {
	h.importFile(c, h.importService.ImportCustomers)
}

// ImportProducts handles POST /transfer/products/import
func (h *TransferHandler) ImportProducts(c *gin.Context) {
	h.importFile(c, h.importService.ImportProducts)
}

// ImportOrders handles POST /transfer/orders/import
func (h *TransferHandler) ImportOrders(c *gin.Context) {
	h.importFile(c, h.importService.ImportOrders)
}

func (h *TransferHandler) export(c *gin.Context, entity string, fn func(ctx context.Context, format transferapp.Format) ([]byte, error)) {
	format := parseFormat(c)
	if !format.IsValid() {
		h.HandleDomainError(c, transferapp.ErrUnsupportedFormat)
		return
	}

	payload, err := fn(c.Request.Context(), format)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	fileName := fmt.Sprintf("%s.%s", entity, format)
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	if format == transferapp.FormatCSV {
		c.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

func (h *TransferHandler) importFile(c *gin.Context, fn func(ctx context.Context, format transferapp.Format, payload []byte) (*transferapp.ImportResult, error)) {
	format := parseFormat(c)
	if !format.IsValid() {
		h.HandleDomainError(c, transferapp.ErrUnsupportedFormat)
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}
	defer func() { _ = file.Close() }()

	payload, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded file")
		return
	}

	result, err := fn(c.Request.Context(), format, payload)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// parseFormat reads the format query parameter, defaulting to csv
func parseFormat(c *gin.Context) transferapp.Format {
	raw := c.DefaultQuery("format", string(transferapp.FormatCSV))
	return transferapp.Format(raw)
}
