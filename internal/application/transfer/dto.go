package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Format selects the wire format of an export or import
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// IsValid checks if the format is supported
func (f Format) IsValid() bool {
	return f == FormatCSV || f == FormatJSON
}

// ErrUnsupportedFormat rejects any format other than csv or json
var ErrUnsupportedFormat = shared.NewDomainError("UNSUPPORTED_FORMAT", "Export format must be csv or json")

// CustomerRecord is the wire representation of a customer
type CustomerRecord struct {
	ID    uuid.UUID `json:"id,omitempty"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone,omitempty"`
}

// ProductRecord is the wire representation of a product
type ProductRecord struct {
	ID    uuid.UUID       `json:"id,omitempty"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int64           `json:"stock"`
}

// OrderItemRecord is the wire representation of one line item
type OrderItemRecord struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"`
}

// OrderRecord is the wire representation of an order with its line items
type OrderRecord struct {
	ID          uuid.UUID         `json:"id,omitempty"`
	CustomerID  uuid.UUID         `json:"customer_id"`
	PlacedAt    time.Time         `json:"placed_at"`
	Status      string            `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Items       []OrderItemRecord `json:"items"`
}

// RowError describes why one imported row was rejected
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes an import run. Rows are imported independently;
// a bad row is reported and skipped, it does not abort the rest.
type ImportResult struct {
	TotalRows    int        `json:"total_rows"`
	ImportedRows int        `json:"imported_rows"`
	ErrorRows    int        `json:"error_rows"`
	Errors       []RowError `json:"errors,omitempty"`
}

func (r *ImportResult) addError(row int, err error) {
	r.ErrorRows++
	r.Errors = append(r.Errors, RowError{Row: row, Message: err.Error()})
}
