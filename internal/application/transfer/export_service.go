package transfer

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopdesk/backend/internal/domain/catalog"
	"github.com/shopdesk/backend/internal/domain/ordering"
	"github.com/shopdesk/backend/internal/domain/shared"
)

// ExportService serializes the catalog and order stores to CSV or JSON.
// Orders are exported together with their line items, one CSV row per item.
type ExportService struct {
	customerRepo catalog.CustomerRepository
	productRepo  catalog.ProductRepository
	orderRepo    ordering.OrderRepository
}

// NewExportService creates a new ExportService
func NewExportService(
	customerRepo catalog.CustomerRepository,
	productRepo catalog.ProductRepository,
	orderRepo ordering.OrderRepository,
) *ExportService {
	return &ExportService{
		customerRepo: customerRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
	}
}

// ExportCustomers serializes all customers in the requested format
func (s *ExportService) ExportCustomers(ctx context.Context, format Format) ([]byte, error) {
	if !format.IsValid() {
		return nil, ErrUnsupportedFormat
	}

	customers, err := s.customerRepo.FindAll(ctx, shared.Filter{OrderBy: "name", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}

	records := make([]CustomerRecord, 0, len(customers))
	for _, c := range customers {
		records = append(records, CustomerRecord{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone})
	}

	if format == FormatJSON {
		return marshalJSON(records)
	}

	rows := [][]string{{"id", "name", "email", "phone"}}
	for _, r := range records {
		rows = append(rows, []string{r.ID.String(), r.Name, r.Email, r.Phone})
	}
	return writeCSV(rows)
}

// ExportProducts serializes all products in the requested format
func (s *ExportService) ExportProducts(ctx context.Context, format Format) ([]byte, error) {
	if !format.IsValid() {
		return nil, ErrUnsupportedFormat
	}

	products, err := s.productRepo.FindAll(ctx, shared.Filter{OrderBy: "name", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}

	records := make([]ProductRecord, 0, len(products))
	for _, p := range products {
		records = append(records, ProductRecord{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock})
	}

	if format == FormatJSON {
		return marshalJSON(records)
	}

	rows := [][]string{{"id", "name", "price", "stock"}}
	for _, r := range records {
		rows = append(rows, []string{r.ID.String(), r.Name, r.Price.String(), strconv.FormatInt(r.Stock, 10)})
	}
	return writeCSV(rows)
}

// ExportOrders serializes all orders with their line items. The CSV layout is
// flat, one row per line item, so a spreadsheet can open it directly; the
// import groups rows back by order id.
func (s *ExportService) ExportOrders(ctx context.Context, format Format) ([]byte, error) {
	if !format.IsValid() {
		return nil, ErrUnsupportedFormat
	}

	orders, err := s.orderRepo.FindAll(ctx, shared.Filter{OrderBy: "placed_at", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}

	records := make([]OrderRecord, 0, len(orders))
	for _, o := range orders {
		items := make([]OrderItemRecord, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, OrderItemRecord{ProductID: item.ProductID, Quantity: item.Quantity})
		}
		records = append(records, OrderRecord{
			ID:          o.ID,
			CustomerID:  o.CustomerID,
			PlacedAt:    o.PlacedAt,
			Status:      o.Status.String(),
			TotalAmount: o.TotalAmount,
			Items:       items,
		})
	}

	if format == FormatJSON {
		return marshalJSON(records)
	}

	rows := [][]string{{"order_id", "customer_id", "placed_at", "status", "total_amount", "product_id", "quantity"}}
	for _, r := range records {
		for _, item := range r.Items {
			rows = append(rows, []string{
				r.ID.String(),
				r.CustomerID.String(),
				r.PlacedAt.Format(time.RFC3339),
				r.Status,
				r.TotalAmount.String(),
				item.ProductID.String(),
				strconv.FormatInt(item.Quantity, 10),
			})
		}
	}
	return writeCSV(rows)
}

func marshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
