package transfer

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopdesk/backend/internal/domain/catalog"
	"github.com/shopdesk/backend/internal/domain/ordering"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ImportService loads customers, products and orders from CSV or JSON
// payloads. Imports are additive: existing rows are kept and each payload
// row is inserted on its own, so one bad row is reported and skipped
// without aborting the rest.
//
// Importing orders records history; it does not touch product stock.
type ImportService struct {
	customerRepo catalog.CustomerRepository
	productRepo  catalog.ProductRepository
	orderRepo    ordering.OrderRepository
}

// NewImportService creates a new ImportService
func NewImportService(
	customerRepo catalog.CustomerRepository,
	productRepo catalog.ProductRepository,
	orderRepo ordering.OrderRepository,
) *ImportService {
	return &ImportService{
		customerRepo: customerRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
	}
}

// ImportCustomers imports customer records from the payload
func (s *ImportService) ImportCustomers(ctx context.Context, format Format, payload []byte) (*ImportResult, error) {
	records, err := parseCustomerRecords(format, payload)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{TotalRows: len(records)}
	for i, record := range records {
		customer, err := catalog.NewCustomer(record.Name, record.Email, record.Phone)
		if err != nil {
			result.addError(i+1, err)
			continue
		}
		if err := s.customerRepo.Create(ctx, customer); err != nil {
			result.addError(i+1, err)
			continue
		}
		result.ImportedRows++
	}
	return result, nil
}

// ImportProducts imports product records from the payload
func (s *ImportService) ImportProducts(ctx context.Context, format Format, payload []byte) (*ImportResult, error) {
	records, err := parseProductRecords(format, payload)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{TotalRows: len(records)}
	for i, record := range records {
		product, err := catalog.NewProduct(record.Name, record.Price, record.Stock)
		if err != nil {
			result.addError(i+1, err)
			continue
		}
		if err := s.productRepo.Create(ctx, product); err != nil {
			result.addError(i+1, err)
			continue
		}
		result.ImportedRows++
	}
	return result, nil
}

// ImportOrders imports orders with their line items. Every referenced
// customer and product must already exist; the order keeps the status,
// timestamp and total it was exported with.
func (s *ImportService) ImportOrders(ctx context.Context, format Format, payload []byte) (*ImportResult, error) {
	records, err := parseOrderRecords(format, payload)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{TotalRows: len(records)}
	for i, record := range records {
		order, err := s.buildOrder(ctx, record)
		if err != nil {
			result.addError(i+1, err)
			continue
		}
		if err := s.orderRepo.Create(ctx, order); err != nil {
			result.addError(i+1, err)
			continue
		}
		result.ImportedRows++
	}
	return result, nil
}

func (s *ImportService) buildOrder(ctx context.Context, record OrderRecord) (*ordering.Order, error) {
	status := ordering.OrderStatus(record.Status)
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", record.Status))
	}
	if len(record.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order has no line items")
	}

	if _, err := s.customerRepo.FindByID(ctx, record.CustomerID); err != nil {
		return nil, err
	}

	order, err := ordering.NewOrder(record.CustomerID, record.TotalAmount)
	if err != nil {
		return nil, err
	}
	order.Status = status
	if !record.PlacedAt.IsZero() {
		order.PlacedAt = record.PlacedAt
	}

	for _, item := range record.Items {
		if _, err := s.productRepo.FindByID(ctx, item.ProductID); err != nil {
			return nil, err
		}
		if err := order.AddItem(item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	return order, nil
}

func parseCustomerRecords(format Format, payload []byte) ([]CustomerRecord, error) {
	switch format {
	case FormatJSON:
		var records []CustomerRecord
		if err := json.Unmarshal(payload, &records); err != nil {
			return nil, shared.NewDomainError("INVALID_PAYLOAD", err.Error())
		}
		return records, nil
	case FormatCSV:
		rows, err := readCSV(payload, []string{"name", "email", "phone"})
		if err != nil {
			return nil, err
		}
		records := make([]CustomerRecord, 0, len(rows))
		for _, row := range rows {
			records = append(records, CustomerRecord{Name: row["name"], Email: row["email"], Phone: row["phone"]})
		}
		return records, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

func parseProductRecords(format Format, payload []byte) ([]ProductRecord, error) {
	switch format {
	case FormatJSON:
		var records []ProductRecord
		if err := json.Unmarshal(payload, &records); err != nil {
			return nil, shared.NewDomainError("INVALID_PAYLOAD", err.Error())
		}
		return records, nil
	case FormatCSV:
		rows, err := readCSV(payload, []string{"name", "price", "stock"})
		if err != nil {
			return nil, err
		}
		records := make([]ProductRecord, 0, len(rows))
		for _, row := range rows {
			price, err := decimal.NewFromString(row["price"])
			if err != nil {
				return nil, shared.NewDomainError("INVALID_PAYLOAD", fmt.Sprintf("Bad price %q", row["price"]))
			}
			stock, err := strconv.ParseInt(row["stock"], 10, 64)
			if err != nil {
				return nil, shared.NewDomainError("INVALID_PAYLOAD", fmt.Sprintf("Bad stock %q", row["stock"]))
			}
			records = append(records, ProductRecord{Name: row["name"], Price: price, Stock: stock})
		}
		return records, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

func parseOrderRecords(format Format, payload []byte) ([]OrderRecord, error) {
	switch format {
	case FormatJSON:
		var records []OrderRecord
		if err := json.Unmarshal(payload, &records); err != nil {
			return nil, shared.NewDomainError("INVALID_PAYLOAD", err.Error())
		}
		return records, nil
	case FormatCSV:
		return parseOrderCSV(payload)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// parseOrderCSV reads the flat one-row-per-line-item layout produced by the
// export and groups rows back into orders by their order id, preserving the
// order of first appearance.
func parseOrderCSV(payload []byte) ([]OrderRecord, error) {
	rows, err := readCSV(payload, []string{"order_id", "customer_id", "placed_at", "status", "total_amount", "product_id", "quantity"})
	if err != nil {
		return nil, err
	}

	records := make([]OrderRecord, 0)
	index := make(map[string]int)
	for _, row := range rows {
		customerID, err := uuid.Parse(row["customer_id"])
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PAYLOAD", fmt.Sprintf("Bad customer id %q", row["customer_id"]))
		}
		productID, err := uuid.Parse(row["product_id"])
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PAYLOAD", fmt.Sprintf("Bad product id %q", row["product_id"]))
		}
		quantity, err := strconv.ParseInt(row["quantity"], 10, 64)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PAYLOAD", fmt.Sprintf("Bad quantity %q", row["quantity"]))
		}
		item := OrderItemRecord{ProductID: productID, Quantity: quantity}

		if i, ok := index[row["order_id"]]; ok {
			records[i].Items = append(records[i].Items, item)
			continue
		}

		placedAt, err := time.Parse(time.RFC3339, row["placed_at"])
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PAYLOAD", fmt.Sprintf("Bad timestamp %q", row["placed_at"]))
		}
		total, err := decimal.NewFromString(row["total_amount"])
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PAYLOAD", fmt.Sprintf("Bad total %q", row["total_amount"]))
		}

		index[row["order_id"]] = len(records)
		records = append(records, OrderRecord{
			CustomerID:  customerID,
			PlacedAt:    placedAt,
			Status:      row["status"],
			TotalAmount: total,
			Items:       []OrderItemRecord{item},
		})
	}

	return records, nil
}

// readCSV reads a CSV payload with a header row and returns each data row as
// a column-name-to-value map. Every expected column must be present; extra
// columns are ignored.
func readCSV(payload []byte, expected []string) ([]map[string]string, error) {
	reader := csv.NewReader(bytes.NewReader(payload))
	header, err := reader.Read()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PAYLOAD", "Missing CSV header row")
	}

	position := make(map[string]int, len(header))
	for i, name := range header {
		position[name] = i
	}
	for _, name := range expected {
		if _, ok := position[name]; !ok {
			return nil, shared.NewDomainError("INVALID_PAYLOAD", fmt.Sprintf("Missing CSV column %q", name))
		}
	}

	rows := make([]map[string]string, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PAYLOAD", err.Error())
		}
		row := make(map[string]string, len(expected))
		for _, name := range expected {
			if i := position[name]; i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
