package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopdesk/backend/internal/domain/report"
	"github.com/shopspring/decimal"
)

const defaultTopN = 10

// TopCustomerResponse represents one row of the customer ranking
type TopCustomerResponse struct {
	Rank       int             `json:"rank"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Name       string          `json:"name"`
	OrderCount int64           `json:"order_count"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// OrdersPerDayResponse represents the orders placed on one calendar day
type OrdersPerDayResponse struct {
	Day         time.Time       `json:"day"`
	OrderCount  int64           `json:"order_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// CustomerConnectionResponse represents two customers who bought the same product
type CustomerConnectionResponse struct {
	CustomerAID    uuid.UUID `json:"customer_a_id"`
	CustomerAName  string    `json:"customer_a_name"`
	CustomerBID    uuid.UUID `json:"customer_b_id"`
	CustomerBName  string    `json:"customer_b_name"`
	SharedProducts int64     `json:"shared_products"`
}

// TopCustomersFilter defines the request filter for the customer ranking
type TopCustomersFilter struct {
	TopN int `form:"top_n" binding:"omitempty,min=1,max=100"`
}

// ReportService provides application-level report operations
type ReportService struct {
	reportRepo report.Repository
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo report.Repository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// TopCustomers returns customers ranked by how many orders they placed
func (s *ReportService) TopCustomers(ctx context.Context, filter TopCustomersFilter) ([]TopCustomerResponse, error) {
	limit := filter.TopN
	if limit <= 0 {
		limit = defaultTopN
	}

	rows, err := s.reportRepo.TopCustomers(ctx, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]TopCustomerResponse, 0, len(rows))
	for i, row := range rows {
		responses = append(responses, TopCustomerResponse{
			Rank:       i + 1,
			CustomerID: row.CustomerID,
			Name:       row.Name,
			OrderCount: row.OrderCount,
			TotalSpent: row.TotalSpent,
		})
	}
	return responses, nil
}

// OrdersPerDay returns the daily order counts and totals
func (s *ReportService) OrdersPerDay(ctx context.Context) ([]OrdersPerDayResponse, error) {
	rows, err := s.reportRepo.OrdersPerDay(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]OrdersPerDayResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, OrdersPerDayResponse{
			Day:         row.Day,
			OrderCount:  row.OrderCount,
			TotalAmount: row.TotalAmount,
		})
	}
	return responses, nil
}

// CustomerConnections returns customer pairs that purchased the same product
func (s *ReportService) CustomerConnections(ctx context.Context) ([]CustomerConnectionResponse, error) {
	rows, err := s.reportRepo.CustomerConnections(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]CustomerConnectionResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, CustomerConnectionResponse{
			CustomerAID:    row.CustomerAID,
			CustomerAName:  row.CustomerAName,
			CustomerBID:    row.CustomerBID,
			CustomerBName:  row.CustomerBName,
			SharedProducts: row.SharedProducts,
		})
	}
	return responses, nil
}
