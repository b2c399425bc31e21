package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopdesk/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository with SQL aggregations
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

type topCustomerScan struct {
	CustomerID uuid.UUID
	Name       string
	OrderCount int64
	TotalSpent decimal.Decimal
}

// TopCustomers ranks customers by order count, ties broken by total spent
func (r *GormReportRepository) TopCustomers(ctx context.Context, limit int) ([]report.TopCustomerRow, error) {
	var scans []topCustomerScan
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id AS customer_id,
		       c.name AS name,
		       COUNT(o.id) AS order_count,
		       COALESCE(SUM(o.total_amount), 0) AS total_spent
		FROM customers c
		JOIN orders o ON o.customer_id = c.id
		GROUP BY c.id, c.name
		ORDER BY order_count DESC, total_spent DESC, c.name ASC
		LIMIT ?`, limit).Scan(&scans).Error
	if err != nil {
		return nil, err
	}

	rows := make([]report.TopCustomerRow, 0, len(scans))
	for _, s := range scans {
		rows = append(rows, report.TopCustomerRow{
			CustomerID: s.CustomerID,
			Name:       s.Name,
			OrderCount: s.OrderCount,
			TotalSpent: s.TotalSpent,
		})
	}
	return rows, nil
}

type ordersPerDayScan struct {
	Day         string
	OrderCount  int64
	TotalAmount decimal.Decimal
}

// OrdersPerDay groups committed orders by the calendar day they were placed
func (r *GormReportRepository) OrdersPerDay(ctx context.Context) ([]report.OrdersPerDayRow, error) {
	var scans []ordersPerDayScan
	err := r.db.WithContext(ctx).Raw(`
		SELECT DATE(placed_at) AS day,
		       COUNT(*) AS order_count,
		       COALESCE(SUM(total_amount), 0) AS total_amount
		FROM orders
		GROUP BY DATE(placed_at)
		ORDER BY day ASC`).Scan(&scans).Error
	if err != nil {
		return nil, err
	}

	rows := make([]report.OrdersPerDayRow, 0, len(scans))
	for _, s := range scans {
		day, err := time.Parse("2006-01-02", s.Day)
		if err != nil {
			return nil, err
		}
		rows = append(rows, report.OrdersPerDayRow{
			Day:         day,
			OrderCount:  s.OrderCount,
			TotalAmount: s.TotalAmount,
		})
	}
	return rows, nil
}

type customerConnectionScan struct {
	CustomerAID    uuid.UUID
	CustomerAName  string
	CustomerBID    uuid.UUID
	CustomerBName  string
	SharedProducts int64
}

// CustomerConnections lists customer pairs that share at least one purchased
// product. Each unordered pair appears once.
func (r *GormReportRepository) CustomerConnections(ctx context.Context) ([]report.CustomerConnectionRow, error) {
	var scans []customerConnectionScan
	err := r.db.WithContext(ctx).Raw(`
		WITH purchases AS (
			SELECT DISTINCT o.customer_id AS customer_id, li.product_id AS product_id
			FROM orders o
			JOIN line_items li ON li.order_id = o.id
		)
		SELECT ca.id AS customer_a_id,
		       ca.name AS customer_a_name,
		       cb.id AS customer_b_id,
		       cb.name AS customer_b_name,
		       COUNT(*) AS shared_products
		FROM purchases p1
		JOIN purchases p2 ON p1.product_id = p2.product_id AND p1.customer_id < p2.customer_id
		JOIN customers ca ON ca.id = p1.customer_id
		JOIN customers cb ON cb.id = p2.customer_id
		GROUP BY ca.id, ca.name, cb.id, cb.name
		ORDER BY shared_products DESC, ca.name ASC, cb.name ASC`).Scan(&scans).Error
	if err != nil {
		return nil, err
	}

	rows := make([]report.CustomerConnectionRow, 0, len(scans))
	for _, s := range scans {
		rows = append(rows, report.CustomerConnectionRow{
			CustomerAID:    s.CustomerAID,
			CustomerAName:  s.CustomerAName,
			CustomerBID:    s.CustomerBID,
			CustomerBName:  s.CustomerBName,
			SharedProducts: s.SharedProducts,
		})
	}
	return rows, nil
}

var _ report.Repository = (*GormReportRepository)(nil)
