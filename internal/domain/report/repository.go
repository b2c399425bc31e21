package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopCustomerRow is one row of the customers-by-order-count ranking
type TopCustomerRow struct {
	CustomerID uuid.UUID
	Name       string
	OrderCount int64
	TotalSpent decimal.Decimal
}

// OrdersPerDayRow aggregates the orders placed on one calendar day
type OrdersPerDayRow struct {
	Day         time.Time
	OrderCount  int64
	TotalAmount decimal.Decimal
}

// CustomerConnectionRow links two customers who ordered the same product.
// Each unordered customer pair appears at most once.
type CustomerConnectionRow struct {
	CustomerAID    uuid.UUID
	CustomerAName  string
	CustomerBID    uuid.UUID
	CustomerBName  string
	SharedProducts int64
}

// Repository defines the read-only aggregation queries behind the reports
type Repository interface {
	// TopCustomers ranks customers by order count, ties broken by total spent
	TopCustomers(ctx context.Context, limit int) ([]TopCustomerRow, error)

	// OrdersPerDay groups committed orders by the calendar day they were placed
	OrdersPerDay(ctx context.Context) ([]OrdersPerDayRow, error)

	// CustomerConnections lists customer pairs that share at least one
	// purchased product
	CustomerConnections(ctx context.Context) ([]CustomerConnectionRow, error)
}
