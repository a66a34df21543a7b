package dashboard

import (
	"context"

	"github.com/shopspring/decimal"
)

// SalaryTotals combines paid/pending/line-item sums for a month in one query
type SalaryTotals struct {
	Paid          decimal.Decimal
	Pending       decimal.Decimal
	ProjectPayout decimal.Decimal
}

type DashboardRepository interface {
	GetSalaryTotals(ctx context.Context, month string) (*SalaryTotals, error)
	CountActiveEmployees(ctx context.Context) (int64, error)
	GetLatestSalaries(ctx context.Context, month string, status string, limit int) ([]SalaryOverviewItem, error)
}
