package revenue

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
)

type RevenueRepository interface {
	Create(ctx context.Context, entry MonthlyProjectRevenue) (MonthlyProjectRevenue, error)
	GetByID(ctx context.Context, id string) (MonthlyProjectRevenue, error)
	GetByProjectMonth(ctx context.Context, projectID string, month period.Month) (MonthlyProjectRevenue, error)
	// ListByMonth returns entries ordered by project ID.
	ListByMonth(ctx context.Context, month period.Month) ([]MonthlyProjectRevenue, error)
	Update(ctx context.Context, req UpdateRevenueRequest) (MonthlyProjectRevenue, error)
	// Upsert reports whether a new row was inserted.
	Upsert(ctx context.Context, entry MonthlyProjectRevenue) (MonthlyProjectRevenue, bool, error)
	Delete(ctx context.Context, id string) error
}
