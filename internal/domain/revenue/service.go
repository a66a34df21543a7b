package revenue

import "context"

type RevenueService interface {
	ListByMonth(ctx context.Context, month string) ([]RevenueResponse, error)
	GetMonthView(ctx context.Context, month string) (MonthViewResponse, error)
	GetRevenue(ctx context.Context, id string) (RevenueResponse, error)
	CreateRevenue(ctx context.Context, req CreateRevenueRequest) (RevenueResponse, error)
	UpdateRevenue(ctx context.Context, req UpdateRevenueRequest) (RevenueResponse, error)
	DeleteRevenue(ctx context.Context, id string) error
	BulkUpsert(ctx context.Context, req BulkRevenueRequest) (BulkRevenueResponse, error)
}
