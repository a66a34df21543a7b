package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetMetrics returns payroll metrics for month ("YYYY-MM", empty = current month)
	GetMetrics(ctx context.Context, month string) (*MetricsResponse, error)
}
