package dashboard

import (
	"context"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/currency"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
	"golang.org/x/sync/errgroup"
)

const overviewLimit = 5

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	converter *currency.Converter
}

func NewDashboardService(repo dashboard.DashboardRepository, converter *currency.Converter) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		converter:           converter,
	}
}

// resolveMonth parses YYYY-MM, defaults to current month
func resolveMonth(month string) (period.Month, error) {
	if month == "" {
		return period.Current(), nil
	}
	return period.Parse(month)
}

// GetMetrics runs the four dashboard queries in parallel goroutines
func (s *DashboardServiceImpl) GetMetrics(ctx context.Context, month string) (*dashboard.MetricsResponse, error) {
	m, err := resolveMonth(month)
	if err != nil {
		return nil, err
	}

	var (
		totals  *dashboard.SalaryTotals
		active  int64
		paid    []dashboard.SalaryOverviewItem
		pending []dashboard.SalaryOverviewItem
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Paid / pending / payout sums (1 query)
	g.Go(func() error {
		result, err := s.GetSalaryTotals(gCtx, m.String())
		if err != nil {
			return err
		}
		totals = result
		return nil
	})

	// 2. Active headcount
	g.Go(func() error {
		count, err := s.CountActiveEmployees(gCtx)
		if err != nil {
			return err
		}
		active = count
		return nil
	})

	// 3. Latest paid
	g.Go(func() error {
		items, err := s.GetLatestSalaries(gCtx, m.String(), string(salary.StatusPaid), overviewLimit)
		if err != nil {
			return err
		}
		paid = items
		return nil
	})

	// 4. Latest pending
	g.Go(func() error {
		items, err := s.GetLatestSalaries(gCtx, m.String(), string(salary.StatusPending), overviewLimit)
		if err != nil {
			return err
		}
		pending = items
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if paid == nil {
		paid = []dashboard.SalaryOverviewItem{}
	}
	if pending == nil {
		pending = []dashboard.SalaryOverviewItem{}
	}

	return &dashboard.MetricsResponse{
		Month:                m.String(),
		TotalActiveEmployees: active,
		TotalPaidSalary:      totals.Paid,
		TotalPendingSalary:   totals.Pending,
		TotalProjectPayout:   totals.ProjectPayout,
		Display: dashboard.MetricsDisplay{
			TotalPaidSalary:    s.converter.FormatDual(totals.Paid),
			TotalPendingSalary: s.converter.FormatDual(totals.Pending),
			TotalProjectPayout: s.converter.FormatDual(totals.ProjectPayout),
		},
		SalaryOverview: dashboard.SalaryOverview{
			Paid:    paid,
			Pending: pending,
		},
	}, nil
}
