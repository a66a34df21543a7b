package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetSalaryTotals returns paid, pending and line-item sums for a month in single query.
// Line items are total minus base, which holds for every stored salary.
func (r *dashboardRepositoryImpl) GetSalaryTotals(ctx context.Context, month string) (*dashboard.SalaryTotals, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'Paid' THEN total_amount ELSE 0 END), 0) as paid,
			COALESCE(SUM(CASE WHEN status = 'Pending' THEN total_amount ELSE 0 END), 0) as pending,
			COALESCE(SUM(total_amount - base_salary), 0) as project_payout
		FROM salaries
		WHERE month = $1
	`

	var totals dashboard.SalaryTotals
	err := q.QueryRow(ctx, query, month).Scan(&totals.Paid, &totals.Pending, &totals.ProjectPayout)
	if err != nil {
		return nil, fmt.Errorf("failed to get salary totals: %w", err)
	}
	return &totals, nil
}

func (r *dashboardRepositoryImpl) CountActiveEmployees(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE status = 'Active'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}
	return count, nil
}

// GetLatestSalaries returns the most recently touched salaries of a status for a month
func (r *dashboardRepositoryImpl) GetLatestSalaries(ctx context.Context, month string, status string, limit int) ([]dashboard.SalaryOverviewItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.employee_id, COALESCE(e.full_name, ''), s.total_amount, s.status, s.paid_date
		FROM salaries s
		LEFT JOIN employees e ON e.id = s.employee_id
		WHERE s.month = $1 AND s.status = $2
		ORDER BY s.updated_at DESC
		LIMIT $3
	`

	rows, err := q.Query(ctx, query, month, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest salaries: %w", err)
	}
	defer rows.Close()

	items := []dashboard.SalaryOverviewItem{}
	for rows.Next() {
		var (
			item     dashboard.SalaryOverviewItem
			paidDate *time.Time
		)
		if err := rows.Scan(&item.SalaryID, &item.EmployeeID, &item.EmployeeName, &item.TotalAmount, &item.Status, &paidDate); err != nil {
			return nil, fmt.Errorf("failed to scan salary overview: %w", err)
		}
		if paidDate != nil {
			formatted := paidDate.Format("2006-01-02")
			item.PaidDate = &formatted
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary overview: %w", err)
	}
	return items, nil
}
