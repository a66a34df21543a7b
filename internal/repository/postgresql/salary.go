package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type salaryRepositoryImpl struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) salary.SalaryRepository {
	return &salaryRepositoryImpl{db: db}
}

const salaryColumns = `
	s.id, s.employee_id, s.month, s.base_salary,
	s.project_bonuses, s.pm_commissions, s.team_lead_commissions, s.manager_commissions, s.bidder_commissions,
	s.total_amount, s.exchange_rate, s.status, s.paid_date, s.payment_reference, s.created_at, s.updated_at,
	e.full_name, e.role`

const salaryFrom = ` FROM salaries s LEFT JOIN employees e ON e.id = s.employee_id`

func scanSalary(row pgx.Row) (salary.Salary, error) {
	var s salary.Salary
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.Month, &s.BaseSalary,
		&s.ProjectBonuses, &s.PMCommissions, &s.TeamLeadCommissions, &s.ManagerCommissions, &s.BidderCommissions,
		&s.TotalAmount, &s.ExchangeRate, &s.Status, &s.PaidDate, &s.PaymentReference, &s.CreatedAt, &s.UpdatedAt,
		&s.EmployeeName, &s.EmployeeRole,
	)
	s.LineItems = s.LineItems.Normalized()
	return s, err
}

func collectSalaries(rows pgx.Rows) ([]salary.Salary, error) {
	defer rows.Close()

	var salaries []salary.Salary
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary: %w", err)
		}
		salaries = append(salaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salaries: %w", err)
	}
	return salaries, nil
}

func (r *salaryRepositoryImpl) Create(ctx context.Context, s salary.Salary) (salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return salary.Salary{}, fmt.Errorf("failed to generate salary id: %w", err)
	}
	items := s.LineItems.Normalized()
	if s.Status == "" {
		s.Status = salary.StatusPending
	}

	query := `
		INSERT INTO salaries (
			id, employee_id, month, base_salary,
			project_bonuses, pm_commissions, team_lead_commissions, manager_commissions, bidder_commissions,
			total_amount, exchange_rate, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	var newID string
	err = q.QueryRow(ctx, query,
		id.String(), s.EmployeeID, s.Month, s.BaseSalary,
		items.ProjectBonuses, items.PMCommissions, items.TeamLeadCommissions, items.ManagerCommissions, items.BidderCommissions,
		s.TotalAmount, s.ExchangeRate, s.Status,
	).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err, "uk_salary_employee_month") {
			return salary.Salary{}, salary.ErrDuplicateSalary
		}
		return salary.Salary{}, fmt.Errorf("failed to create salary: %w", err)
	}
	return r.GetByID(ctx, newID)
}

func (r *salaryRepositoryImpl) GetByID(ctx context.Context, id string) (salary.Salary, error) {
	if !validator.IsValidUUID(id) {
		return salary.Salary{}, salary.ErrSalaryNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryColumns + salaryFrom + ` WHERE s.id = $1`

	s, err := scanSalary(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return salary.Salary{}, salary.ErrSalaryNotFound
		}
		return salary.Salary{}, fmt.Errorf("failed to get salary: %w", err)
	}
	return s, nil
}

func (r *salaryRepositoryImpl) GetByEmployeeMonth(ctx context.Context, employeeID string, month period.Month) (salary.Salary, error) {
	if !validator.IsValidUUID(employeeID) {
		return salary.Salary{}, salary.ErrSalaryNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryColumns + salaryFrom + ` WHERE s.employee_id = $1 AND s.month = $2`

	s, err := scanSalary(q.QueryRow(ctx, query, employeeID, month))
	if err != nil {
		if err == pgx.ErrNoRows {
			return salary.Salary{}, salary.ErrSalaryNotFound
		}
		return salary.Salary{}, fmt.Errorf("failed to get salary: %w", err)
	}
	return s, nil
}

func (r *salaryRepositoryImpl) ListByMonth(ctx context.Context, month period.Month) ([]salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryColumns + salaryFrom + ` WHERE s.month = $1 ORDER BY s.employee_id`

	rows, err := q.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list salaries by month: %w", err)
	}
	return collectSalaries(rows)
}

func (r *salaryRepositoryImpl) List(ctx context.Context, filter salary.SalaryFilter) ([]salary.Salary, int64, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conditions []string
		args       []interface{}
	)
	addCondition := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	addCondition("s.month", filter.Month)
	addCondition("s.status", filter.Status)
	addCondition("s.employee_id", filter.EmployeeID)
	addCondition("e.department_id", filter.DepartmentID)

	where := ""
	if len(conditions) > 0 {
		where = ` WHERE ` + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*)`+salaryFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count salaries: %w", err)
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	args = append(args, limit, (page-1)*limit)
	query := `SELECT ` + salaryColumns + salaryFrom + where +
		fmt.Sprintf(` ORDER BY s.month DESC, e.full_name ASC, s.id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list salaries: %w", err)
	}
	salaries, err := collectSalaries(rows)
	if err != nil {
		return nil, 0, err
	}
	return salaries, total, nil
}

func (r *salaryRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]salary.Salary, error) {
	if !validator.IsValidUUID(employeeID) {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + salaryColumns + salaryFrom + ` WHERE s.employee_id = $1 ORDER BY s.month DESC`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salaries by employee: %w", err)
	}
	return collectSalaries(rows)
}

func (r *salaryRepositoryImpl) UpdateIfPending(ctx context.Context, s salary.Salary) (salary.Salary, error) {
	q := GetQuerier(ctx, r.db)

	items := s.LineItems.Normalized()

	query := `
		UPDATE salaries SET
			base_salary = $2,
			project_bonuses = $3, pm_commissions = $4, team_lead_commissions = $5,
			manager_commissions = $6, bidder_commissions = $7,
			total_amount = $8, exchange_rate = $9, updated_at = NOW()
		WHERE id = $1 AND status = 'Pending'`

	tag, err := q.Exec(ctx, query,
		s.ID, s.BaseSalary,
		items.ProjectBonuses, items.PMCommissions, items.TeamLeadCommissions, items.ManagerCommissions, items.BidderCommissions,
		s.TotalAmount, s.ExchangeRate,
	)
	if err != nil {
		return salary.Salary{}, fmt.Errorf("failed to update salary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.Salary{}, r.lockedOrMissing(ctx, s.ID)
	}
	return r.GetByID(ctx, s.ID)
}

func (r *salaryRepositoryImpl) MarkPaid(ctx context.Context, id string, paidDate time.Time, reference *string) (salary.Salary, error) {
	if !validator.IsValidUUID(id) {
		return salary.Salary{}, salary.ErrSalaryNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salaries SET
			status = 'Paid', paid_date = $2, payment_reference = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'Pending'`

	tag, err := q.Exec(ctx, query, id, paidDate, reference)
	if err != nil {
		return salary.Salary{}, fmt.Errorf("failed to mark salary paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.Salary{}, r.lockedOrMissing(ctx, id)
	}
	return r.GetByID(ctx, id)
}

// lockedOrMissing explains why a Pending-guarded update touched no rows.
func (r *salaryRepositoryImpl) lockedOrMissing(ctx context.Context, id string) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsPaid() {
		return salary.ErrSalaryLocked
	}
	return fmt.Errorf("salary %s was not updated", id)
}
