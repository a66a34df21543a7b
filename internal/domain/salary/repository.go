package salary

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
)

type SalaryRepository interface {
	// Create fails with ErrDuplicateSalary when (employee, month) already exists.
	Create(ctx context.Context, s Salary) (Salary, error)
	GetByID(ctx context.Context, id string) (Salary, error)
	GetByEmployeeMonth(ctx context.Context, employeeID string, month period.Month) (Salary, error)
	// ListByMonth returns every salary for month ordered by employee ID.
	ListByMonth(ctx context.Context, month period.Month) ([]Salary, error)
	List(ctx context.Context, filter SalaryFilter) ([]Salary, int64, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Salary, error)
	// UpdateIfPending rewrites base salary, line items, total and rate only
	// while the stored status is Pending. It returns ErrSalaryLocked when the
	// row is Paid at write time and ErrSalaryNotFound when it is gone.
	UpdateIfPending(ctx context.Context, s Salary) (Salary, error)
	// MarkPaid moves a Pending salary to Paid. It returns ErrSalaryLocked if
	// already Paid.
	MarkPaid(ctx context.Context, id string, paidDate time.Time, reference *string) (Salary, error)
}
