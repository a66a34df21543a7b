package salary

import "context"

// SalaryService is the surface the HTTP layer consumes.
type SalaryService interface {
	// Generate creates Pending salaries for every Active employee without one for the month.
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	// Recalculate refreshes existing Pending salaries for the month. Paid ones are skipped.
	Recalculate(ctx context.Context, req RecalculateRequest) (RecalculateResponse, error)
	MarkPaid(ctx context.Context, req UpdateStatusRequest) (SalaryResponse, error)

	GetSalary(ctx context.Context, id string) (SalaryResponse, error)
	ListSalaries(ctx context.Context, filter SalaryFilter) (ListSalaryResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]SalaryResponse, error)
	// ExportMonth renders the month's salaries as an XLSX workbook.
	ExportMonth(ctx context.Context, month string) ([]byte, error)
}
