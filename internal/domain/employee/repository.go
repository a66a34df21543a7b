package employee

import "context"

// EmployeeRepository is the read surface the salary engine needs from the HR module.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetByIDs returns the employees found, in no particular order. Missing IDs are not an error.
	GetByIDs(ctx context.Context, ids []string) ([]Employee, error)
	// ListActive returns every Active employee ordered by ID.
	ListActive(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
}
