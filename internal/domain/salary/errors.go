package salary

import "errors"

var (
	ErrSalaryNotFound  = errors.New("salary not found")
	ErrDuplicateSalary = errors.New("salary already exists for this employee and month")
	// ErrSalaryLocked is returned when a write targets a Paid salary.
	ErrSalaryLocked = errors.New("salary is paid and cannot be modified")
)
