package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/project"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/revenue"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/currency"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrMissingClaims):
		Unauthorized(w, "Token is missing required claims")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Input errors
	case errors.Is(err, period.ErrInvalidMonth):
		BadRequest(w, "Invalid month, expected YYYY-MM", nil)
	case errors.Is(err, currency.ErrInvalidRate):
		BadRequest(w, "Exchange rate must be a positive number", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")

	// Project domain errors
	case errors.Is(err, project.ErrProjectNotFound):
		NotFound(w, "Project not found")
	case errors.Is(err, project.ErrTeamMemberNotFound):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, project.ErrHistorySequenceTaken):
		Conflict(w, "Project was modified concurrently, please retry")
	case errors.Is(err, project.ErrHistoryOutOfOrder):
		Conflict(w, "Project history is out of order")

	// Revenue domain errors
	case errors.Is(err, revenue.ErrRevenueNotFound):
		NotFound(w, "Monthly revenue not found")
	case errors.Is(err, revenue.ErrRevenueExists):
		Conflict(w, "Revenue already recorded for this project and month")

	// Salary domain errors
	case errors.Is(err, salary.ErrSalaryNotFound):
		NotFound(w, "Salary not found")
	case errors.Is(err, salary.ErrDuplicateSalary):
		Conflict(w, "Salary already exists for this employee and month")
	case errors.Is(err, salary.ErrSalaryLocked):
		Conflict(w, "Salary is already paid and cannot be modified")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
