package salary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/currency"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
)

// Recalculator refreshes existing Pending salaries for a month. Paid salaries
// are never written and no new records are created.
type Recalculator struct {
	employeeRepo employee.EmployeeRepository
	salaryRepo   salary.SalaryRepository
	settings     settings.SettingsService
	converter    *currency.Converter
	composer     *Composer
}

func NewRecalculator(
	employeeRepo employee.EmployeeRepository,
	salaryRepo salary.SalaryRepository,
	settingsService settings.SettingsService,
	converter *currency.Converter,
	composer *Composer,
) *Recalculator {
	return &Recalculator{
		employeeRepo: employeeRepo,
		salaryRepo:   salaryRepo,
		settings:     settingsService,
		converter:    converter,
		composer:     composer,
	}
}

func (r *Recalculator) Recalculate(ctx context.Context, month period.Month) (salary.RecalculateResult, error) {
	result := salary.RecalculateResult{
		Month:         month,
		Updated:       []salary.Salary{},
		LockedSkipped: []string{},
		Errors:        []salary.BatchError{},
	}

	existing, err := r.salaryRepo.ListByMonth(ctx, month)
	if err != nil {
		return result, fmt.Errorf("failed to list salaries for %s: %w", month, err)
	}
	if len(existing) == 0 {
		return result, nil
	}

	rate := r.converter.Snapshot()
	current, err := r.settings.Current(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load settings: %w", err)
	}

	var pendingIDs []string
	for _, s := range existing {
		if !s.IsPaid() {
			pendingIDs = append(pendingIDs, s.EmployeeID)
		}
	}
	// employees who have since become Inactive are still refreshed
	employees, err := r.employeeRepo.GetByIDs(ctx, pendingIDs)
	if err != nil {
		return result, fmt.Errorf("failed to load employees: %w", err)
	}
	byID := make(map[string]employee.Employee, len(employees))
	for _, emp := range employees {
		byID[emp.ID] = emp
	}

	items, err := r.composer.Compose(ctx, month, rate, current.CommissionDefaults())
	if err != nil {
		return result, err
	}

	for _, record := range existing {
		if record.IsPaid() {
			result.LockedSkipped = append(result.LockedSkipped, record.EmployeeID)
			continue
		}
		emp, ok := byID[record.EmployeeID]
		if !ok {
			result.Errors = append(result.Errors, salary.BatchError{
				EmployeeID: record.EmployeeID,
				Message:    employee.ErrEmployeeNotFound.Error(),
			})
			continue
		}

		record.ExchangeRate = rate.Value()
		record.Compose(emp.BaseSalary, items[emp.ID])

		updated, err := r.salaryRepo.UpdateIfPending(ctx, record)
		if err != nil {
			if errors.Is(err, salary.ErrSalaryLocked) {
				// paid between the read and the write
				result.LockedSkipped = append(result.LockedSkipped, record.EmployeeID)
				continue
			}
			slog.Error("Failed to recalculate salary", "salary_id", record.ID, "month", month.String(), "error", err)
			result.Errors = append(result.Errors, salary.BatchError{EmployeeID: record.EmployeeID, Message: err.Error()})
			continue
		}
		result.Updated = append(result.Updated, updated)
	}

	slog.Info("Salary recalculation completed",
		"month", month.String(),
		"updated", len(result.Updated),
		"locked_skipped", len(result.LockedSkipped),
		"errors", len(result.Errors),
		"rate", rate.Value().String(),
	)
	return result, nil
}
