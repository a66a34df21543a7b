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

// Generator creates missing Pending salaries for a month. It only ever adds
// records, so repeated runs for the same month are safe.
type Generator struct {
	employeeRepo employee.EmployeeRepository
	salaryRepo   salary.SalaryRepository
	settings     settings.SettingsService
	converter    *currency.Converter
	composer     *Composer
}

func NewGenerator(
	employeeRepo employee.EmployeeRepository,
	salaryRepo salary.SalaryRepository,
	settingsService settings.SettingsService,
	converter *currency.Converter,
	composer *Composer,
) *Generator {
	return &Generator{
		employeeRepo: employeeRepo,
		salaryRepo:   salaryRepo,
		settings:     settingsService,
		converter:    converter,
		composer:     composer,
	}
}

func (g *Generator) Generate(ctx context.Context, month period.Month) (salary.GenerateResult, error) {
	result := salary.GenerateResult{
		Month:   month,
		Created: []salary.Salary{},
		Skipped: []string{},
		Errors:  []salary.BatchError{},
	}

	rate := g.converter.Snapshot()
	current, err := g.settings.Current(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load settings: %w", err)
	}

	employees, err := g.employeeRepo.ListActive(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list active employees: %w", err)
	}

	existing, err := g.salaryRepo.ListByMonth(ctx, month)
	if err != nil {
		return result, fmt.Errorf("failed to list salaries for %s: %w", month, err)
	}
	hasSalary := make(map[string]bool, len(existing))
	for _, s := range existing {
		hasSalary[s.EmployeeID] = true
	}

	items, err := g.composer.Compose(ctx, month, rate, current.CommissionDefaults())
	if err != nil {
		return result, err
	}

	active := make(map[string]bool, len(employees))
	for _, emp := range employees {
		active[emp.ID] = true
	}
	for id := range items {
		if !active[id] {
			slog.Debug("Dropping line items for non-active employee", "employee_id", id, "month", month.String())
		}
	}

	for _, emp := range employees {
		if hasSalary[emp.ID] {
			result.Skipped = append(result.Skipped, emp.ID)
			continue
		}

		record := salary.Salary{
			EmployeeID:   emp.ID,
			Month:        month,
			ExchangeRate: rate.Value(),
			Status:       salary.StatusPending,
		}
		record.Compose(emp.BaseSalary, items[emp.ID])

		created, err := g.salaryRepo.Create(ctx, record)
		if err != nil {
			if errors.Is(err, salary.ErrDuplicateSalary) {
				// created concurrently by another run
				result.Skipped = append(result.Skipped, emp.ID)
				continue
			}
			slog.Error("Failed to create salary", "employee_id", emp.ID, "month", month.String(), "error", err)
			result.Errors = append(result.Errors, salary.BatchError{EmployeeID: emp.ID, Message: err.Error()})
			continue
		}
		result.Created = append(result.Created, created)
	}

	slog.Info("Salary generation completed",
		"month", month.String(),
		"created", len(result.Created),
		"skipped", len(result.Skipped),
		"errors", len(result.Errors),
		"rate", rate.Value().String(),
	)
	return result, nil
}
