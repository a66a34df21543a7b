package salary

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/project"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/revenue"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/currency"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
	commissionsvc "github.com/cmlabs-hris/payroll-backend-go/internal/service/commission"
	revenuesvc "github.com/cmlabs-hris/payroll-backend-go/internal/service/revenue"
	"github.com/shopspring/decimal"
)

// ========== EMPLOYEES ==========

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetByIDs(_ context.Context, ids []string) ([]employee.Employee, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []employee.Employee
	for _, e := range f.employees {
		if want[e.ID] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.IsActive() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	f.employees = append(f.employees, e)
	return e, nil
}

// ========== PROJECTS ==========

type fakeProjectRepo struct {
	projects map[string]project.Project
}

func (f *fakeProjectRepo) Create(_ context.Context, p project.Project) (project.Project, error) {
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id string) (project.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return project.Project{}, project.ErrProjectNotFound
	}
	return p, nil
}

func (f *fakeProjectRepo) GetByIDForUpdate(ctx context.Context, id string) (project.Project, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeProjectRepo) GetByIDs(_ context.Context, ids []string) ([]project.Project, error) {
	var out []project.Project
	for _, id := range ids {
		if p, ok := f.projects[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) List(_ context.Context, _ project.ProjectFilter) ([]project.Project, error) {
	var out []project.Project
	for _, p := range f.projects {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProjectRepo) Update(_ context.Context, p project.Project) (project.Project, error) {
	f.projects[p.ID] = p
	return p, nil
}

// ========== REVENUE ==========

type fakeRevenueRepo struct {
	entries []revenue.MonthlyProjectRevenue
}

func (f *fakeRevenueRepo) Create(_ context.Context, e revenue.MonthlyProjectRevenue) (revenue.MonthlyProjectRevenue, error) {
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeRevenueRepo) GetByID(_ context.Context, id string) (revenue.MonthlyProjectRevenue, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return revenue.MonthlyProjectRevenue{}, revenue.ErrRevenueNotFound
}

func (f *fakeRevenueRepo) GetByProjectMonth(_ context.Context, projectID string, month period.Month) (revenue.MonthlyProjectRevenue, error) {
	for _, e := range f.entries {
		if e.ProjectID == projectID && e.Month == month {
			return e, nil
		}
	}
	return revenue.MonthlyProjectRevenue{}, revenue.ErrRevenueNotFound
}

func (f *fakeRevenueRepo) ListByMonth(_ context.Context, month period.Month) ([]revenue.MonthlyProjectRevenue, error) {
	var out []revenue.MonthlyProjectRevenue
	for _, e := range f.entries {
		if e.Month == month {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRevenueRepo) Update(_ context.Context, _ revenue.UpdateRevenueRequest) (revenue.MonthlyProjectRevenue, error) {
	return revenue.MonthlyProjectRevenue{}, fmt.Errorf("not implemented")
}

func (f *fakeRevenueRepo) Upsert(_ context.Context, e revenue.MonthlyProjectRevenue) (revenue.MonthlyProjectRevenue, bool, error) {
	f.entries = append(f.entries, e)
	return e, true, nil
}

func (f *fakeRevenueRepo) Delete(_ context.Context, _ string) error {
	return nil
}

// ========== SALARIES ==========

type fakeSalaryRepo struct {
	mu      sync.Mutex
	records map[string]salary.Salary
	nextID  int

	// createErr fails Create for an employee ID.
	createErr map[string]error
	// paidBeforeWrite flips a record to Paid just before UpdateIfPending writes.
	paidBeforeWrite map[string]bool

	created  int
	getCalls int
}

func newFakeSalaryRepo(existing ...salary.Salary) *fakeSalaryRepo {
	f := &fakeSalaryRepo{
		records:         make(map[string]salary.Salary),
		createErr:       make(map[string]error),
		paidBeforeWrite: make(map[string]bool),
	}
	for _, s := range existing {
		f.records[s.ID] = s
	}
	return f
}

func (f *fakeSalaryRepo) Create(_ context.Context, s salary.Salary) (salary.Salary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.createErr[s.EmployeeID]; ok {
		return salary.Salary{}, err
	}
	for _, r := range f.records {
		if r.EmployeeID == s.EmployeeID && r.Month == s.Month {
			return salary.Salary{}, salary.ErrDuplicateSalary
		}
	}
	f.nextID++
	s.ID = fmt.Sprintf("sal-%d", f.nextID)
	f.records[s.ID] = s
	f.created++
	return s, nil
}

func (f *fakeSalaryRepo) GetByID(_ context.Context, id string) (salary.Salary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getCalls++
	s, ok := f.records[id]
	if !ok {
		return salary.Salary{}, salary.ErrSalaryNotFound
	}
	return s, nil
}

func (f *fakeSalaryRepo) GetByEmployeeMonth(_ context.Context, employeeID string, month period.Month) (salary.Salary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.records {
		if s.EmployeeID == employeeID && s.Month == month {
			return s, nil
		}
	}
	return salary.Salary{}, salary.ErrSalaryNotFound
}

func (f *fakeSalaryRepo) ListByMonth(_ context.Context, month period.Month) ([]salary.Salary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []salary.Salary
	for _, s := range f.records {
		if s.Month == month {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (f *fakeSalaryRepo) List(_ context.Context, filter salary.SalaryFilter) ([]salary.Salary, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []salary.Salary
	for _, s := range f.records {
		if filter.Month != nil && s.Month.String() != *filter.Month {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	start := (filter.Page - 1) * filter.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + filter.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (f *fakeSalaryRepo) ListByEmployee(_ context.Context, employeeID string) ([]salary.Salary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []salary.Salary
	for _, s := range f.records {
		if s.EmployeeID == employeeID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSalaryRepo) UpdateIfPending(_ context.Context, s salary.Salary) (salary.Salary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.records[s.ID]
	if !ok {
		return salary.Salary{}, salary.ErrSalaryNotFound
	}
	if f.paidBeforeWrite[s.ID] {
		stored.Status = salary.StatusPaid
		f.records[s.ID] = stored
	}
	if stored.IsPaid() {
		return salary.Salary{}, salary.ErrSalaryLocked
	}
	stored.BaseSalary = s.BaseSalary
	stored.LineItems = s.LineItems
	stored.TotalAmount = s.TotalAmount
	stored.ExchangeRate = s.ExchangeRate
	f.records[s.ID] = stored
	return stored, nil
}

func (f *fakeSalaryRepo) MarkPaid(_ context.Context, id string, paidDate time.Time, reference *string) (salary.Salary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.records[id]
	if !ok {
		return salary.Salary{}, salary.ErrSalaryNotFound
	}
	if stored.IsPaid() {
		return salary.Salary{}, salary.ErrSalaryLocked
	}
	stored.Status = salary.StatusPaid
	stored.PaidDate = &paidDate
	stored.PaymentReference = reference
	f.records[id] = stored
	return stored, nil
}

// ========== SETTINGS ==========

type fakeSettings struct {
	current settings.Settings
}

func (f *fakeSettings) GetSettings(_ context.Context) (settings.SettingsResponse, error) {
	return settings.SettingsResponse{}, nil
}

func (f *fakeSettings) Current(_ context.Context) (settings.Settings, error) {
	return f.current, nil
}

func (f *fakeSettings) UpdateSettings(_ context.Context, _ settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	return settings.SettingsResponse{}, nil
}

func (f *fakeSettings) SyncRate(_ context.Context) error {
	return nil
}

// ========== CACHE ==========

type memoryCache struct {
	values  map[string][]byte
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
		c.deleted = append(c.deleted, key)
	}
	return nil
}

// ========== FIXTURE ==========

type fixture struct {
	employees *fakeEmployeeRepo
	projects  *fakeProjectRepo
	revenues  *fakeRevenueRepo
	salaries  *fakeSalaryRepo
	settings  *fakeSettings
	converter *currency.Converter

	composer     *Composer
	generator    *Generator
	recalculator *Recalculator
}

func newFixture(rate int64) *fixture {
	converter, err := currency.NewConverter(decimal.NewFromInt(rate))
	if err != nil {
		panic(err)
	}
	f := &fixture{
		employees: &fakeEmployeeRepo{},
		projects:  &fakeProjectRepo{projects: make(map[string]project.Project)},
		revenues:  &fakeRevenueRepo{},
		salaries:  newFakeSalaryRepo(),
		settings: &fakeSettings{current: settings.Settings{
			USDToPKRRate:           decimal.NewFromInt(rate),
			PMCommissionPercentage: decimal.Zero,
			TeamLeadBonusAmount:    decimal.Zero,
			BidderBonusAmount:      decimal.Zero,
		}},
		converter: converter,
	}
	f.composer = NewComposer(revenuesvc.NewBasisResolver(f.revenues), f.projects, commissionsvc.NewCalculator())
	f.generator = NewGenerator(f.employees, f.salaries, f.settings, f.converter, f.composer)
	f.recalculator = NewRecalculator(f.employees, f.salaries, f.settings, f.converter, f.composer)
	return f
}

func (f *fixture) addEmployee(id string, base int64, status employee.Status) {
	f.employees.employees = append(f.employees.employees, employee.Employee{
		ID:         id,
		FullName:   "Employee " + id,
		Email:      id + "@example.com",
		Role:       employee.RoleDeveloper,
		BaseSalary: decimal.NewFromInt(base),
		Status:     status,
	})
}

func (f *fixture) addProject(p project.Project) {
	if p.Status == "" {
		p.Status = project.StatusActive
	}
	if p.Name == "" {
		p.Name = "Project " + p.ID
	}
	f.projects.projects[p.ID] = p
}

func (f *fixture) addRevenue(projectID string, month period.Month, usd int64) {
	f.revenues.entries = append(f.revenues.entries, revenue.MonthlyProjectRevenue{
		ID:              fmt.Sprintf("rev-%s-%s", projectID, month),
		ProjectID:       projectID,
		Month:           month,
		AmountCollected: decimal.NewFromInt(usd),
	})
}

func strPtr(s string) *string {
	return &s
}

func specPtr(s commission.Spec) *commission.Spec {
	return &s
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
