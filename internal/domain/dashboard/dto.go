package dashboard

import "github.com/shopspring/decimal"

// MetricsResponse is the payroll dashboard for one month
type MetricsResponse struct {
	Month                string          `json:"month"`
	TotalActiveEmployees int64           `json:"total_active_employees"`
	TotalPaidSalary      decimal.Decimal `json:"total_paid_salary"`
	TotalPendingSalary   decimal.Decimal `json:"total_pending_salary"`
	TotalProjectPayout   decimal.Decimal `json:"total_project_payout"` // sum of all line items
	Display              MetricsDisplay  `json:"display"`
	SalaryOverview       SalaryOverview  `json:"salary_overview"`
}

// MetricsDisplay holds dual-currency strings at the current rate
type MetricsDisplay struct {
	TotalPaidSalary    string `json:"total_paid_salary"`
	TotalPendingSalary string `json:"total_pending_salary"`
	TotalProjectPayout string `json:"total_project_payout"`
}

type SalaryOverview struct {
	Paid    []SalaryOverviewItem `json:"paid"`    // latest 5
	Pending []SalaryOverviewItem `json:"pending"` // latest 5
}

type SalaryOverviewItem struct {
	SalaryID     string          `json:"salary_id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       string          `json:"status"`
	PaidDate     *string         `json:"paid_date,omitempty"`
}
