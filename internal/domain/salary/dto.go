package salary

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== BATCH DTOs ==========

type GenerateRequest struct {
	Month string `json:"month"`
}

func (r *GenerateRequest) Validate() error {
	return validateMonth(r.Month)
}

type RecalculateRequest struct {
	Month string `json:"month"`
}

func (r *RecalculateRequest) Validate() error {
	return validateMonth(r.Month)
}

type GenerateResponse struct {
	Month        string           `json:"month"`
	CreatedCount int              `json:"created_count"`
	SkippedCount int              `json:"skipped_count"`
	ErrorCount   int              `json:"error_count"`
	Created      []SalaryResponse `json:"created"`
	Skipped      []string         `json:"skipped"`
	Errors       []BatchError     `json:"errors"`
	Message      string           `json:"message"`
}

type RecalculateResponse struct {
	Month              string           `json:"month"`
	UpdatedCount       int              `json:"updated_count"`
	LockedSkippedCount int              `json:"locked_skipped_count"`
	ErrorCount         int              `json:"error_count"`
	Updated            []SalaryResponse `json:"updated"`
	LockedSkipped      []string         `json:"locked_skipped"`
	Errors             []BatchError     `json:"errors"`
	Message            string           `json:"message"`
}

// ========== STATUS DTOs ==========

type UpdateStatusRequest struct {
	ID               string  `json:"-"`
	Status           string  `json:"status"`
	PaidDate         *string `json:"paid_date,omitempty"`
	PaymentReference *string `json:"payment_reference,omitempty"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID == "" {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	// Pending -> Paid is the only transition
	if r.Status != string(StatusPaid) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'Paid'"})
	}
	if r.PaidDate != nil {
		if _, ok := validator.IsValidDate(*r.PaidDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "paid_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.PaymentReference != nil && len(*r.PaymentReference) > 255 {
		errs = append(errs, validator.ValidationError{Field: "payment_reference", Message: "must be at most 255 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== QUERY DTOs ==========

type SalaryFilter struct {
	Month        *string
	Status       *string
	EmployeeID   *string
	DepartmentID *string
	Page         int
	Limit        int
}

func (f *SalaryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != nil && !validator.IsValidMonth(*f.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be in YYYY-MM format"})
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{string(StatusPending), string(StatusPaid)}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'Pending' or 'Paid'"})
	}
	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee", Message: "must be a valid UUID"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DisplayAmounts struct {
	BaseSalary  string `json:"base_salary"`
	TotalAmount string `json:"total_amount"`
}

type SalaryResponse struct {
	ID                  string          `json:"id"`
	EmployeeID          string          `json:"employee_id"`
	EmployeeName        *string         `json:"employee_name,omitempty"`
	EmployeeRole        *string         `json:"employee_role,omitempty"`
	Month               string          `json:"month"`
	BaseSalary          decimal.Decimal `json:"base_salary"`
	ProjectBonuses      []LineItem      `json:"project_bonuses"`
	PMCommissions       []LineItem      `json:"pm_commissions"`
	TeamLeadCommissions []LineItem      `json:"team_lead_commissions"`
	ManagerCommissions  []LineItem      `json:"manager_commissions"`
	BidderCommissions   []LineItem      `json:"bidder_commissions"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	ExchangeRate        decimal.Decimal `json:"exchange_rate"`
	Status              Status          `json:"status"`
	PaidDate            *string         `json:"paid_date,omitempty"`
	PaymentReference    *string         `json:"payment_reference,omitempty"`
	Display             *DisplayAmounts `json:"display,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type ListSalaryResponse struct {
	Salaries   []SalaryResponse `json:"salaries"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

func validateMonth(month string) error {
	if !validator.IsValidMonth(month) {
		return validator.ValidationErrors{{Field: "month", Message: "must be in YYYY-MM format"}}
	}
	return nil
}
