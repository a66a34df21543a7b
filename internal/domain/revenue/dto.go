package revenue

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/project"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateRevenueRequest struct {
	ProjectID       string          `json:"project_id"`
	Month           string          `json:"month"`
	AmountCollected decimal.Decimal `json:"amount_collected"`
	Notes           *string         `json:"notes,omitempty"`
}

func (r *CreateRevenueRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ProjectID) {
		errs = append(errs, validator.ValidationError{Field: "project_id", Message: "is required"})
	}
	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be in YYYY-MM format"})
	}
	if r.AmountCollected.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount_collected", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateRevenueRequest struct {
	ID              string           `json:"-"`
	AmountCollected *decimal.Decimal `json:"amount_collected,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

func (r *UpdateRevenueRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID == "" {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if r.AmountCollected != nil && r.AmountCollected.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount_collected", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BulkRevenueRequest struct {
	Revenues []CreateRevenueRequest `json:"revenues"`
}

func (r *BulkRevenueRequest) Validate() error {
	if len(r.Revenues) == 0 {
		return validator.ValidationErrors{{Field: "revenues", Message: "must contain at least one entry"}}
	}
	return nil
}

type RevenueResponse struct {
	ID              string          `json:"id"`
	ProjectID       string          `json:"project_id"`
	ProjectName     *string         `json:"project_name,omitempty"`
	Month           string          `json:"month"`
	AmountCollected decimal.Decimal `json:"amount_collected"`
	AmountPKR       decimal.Decimal `json:"amount_pkr"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedBy       *string         `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type MonthViewResponse struct {
	Month                  string                    `json:"month"`
	ExistingRevenues       []RevenueResponse         `json:"existing_revenues"`
	ProjectsWithoutRevenue []project.ProjectResponse `json:"projects_without_revenue"`
}

type BulkItemError struct {
	Index     int    `json:"index"`
	ProjectID string `json:"project_id"`
	Message   string `json:"message"`
}

type BulkRevenueResponse struct {
	CreatedCount int             `json:"created_count"`
	UpdatedCount int             `json:"updated_count"`
	ErrorCount   int             `json:"error_count"`
	Errors       []BulkItemError `json:"errors"`
}
