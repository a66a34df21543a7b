package project

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== REQUEST DTOs ==========

type CreateProjectRequest struct {
	Name               string           `json:"name"`
	ClientName         string           `json:"client_name"`
	TotalAmount        decimal.Decimal  `json:"total_amount"`
	StartDate          string           `json:"start_date"`
	EndDate            *string          `json:"end_date,omitempty"`
	Status             string           `json:"status,omitempty"` // defaults to Active
	Team               Team             `json:"team"`
	BonusPool          decimal.Decimal  `json:"bonus_pool"`
	PMCommission       *commission.Spec `json:"pm_commission,omitempty"`
	TeamLeadCommission *commission.Spec `json:"team_lead_commission,omitempty"`
	ManagerCommission  *commission.Spec `json:"manager_commission,omitempty"`
	BidderCommission   *commission.Spec `json:"bidder_commission,omitempty"`
	Notes              *string          `json:"notes,omitempty"`
}

func (r *CreateProjectRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if validator.IsEmpty(r.ClientName) {
		errs = append(errs, validator.ValidationError{Field: "client_name", Message: "is required"})
	}
	if r.TotalAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "total_amount", Message: "must be non-negative"})
	}
	if r.BonusPool.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bonus_pool", Message: "must be non-negative"})
	}
	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be in YYYY-MM-DD format"})
	}
	if r.EndDate != nil {
		end, ok := validator.IsValidDate(*r.EndDate)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be in YYYY-MM-DD format"})
		} else if end.Before(start) {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
		}
	}
	if r.Status != "" && !isValidStatus(r.Status) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'Active' or 'Completed'"})
	}
	errs = append(errs, validateSpecs(r.PMCommission, r.TeamLeadCommission, r.ManagerCommission, r.BidderCommission)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateProjectRequest is a partial update; nil fields are left unchanged.
type UpdateProjectRequest struct {
	ID                 string           `json:"-"`
	Name               *string          `json:"name,omitempty"`
	ClientName         *string          `json:"client_name,omitempty"`
	TotalAmount        *decimal.Decimal `json:"total_amount,omitempty"`
	StartDate          *string          `json:"start_date,omitempty"`
	EndDate            *string          `json:"end_date,omitempty"`
	Status             *string          `json:"status,omitempty"`
	Team               *Team            `json:"team,omitempty"`
	BonusPool          *decimal.Decimal `json:"bonus_pool,omitempty"`
	PMCommission       *commission.Spec `json:"pm_commission,omitempty"`
	TeamLeadCommission *commission.Spec `json:"team_lead_commission,omitempty"`
	ManagerCommission  *commission.Spec `json:"manager_commission,omitempty"`
	BidderCommission   *commission.Spec `json:"bidder_commission,omitempty"`
	// ClearCommissions resets the named overrides so the settings defaults apply again.
	ClearCommissions []string `json:"clear_commissions,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
}

// Commission override fields accepted by clear_commissions.
const (
	FieldPMCommission       = "pm_commission"
	FieldTeamLeadCommission = "team_lead_commission"
	FieldManagerCommission  = "manager_commission"
	FieldBidderCommission   = "bidder_commission"
)

var commissionFields = []string{FieldPMCommission, FieldTeamLeadCommission, FieldManagerCommission, FieldBidderCommission}

// Clears reports whether field is listed in ClearCommissions.
func (r *UpdateProjectRequest) Clears(field string) bool {
	return validator.IsInSlice(field, r.ClearCommissions)
}

func (r *UpdateProjectRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID == "" {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not be empty"})
	}
	if r.ClientName != nil && validator.IsEmpty(*r.ClientName) {
		errs = append(errs, validator.ValidationError{Field: "client_name", Message: "must not be empty"})
	}
	if r.TotalAmount != nil && r.TotalAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "total_amount", Message: "must be non-negative"})
	}
	if r.BonusPool != nil && r.BonusPool.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bonus_pool", Message: "must be non-negative"})
	}
	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	// an empty end_date clears it
	if r.EndDate != nil && *r.EndDate != "" {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.Status != nil && !isValidStatus(*r.Status) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'Active' or 'Completed'"})
	}
	errs = append(errs, validateSpecs(r.PMCommission, r.TeamLeadCommission, r.ManagerCommission, r.BidderCommission)...)

	provided := map[string]bool{
		FieldPMCommission:       r.PMCommission != nil,
		FieldTeamLeadCommission: r.TeamLeadCommission != nil,
		FieldManagerCommission:  r.ManagerCommission != nil,
		FieldBidderCommission:   r.BidderCommission != nil,
	}
	for _, field := range r.ClearCommissions {
		if !validator.IsInSlice(field, commissionFields) {
			errs = append(errs, validator.ValidationError{Field: "clear_commissions", Message: "unknown commission field '" + field + "'"})
			break
		}
		if provided[field] {
			errs = append(errs, validator.ValidationError{Field: "clear_commissions", Message: "cannot set and clear " + field + " together"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignTeamRequest struct {
	ID    string  `json:"-"`
	Team  Team    `json:"team"`
	Notes *string `json:"notes,omitempty"`
}

func (r *AssignTeamRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID == "" {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ProjectFilter struct {
	Status *Status
}

func isValidStatus(s string) bool {
	return validator.IsInSlice(s, []string{string(StatusActive), string(StatusCompleted)})
}

func validateSpecs(pm, teamLead, manager, bidder *commission.Spec) validator.ValidationErrors {
	var errs validator.ValidationErrors
	fields := []struct {
		name string
		spec *commission.Spec
	}{
		{FieldPMCommission, pm},
		{FieldTeamLeadCommission, teamLead},
		{FieldManagerCommission, manager},
		{FieldBidderCommission, bidder},
	}
	for _, f := range fields {
		if f.spec == nil {
			continue
		}
		if err := f.spec.Validate(); err != nil {
			if verrs, ok := err.(validator.ValidationErrors); ok {
				errs = append(errs, verrs.Prefixed(f.name)...)
			}
		}
	}
	return errs
}

// ========== RESPONSE DTOs ==========

type ProjectResponse struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	ClientName         string           `json:"client_name"`
	TotalAmount        decimal.Decimal  `json:"total_amount"`
	StartDate          string           `json:"start_date"`
	EndDate            *string          `json:"end_date,omitempty"`
	Status             Status           `json:"status"`
	Team               Team             `json:"team"`
	BonusPool          decimal.Decimal  `json:"bonus_pool"`
	PMCommission       *commission.Spec `json:"pm_commission"`
	TeamLeadCommission *commission.Spec `json:"team_lead_commission"`
	ManagerCommission  *commission.Spec `json:"manager_commission"`
	BidderCommission   *commission.Spec `json:"bidder_commission"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type HistoryEntryResponse struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"project_id"`
	Sequence   int64      `json:"sequence"`
	ChangeType ChangeType `json:"change_type"`
	Changes    []Change   `json:"changes"`
	Snapshot   Snapshot   `json:"snapshot"`
	ChangedBy  Actor      `json:"changed_by"`
	Notes      *string    `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func NewProjectResponse(p Project) ProjectResponse {
	resp := ProjectResponse{
		ID:                 p.ID,
		Name:               p.Name,
		ClientName:         p.ClientName,
		TotalAmount:        p.TotalAmount,
		StartDate:          p.StartDate.Format("2006-01-02"),
		Status:             p.Status,
		Team:               p.Team.Normalized(),
		BonusPool:          p.BonusPool,
		PMCommission:       p.PMCommission,
		TeamLeadCommission: p.TeamLeadCommission,
		ManagerCommission:  p.ManagerCommission,
		BidderCommission:   p.BidderCommission,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if p.EndDate != nil {
		end := p.EndDate.Format("2006-01-02")
		resp.EndDate = &end
	}
	return resp
}

func NewHistoryEntryResponse(e HistoryEntry) HistoryEntryResponse {
	changes := e.Changes
	if changes == nil {
		changes = []Change{}
	}
	return HistoryEntryResponse{
		ID:         e.ID,
		ProjectID:  e.ProjectID,
		Sequence:   e.Sequence,
		ChangeType: e.ChangeType,
		Changes:    changes,
		Snapshot:   e.Snapshot,
		ChangedBy:  e.ChangedBy,
		Notes:      e.Notes,
		CreatedAt:  e.CreatedAt,
	}
}
