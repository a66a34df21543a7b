package commission

import (
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Type enum
type Type string

const (
	TypePercentage Type = "percentage"
	TypeFixed      Type = "fixed"
)

// Spec describes how a role's share is computed: a percentage of the basis
// or a fixed PKR amount.
type Spec struct {
	Type   Type            `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

func Percentage(amount decimal.Decimal) Spec {
	return Spec{Type: TypePercentage, Amount: amount}
}

func Fixed(amount decimal.Decimal) Spec {
	return Spec{Type: TypeFixed, Amount: amount}
}

// Validate rejects unknown types and negative amounts. Percentages above 100
// are accepted here; callers report them as data-quality warnings.
func (s Spec) Validate() error {
	var errs validator.ValidationErrors

	if s.Type != TypePercentage && s.Type != TypeFixed {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'percentage' or 'fixed'"})
	}
	if s.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Role identifies which team slot a commission belongs to.
type Role string

const (
	RoleProjectManager Role = "pm"
	RoleTeamLead       Role = "team_lead"
	RoleManager        Role = "manager"
	RoleBidder         Role = "bidder"
)

// Defaults are the organization-wide fallbacks applied when a project leaves
// a role's spec unset. A nil entry means the role has no fallback.
type Defaults struct {
	ProjectManager *Spec
	TeamLead       *Spec
	Manager        *Spec
	Bidder         *Spec
}

func (d Defaults) For(role Role) *Spec {
	switch role {
	case RoleProjectManager:
		return d.ProjectManager
	case RoleTeamLead:
		return d.TeamLead
	case RoleManager:
		return d.Manager
	case RoleBidder:
		return d.Bidder
	}
	return nil
}
