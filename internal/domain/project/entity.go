package project

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/commission"
	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
)

// IsClosing reports whether s is a terminal state.
func (s Status) IsClosing() bool {
	return s == StatusCompleted
}

type Project struct {
	ID          string
	Name        string
	ClientName  string
	TotalAmount decimal.Decimal // contracted, USD
	StartDate   time.Time
	EndDate     *time.Time
	Status      Status
	Team        Team
	BonusPool   decimal.Decimal // developer pool, PKR

	// nil means "use the organization default"
	PMCommission       *commission.Spec
	TeamLeadCommission *commission.Spec
	ManagerCommission  *commission.Spec
	BidderCommission   *commission.Spec

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommissionFor returns the project's own spec for role, or nil.
func (p Project) CommissionFor(role commission.Role) *commission.Spec {
	switch role {
	case commission.RoleProjectManager:
		return p.PMCommission
	case commission.RoleTeamLead:
		return p.TeamLeadCommission
	case commission.RoleManager:
		return p.ManagerCommission
	case commission.RoleBidder:
		return p.BidderCommission
	}
	return nil
}

// Team holds zero-or-one employee per role slot and any number of developers.
type Team struct {
	ProjectManager *string  `json:"project_manager,omitempty"`
	TeamLead       *string  `json:"team_lead,omitempty"`
	Manager        *string  `json:"manager,omitempty"`
	Bidder         *string  `json:"bidder,omitempty"`
	Developers     []string `json:"developers"`
}

// Holder returns the employee ID filling role, or nil.
func (t Team) Holder(role commission.Role) *string {
	switch role {
	case commission.RoleProjectManager:
		return t.ProjectManager
	case commission.RoleTeamLead:
		return t.TeamLead
	case commission.RoleManager:
		return t.Manager
	case commission.RoleBidder:
		return t.Bidder
	}
	return nil
}

// Normalized drops empty slot IDs and duplicate developers, keeping first-seen order.
func (t Team) Normalized() Team {
	out := Team{
		ProjectManager: nonEmpty(t.ProjectManager),
		TeamLead:       nonEmpty(t.TeamLead),
		Manager:        nonEmpty(t.Manager),
		Bidder:         nonEmpty(t.Bidder),
		Developers:     make([]string, 0, len(t.Developers)),
	}
	seen := make(map[string]bool, len(t.Developers))
	for _, id := range t.Developers {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out.Developers = append(out.Developers, id)
	}
	return out
}

// MemberIDs lists every distinct employee referenced by the team.
func (t Team) MemberIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, slot := range []*string{t.ProjectManager, t.TeamLead, t.Manager, t.Bidder} {
		if slot != nil {
			add(*slot)
		}
	}
	for _, id := range t.Developers {
		add(id)
	}
	return ids
}

// Roles lists the commissionable slots in a fixed order.
var Roles = []commission.Role{
	commission.RoleProjectManager,
	commission.RoleTeamLead,
	commission.RoleManager,
	commission.RoleBidder,
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
