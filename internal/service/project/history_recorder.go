package project

import (
	"context"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/project"
	"github.com/shopspring/decimal"
)

// HistoryRecorder diffs two project states, classifies the change and appends
// one history entry carrying the post-mutation snapshot.
type HistoryRecorder struct {
	repo project.HistoryRepository
}

func NewHistoryRecorder(repo project.HistoryRepository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo}
}

// Record writes the entry for a mutation. before is nil for a creation. It
// returns (nil, nil) when nothing changed.
func (h *HistoryRecorder) Record(ctx context.Context, before *project.Project, after project.Project, actor project.Actor, notes *string) (*project.HistoryEntry, error) {
	entry := project.HistoryEntry{
		ProjectID: after.ID,
		Snapshot:  project.NewSnapshot(normalizedProject(after)),
		ChangedBy: actor,
		Notes:     notes,
	}

	if before == nil {
		entry.ChangeType = project.ChangeTypeCreated
		entry.Changes = []project.Change{}
	} else {
		changes := Diff(*before, after)
		if len(changes) == 0 {
			return nil, nil
		}
		entry.ChangeType = Classify(changes)
		entry.Changes = changes
	}

	saved, err := h.repo.Append(ctx, entry)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

type fieldDiff struct {
	field       string
	description string
	value       func(p project.Project) interface{}
}

// diffFields is the fixed order in which changes are reported.
var diffFields = []fieldDiff{
	{"name", "Name", func(p project.Project) interface{} { return p.Name }},
	{"clientName", "Client", func(p project.Project) interface{} { return p.ClientName }},
	{"totalAmount", "Total contracted amount", func(p project.Project) interface{} { return decimalValue(p.TotalAmount) }},
	{"startDate", "Start date", func(p project.Project) interface{} { return dateValue(&p.StartDate) }},
	{"endDate", "End date", func(p project.Project) interface{} { return dateValue(p.EndDate) }},
	{"status", "Status", func(p project.Project) interface{} { return string(p.Status) }},
	{"bonusPool", "Developer bonus pool", func(p project.Project) interface{} { return decimalValue(p.BonusPool) }},
	{"pmCommission", "PM commission", func(p project.Project) interface{} { return specValue(p.PMCommission) }},
	{"teamLeadCommission", "Team lead commission", func(p project.Project) interface{} { return specValue(p.TeamLeadCommission) }},
	{"managerCommission", "Manager commission", func(p project.Project) interface{} { return specValue(p.ManagerCommission) }},
	{"bidderCommission", "Bidder commission", func(p project.Project) interface{} { return specValue(p.BidderCommission) }},
	{"team.projectManager", "Project manager", func(p project.Project) interface{} { return slotValue(p.Team.ProjectManager) }},
	{"team.teamLead", "Team lead", func(p project.Project) interface{} { return slotValue(p.Team.TeamLead) }},
	{"team.manager", "Manager", func(p project.Project) interface{} { return slotValue(p.Team.Manager) }},
	{"team.bidder", "Bidder", func(p project.Project) interface{} { return slotValue(p.Team.Bidder) }},
	{"team.developers", "Developers", func(p project.Project) interface{} { return p.Team.Normalized().Developers }},
}

// Diff lists the fields that differ between before and after.
func Diff(before, after project.Project) []project.Change {
	var changes []project.Change
	for _, f := range diffFields {
		oldValue, newValue := f.value(before), f.value(after)
		if equalValues(oldValue, newValue) {
			continue
		}
		changes = append(changes, project.Change{
			Field:       f.field,
			OldValue:    oldValue,
			NewValue:    newValue,
			Description: f.description + " changed",
		})
	}
	return changes
}

type classifier struct {
	changeType project.ChangeType
	matches    func(changes []project.Change) bool
}

// classifiers are evaluated in priority order; the first match wins.
var classifiers = []classifier{
	{project.ChangeTypeTeamChanged, func(changes []project.Change) bool {
		for _, c := range changes {
			if strings.HasPrefix(c.Field, "team.") {
				return true
			}
		}
		return false
	}},
	{project.ChangeTypeClosed, func(changes []project.Change) bool {
		c, ok := statusChange(changes)
		return ok && project.Status(c.NewValue.(string)).IsClosing()
	}},
	{project.ChangeTypeReopened, func(changes []project.Change) bool {
		c, ok := statusChange(changes)
		return ok && project.Status(c.OldValue.(string)).IsClosing() && project.Status(c.NewValue.(string)) == project.StatusActive
	}},
	{project.ChangeTypeStatusChanged, func(changes []project.Change) bool {
		_, ok := statusChange(changes)
		return ok
	}},
}

// Classify picks the change type for a non-empty diff set.
func Classify(changes []project.Change) project.ChangeType {
	for _, c := range classifiers {
		if c.matches(changes) {
			return c.changeType
		}
	}
	return project.ChangeTypeUpdated
}

func statusChange(changes []project.Change) (project.Change, bool) {
	for _, c := range changes {
		if c.Field == "status" {
			return c, true
		}
	}
	return project.Change{}, false
}

func equalValues(a, b interface{}) bool {
	switch av := a.(type) {
	case []string:
		// developer lists are sets; order carries no meaning
		bv := b.([]string)
		if len(av) != len(bv) {
			return false
		}
		seen := make(map[string]struct{}, len(av))
		for _, id := range av {
			seen[id] = struct{}{}
		}
		for _, id := range bv {
			if _, ok := seen[id]; !ok {
				return false
			}
		}
		return true
	case map[string]string:
		bv, ok := b.(map[string]string)
		if !ok {
			return false
		}
		return av["type"] == bv["type"] && av["amount"] == bv["amount"]
	}
	return a == b
}

// Values are stored as plain JSON-friendly types so the audit log reads the
// same regardless of how decimals are encoded.

func decimalValue(d decimal.Decimal) string {
	return d.String()
}

func dateValue(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

func specValue(s *commission.Spec) interface{} {
	if s == nil {
		return nil
	}
	return map[string]string{"type": string(s.Type), "amount": s.Amount.String()}
}

func slotValue(id *string) interface{} {
	if id == nil || *id == "" {
		return nil
	}
	return *id
}

func normalizedProject(p project.Project) project.Project {
	p.Team = p.Team.Normalized()
	return p
}
