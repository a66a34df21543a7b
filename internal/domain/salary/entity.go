package salary

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// Status enum. Pending -> Paid is the only transition.
type Status string

const (
	StatusPending Status = "Pending"
	StatusPaid    Status = "Paid"
)

// LineItemType records how a line item amount was derived.
type LineItemType string

const (
	LineItemPercentage LineItemType = "percentage"
	LineItemFixed      LineItemType = "fixed"
	LineItemPoolShare  LineItemType = "pool_share"
)

// LineItem ties a computed PKR amount back to the project and rate that produced it.
type LineItem struct {
	ProjectID   string          `json:"project_id"`
	ProjectName string          `json:"project_name"`
	Amount      decimal.Decimal `json:"amount"`
	Type        LineItemType    `json:"type"`
	// Rate is the percentage, the fixed amount, or the bonus pool, depending on Type.
	Rate           decimal.Decimal `json:"rate"`
	Basis          decimal.Decimal `json:"basis"`
	DeveloperCount int             `json:"developer_count,omitempty"`
}

// LineItems groups the five bonus and commission collections of a salary.
type LineItems struct {
	ProjectBonuses      []LineItem
	PMCommissions       []LineItem
	TeamLeadCommissions []LineItem
	ManagerCommissions  []LineItem
	BidderCommissions   []LineItem
}

func (l LineItems) All() []LineItem {
	total := len(l.ProjectBonuses) + len(l.PMCommissions) + len(l.TeamLeadCommissions) + len(l.ManagerCommissions) + len(l.BidderCommissions)
	all := make([]LineItem, 0, total)
	all = append(all, l.ProjectBonuses...)
	all = append(all, l.PMCommissions...)
	all = append(all, l.TeamLeadCommissions...)
	all = append(all, l.ManagerCommissions...)
	all = append(all, l.BidderCommissions...)
	return all
}

func (l LineItems) Total() decimal.Decimal {
	return sum(l.All())
}

// Normalized replaces nil collections with empty ones so stored JSON is always an array.
func (l LineItems) Normalized() LineItems {
	return LineItems{
		ProjectBonuses:      orEmpty(l.ProjectBonuses),
		PMCommissions:       orEmpty(l.PMCommissions),
		TeamLeadCommissions: orEmpty(l.TeamLeadCommissions),
		ManagerCommissions:  orEmpty(l.ManagerCommissions),
		BidderCommissions:   orEmpty(l.BidderCommissions),
	}
}

// Salary is unique per (employee, month). TotalAmount is derived, never edited.
type Salary struct {
	ID         string
	EmployeeID string
	Month      period.Month
	BaseSalary decimal.Decimal // PKR snapshot
	LineItems
	TotalAmount      decimal.Decimal
	ExchangeRate     decimal.Decimal // PKR per USD used for this computation
	Status           Status
	PaidDate         *time.Time
	PaymentReference *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined fields
	EmployeeName *string
	EmployeeRole *string
}

// Compose sets the line items and base salary and recomputes the total.
func (s *Salary) Compose(baseSalary decimal.Decimal, items LineItems) {
	s.BaseSalary = baseSalary
	s.LineItems = items.Normalized()
	s.TotalAmount = s.BaseSalary.Add(s.LineItems.Total())
}

func (s Salary) IsPaid() bool {
	return s.Status == StatusPaid
}

// BatchError is one per-employee failure inside a batch run.
type BatchError struct {
	EmployeeID string `json:"employee_id"`
	Message    string `json:"message"`
}

type GenerateResult struct {
	Month   period.Month
	Created []Salary
	Skipped []string
	Errors  []BatchError
}

type RecalculateResult struct {
	Month         period.Month
	Updated       []Salary
	LockedSkipped []string
	Errors        []BatchError
}

func sum(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

func orEmpty(items []LineItem) []LineItem {
	if items == nil {
		return []LineItem{}
	}
	return items
}
