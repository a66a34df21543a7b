package settings

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/commission"
	"github.com/shopspring/decimal"
)

// Settings is the organization-wide configuration row.
type Settings struct {
	USDToPKRRate           decimal.Decimal
	PMCommissionPercentage decimal.Decimal
	TeamLeadBonusAmount    decimal.Decimal // PKR
	BidderBonusAmount      decimal.Decimal // PKR
	LastUpdatedBy          *string
	UpdatedAt              time.Time
}

// CommissionDefaults maps the settings onto per-role fallback specs. Manager
// has no organization default.
func (s Settings) CommissionDefaults() commission.Defaults {
	pm := commission.Percentage(s.PMCommissionPercentage)
	teamLead := commission.Fixed(s.TeamLeadBonusAmount)
	bidder := commission.Fixed(s.BidderBonusAmount)
	return commission.Defaults{
		ProjectManager: &pm,
		TeamLead:       &teamLead,
		Bidder:         &bidder,
	}
}
