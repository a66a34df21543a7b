package settings

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UpdateSettingsRequest struct {
	USDToPKRRate           *decimal.Decimal `json:"usd_to_pkr_rate,omitempty"`
	PMCommissionPercentage *decimal.Decimal `json:"pm_commission_percentage,omitempty"`
	TeamLeadBonusAmount    *decimal.Decimal `json:"team_lead_bonus_amount,omitempty"`
	BidderBonusAmount      *decimal.Decimal `json:"bidder_bonus_amount,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.USDToPKRRate != nil && !r.USDToPKRRate.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "usd_to_pkr_rate", Message: "must be greater than zero"})
	}
	if r.PMCommissionPercentage != nil {
		if r.PMCommissionPercentage.IsNegative() || r.PMCommissionPercentage.GreaterThan(decimal.NewFromInt(100)) {
			errs = append(errs, validator.ValidationError{Field: "pm_commission_percentage", Message: "must be between 0 and 100"})
		}
	}
	if r.TeamLeadBonusAmount != nil && r.TeamLeadBonusAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "team_lead_bonus_amount", Message: "must be non-negative"})
	}
	if r.BidderBonusAmount != nil && r.BidderBonusAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "bidder_bonus_amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SettingsResponse struct {
	USDToPKRRate           decimal.Decimal `json:"usd_to_pkr_rate"`
	PMCommissionPercentage decimal.Decimal `json:"pm_commission_percentage"`
	TeamLeadBonusAmount    decimal.Decimal `json:"team_lead_bonus_amount"`
	BidderBonusAmount      decimal.Decimal `json:"bidder_bonus_amount"`
	LastUpdatedBy          *string         `json:"last_updated_by,omitempty"`
	UpdatedAt              *time.Time      `json:"updated_at,omitempty"`
}
