package revenue

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
	"github.com/shopspring/decimal"
)

// MonthlyProjectRevenue is the amount actually collected for a project in a
// month. It, not the contracted total, is the commission basis for that month.
type MonthlyProjectRevenue struct {
	ID              string
	ProjectID       string
	Month           period.Month
	AmountCollected decimal.Decimal // USD
	Notes           *string
	CreatedBy       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	ProjectName *string
}

// Basis is the resolved commission input for one project in one month.
type Basis struct {
	ProjectID          string
	Month              period.Month
	AmountCollectedUSD decimal.Decimal
	AmountPKR          decimal.Decimal
}
