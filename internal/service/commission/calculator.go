package commission

import (
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/commission"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Calculator resolves commission specs against a PKR basis. It holds no state.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate returns the PKR amount for spec against basis. Callers are
// expected to have validated spec.
func (c *Calculator) Calculate(spec commission.Spec, basis decimal.Decimal) decimal.Decimal {
	switch spec.Type {
	case commission.TypePercentage:
		return basis.Mul(spec.Amount).Div(hundred)
	case commission.TypeFixed:
		return spec.Amount
	}
	return decimal.Zero
}

// IsOutOfRange reports percentages outside [0, 100].
func (c *Calculator) IsOutOfRange(spec commission.Spec) bool {
	if spec.Type != commission.TypePercentage {
		return false
	}
	return spec.Amount.IsNegative() || spec.Amount.GreaterThan(hundred)
}

// Resolve picks the project's spec when set, otherwise the role's default.
func (c *Calculator) Resolve(projectSpec *commission.Spec, defaults commission.Defaults, role commission.Role) *commission.Spec {
	if projectSpec != nil {
		return projectSpec
	}
	return defaults.For(role)
}
