package salary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/project"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/revenue"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	commissionsvc "github.com/cmlabs-hris/payroll-backend-go/internal/service/commission"
	revenuesvc "github.com/cmlabs-hris/payroll-backend-go/internal/service/revenue"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/currency"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Composer derives every employee's line items for a month from the month's
// revenue entries. It never reads or writes salaries.
type Composer struct {
	resolver    *revenuesvc.BasisResolver
	projectRepo project.ProjectRepository
	calc        *commissionsvc.Calculator
}

func NewComposer(resolver *revenuesvc.BasisResolver, projectRepo project.ProjectRepository, calc *commissionsvc.Calculator) *Composer {
	return &Composer{
		resolver:    resolver,
		projectRepo: projectRepo,
		calc:        calc,
	}
}

// Compose returns line items keyed by employee ID. Employees with nothing
// earned are absent. A malformed commission spec aborts the whole month.
func (c *Composer) Compose(ctx context.Context, month period.Month, rate currency.Rate, defaults commission.Defaults) (map[string]salary.LineItems, error) {
	bases, err := c.resolver.ResolveMonth(ctx, month, rate)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revenue for %s: %w", month, err)
	}
	if len(bases) == 0 {
		return map[string]salary.LineItems{}, nil
	}

	projectIDs := make([]string, 0, len(bases))
	for _, b := range bases {
		projectIDs = append(projectIDs, b.ProjectID)
	}
	projects, err := c.projectRepo.GetByIDs(ctx, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects for %s: %w", month, err)
	}
	byID := make(map[string]project.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	if err := c.validateSpecs(projects, defaults); err != nil {
		return nil, err
	}

	items := make(map[string]salary.LineItems)
	for _, basis := range bases {
		p, ok := byID[basis.ProjectID]
		if !ok {
			slog.Warn("Revenue entry references unknown project", "project_id", basis.ProjectID, "month", month.String())
			continue
		}
		c.addRoleCommissions(items, p, basis, defaults)
		c.addDeveloperShares(items, p, basis, rate)
	}
	return items, nil
}

// validateSpecs checks every spec that will be applied before anything is computed.
func (c *Composer) validateSpecs(projects []project.Project, defaults commission.Defaults) error {
	var errs validator.ValidationErrors
	for _, p := range projects {
		for _, role := range project.Roles {
			if p.Team.Holder(role) == nil {
				continue
			}
			spec := c.calc.Resolve(p.CommissionFor(role), defaults, role)
			if spec == nil {
				continue
			}
			if err := spec.Validate(); err != nil {
				if verrs, ok := err.(validator.ValidationErrors); ok {
					errs = append(errs, verrs.Prefixed(fmt.Sprintf("projects[%s].%s_commission", p.ID, role))...)
				}
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Composer) addRoleCommissions(items map[string]salary.LineItems, p project.Project, basis revenue.Basis, defaults commission.Defaults) {
	for _, role := range project.Roles {
		holder := p.Team.Holder(role)
		if holder == nil || *holder == "" {
			continue
		}
		spec := c.calc.Resolve(p.CommissionFor(role), defaults, role)
		if spec == nil {
			continue
		}
		if c.calc.IsOutOfRange(*spec) {
			slog.Warn("Commission percentage out of range",
				"project_id", p.ID,
				"role", string(role),
				"percentage", spec.Amount.String(),
			)
		}

		amount := c.calc.Calculate(*spec, basis.AmountPKR).Round(2)
		if amount.IsZero() {
			continue
		}

		item := salary.LineItem{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			Amount:      amount,
			Type:        lineItemType(spec.Type),
			Rate:        spec.Amount,
			Basis:       basis.AmountPKR.Round(2),
		}
		current := items[*holder]
		appendRoleItem(&current, role, item)
		items[*holder] = current
	}
}

// addDeveloperShares splits the slice of the bonus pool earned this month,
// in proportion to collected over contracted, equally among developers.
func (c *Composer) addDeveloperShares(items map[string]salary.LineItems, p project.Project, basis revenue.Basis, rate currency.Rate) {
	developers := p.Team.Normalized().Developers
	if len(developers) == 0 || !p.BonusPool.IsPositive() {
		return
	}
	if !p.TotalAmount.IsPositive() {
		slog.Warn("Project has no contracted amount, skipping developer bonus",
			"project_id", p.ID,
			"month", basis.Month.String(),
		)
		return
	}

	contractedPKR := rate.ToPKR(p.TotalAmount)
	earned := p.BonusPool.Mul(basis.AmountPKR).Div(contractedPKR)
	share := earned.Div(decimal.NewFromInt(int64(len(developers)))).Round(2)
	if share.IsZero() {
		return
	}

	for _, dev := range developers {
		current := items[dev]
		current.ProjectBonuses = append(current.ProjectBonuses, salary.LineItem{
			ProjectID:      p.ID,
			ProjectName:    p.Name,
			Amount:         share,
			Type:           salary.LineItemPoolShare,
			Rate:           p.BonusPool,
			Basis:          basis.AmountPKR.Round(2),
			DeveloperCount: len(developers),
		})
		items[dev] = current
	}
}

func appendRoleItem(l *salary.LineItems, role commission.Role, item salary.LineItem) {
	switch role {
	case commission.RoleProjectManager:
		l.PMCommissions = append(l.PMCommissions, item)
	case commission.RoleTeamLead:
		l.TeamLeadCommissions = append(l.TeamLeadCommissions, item)
	case commission.RoleManager:
		l.ManagerCommissions = append(l.ManagerCommissions, item)
	case commission.RoleBidder:
		l.BidderCommissions = append(l.BidderCommissions, item)
	}
}

func lineItemType(t commission.Type) salary.LineItemType {
	if t == commission.TypeFixed {
		return salary.LineItemFixed
	}
	return salary.LineItemPercentage
}
