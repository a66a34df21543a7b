package revenue

import (
	"context"
	"errors"
	"sort"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/revenue"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/currency"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
)

// BasisResolver turns monthly revenue entries into PKR commission bases.
type BasisResolver struct {
	repo revenue.RevenueRepository
}

func NewBasisResolver(repo revenue.RevenueRepository) *BasisResolver {
	return &BasisResolver{repo: repo}
}

// Resolve returns the basis for one project and month, or ErrMissingBasis
// when nothing was collected-and-recorded for that month.
func (r *BasisResolver) Resolve(ctx context.Context, projectID string, month period.Month, rate currency.Rate) (revenue.Basis, error) {
	entry, err := r.repo.GetByProjectMonth(ctx, projectID, month)
	if err != nil {
		if errors.Is(err, revenue.ErrRevenueNotFound) {
			return revenue.Basis{}, revenue.ErrMissingBasis
		}
		return revenue.Basis{}, err
	}
	return toBasis(entry, rate), nil
}

// ResolveMonth returns one basis per revenue entry in month, ordered by project ID.
// Projects without an entry are simply absent.
func (r *BasisResolver) ResolveMonth(ctx context.Context, month period.Month, rate currency.Rate) ([]revenue.Basis, error) {
	entries, err := r.repo.ListByMonth(ctx, month)
	if err != nil {
		return nil, err
	}

	bases := make([]revenue.Basis, 0, len(entries))
	for _, entry := range entries {
		bases = append(bases, toBasis(entry, rate))
	}
	sort.Slice(bases, func(i, j int) bool {
		return bases[i].ProjectID < bases[j].ProjectID
	})
	return bases, nil
}

func toBasis(entry revenue.MonthlyProjectRevenue, rate currency.Rate) revenue.Basis {
	return revenue.Basis{
		ProjectID:          entry.ProjectID,
		Month:              entry.Month,
		AmountCollectedUSD: entry.AmountCollected,
		AmountPKR:          rate.ToPKR(entry.AmountCollected),
	}
}
