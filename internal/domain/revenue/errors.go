package revenue

import "errors"

var (
	ErrRevenueNotFound = errors.New("monthly revenue not found")
	ErrRevenueExists   = errors.New("monthly revenue already recorded for this project and month")
	// ErrMissingBasis marks a project with no revenue entry for the month. It
	// contributes nothing that month and is skipped by callers, not reported.
	ErrMissingBasis = errors.New("no revenue entry for project and month")
)
