package salary

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/currency"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

type SalaryServiceImpl struct {
	generator    *Generator
	recalculator *Recalculator
	salaryRepo   salary.SalaryRepository
	converter    *currency.Converter
	cache        cache.Cache
	cacheTTL     time.Duration
}

func NewSalaryService(
	generator *Generator,
	recalculator *Recalculator,
	salaryRepo salary.SalaryRepository,
	converter *currency.Converter,
	salaryCache cache.Cache,
	cacheTTL time.Duration,
) salary.SalaryService {
	if salaryCache == nil {
		salaryCache = cache.NewNopCache()
	}
	return &SalaryServiceImpl{
		generator:    generator,
		recalculator: recalculator,
		salaryRepo:   salaryRepo,
		converter:    converter,
		cache:        salaryCache,
		cacheTTL:     cacheTTL,
	}
}

func cacheKey(id string) string {
	return "salary:" + id
}

// ========== BATCH ==========

func (s *SalaryServiceImpl) Generate(ctx context.Context, req salary.GenerateRequest) (salary.GenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.GenerateResponse{}, err
	}
	month, err := period.Parse(req.Month)
	if err != nil {
		return salary.GenerateResponse{}, err
	}

	result, err := s.generator.Generate(ctx, month)
	if err != nil {
		return salary.GenerateResponse{}, err
	}

	resp := salary.GenerateResponse{
		Month:        month.String(),
		CreatedCount: len(result.Created),
		SkippedCount: len(result.Skipped),
		ErrorCount:   len(result.Errors),
		Created:      s.toResponses(result.Created),
		Skipped:      result.Skipped,
		Errors:       result.Errors,
	}
	resp.Message = fmt.Sprintf("Generated %d salaries for %s, skipped %d, %d errors",
		resp.CreatedCount, resp.Month, resp.SkippedCount, resp.ErrorCount)
	return resp, nil
}

func (s *SalaryServiceImpl) Recalculate(ctx context.Context, req salary.RecalculateRequest) (salary.RecalculateResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.RecalculateResponse{}, err
	}
	month, err := period.Parse(req.Month)
	if err != nil {
		return salary.RecalculateResponse{}, err
	}

	result, err := s.recalculator.Recalculate(ctx, month)
	if err != nil {
		return salary.RecalculateResponse{}, err
	}

	keys := make([]string, 0, len(result.Updated))
	for _, updated := range result.Updated {
		keys = append(keys, cacheKey(updated.ID))
	}
	s.invalidate(ctx, keys...)

	resp := salary.RecalculateResponse{
		Month:              month.String(),
		UpdatedCount:       len(result.Updated),
		LockedSkippedCount: len(result.LockedSkipped),
		ErrorCount:         len(result.Errors),
		Updated:            s.toResponses(result.Updated),
		LockedSkipped:      result.LockedSkipped,
		Errors:             result.Errors,
	}
	resp.Message = fmt.Sprintf("Recalculated %d salaries for %s, %d paid records left untouched, %d errors",
		resp.UpdatedCount, resp.Month, resp.LockedSkippedCount, resp.ErrorCount)
	return resp, nil
}

// ========== STATUS ==========

func (s *SalaryServiceImpl) MarkPaid(ctx context.Context, req salary.UpdateStatusRequest) (salary.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.SalaryResponse{}, err
	}

	now := time.Now().UTC()
	paidDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if req.PaidDate != nil {
		paidDate, _ = time.Parse("2006-01-02", *req.PaidDate)
	}

	paid, err := s.salaryRepo.MarkPaid(ctx, req.ID, paidDate, req.PaymentReference)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	s.invalidate(ctx, cacheKey(paid.ID))

	slog.Info("Salary marked as paid", "salary_id", paid.ID, "employee_id", paid.EmployeeID, "month", paid.Month.String())
	return s.toResponse(paid), nil
}

// ========== QUERIES ==========

// GetSalary reads through the cache. Display strings use the current rate, so
// only the stored record is cached.
func (s *SalaryServiceImpl) GetSalary(ctx context.Context, id string) (salary.SalaryResponse, error) {
	var cached salary.Salary
	hit, err := s.cache.Get(ctx, cacheKey(id), &cached)
	if err != nil {
		slog.Warn("Salary cache read failed, falling back to database", "salary_id", id, "error", err)
	}
	if hit {
		return s.toResponse(cached), nil
	}

	record, err := s.salaryRepo.GetByID(ctx, id)
	if err != nil {
		return salary.SalaryResponse{}, err
	}
	if err := s.cache.Set(ctx, cacheKey(id), record, s.cacheTTL); err != nil {
		slog.Warn("Salary cache write failed", "salary_id", id, "error", err)
	}
	return s.toResponse(record), nil
}

func (s *SalaryServiceImpl) ListSalaries(ctx context.Context, filter salary.SalaryFilter) (salary.ListSalaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return salary.ListSalaryResponse{}, err
	}
	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}

	records, total, err := s.salaryRepo.List(ctx, filter)
	if err != nil {
		return salary.ListSalaryResponse{}, err
	}

	return salary.ListSalaryResponse{
		Salaries:   s.toResponses(records),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *SalaryServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]salary.SalaryResponse, error) {
	records, err := s.salaryRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(records), nil
}

// ========== HELPERS ==========

func (s *SalaryServiceImpl) invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		slog.Warn("Salary cache invalidation failed", "keys", len(keys), "error", err)
	}
}

func (s *SalaryServiceImpl) toResponses(records []salary.Salary) []salary.SalaryResponse {
	responses := make([]salary.SalaryResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, s.toResponse(r))
	}
	return responses
}

func (s *SalaryServiceImpl) toResponse(r salary.Salary) salary.SalaryResponse {
	items := r.LineItems.Normalized()
	resp := salary.SalaryResponse{
		ID:                  r.ID,
		EmployeeID:          r.EmployeeID,
		EmployeeName:        r.EmployeeName,
		EmployeeRole:        r.EmployeeRole,
		Month:               r.Month.String(),
		BaseSalary:          r.BaseSalary,
		ProjectBonuses:      items.ProjectBonuses,
		PMCommissions:       items.PMCommissions,
		TeamLeadCommissions: items.TeamLeadCommissions,
		ManagerCommissions:  items.ManagerCommissions,
		BidderCommissions:   items.BidderCommissions,
		TotalAmount:         r.TotalAmount,
		ExchangeRate:        r.ExchangeRate,
		Status:              r.Status,
		PaymentReference:    r.PaymentReference,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
		Display: &salary.DisplayAmounts{
			BaseSalary:  s.converter.FormatDual(r.BaseSalary),
			TotalAmount: s.converter.FormatDual(r.TotalAmount),
		},
	}
	if r.PaidDate != nil {
		paidDate := r.PaidDate.Format("2006-01-02")
		resp.PaidDate = &paidDate
	}
	return resp
}
