package revenue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/project"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/revenue"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/currency"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type RevenueServiceImpl struct {
	revenueRepo revenue.RevenueRepository
	projectRepo project.ProjectRepository
	converter   *currency.Converter
}

func NewRevenueService(
	revenueRepo revenue.RevenueRepository,
	projectRepo project.ProjectRepository,
	converter *currency.Converter,
) revenue.RevenueService {
	return &RevenueServiceImpl{
		revenueRepo: revenueRepo,
		projectRepo: projectRepo,
		converter:   converter,
	}
}

// ========== QUERIES ==========

func (s *RevenueServiceImpl) ListByMonth(ctx context.Context, month string) ([]revenue.RevenueResponse, error) {
	m, err := period.Parse(month)
	if err != nil {
		return nil, err
	}

	entries, err := s.revenueRepo.ListByMonth(ctx, m)
	if err != nil {
		return nil, err
	}

	rate := s.converter.Snapshot()
	responses := make([]revenue.RevenueResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, toRevenueResponse(e, rate))
	}
	return responses, nil
}

// GetMonthView pairs the month's entries with the Active projects still missing one.
func (s *RevenueServiceImpl) GetMonthView(ctx context.Context, month string) (revenue.MonthViewResponse, error) {
	m, err := period.Parse(month)
	if err != nil {
		return revenue.MonthViewResponse{}, err
	}

	entries, err := s.revenueRepo.ListByMonth(ctx, m)
	if err != nil {
		return revenue.MonthViewResponse{}, err
	}

	active := project.StatusActive
	projects, err := s.projectRepo.List(ctx, project.ProjectFilter{Status: &active})
	if err != nil {
		return revenue.MonthViewResponse{}, err
	}

	recorded := make(map[string]bool, len(entries))
	rate := s.converter.Snapshot()
	view := revenue.MonthViewResponse{
		Month:                  m.String(),
		ExistingRevenues:       make([]revenue.RevenueResponse, 0, len(entries)),
		ProjectsWithoutRevenue: []project.ProjectResponse{},
	}
	for _, e := range entries {
		recorded[e.ProjectID] = true
		view.ExistingRevenues = append(view.ExistingRevenues, toRevenueResponse(e, rate))
	}
	for _, p := range projects {
		if !recorded[p.ID] {
			view.ProjectsWithoutRevenue = append(view.ProjectsWithoutRevenue, project.NewProjectResponse(p))
		}
	}
	return view, nil
}

func (s *RevenueServiceImpl) GetRevenue(ctx context.Context, id string) (revenue.RevenueResponse, error) {
	entry, err := s.revenueRepo.GetByID(ctx, id)
	if err != nil {
		return revenue.RevenueResponse{}, err
	}
	return toRevenueResponse(entry, s.converter.Snapshot()), nil
}

// ========== MUTATIONS ==========

func (s *RevenueServiceImpl) CreateRevenue(ctx context.Context, req revenue.CreateRevenueRequest) (revenue.RevenueResponse, error) {
	if err := req.Validate(); err != nil {
		return revenue.RevenueResponse{}, err
	}
	if _, err := s.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		return revenue.RevenueResponse{}, err
	}

	created, err := s.revenueRepo.Create(ctx, s.newEntry(ctx, req))
	if err != nil {
		return revenue.RevenueResponse{}, err
	}
	return toRevenueResponse(created, s.converter.Snapshot()), nil
}

func (s *RevenueServiceImpl) UpdateRevenue(ctx context.Context, req revenue.UpdateRevenueRequest) (revenue.RevenueResponse, error) {
	if err := req.Validate(); err != nil {
		return revenue.RevenueResponse{}, err
	}

	updated, err := s.revenueRepo.Update(ctx, req)
	if err != nil {
		return revenue.RevenueResponse{}, err
	}
	return toRevenueResponse(updated, s.converter.Snapshot()), nil
}

func (s *RevenueServiceImpl) DeleteRevenue(ctx context.Context, id string) error {
	return s.revenueRepo.Delete(ctx, id)
}

// BulkUpsert saves each entry independently; one bad entry never blocks the rest.
func (s *RevenueServiceImpl) BulkUpsert(ctx context.Context, req revenue.BulkRevenueRequest) (revenue.BulkRevenueResponse, error) {
	if err := req.Validate(); err != nil {
		return revenue.BulkRevenueResponse{}, err
	}

	result := revenue.BulkRevenueResponse{Errors: []revenue.BulkItemError{}}
	for i, item := range req.Revenues {
		if err := s.upsertOne(ctx, item, &result); err != nil {
			result.Errors = append(result.Errors, revenue.BulkItemError{
				Index:     i,
				ProjectID: item.ProjectID,
				Message:   bulkErrorMessage(err),
			})
		}
	}
	result.ErrorCount = len(result.Errors)

	slog.Info("Bulk revenue upsert completed",
		"created", result.CreatedCount,
		"updated", result.UpdatedCount,
		"errors", result.ErrorCount,
	)
	return result, nil
}

func (s *RevenueServiceImpl) upsertOne(ctx context.Context, item revenue.CreateRevenueRequest, result *revenue.BulkRevenueResponse) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if _, err := s.projectRepo.GetByID(ctx, item.ProjectID); err != nil {
		return err
	}

	_, inserted, err := s.revenueRepo.Upsert(ctx, s.newEntry(ctx, item))
	if err != nil {
		return err
	}
	if inserted {
		result.CreatedCount++
	} else {
		result.UpdatedCount++
	}
	return nil
}

// newEntry builds an entry from a validated request, stamping the actor when known.
func (s *RevenueServiceImpl) newEntry(ctx context.Context, req revenue.CreateRevenueRequest) revenue.MonthlyProjectRevenue {
	m, _ := period.Parse(req.Month)
	entry := revenue.MonthlyProjectRevenue{
		ProjectID:       req.ProjectID,
		Month:           m,
		AmountCollected: req.AmountCollected,
		Notes:           req.Notes,
	}
	if claims, err := jwt.ClaimsFromContext(ctx); err == nil {
		actor := claims.Email
		if actor == "" {
			actor = claims.UserID
		}
		entry.CreatedBy = &actor
	}
	return entry
}

func bulkErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.Error()
	}
	if errors.Is(err, project.ErrProjectNotFound) {
		return project.ErrProjectNotFound.Error()
	}
	return fmt.Sprintf("failed to save revenue: %v", err)
}

func toRevenueResponse(e revenue.MonthlyProjectRevenue, rate currency.Rate) revenue.RevenueResponse {
	return revenue.RevenueResponse{
		ID:              e.ID,
		ProjectID:       e.ProjectID,
		ProjectName:     e.ProjectName,
		Month:           e.Month.String(),
		AmountCollected: e.AmountCollected,
		AmountPKR:       rate.ToPKR(e.AmountCollected).Round(2),
		Notes:           e.Notes,
		CreatedBy:       e.CreatedBy,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}
