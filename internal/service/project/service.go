package project

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/project"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type ProjectServiceImpl struct {
	db           database.Transactor
	projectRepo  project.ProjectRepository
	employeeRepo employee.EmployeeRepository
	recorder     *HistoryRecorder
	historyRepo  project.HistoryRepository
}

func NewProjectService(
	db database.Transactor,
	projectRepo project.ProjectRepository,
	historyRepo project.HistoryRepository,
	employeeRepo employee.EmployeeRepository,
) project.ProjectService {
	return &ProjectServiceImpl{
		db:           db,
		projectRepo:  projectRepo,
		employeeRepo: employeeRepo,
		recorder:     NewHistoryRecorder(historyRepo),
		historyRepo:  historyRepo,
	}
}

func actorFromContext(ctx context.Context) (project.Actor, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return project.Actor{}, err
	}
	return project.Actor{UserID: claims.UserID, Email: claims.Email}, nil
}

// ========== QUERIES ==========

func (s *ProjectServiceImpl) GetProject(ctx context.Context, id string) (project.ProjectResponse, error) {
	p, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	return project.NewProjectResponse(p), nil
}

func (s *ProjectServiceImpl) ListProjects(ctx context.Context, filter project.ProjectFilter) ([]project.ProjectResponse, error) {
	projects, err := s.projectRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]project.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, project.NewProjectResponse(p))
	}
	return responses, nil
}

// GetHistory returns the timeline oldest first.
func (s *ProjectServiceImpl) GetHistory(ctx context.Context, projectID string) ([]project.HistoryEntryResponse, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	entries, err := s.historyRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	responses := make([]project.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, project.NewHistoryEntryResponse(e))
	}
	return responses, nil
}

// ========== MUTATIONS ==========

func (s *ProjectServiceImpl) CreateProject(ctx context.Context, req project.CreateProjectRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}
	actor, err := actorFromContext(ctx)
	if err != nil {
		return project.ProjectResponse{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	newProject := project.Project{
		Name:               req.Name,
		ClientName:         req.ClientName,
		TotalAmount:        req.TotalAmount,
		StartDate:          startDate,
		EndDate:            parseOptionalDate(req.EndDate),
		Status:             project.StatusActive,
		Team:               req.Team.Normalized(),
		BonusPool:          req.BonusPool,
		PMCommission:       req.PMCommission,
		TeamLeadCommission: req.TeamLeadCommission,
		ManagerCommission:  req.ManagerCommission,
		BidderCommission:   req.BidderCommission,
	}
	if req.Status != "" {
		newProject.Status = project.Status(req.Status)
	}

	var created project.Project
	err = s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.ensureMembersExist(txCtx, newProject.Team); err != nil {
			return err
		}
		p, err := s.projectRepo.Create(txCtx, newProject)
		if err != nil {
			return err
		}
		if _, err := s.recorder.Record(txCtx, nil, p, actor, req.Notes); err != nil {
			return fmt.Errorf("failed to record project creation: %w", err)
		}
		created = p
		return nil
	})
	if err != nil {
		return project.ProjectResponse{}, err
	}
	return project.NewProjectResponse(created), nil
}

func (s *ProjectServiceImpl) UpdateProject(ctx context.Context, req project.UpdateProjectRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}
	return s.mutate(ctx, req.ID, req.Notes, func(p *project.Project) {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.ClientName != nil {
			p.ClientName = *req.ClientName
		}
		if req.TotalAmount != nil {
			p.TotalAmount = *req.TotalAmount
		}
		if req.StartDate != nil {
			p.StartDate, _ = time.Parse("2006-01-02", *req.StartDate)
		}
		if req.EndDate != nil {
			p.EndDate = parseOptionalDate(req.EndDate)
		}
		if req.Status != nil {
			p.Status = project.Status(*req.Status)
		}
		if req.Team != nil {
			p.Team = req.Team.Normalized()
		}
		if req.BonusPool != nil {
			p.BonusPool = *req.BonusPool
		}
		if req.PMCommission != nil {
			p.PMCommission = req.PMCommission
		}
		if req.TeamLeadCommission != nil {
			p.TeamLeadCommission = req.TeamLeadCommission
		}
		if req.ManagerCommission != nil {
			p.ManagerCommission = req.ManagerCommission
		}
		if req.BidderCommission != nil {
			p.BidderCommission = req.BidderCommission
		}
		if req.Clears(project.FieldPMCommission) {
			p.PMCommission = nil
		}
		if req.Clears(project.FieldTeamLeadCommission) {
			p.TeamLeadCommission = nil
		}
		if req.Clears(project.FieldManagerCommission) {
			p.ManagerCommission = nil
		}
		if req.Clears(project.FieldBidderCommission) {
			p.BidderCommission = nil
		}
	})
}

// AssignTeam replaces the whole team.
func (s *ProjectServiceImpl) AssignTeam(ctx context.Context, req project.AssignTeamRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}
	return s.mutate(ctx, req.ID, req.Notes, func(p *project.Project) {
		p.Team = req.Team.Normalized()
	})
}

// mutate locks the project, applies change, and writes the change and its
// history entry in one transaction. A change that alters nothing is not saved.
func (s *ProjectServiceImpl) mutate(ctx context.Context, id string, notes *string, change func(p *project.Project)) (project.ProjectResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return project.ProjectResponse{}, err
	}

	var result project.Project
	err = s.db.WithTransaction(ctx, func(txCtx context.Context) error {
		before, err := s.projectRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		before.Team = before.Team.Normalized()

		after := before
		after.Team.Developers = append([]string(nil), before.Team.Developers...)
		change(&after)

		// a partial update can move start_date past the stored end_date
		if after.EndDate != nil && after.EndDate.Before(after.StartDate) {
			return validator.ValidationErrors{{Field: "end_date", Message: "must not be before start_date"}}
		}
		if len(Diff(before, after)) == 0 {
			result = before
			return nil
		}
		if err := s.ensureMembersExist(txCtx, after.Team); err != nil {
			return err
		}

		updated, err := s.projectRepo.Update(txCtx, after)
		if err != nil {
			return err
		}
		if _, err := s.recorder.Record(txCtx, &before, updated, actor, notes); err != nil {
			return fmt.Errorf("failed to record project change: %w", err)
		}
		result = updated
		return nil
	})
	if err != nil {
		return project.ProjectResponse{}, err
	}
	return project.NewProjectResponse(result), nil
}

func (s *ProjectServiceImpl) ensureMembersExist(ctx context.Context, team project.Team) error {
	ids := team.MemberIDs()
	if len(ids) == 0 {
		return nil
	}
	found, err := s.employeeRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(found))
	for _, emp := range found {
		known[emp.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: %s", project.ErrTeamMemberNotFound, id)
		}
	}
	return nil
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}
