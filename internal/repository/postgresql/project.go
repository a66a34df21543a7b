package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/project"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type projectRepositoryImpl struct {
	db *database.DB
}

func NewProjectRepository(db *database.DB) project.ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

const projectColumns = `
	id, name, client_name, total_amount, start_date, end_date, status,
	project_manager_id, team_lead_id, manager_id, bidder_id, developer_ids,
	bonus_pool, pm_commission, team_lead_commission, manager_commission, bidder_commission,
	created_at, updated_at`

func scanProject(row pgx.Row) (project.Project, error) {
	var p project.Project
	err := row.Scan(
		&p.ID, &p.Name, &p.ClientName, &p.TotalAmount, &p.StartDate, &p.EndDate, &p.Status,
		&p.Team.ProjectManager, &p.Team.TeamLead, &p.Team.Manager, &p.Team.Bidder, &p.Team.Developers,
		&p.BonusPool, &p.PMCommission, &p.TeamLeadCommission, &p.ManagerCommission, &p.BidderCommission,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if p.Team.Developers == nil {
		p.Team.Developers = []string{}
	}
	return p, err
}

func (r *projectRepositoryImpl) Create(ctx context.Context, newProject project.Project) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	if newProject.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return project.Project{}, fmt.Errorf("failed to generate project id: %w", err)
		}
		newProject.ID = id.String()
	}
	team := newProject.Team.Normalized()

	query := `
		INSERT INTO projects (
			id, name, client_name, total_amount, start_date, end_date, status,
			project_manager_id, team_lead_id, manager_id, bidder_id, developer_ids,
			bonus_pool, pm_commission, team_lead_commission, manager_commission, bidder_commission
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING ` + projectColumns

	created, err := scanProject(q.QueryRow(ctx, query,
		newProject.ID, newProject.Name, newProject.ClientName, newProject.TotalAmount,
		newProject.StartDate, newProject.EndDate, newProject.Status,
		team.ProjectManager, team.TeamLead, team.Manager, team.Bidder, team.Developers,
		newProject.BonusPool, newProject.PMCommission, newProject.TeamLeadCommission,
		newProject.ManagerCommission, newProject.BidderCommission,
	))
	if err != nil {
		return project.Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	return created, nil
}

func (r *projectRepositoryImpl) GetByID(ctx context.Context, id string) (project.Project, error) {
	return r.getByID(ctx, id, false)
}

func (r *projectRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (project.Project, error) {
	return r.getByID(ctx, id, true)
}

func (r *projectRepositoryImpl) getByID(ctx context.Context, id string, forUpdate bool) (project.Project, error) {
	if !validator.IsValidUUID(id) {
		return project.Project{}, project.ErrProjectNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	p, err := scanProject(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return project.Project{}, project.ErrProjectNotFound
		}
		return project.Project{}, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (r *projectRepositoryImpl) GetByIDs(ctx context.Context, ids []string) ([]project.Project, error) {
	ids = validIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ANY($1::text[]::uuid[]) ORDER BY id`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects by ids: %w", err)
	}
	return r.collect(rows)
}

func (r *projectRepositoryImpl) List(ctx context.Context, filter project.ProjectFilter) ([]project.Project, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conditions []string
		args       []interface{}
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + projectColumns + ` FROM projects`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return r.collect(rows)
}

func (r *projectRepositoryImpl) Update(ctx context.Context, p project.Project) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	team := p.Team.Normalized()

	query := `
		UPDATE projects SET
			name = $2, client_name = $3, total_amount = $4, start_date = $5, end_date = $6, status = $7,
			project_manager_id = $8, team_lead_id = $9, manager_id = $10, bidder_id = $11, developer_ids = $12,
			bonus_pool = $13, pm_commission = $14, team_lead_commission = $15,
			manager_commission = $16, bidder_commission = $17, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + projectColumns

	updated, err := scanProject(q.QueryRow(ctx, query,
		p.ID, p.Name, p.ClientName, p.TotalAmount, p.StartDate, p.EndDate, p.Status,
		team.ProjectManager, team.TeamLead, team.Manager, team.Bidder, team.Developers,
		p.BonusPool, p.PMCommission, p.TeamLeadCommission, p.ManagerCommission, p.BidderCommission,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return project.Project{}, project.ErrProjectNotFound
		}
		return project.Project{}, fmt.Errorf("failed to update project: %w", err)
	}
	return updated, nil
}

func (r *projectRepositoryImpl) collect(rows pgx.Rows) ([]project.Project, error) {
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return projects, nil
}
