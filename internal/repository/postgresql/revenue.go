package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/revenue"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type revenueRepositoryImpl struct {
	db *database.DB
}

func NewRevenueRepository(db *database.DB) revenue.RevenueRepository {
	return &revenueRepositoryImpl{db: db}
}

const revenueColumns = `r.id, r.project_id, r.month, r.amount_collected, r.notes, r.created_by, r.created_at, r.updated_at, p.name`

const revenueFrom = ` FROM monthly_project_revenues r LEFT JOIN projects p ON p.id = r.project_id`

func scanRevenue(row pgx.Row) (revenue.MonthlyProjectRevenue, error) {
	var e revenue.MonthlyProjectRevenue
	err := row.Scan(
		&e.ID, &e.ProjectID, &e.Month, &e.AmountCollected, &e.Notes, &e.CreatedBy,
		&e.CreatedAt, &e.UpdatedAt, &e.ProjectName,
	)
	return e, err
}

func (r *revenueRepositoryImpl) Create(ctx context.Context, entry revenue.MonthlyProjectRevenue) (revenue.MonthlyProjectRevenue, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return revenue.MonthlyProjectRevenue{}, fmt.Errorf("failed to generate revenue id: %w", err)
	}

	query := `
		INSERT INTO monthly_project_revenues (id, project_id, month, amount_collected, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var newID string
	err = q.QueryRow(ctx, query,
		id.String(), entry.ProjectID, entry.Month, entry.AmountCollected, entry.Notes, entry.CreatedBy,
	).Scan(&newID)
	if err != nil {
		if isUniqueViolation(err, "uk_revenue_project_month") {
			return revenue.MonthlyProjectRevenue{}, revenue.ErrRevenueExists
		}
		return revenue.MonthlyProjectRevenue{}, fmt.Errorf("failed to create monthly revenue: %w", err)
	}
	return r.GetByID(ctx, newID)
}

func (r *revenueRepositoryImpl) GetByID(ctx context.Context, id string) (revenue.MonthlyProjectRevenue, error) {
	if !validator.IsValidUUID(id) {
		return revenue.MonthlyProjectRevenue{}, revenue.ErrRevenueNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + revenueColumns + revenueFrom + ` WHERE r.id = $1`

	e, err := scanRevenue(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return revenue.MonthlyProjectRevenue{}, revenue.ErrRevenueNotFound
		}
		return revenue.MonthlyProjectRevenue{}, fmt.Errorf("failed to get monthly revenue: %w", err)
	}
	return e, nil
}

func (r *revenueRepositoryImpl) GetByProjectMonth(ctx context.Context, projectID string, month period.Month) (revenue.MonthlyProjectRevenue, error) {
	if !validator.IsValidUUID(projectID) {
		return revenue.MonthlyProjectRevenue{}, revenue.ErrRevenueNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + revenueColumns + revenueFrom + ` WHERE r.project_id = $1 AND r.month = $2`

	e, err := scanRevenue(q.QueryRow(ctx, query, projectID, month))
	if err != nil {
		if err == pgx.ErrNoRows {
			return revenue.MonthlyProjectRevenue{}, revenue.ErrRevenueNotFound
		}
		return revenue.MonthlyProjectRevenue{}, fmt.Errorf("failed to get monthly revenue: %w", err)
	}
	return e, nil
}

func (r *revenueRepositoryImpl) ListByMonth(ctx context.Context, month period.Month) ([]revenue.MonthlyProjectRevenue, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + revenueColumns + revenueFrom + ` WHERE r.month = $1 ORDER BY r.project_id`

	rows, err := q.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly revenues: %w", err)
	}
	defer rows.Close()

	var entries []revenue.MonthlyProjectRevenue
	for rows.Next() {
		e, err := scanRevenue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan monthly revenue: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monthly revenues: %w", err)
	}
	return entries, nil
}

func (r *revenueRepositoryImpl) Update(ctx context.Context, req revenue.UpdateRevenueRequest) (revenue.MonthlyProjectRevenue, error) {
	if !validator.IsValidUUID(req.ID) {
		return revenue.MonthlyProjectRevenue{}, revenue.ErrRevenueNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE monthly_project_revenues SET
			amount_collected = COALESCE($2, amount_collected),
			notes = COALESCE($3, notes),
			updated_at = NOW()
		WHERE id = $1`

	tag, err := q.Exec(ctx, query, req.ID, req.AmountCollected, req.Notes)
	if err != nil {
		return revenue.MonthlyProjectRevenue{}, fmt.Errorf("failed to update monthly revenue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return revenue.MonthlyProjectRevenue{}, revenue.ErrRevenueNotFound
	}
	return r.GetByID(ctx, req.ID)
}

// Upsert relies on xmax = 0 being true only for freshly inserted rows.
func (r *revenueRepositoryImpl) Upsert(ctx context.Context, entry revenue.MonthlyProjectRevenue) (revenue.MonthlyProjectRevenue, bool, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return revenue.MonthlyProjectRevenue{}, false, fmt.Errorf("failed to generate revenue id: %w", err)
	}

	query := `
		INSERT INTO monthly_project_revenues (id, project_id, month, amount_collected, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT uk_revenue_project_month DO UPDATE SET
			amount_collected = EXCLUDED.amount_collected,
			notes = COALESCE(EXCLUDED.notes, monthly_project_revenues.notes),
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted`

	var (
		savedID  string
		inserted bool
	)
	err = q.QueryRow(ctx, query,
		id.String(), entry.ProjectID, entry.Month, entry.AmountCollected, entry.Notes, entry.CreatedBy,
	).Scan(&savedID, &inserted)
	if err != nil {
		return revenue.MonthlyProjectRevenue{}, false, fmt.Errorf("failed to upsert monthly revenue: %w", err)
	}

	saved, err := r.GetByID(ctx, savedID)
	if err != nil {
		return revenue.MonthlyProjectRevenue{}, false, err
	}
	return saved, inserted, nil
}

func (r *revenueRepositoryImpl) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return revenue.ErrRevenueNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM monthly_project_revenues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete monthly revenue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return revenue.ErrRevenueNotFound
	}
	return nil
}
