package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/project"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type historyRepositoryImpl struct {
	db *database.DB
}

func NewHistoryRepository(db *database.DB) project.HistoryRepository {
	return &historyRepositoryImpl{db: db}
}

// Append computes the next sequence in the same statement as the insert. The
// HAVING clause rejects a CREATED entry for a project that already has history
// and any other entry for a project that has none.
func (r *historyRepositoryImpl) Append(ctx context.Context, entry project.HistoryEntry) (project.HistoryEntry, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return project.HistoryEntry{}, fmt.Errorf("failed to generate history id: %w", err)
	}
	entry.ID = id.String()
	if entry.Changes == nil {
		entry.Changes = []project.Change{}
	}

	query := `
		INSERT INTO project_history (
			id, project_id, sequence, change_type, changes, snapshot,
			changed_by_id, changed_by_email, notes
		)
		SELECT $1::uuid, $2::uuid, COALESCE(MAX(sequence), 0) + 1, $3::text, $4::jsonb, $5::jsonb,
			$6::text, $7::text, $8::text
		FROM project_history
		WHERE project_id = $2::uuid
		HAVING (($3::text = 'CREATED') = (COUNT(*) = 0))
		RETURNING sequence, created_at`

	err = q.QueryRow(ctx, query,
		entry.ID, entry.ProjectID, entry.ChangeType, entry.Changes, entry.Snapshot,
		entry.ChangedBy.UserID, entry.ChangedBy.Email, entry.Notes,
	).Scan(&entry.Sequence, &entry.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return project.HistoryEntry{}, project.ErrHistoryOutOfOrder
		}
		if isUniqueViolation(err, "uk_project_history_sequence") {
			return project.HistoryEntry{}, project.ErrHistorySequenceTaken
		}
		return project.HistoryEntry{}, fmt.Errorf("failed to append project history: %w", err)
	}
	return entry, nil
}

func (r *historyRepositoryImpl) ListByProject(ctx context.Context, projectID string) ([]project.HistoryEntry, error) {
	if !validator.IsValidUUID(projectID) {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, project_id, sequence, change_type, changes, snapshot,
			changed_by_id, changed_by_email, notes, created_at
		FROM project_history
		WHERE project_id = $1
		ORDER BY sequence ASC`

	rows, err := q.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project history: %w", err)
	}
	defer rows.Close()

	var entries []project.HistoryEntry
	for rows.Next() {
		var e project.HistoryEntry
		if err := rows.Scan(
			&e.ID, &e.ProjectID, &e.Sequence, &e.ChangeType, &e.Changes, &e.Snapshot,
			&e.ChangedBy.UserID, &e.ChangedBy.Email, &e.Notes, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project history: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate project history: %w", err)
	}
	return entries, nil
}
