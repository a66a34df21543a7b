package project

import "context"

type ProjectRepository interface {
	Create(ctx context.Context, newProject Project) (Project, error)
	GetByID(ctx context.Context, id string) (Project, error)
	// GetByIDForUpdate locks the row for the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id string) (Project, error)
	GetByIDs(ctx context.Context, ids []string) ([]Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]Project, error)
	Update(ctx context.Context, p Project) (Project, error)
}

// HistoryRepository has no update or delete: entries are immutable once written.
type HistoryRepository interface {
	// Append assigns the next sequence number. A CREATED entry is only accepted
	// for a project with no history; any other entry requires one.
	Append(ctx context.Context, entry HistoryEntry) (HistoryEntry, error)
	ListByProject(ctx context.Context, projectID string) ([]HistoryEntry, error)
}
