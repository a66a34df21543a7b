package project

import "context"

// ProjectService owns project mutations. Every accepted mutation writes one
// history entry in the same transaction.
type ProjectService interface {
	CreateProject(ctx context.Context, req CreateProjectRequest) (ProjectResponse, error)
	GetProject(ctx context.Context, id string) (ProjectResponse, error)
	ListProjects(ctx context.Context, filter ProjectFilter) ([]ProjectResponse, error)
	UpdateProject(ctx context.Context, req UpdateProjectRequest) (ProjectResponse, error)
	AssignTeam(ctx context.Context, req AssignTeamRequest) (ProjectResponse, error)
	GetHistory(ctx context.Context, projectID string) ([]HistoryEntryResponse, error)
}
