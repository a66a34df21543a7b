package project

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/project"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughTx struct {
	calls int
}

func (p *passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type memoryProjectRepo struct {
	projects map[string]project.Project
	nextID   int
	updates  int
}

func (m *memoryProjectRepo) Create(_ context.Context, p project.Project) (project.Project, error) {
	m.nextID++
	p.ID = fmt.Sprintf("proj-%d", m.nextID)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.projects[p.ID] = p
	return p, nil
}

func (m *memoryProjectRepo) GetByID(_ context.Context, id string) (project.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return project.Project{}, project.ErrProjectNotFound
	}
	p.Team.Developers = append([]string(nil), p.Team.Developers...)
	return p, nil
}

func (m *memoryProjectRepo) GetByIDForUpdate(ctx context.Context, id string) (project.Project, error) {
	return m.GetByID(ctx, id)
}

func (m *memoryProjectRepo) GetByIDs(_ context.Context, ids []string) ([]project.Project, error) {
	var out []project.Project
	for _, id := range ids {
		if p, ok := m.projects[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryProjectRepo) List(_ context.Context, filter project.ProjectFilter) ([]project.Project, error) {
	var out []project.Project
	for _, p := range m.projects {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memoryProjectRepo) Update(_ context.Context, p project.Project) (project.Project, error) {
	if _, ok := m.projects[p.ID]; !ok {
		return project.Project{}, project.ErrProjectNotFound
	}
	m.updates++
	p.UpdatedAt = time.Now()
	m.projects[p.ID] = p
	return p, nil
}

type memoryHistoryRepo struct {
	entries map[string][]project.HistoryEntry
}

func (m *memoryHistoryRepo) Append(_ context.Context, e project.HistoryEntry) (project.HistoryEntry, error) {
	existing := m.entries[e.ProjectID]
	if (e.ChangeType == project.ChangeTypeCreated) != (len(existing) == 0) {
		return project.HistoryEntry{}, project.ErrHistoryOutOfOrder
	}
	e.ID = fmt.Sprintf("%s-h%d", e.ProjectID, len(existing)+1)
	e.Sequence = int64(len(existing) + 1)
	e.CreatedAt = time.Now()
	m.entries[e.ProjectID] = append(existing, e)
	return e, nil
}

func (m *memoryHistoryRepo) ListByProject(_ context.Context, projectID string) ([]project.HistoryEntry, error) {
	return m.entries[projectID], nil
}

type memoryEmployeeRepo struct {
	ids map[string]bool
}

func (m *memoryEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	if !m.ids[id] {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{ID: id, Status: employee.StatusActive}, nil
}

func (m *memoryEmployeeRepo) GetByIDs(_ context.Context, ids []string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, id := range ids {
		if m.ids[id] {
			out = append(out, employee.Employee{ID: id, Status: employee.StatusActive})
		}
	}
	return out, nil
}

func (m *memoryEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (m *memoryEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	m.ids[e.ID] = true
	return e, nil
}

type serviceFixture struct {
	svc      project.ProjectService
	tx       *passthroughTx
	projects *memoryProjectRepo
	history  *memoryHistoryRepo
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		tx:       &passthroughTx{},
		projects: &memoryProjectRepo{projects: make(map[string]project.Project)},
		history:  &memoryHistoryRepo{entries: make(map[string][]project.HistoryEntry)},
	}
	employees := &memoryEmployeeRepo{ids: map[string]bool{
		"pm-1": true, "tl-1": true, "tl-2": true, "dev-1": true, "dev-2": true,
	}}
	f.svc = NewProjectService(f.tx, f.projects, f.history, employees)
	return f
}

func adminContext(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	ctx, err := jwt.NewContext(context.Background(), ja, auth.Claims{UserID: "admin-1", Email: "admin@example.com", Role: auth.RoleAdmin})
	require.NoError(t, err)
	return ctx
}

func strPtr(s string) *string {
	return &s
}

func createAtlas(t *testing.T, f *serviceFixture) project.ProjectResponse {
	t.Helper()
	created, err := f.svc.CreateProject(adminContext(t), project.CreateProjectRequest{
		Name:        "Atlas",
		ClientName:  "Acme",
		TotalAmount: decimal.NewFromInt(10000),
		StartDate:   "2025-01-01",
		BonusPool:   decimal.NewFromInt(2000),
		Team: project.Team{
			ProjectManager: strPtr("pm-1"),
			TeamLead:       strPtr("tl-1"),
			Developers:     []string{"dev-1", "dev-2", "dev-1"},
		},
	})
	require.NoError(t, err)
	return created
}

func TestProjectService_CreateWritesCreatedEntry(t *testing.T) {
	f := newServiceFixture()

	// Act
	created := createAtlas(t, f)

	// Assert
	assert.Equal(t, project.StatusActive, created.Status)
	assert.Equal(t, []string{"dev-1", "dev-2"}, created.Team.Developers)
	entries := f.history.entries[created.ID]
	require.Len(t, entries, 1)
	assert.Equal(t, project.ChangeTypeCreated, entries[0].ChangeType)
	assert.Equal(t, int64(1), entries[0].Sequence)
	assert.Empty(t, entries[0].Changes)
	assert.Equal(t, "admin@example.com", entries[0].ChangedBy.Email)
	assert.Equal(t, "Atlas", entries[0].Snapshot.Name)
}

func TestProjectService_TeamLeadChangeRecordsOneEntry(t *testing.T) {
	f := newServiceFixture()
	created := createAtlas(t, f)
	team := created.Team
	team.TeamLead = strPtr("tl-2")

	// Act
	updated, err := f.svc.UpdateProject(adminContext(t), project.UpdateProjectRequest{ID: created.ID, Team: &team})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "tl-2", *updated.Team.TeamLead)
	entries := f.history.entries[created.ID]
	require.Len(t, entries, 2)
	latest := entries[1]
	assert.Equal(t, project.ChangeTypeTeamChanged, latest.ChangeType)
	assert.Equal(t, int64(2), latest.Sequence)
	require.Len(t, latest.Changes, 1)
	assert.Equal(t, "team.teamLead", latest.Changes[0].Field)
	assert.Equal(t, "tl-2", *latest.Snapshot.Team.TeamLead)
}

func TestProjectService_NoOpUpdateWritesNothing(t *testing.T) {
	f := newServiceFixture()
	created := createAtlas(t, f)
	name := "Atlas"

	// Act
	_, err := f.svc.UpdateProject(adminContext(t), project.UpdateProjectRequest{ID: created.ID, Name: &name})

	// Assert
	require.NoError(t, err)
	assert.Len(t, f.history.entries[created.ID], 1)
	assert.Zero(t, f.projects.updates)
}

func TestProjectService_CloseAndReopen(t *testing.T) {
	f := newServiceFixture()
	created := createAtlas(t, f)
	completed := "Completed"
	active := "Active"

	_, err := f.svc.UpdateProject(adminContext(t), project.UpdateProjectRequest{ID: created.ID, Status: &completed})
	require.NoError(t, err)

	// Act
	_, err = f.svc.UpdateProject(adminContext(t), project.UpdateProjectRequest{ID: created.ID, Status: &active})

	// Assert
	require.NoError(t, err)
	entries := f.history.entries[created.ID]
	require.Len(t, entries, 3)
	assert.Equal(t, project.ChangeTypeClosed, entries[1].ChangeType)
	assert.Equal(t, project.ChangeTypeReopened, entries[2].ChangeType)
}

func TestProjectService_UnknownTeamMember(t *testing.T) {
	f := newServiceFixture()
	created := createAtlas(t, f)

	// Act
	_, err := f.svc.AssignTeam(adminContext(t), project.AssignTeamRequest{
		ID:   created.ID,
		Team: project.Team{Developers: []string{"ghost"}},
	})

	// Assert
	assert.ErrorIs(t, err, project.ErrTeamMemberNotFound)
	assert.Len(t, f.history.entries[created.ID], 1)
	assert.Zero(t, f.projects.updates)
}

func TestProjectService_MutationRequiresActor(t *testing.T) {
	f := newServiceFixture()

	// Act
	_, err := f.svc.CreateProject(context.Background(), project.CreateProjectRequest{
		Name:       "Atlas",
		ClientName: "Acme",
		StartDate:  "2025-01-01",
	})

	// Assert
	require.Error(t, err)
	assert.Zero(t, f.tx.calls)
}

func TestProjectService_GetHistoryUnknownProject(t *testing.T) {
	f := newServiceFixture()

	// Act
	_, err := f.svc.GetHistory(context.Background(), "missing")

	// Assert
	assert.True(t, errors.Is(err, project.ErrProjectNotFound))
}

func TestProjectService_GetHistoryOrdered(t *testing.T) {
	f := newServiceFixture()
	created := createAtlas(t, f)
	bonus := decimal.NewFromInt(3000)
	_, err := f.svc.UpdateProject(adminContext(t), project.UpdateProjectRequest{ID: created.ID, BonusPool: &bonus})
	require.NoError(t, err)

	// Act
	history, err := f.svc.GetHistory(context.Background(), created.ID)

	// Assert
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, int64(1), history[0].Sequence)
	assert.Equal(t, project.ChangeTypeUpdated, history[1].ChangeType)
	assert.Equal(t, "bonusPool", history[1].Changes[0].Field)
}

func TestProjectService_UpdateRejectsEndBeforeMergedStart(t *testing.T) {
	f := newServiceFixture()
	created := createAtlas(t, f)
	_, err := f.svc.UpdateProject(adminContext(t), project.UpdateProjectRequest{ID: created.ID, EndDate: strPtr("2025-06-30")})
	require.NoError(t, err)

	// Act
	_, err = f.svc.UpdateProject(adminContext(t), project.UpdateProjectRequest{ID: created.ID, StartDate: strPtr("2025-07-01")})

	// Assert
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "end_date")
	assert.Equal(t, 1, f.projects.updates)
	assert.Len(t, f.history.entries[created.ID], 2)
	stored := f.projects.projects[created.ID]
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), stored.StartDate)
}

func TestProjectService_ClearCommissionOverride(t *testing.T) {
	f := newServiceFixture()
	created := createAtlas(t, f)
	spec := commission.Percentage(decimal.NewFromInt(10))
	_, err := f.svc.UpdateProject(adminContext(t), project.UpdateProjectRequest{ID: created.ID, PMCommission: &spec})
	require.NoError(t, err)

	// Act
	updated, err := f.svc.UpdateProject(adminContext(t), project.UpdateProjectRequest{
		ID:               created.ID,
		ClearCommissions: []string{project.FieldPMCommission},
	})

	// Assert
	require.NoError(t, err)
	assert.Nil(t, updated.PMCommission)
	entries := f.history.entries[created.ID]
	require.Len(t, entries, 3)
	latest := entries[2]
	require.Len(t, latest.Changes, 1)
	assert.Equal(t, "pmCommission", latest.Changes[0].Field)
	assert.Nil(t, latest.Changes[0].NewValue)
}

func TestProjectService_ClearCommissionsValidation(t *testing.T) {
	f := newServiceFixture()
	created := createAtlas(t, f)
	spec := commission.Fixed(decimal.NewFromInt(5000))

	tests := []struct {
		name string
		req  project.UpdateProjectRequest
	}{
		{"unknown field", project.UpdateProjectRequest{ID: created.ID, ClearCommissions: []string{"developer_commission"}}},
		{"set and clear", project.UpdateProjectRequest{ID: created.ID, BidderCommission: &spec, ClearCommissions: []string{project.FieldBidderCommission}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			_, err := f.svc.UpdateProject(adminContext(t), tt.req)

			// Assert
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), "clear_commissions")
		})
	}
	assert.Zero(t, f.projects.updates)
}

func TestProjectService_ReorderedDevelopersWritesNothing(t *testing.T) {
	f := newServiceFixture()
	created := createAtlas(t, f)
	team := created.Team
	team.Developers = []string{"dev-2", "dev-1"}

	// Act
	_, err := f.svc.AssignTeam(adminContext(t), project.AssignTeamRequest{ID: created.ID, Team: team})

	// Assert
	require.NoError(t, err)
	assert.Len(t, f.history.entries[created.ID], 1)
	assert.Zero(t, f.projects.updates)
}
