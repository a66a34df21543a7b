package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/project"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/revenue"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

const (
	salaryID       = "0192a4b1-7c3e-7d10-8f00-000000000001"
	paidSalaryID   = "0192a4b1-7c3e-7d10-8f00-000000000002"
	missingID      = "0192a4b1-7c3e-7d10-8f00-0000000000ff"
	historyProject = "0192a4b1-7c3e-7d10-8f00-000000000010"
)

type stubSalaryService struct {
	salary.SalaryService
	generated []string
	marked    []salary.UpdateStatusRequest
	fetched   []string
}

func (s *stubSalaryService) Generate(_ context.Context, req salary.GenerateRequest) (salary.GenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return salary.GenerateResponse{}, err
	}
	s.generated = append(s.generated, req.Month)
	return salary.GenerateResponse{Month: req.Month, CreatedCount: 2, Message: "Generated 2 salaries"}, nil
}

func (s *stubSalaryService) Recalculate(_ context.Context, req salary.RecalculateRequest) (salary.RecalculateResponse, error) {
	return salary.RecalculateResponse{Month: req.Month}, nil
}

func (s *stubSalaryService) GetSalary(_ context.Context, id string) (salary.SalaryResponse, error) {
	s.fetched = append(s.fetched, id)
	if id != salaryID {
		return salary.SalaryResponse{}, salary.ErrSalaryNotFound
	}
	return salary.SalaryResponse{ID: id, Status: salary.StatusPending}, nil
}

func (s *stubSalaryService) MarkPaid(_ context.Context, req salary.UpdateStatusRequest) (salary.SalaryResponse, error) {
	s.marked = append(s.marked, req)
	if req.ID == paidSalaryID {
		return salary.SalaryResponse{}, salary.ErrSalaryLocked
	}
	return salary.SalaryResponse{ID: req.ID, Status: salary.StatusPaid}, nil
}

func (s *stubSalaryService) ListSalaries(_ context.Context, filter salary.SalaryFilter) (salary.ListSalaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return salary.ListSalaryResponse{}, err
	}
	return salary.ListSalaryResponse{Salaries: []salary.SalaryResponse{}, Page: 1, Limit: 20}, nil
}

func (s *stubSalaryService) ExportMonth(_ context.Context, month string) ([]byte, error) {
	if _, err := period.Parse(month); err != nil {
		return nil, err
	}
	return []byte("PK"), nil
}

type stubProjectService struct {
	project.ProjectService
	requested []string
}

func (s *stubProjectService) GetHistory(_ context.Context, projectID string) ([]project.HistoryEntryResponse, error) {
	s.requested = append(s.requested, projectID)
	if projectID != historyProject {
		return nil, project.ErrProjectNotFound
	}
	return []project.HistoryEntryResponse{{ProjectID: historyProject, Sequence: 1, ChangeType: project.ChangeTypeCreated, Changes: []project.Change{}}}, nil
}

type stubRevenueService struct {
	revenue.RevenueService
}

func (s *stubRevenueService) ListByMonth(_ context.Context, month string) ([]revenue.RevenueResponse, error) {
	if _, err := period.Parse(month); err != nil {
		return nil, err
	}
	return []revenue.RevenueResponse{}, nil
}

type stubSettingsService struct {
	settings.SettingsService
}

type stubDashboardService struct {
	dashboard.DashboardService
}

func (s *stubDashboardService) GetMetrics(_ context.Context, month string) (*dashboard.MetricsResponse, error) {
	if month != "" {
		if _, err := period.Parse(month); err != nil {
			return nil, err
		}
	}
	return &dashboard.MetricsResponse{
		Month: month,
		SalaryOverview: dashboard.SalaryOverview{
			Paid:    []dashboard.SalaryOverviewItem{{SalaryID: paidSalaryID, Status: string(salary.StatusPaid)}},
			Pending: []dashboard.SalaryOverviewItem{{SalaryID: salaryID, Status: string(salary.StatusPending)}},
		},
	}, nil
}

type routerFixture struct {
	router   *chi.Mux
	jwt      jwt.Service
	salaries *stubSalaryService
	projects *stubProjectService
}

func newRouterFixture(t *testing.T, batchLimit string) *routerFixture {
	t.Helper()
	jwtService := jwt.NewJWTService(testSecret, "1h")
	salaries := &stubSalaryService{}
	projects := &stubProjectService{}
	router, err := NewRouter(
		RouterOptions{
			Logger:         slog.New(slog.NewJSONHandler(io.Discard, nil)),
			AllowedOrigins: []string{"http://localhost:3000"},
			BatchRateLimit: batchLimit,
		},
		jwtService,
		Handlers{
			Salary:    NewSalaryHandler(salaries),
			Project:   NewProjectHandler(projects),
			Revenue:   NewRevenueHandler(&stubRevenueService{}),
			Settings:  NewSettingsHandler(&stubSettingsService{}),
			Dashboard: NewDashboardHandler(&stubDashboardService{}),
			Events:    NewEventsHandler(sse.NewHub()),
		},
	)
	require.NoError(t, err)
	return &routerFixture{router: router, jwt: jwtService, salaries: salaries, projects: projects}
}

func (f *routerFixture) token(t *testing.T, role string) string {
	t.Helper()
	token, _, err := f.jwt.GenerateAccessToken("user-1", "user@example.com", role)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestNewRouter_InvalidRateLimit(t *testing.T) {
	_, err := NewRouter(RouterOptions{BatchRateLimit: "lots"}, jwt.NewJWTService(testSecret, "1h"), Handlers{})
	assert.Error(t, err)
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newRouterFixture(t, "10-M")

	// Act
	rec := f.do(t, http.MethodGet, "/api/v1/salaries/"+salaryID, "", nil)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, decodeResponse(t, rec).Success)
}

func TestRouter_RejectsForeignToken(t *testing.T) {
	f := newRouterFixture(t, "10-M")
	other := jwt.NewJWTService("another-secret", "1h")
	token, _, err := other.GenerateAccessToken("user-1", "user@example.com", auth.RoleAdmin)
	require.NoError(t, err)

	// Act
	rec := f.do(t, http.MethodGet, "/api/v1/salaries/"+salaryID, token, nil)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_GetSalary(t *testing.T) {
	f := newRouterFixture(t, "10-M")
	token := f.token(t, "Employee")

	t.Run("found", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/salaries/"+salaryID, token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decodeResponse(t, rec).Success)
	})

	t.Run("missing", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/salaries/"+missingID, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_MalformedIDIsNotFound(t *testing.T) {
	f := newRouterFixture(t, "10-M")
	employee := f.token(t, "Employee")
	admin := f.token(t, auth.RoleAdmin)

	// Act
	getSalary := f.do(t, http.MethodGet, "/api/v1/salaries/abc", employee, nil)
	history := f.do(t, http.MethodGet, "/api/v1/projects/abc/history", employee, nil)
	markPaid := f.do(t, http.MethodPut, "/api/v1/salaries/abc/status", admin, map[string]string{"status": "Paid"})
	byEmployee := f.do(t, http.MethodGet, "/api/v1/salaries/employee/abc", employee, nil)

	// Assert
	assert.Equal(t, http.StatusNotFound, getSalary.Code)
	assert.Equal(t, http.StatusNotFound, history.Code)
	assert.Equal(t, http.StatusNotFound, markPaid.Code)
	assert.Equal(t, http.StatusNotFound, byEmployee.Code)
	assert.False(t, decodeResponse(t, getSalary).Success)
	assert.Empty(t, f.salaries.fetched)
	assert.Empty(t, f.salaries.marked)
	assert.Empty(t, f.projects.requested)
}

func TestRouter_ListSalariesRejectsMalformedEmployee(t *testing.T) {
	f := newRouterFixture(t, "10-M")

	// Act
	rec := f.do(t, http.MethodGet, "/api/v1/salaries?employee=abc", f.token(t, "Employee"), nil)

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Details, "employee")
}

func TestRouter_GenerateRequiresAdmin(t *testing.T) {
	f := newRouterFixture(t, "10-M")

	// Act
	rec := f.do(t, http.MethodPost, "/api/v1/salaries/generate", f.token(t, "Employee"), salary.GenerateRequest{Month: "2025-03"})

	// Assert
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, f.salaries.generated)
}

func TestRouter_Generate(t *testing.T) {
	f := newRouterFixture(t, "10-M")

	// Act
	rec := f.do(t, http.MethodPost, "/api/v1/salaries/generate", f.token(t, auth.RoleAdmin), salary.GenerateRequest{Month: "2025-03"})

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Generated 2 salaries", resp.Message)
	assert.Equal(t, []string{"2025-03"}, f.salaries.generated)
}

func TestRouter_GenerateInvalidMonth(t *testing.T) {
	f := newRouterFixture(t, "10-M")

	// Act
	rec := f.do(t, http.MethodPost, "/api/v1/salaries/generate", f.token(t, auth.RoleAdmin), salary.GenerateRequest{Month: "03-2025"})

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Details, "month")
}

func TestRouter_BatchRateLimit(t *testing.T) {
	f := newRouterFixture(t, "1-M")
	token := f.token(t, auth.RoleAdmin)

	first := f.do(t, http.MethodPost, "/api/v1/salaries/recalculate", token, salary.RecalculateRequest{Month: "2025-03"})
	require.Equal(t, http.StatusOK, first.Code)

	// Act
	second := f.do(t, http.MethodPost, "/api/v1/salaries/recalculate", token, salary.RecalculateRequest{Month: "2025-03"})

	// Assert
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRouter_UpdateStatus(t *testing.T) {
	f := newRouterFixture(t, "10-M")
	token := f.token(t, auth.RoleAdmin)

	t.Run("pending to paid", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, "/api/v1/salaries/"+salaryID+"/status", token, map[string]string{"status": "Paid"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("already paid", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, "/api/v1/salaries/"+paidSalaryID+"/status", token, map[string]string{"status": "Paid"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	require.Len(t, f.salaries.marked, 2)
	assert.Equal(t, salaryID, f.salaries.marked[0].ID)
}

func TestRouter_ListSalariesMeta(t *testing.T) {
	f := newRouterFixture(t, "10-M")

	// Act
	rec := f.do(t, http.MethodGet, "/api/v1/salaries?month=2025-03&page=1", f.token(t, "Employee"), nil)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 20, resp.Meta.Limit)
}

func TestRouter_Export(t *testing.T) {
	f := newRouterFixture(t, "10-M")
	token := f.token(t, auth.RoleAdmin)

	t.Run("workbook", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/salaries/export?month=2025-03", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "salaries-2025-03.xlsx")
	})

	t.Run("month required", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/salaries/export", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad month", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/salaries/export?month=2025-3x", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_ProjectHistory(t *testing.T) {
	f := newRouterFixture(t, "10-M")
	token := f.token(t, "Employee")

	t.Run("timeline", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/projects/"+historyProject+"/history", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Data []project.HistoryEntryResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, project.ChangeTypeCreated, body.Data[0].ChangeType)
	})

	t.Run("unknown project", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/projects/"+missingID+"/history", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_DashboardSalaryOverview(t *testing.T) {
	f := newRouterFixture(t, "10-M")

	// Act
	rec := f.do(t, http.MethodGet, "/api/v1/dashboard/salary-overview?month=2025-03", f.token(t, "Employee"), nil)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data dashboard.SalaryOverview `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Paid, 1)
	require.Len(t, body.Data.Pending, 1)
	assert.Equal(t, paidSalaryID, body.Data.Paid[0].SalaryID)
	assert.Equal(t, salaryID, body.Data.Pending[0].SalaryID)
}

func TestRouter_RevenueMonthRequired(t *testing.T) {
	f := newRouterFixture(t, "10-M")
	token := f.token(t, "Employee")

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/v1/monthly-revenues", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/v1/monthly-revenues?month=2025", token, nil).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/monthly-revenues?month=2025-03", token, nil).Code)
}

func TestRouter_NotFound(t *testing.T) {
	f := newRouterFixture(t, "10-M")

	// Act
	rec := f.do(t, http.MethodGet, "/api/v2/nothing", "", nil)

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_EventStream(t *testing.T) {
	f := newRouterFixture(t, "10-M")

	t.Run("query token must belong to an admin", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/events?token="+f.token(t, "Employee"), "", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/api/v1/events", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin receives connected event", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/events?token="+f.token(t, auth.RoleAdmin), nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		// Act
		f.router.ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "event: connected")
		assert.Contains(t, rec.Body.String(), `"user_id":"user-1"`)
	})
}
