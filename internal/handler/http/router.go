package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// BatchRateLimit is a formatted rate ("10-M") for generate/recalculate
	BatchRateLimit string
}

type Handlers struct {
	Salary    SalaryHandler
	Project   ProjectHandler
	Revenue   RevenueHandler
	Settings  SettingsHandler
	Dashboard DashboardHandler
	Events    EventsHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) (*chi.Mux, error) {
	batchLimit, err := middleware.RateLimit(opts.BatchRateLimit)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot set headers, so the stream also accepts ?token=
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, middleware.TokenFromQuery))
			r.Use(middleware.AuthRequired)
			r.Use(middleware.RequireAdmin)
			r.Get("/events", h.Events.Stream)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/salaries", func(r chi.Router) {
				r.Get("/", h.Salary.ListSalaries)
				r.Get("/export", h.Salary.Export)
				r.Get("/employee/{employeeId}", h.Salary.ListByEmployee)
				r.Get("/{id}", h.Salary.GetSalary)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.With(batchLimit).Post("/generate", h.Salary.Generate)
					r.With(batchLimit).Post("/recalculate", h.Salary.Recalculate)
					r.Put("/{id}/status", h.Salary.UpdateStatus)
				})
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", h.Project.ListProjects)
				r.Get("/{id}", h.Project.GetProject)
				r.Get("/{id}/history", h.Project.GetHistory)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Project.CreateProject)
					r.Put("/{id}", h.Project.UpdateProject)
					r.Post("/{id}/assign", h.Project.AssignTeam)
				})
			})

			r.Route("/monthly-revenues", func(r chi.Router) {
				r.Get("/", h.Revenue.ListByMonth)
				r.Get("/month/{month}", h.Revenue.GetMonthView)
				r.Get("/{id}", h.Revenue.GetRevenue)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Revenue.CreateRevenue)
					r.Post("/bulk", h.Revenue.BulkUpsert)
					r.Put("/{id}", h.Revenue.UpdateRevenue)
					r.Delete("/{id}", h.Revenue.DeleteRevenue)
				})
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", h.Settings.GetSettings)
				r.With(middleware.RequireAdmin).Put("/", h.Settings.UpdateSettings)
			})

			r.Get("/dashboard/metrics", h.Dashboard.GetMetrics)
			r.Get("/dashboard/salary-overview", h.Dashboard.GetSalaryOverview)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r, nil
}
