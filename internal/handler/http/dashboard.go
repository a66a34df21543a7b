package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	GetMetrics(w http.ResponseWriter, r *http.Request)
	GetSalaryOverview(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetMetrics handles GET /dashboard/metrics?month=YYYY-MM
func (h *dashboardHandlerImpl) GetMetrics(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetMetrics(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetSalaryOverview handles GET /dashboard/salary-overview?month=YYYY-MM
func (h *dashboardHandlerImpl) GetSalaryOverview(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetMetrics(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result.SalaryOverview)
}
