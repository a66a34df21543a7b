package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/revenue"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RevenueHandler interface {
	ListByMonth(w http.ResponseWriter, r *http.Request)
	GetMonthView(w http.ResponseWriter, r *http.Request)
	GetRevenue(w http.ResponseWriter, r *http.Request)
	CreateRevenue(w http.ResponseWriter, r *http.Request)
	UpdateRevenue(w http.ResponseWriter, r *http.Request)
	DeleteRevenue(w http.ResponseWriter, r *http.Request)
	BulkUpsert(w http.ResponseWriter, r *http.Request)
}

type revenueHandlerImpl struct {
	revenueService revenue.RevenueService
}

func NewRevenueHandler(revenueService revenue.RevenueService) RevenueHandler {
	return &revenueHandlerImpl{revenueService: revenueService}
}

func (h *revenueHandlerImpl) ListByMonth(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		response.BadRequest(w, "month query parameter is required", nil)
		return
	}

	result, err := h.revenueService.ListByMonth(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *revenueHandlerImpl) GetMonthView(w http.ResponseWriter, r *http.Request) {
	result, err := h.revenueService.GetMonthView(r.Context(), chi.URLParam(r, "month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *revenueHandlerImpl) GetRevenue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Revenue")
	if !ok {
		return
	}

	result, err := h.revenueService.GetRevenue(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *revenueHandlerImpl) CreateRevenue(w http.ResponseWriter, r *http.Request) {
	var req revenue.CreateRevenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.revenueService.CreateRevenue(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Monthly revenue recorded", result)
}

func (h *revenueHandlerImpl) UpdateRevenue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Revenue")
	if !ok {
		return
	}

	var req revenue.UpdateRevenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.revenueService.UpdateRevenue(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Monthly revenue updated", result)
}

func (h *revenueHandlerImpl) DeleteRevenue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Revenue")
	if !ok {
		return
	}

	if err := h.revenueService.DeleteRevenue(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Monthly revenue deleted", nil)
}

func (h *revenueHandlerImpl) BulkUpsert(w http.ResponseWriter, r *http.Request) {
	var req revenue.BulkRevenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.revenueService.BulkUpsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
