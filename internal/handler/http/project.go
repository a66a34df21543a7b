package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/project"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
)

type ProjectHandler interface {
	ListProjects(w http.ResponseWriter, r *http.Request)
	GetProject(w http.ResponseWriter, r *http.Request)
	CreateProject(w http.ResponseWriter, r *http.Request)
	UpdateProject(w http.ResponseWriter, r *http.Request)
	AssignTeam(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
}

type projectHandlerImpl struct {
	projectService project.ProjectService
}

func NewProjectHandler(projectService project.ProjectService) ProjectHandler {
	return &projectHandlerImpl{projectService: projectService}
}

func (h *projectHandlerImpl) ListProjects(w http.ResponseWriter, r *http.Request) {
	var filter project.ProjectFilter
	if status := r.URL.Query().Get("status"); status != "" {
		s := project.Status(status)
		if s != project.StatusActive && s != project.StatusCompleted {
			response.BadRequest(w, "status must be 'Active' or 'Completed'", nil)
			return
		}
		filter.Status = &s
	}

	result, err := h.projectService.ListProjects(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *projectHandlerImpl) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Project")
	if !ok {
		return
	}

	result, err := h.projectService.GetProject(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *projectHandlerImpl) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req project.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.projectService.CreateProject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Project created", result)
}

func (h *projectHandlerImpl) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Project")
	if !ok {
		return
	}

	var req project.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.projectService.UpdateProject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Project updated", result)
}

func (h *projectHandlerImpl) AssignTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Project")
	if !ok {
		return
	}

	var req project.AssignTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.projectService.AssignTeam(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Team assigned", result)
}

func (h *projectHandlerImpl) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "Project")
	if !ok {
		return
	}

	result, err := h.projectService.GetHistory(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
