package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// pathID reads a UUID route parameter. A value that is not a UUID cannot name
// a stored record, so it is answered with 404.
func pathID(w http.ResponseWriter, r *http.Request, name, resource string) (string, bool) {
	id := chi.URLParam(r, name)
	if id == "" {
		response.BadRequest(w, resource+" ID is required", nil)
		return "", false
	}
	if !validator.IsValidUUID(id) {
		response.NotFound(w, resource+" not found")
		return "", false
	}
	return id, true
}
