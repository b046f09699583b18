package api

import (
	"net/http"

	"github.com/okian/bfhl/internal/domain/types"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	email string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(email string) *HealthHandler {
	return &HealthHandler{email: email}
}

// HandleHealth handles GET /health. It never touches the dispatcher.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, types.Status(h.email))
}
