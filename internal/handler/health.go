package handler

import (
	"net/http"

	"sheetfeed/internal/httputil"
)

// HealthHandler reports service liveness.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check responds 200 when the process is up.
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
