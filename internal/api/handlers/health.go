package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"elasticroute-client/internal/domain"
	"elasticroute-client/internal/platform/obs"
	"elasticroute-client/internal/ports"
)

type HealthHandler struct {
	Store ports.SolutionStore
}

// Health reports liveness and whether the solution store answers. A lookup
// of an id that is never stored must come back as not found.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := h.Store.GetSolution(ctx, "__health__"); err != nil && !errors.Is(err, domain.ErrNotFound) {
		obs.Log(r.Context()).WithError(err).Warn("solution store check failed")
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "store": "unavailable"})
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok", "store": "ok"})
}
