package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"elasticroute-client/internal/api/dto"
	"elasticroute-client/internal/domain"
	"elasticroute-client/internal/metrics"
	"elasticroute-client/internal/platform/obs"
	"elasticroute-client/internal/ports"
)

const maxWebhookBody = 8 << 20

type WebhookHandler struct {
	Store ports.SolutionStore
}

// Receive accepts the planner's callback for a plan submitted with
// connection type "webhook". The body has the same shape as a plan fetch.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, "could not read request body")
		return
	}

	sol, err := domain.ParseSolution(body, domain.DefaultGeneralSettings())
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(sol.PlanID) == "" {
		writeError(w, r, http.StatusBadRequest, "plan_id is required")
		return
	}

	// keep the settings of an earlier submit if we have one
	if prev, err := h.Store.GetSolution(r.Context(), sol.PlanID); err == nil {
		sol.GeneralSettings = prev.GeneralSettings
	} else if !errors.Is(err, domain.ErrNotFound) {
		obs.Log(r.Context()).WithError(err).WithField("plan_id", sol.PlanID).Warn("lookup before webhook save failed")
	}

	if err := h.Store.SaveSolution(r.Context(), sol); err != nil {
		obs.Log(r.Context()).WithError(err).WithField("plan_id", sol.PlanID).Error("save webhook solution failed")
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	metrics.WebhooksReceived.WithLabelValues(string(sol.Status)).Inc()

	writeJSON(w, r, http.StatusAccepted, dto.WebhookAck{PlanID: sol.PlanID, Stage: string(sol.Status)})
}
