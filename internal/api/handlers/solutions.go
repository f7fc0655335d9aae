package handlers

import (
	"errors"
	"net/http"
	"strings"

	"elasticroute-client/internal/api/dto"
	"elasticroute-client/internal/domain"
	"elasticroute-client/internal/platform/obs"
	"elasticroute-client/internal/ports"
	"elasticroute-client/internal/services"
)

type SolutionHandler struct {
	Store ports.SolutionStore
	// Planner is used by the refresh route; nil disables it.
	Planner ports.PlanAPI
}

// Route serves
//
//	GET  /solutions/{plan_id}
//	POST /solutions/{plan_id}/refresh
func (h *SolutionHandler) Route(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/solutions/")
	planID, action, _ := strings.Cut(rest, "/")
	if planID == "" {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	switch action {
	case "":
		h.get(w, r, planID)
	case "refresh":
		h.refresh(w, r, planID)
	default:
		writeError(w, r, http.StatusNotFound, "not found")
	}
}

func (h *SolutionHandler) get(w http.ResponseWriter, r *http.Request, planID string) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sol, ok := h.load(w, r, planID)
	if !ok {
		return
	}
	h.respond(w, r, sol)
}

func (h *SolutionHandler) refresh(w http.ResponseWriter, r *http.Request, planID string) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.Planner == nil {
		writeError(w, r, http.StatusNotImplemented, "refresh is not configured")
		return
	}

	sol, ok := h.load(w, r, planID)
	if !ok {
		return
	}
	if err := services.RefreshSolution(r.Context(), h.Planner, sol); err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) {
			writeError(w, r, http.StatusBadGateway, apiErr.Error())
			return
		}
		obs.Log(r.Context()).WithError(err).WithField("plan_id", planID).Error("refresh failed")
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if err := h.Store.SaveSolution(r.Context(), sol); err != nil {
		obs.Log(r.Context()).WithError(err).WithField("plan_id", planID).Error("save refreshed solution failed")
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	h.respond(w, r, sol)
}

func (h *SolutionHandler) load(w http.ResponseWriter, r *http.Request, planID string) (*domain.Solution, bool) {
	sol, err := h.Store.GetSolution(r.Context(), planID)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "solution not found")
		return nil, false
	}
	if err != nil {
		obs.Log(r.Context()).WithError(err).WithField("plan_id", planID).Error("get solution failed")
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return sol, true
}

func (h *SolutionHandler) respond(w http.ResponseWriter, r *http.Request, sol *domain.Solution) {
	var unsolved []string
	if lister, ok := h.Store.(ports.UnsolvedStopLister); ok {
		names, err := lister.UnsolvedStopNames(r.Context(), sol.PlanID)
		if err != nil {
			obs.Log(r.Context()).WithError(err).WithField("plan_id", sol.PlanID).Warn("unsolved stop lookup failed, using solution")
		} else {
			unsolved = names
		}
	}
	if unsolved == nil {
		for _, st := range sol.UnsolvedStops() {
			unsolved = append(unsolved, st.Name())
		}
	}

	writeJSON(w, r, http.StatusOK, dto.NewSolutionResponse(sol, unsolved))
}
