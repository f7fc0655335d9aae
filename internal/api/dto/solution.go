package dto

import (
	"elasticroute-client/internal/domain"
)

// Request/response DTOs for the webhook receiver.

type WebhookAck struct {
	PlanID string `json:"plan_id"`
	Stage  string `json:"stage"`
}

type Assignment struct {
	Name     string   `json:"name"`
	AssignTo string   `json:"assign_to,omitempty"`
	Run      *int     `json:"run,omitempty"`
	Sequence *int     `json:"sequence,omitempty"`
	ETA      string   `json:"eta,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
}

type SolutionResponse struct {
	PlanID        string       `json:"plan_id"`
	Stage         string       `json:"stage"`
	Progress      float64      `json:"progress"`
	Assignments   []Assignment `json:"assignments"`
	UnsolvedStops []string     `json:"unsolved_stops"`
}

// NewSolutionResponse flattens a solution. Stops with an exception are
// listed in unsolved only.
func NewSolutionResponse(sol *domain.Solution, unsolved []string) SolutionResponse {
	res := SolutionResponse{
		PlanID:        sol.PlanID,
		Stage:         string(sol.Status),
		Progress:      sol.Progress,
		Assignments:   []Assignment{},
		UnsolvedStops: unsolved,
	}
	if res.UnsolvedStops == nil {
		res.UnsolvedStops = []string{}
	}

	for _, st := range sol.Stops {
		if st.Exception() != "" {
			continue
		}
		a := Assignment{
			Name:     st.Name(),
			AssignTo: st.AssignTo(),
			Run:      intPtr(st.Get(domain.StopRun)),
			Sequence: intPtr(st.Get(domain.StopSequence)),
			ETA:      domain.Text(st.Get(domain.StopETA)),
		}
		if c, ok := domain.CoordinatesOf(st.Record()); ok {
			a.Lat, a.Lng = &c.Lat, &c.Lng
		}
		res.Assignments = append(res.Assignments, a)
	}
	return res
}

func intPtr(v any) *int {
	n, ok := domain.Number(v)
	if !ok {
		return nil
	}
	i := int(n)
	return &i
}
