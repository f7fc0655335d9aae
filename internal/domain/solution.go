package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the planner's stage for a submitted plan.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusPlanning  Status = "planning"
	StatusPlanned   Status = "planned"
)

func (s Status) Terminal() bool {
	return s == StatusPlanned
}

// rank orders known stages; unknown stages sort first.
func (s Status) rank() int {
	switch s {
	case StatusSubmitted:
		return 1
	case StatusPlanning:
		return 2
	case StatusPlanned:
		return 3
	default:
		return 0
	}
}

// Regresses reports whether moving from s to next goes back a stage.
func (s Status) Regresses(next Status) bool {
	return next.rank() != 0 && next.rank() < s.rank()
}

// Solution is the planner's view of a plan at the time of the last
// submit or refresh.
type Solution struct {
	PlanID          string
	Progress        float64
	Status          Status
	Stops           []*Stop
	Vehicles        []*Vehicle
	Depots          []*Depot
	GeneralSettings GeneralSettings
	RawResponse     []byte
	RawData         map[string]any
}

type planResponse struct {
	Data struct {
		PlanID   any     `json:"plan_id"`
		Progress any     `json:"progress"`
		Stage    string  `json:"stage"`
		Details  struct {
			Stops    []map[string]any `json:"stops"`
			Vehicles []map[string]any `json:"vehicles"`
			Depots   []map[string]any `json:"depots"`
		} `json:"details"`
	} `json:"data"`
}

// ParseSolution builds a solution from a planner response body.
func ParseSolution(body []byte, settings GeneralSettings) (*Solution, error) {
	s := &Solution{GeneralSettings: settings}
	if err := s.Apply(body); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply overwrites the solution with the contents of a planner response body.
func (s *Solution) Apply(body []byte) error {
	var resp planResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("apply plan response: decode: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("apply plan response: decode raw: %w", err)
	}

	if id := Text(resp.Data.PlanID); id != "" {
		s.PlanID = id
	}
	s.Progress, _ = Number(resp.Data.Progress)
	s.Status = Status(resp.Data.Stage)
	s.Stops = NewStops(resp.Data.Details.Stops)
	s.Vehicles = NewVehicles(resp.Data.Details.Vehicles)
	s.Depots = NewDepots(resp.Data.Details.Depots)
	s.RawResponse = append([]byte(nil), body...)
	s.RawData = raw
	return nil
}

// UnsolvedStops returns the stops the solver could not place.
func (s *Solution) UnsolvedStops() []*Stop {
	var out []*Stop
	for _, st := range s.Stops {
		if strings.TrimSpace(st.Exception()) != "" {
			out = append(out, st)
		}
	}
	return out
}

func (s *Solution) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PlanID          string          `json:"plan_id"`
		Progress        float64         `json:"progress"`
		Status          Status          `json:"status"`
		Stops           []*Stop         `json:"stops"`
		Depots          []*Depot        `json:"depots"`
		Vehicles        []*Vehicle      `json:"vehicles"`
		GeneralSettings GeneralSettings `json:"generalSettings"`
	}{
		PlanID:          s.PlanID,
		Progress:        s.Progress,
		Status:          s.Status,
		Stops:           nonNil(s.Stops),
		Depots:          nonNil(s.Depots),
		Vehicles:        nonNil(s.Vehicles),
		GeneralSettings: s.GeneralSettings,
	})
}
