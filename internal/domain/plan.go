package domain

import (
	"encoding/json"
	"fmt"
)

// ConnectionType selects how the planner reports a submitted plan.
type ConnectionType string

const (
	// ConnectionSync makes the planner solve before answering.
	ConnectionSync ConnectionType = "sync"
	// ConnectionPoll returns immediately; the caller refreshes.
	ConnectionPoll ConnectionType = "poll"
	// ConnectionWebhook returns immediately; the planner calls webhook_url.
	ConnectionWebhook ConnectionType = "webhook"
)

func ParseConnectionType(s string) (ConnectionType, error) {
	switch ConnectionType(s) {
	case "", ConnectionSync:
		return ConnectionSync, nil
	case ConnectionPoll, ConnectionWebhook:
		return ConnectionType(s), nil
	default:
		return "", fmt.Errorf("parse connection type: unknown mode %q", s)
	}
}

// Plan is one routing problem submitted under a caller-chosen id.
type Plan struct {
	ID              string
	APIKey          string
	ConnectionType  ConnectionType
	GeneralSettings GeneralSettings
	Stops           []*Stop
	Vehicles        []*Vehicle
	Depots          []*Depot
}

func NewPlan(id string) *Plan {
	return &Plan{
		ID:              id,
		ConnectionType:  ConnectionSync,
		GeneralSettings: DefaultGeneralSettings(),
	}
}

// MarshalJSON produces the plan submission body.
func (p *Plan) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Stops           []*Stop         `json:"stops"`
		Depots          []*Depot        `json:"depots"`
		Vehicles        []*Vehicle      `json:"vehicles"`
		GeneralSettings GeneralSettings `json:"generalSettings"`
	}{
		Stops:           nonNil(p.Stops),
		Depots:          nonNil(p.Depots),
		Vehicles:        nonNil(p.Vehicles),
		GeneralSettings: p.GeneralSettings,
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
