package elasticroute

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"elasticroute-client/internal/domain"
)

func samplePlan(id string, mode domain.ConnectionType) *domain.Plan {
	p := domain.NewPlan(id)
	p.ConnectionType = mode
	p.Depots = domain.NewDepots([]map[string]any{{"name": "Main", "address": "X"}})
	p.Vehicles = domain.NewVehicles([]map[string]any{{"name": "V1"}})
	p.Stops = domain.NewStops([]map[string]any{
		{"name": "S1", "address": "A"},
		{"name": "S2", "address": "B"},
	})
	return p
}

func TestSubmitPlanSync(t *testing.T) {
	c, srv := newTestClient(t, Config{})

	b, err := c.SubmitPlan(context.Background(), samplePlan("T1", domain.ConnectionSync))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := srv.LastRequest()
	if req.Method != http.MethodPost || req.Path != "/api/plan/T1" || req.RawQuery != "c=sync" {
		t.Errorf("request: got %s %s?%s", req.Method, req.Path, req.RawQuery)
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("request body: %v", err)
	}
	for _, k := range []string{"stops", "depots", "vehicles", "generalSettings"} {
		if _, ok := body[k]; !ok {
			t.Errorf("request body missing %q", k)
		}
	}

	sol, err := domain.ParseSolution(b, domain.DefaultGeneralSettings())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sol.Status != domain.StatusPlanned {
		t.Errorf("status: got %q, want planned", sol.Status)
	}
}

func TestSubmitPlanPollHasNoSyncFlag(t *testing.T) {
	c, srv := newTestClient(t, Config{})

	b, err := c.SubmitPlan(context.Background(), samplePlan("T2", domain.ConnectionPoll))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q := srv.LastRequest().RawQuery; q != "" {
		t.Errorf("query: got %q, want none", q)
	}

	sol, err := domain.ParseSolution(b, domain.DefaultGeneralSettings())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sol.Status != domain.StatusSubmitted {
		t.Errorf("status: got %q, want submitted", sol.Status)
	}
}

func TestFetchPlanEscapesID(t *testing.T) {
	c, srv := newTestClient(t, Config{})

	if _, err := c.SubmitPlan(context.Background(), samplePlan("plan 1/a", domain.ConnectionPoll)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := c.FetchPlan(context.Background(), "plan 1/a"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := srv.LastRequest().Path; got != "/api/plan/plan%201%2Fa" {
		t.Errorf("path: got %q", got)
	}
}

func TestFetchUnknownPlan(t *testing.T) {
	c, _ := newTestClient(t, Config{})

	_, err := c.FetchPlan(context.Background(), "missing")
	if !domain.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("got %v, want 404 APIError", err)
	}
}
