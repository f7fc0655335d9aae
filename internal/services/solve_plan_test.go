package services

import (
	"context"
	"errors"
	"testing"

	"elasticroute-client/internal/adapters/elasticroute"
	"elasticroute-client/internal/adapters/fakeapi"
	"elasticroute-client/internal/domain"
)

const testKey = "test-key"

// stubAPI records what it was asked to do and answers with fixed bodies.
type stubAPI struct {
	submitted *domain.Plan
	submitErr error
	body      []byte
	fetches   int
}

func (s *stubAPI) SubmitPlan(ctx context.Context, plan *domain.Plan) ([]byte, error) {
	s.submitted = plan
	return s.body, s.submitErr
}

func (s *stubAPI) FetchPlan(ctx context.Context, planID string) ([]byte, error) {
	s.fetches++
	return s.body, nil
}

func newFakeClient(t *testing.T) (*elasticroute.Client, *fakeapi.Server) {
	t.Helper()
	srv := fakeapi.New(testKey)
	t.Cleanup(srv.Close)
	c := elasticroute.NewClient(elasticroute.Config{
		APIKey:       testKey,
		PlannerURL:   srv.PlannerURL(),
		DashboardURL: srv.DashboardURL(),
	})
	return c, srv
}

// scenarioPlan is one depot, two vehicles and four stops.
func scenarioPlan(id string, mode domain.ConnectionType) *domain.Plan {
	p := domain.NewPlan(id)
	p.ConnectionType = mode
	p.Depots = domain.NewDepots([]map[string]any{{"name": "Main", "address": "X"}})
	p.Vehicles = domain.NewVehicles([]map[string]any{{"name": "V1"}, {"name": "V2"}})
	p.Stops = domain.NewStops([]map[string]any{
		{"name": "S1", "address": "61 Kaki Bukit Avenue 1"},
		{"name": "S2", "postal_code": "417943"},
		{"name": "S3", "lat": "1.3521", "lng": "103.8198"},
		{"name": "S4", "address": "1 Raffles Place"},
	})
	return p
}

func TestSolvePlanSyncEndToEnd(t *testing.T) {
	c, _ := newFakeClient(t)

	sol, err := SolvePlan(context.Background(), c, scenarioPlan("T1", domain.ConnectionSync))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sol.Status != domain.StatusPlanned {
		t.Errorf("status: got %q, want planned", sol.Status)
	}
	if sol.Progress != 100 {
		t.Errorf("progress: got %v, want 100", sol.Progress)
	}
	if sol.PlanID != "T1" {
		t.Errorf("plan id: got %q", sol.PlanID)
	}
	if len(sol.Stops) != 4 {
		t.Fatalf("stops: got %d, want 4", len(sol.Stops))
	}
	for _, st := range sol.Stops {
		for _, f := range []domain.StopField{domain.StopAssignTo, domain.StopRun, domain.StopSequence, domain.StopETA} {
			if st.Get(f) == nil {
				t.Errorf("stop %s: solver field %s missing", st.Name(), f)
			}
		}
	}
	if n := len(sol.UnsolvedStops()); n != 0 {
		t.Errorf("unsolved: got %d, want 0", n)
	}
}

func TestSolvePlanPollThenRefresh(t *testing.T) {
	c, srv := newFakeClient(t)
	srv.PollsUntilPlanned = 2
	ctx := context.Background()

	sol, err := SolvePlan(ctx, c, scenarioPlan("T2", domain.ConnectionPoll))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.Status != domain.StatusSubmitted {
		t.Fatalf("status after submit: got %q, want submitted", sol.Status)
	}

	if err := RefreshSolution(ctx, c, sol); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if sol.Status != domain.StatusPlanning {
		t.Errorf("status after first refresh: got %q, want planning", sol.Status)
	}

	if err := RefreshSolution(ctx, c, sol); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if sol.Status != domain.StatusPlanned || sol.Progress != 100 {
		t.Errorf("after second refresh: status %q progress %v", sol.Status, sol.Progress)
	}
	if sol.Stops[0].AssignTo() == "" {
		t.Errorf("solver fields not loaded on refresh")
	}
}

func TestSolvePlanRequiresID(t *testing.T) {
	api := &stubAPI{}

	_, err := SolvePlan(context.Background(), api, scenarioPlan("  ", domain.ConnectionSync))

	var bad *domain.BadFieldError
	if !errors.As(err, &bad) || bad.Message != "You need to create an id for this plan!" {
		t.Fatalf("got %v, want missing id error", err)
	}
	if api.submitted != nil {
		t.Errorf("plan was submitted")
	}
}

func TestSolvePlanStopsOnValidationError(t *testing.T) {
	api := &stubAPI{}
	p := scenarioPlan("T3", domain.ConnectionSync)
	p.Stops = p.Stops[:1]

	_, err := SolvePlan(context.Background(), api, p)

	var bad *domain.BadFieldError
	if !errors.As(err, &bad) || bad.Message != "You must have at least two stops" {
		t.Fatalf("got %v, want minimum stop error", err)
	}
	if api.submitted != nil {
		t.Errorf("plan was submitted")
	}
}

func TestSolvePlanPropagatesAPIError(t *testing.T) {
	api := &stubAPI{submitErr: &domain.APIError{StatusCode: 500, Body: "boom"}}

	_, err := SolvePlan(context.Background(), api, scenarioPlan("T4", domain.ConnectionSync))
	if !domain.IsStatus(err, 500) {
		t.Fatalf("got %v, want 500 APIError", err)
	}
}

func TestSolvePlanWebhookWithoutURLStillSubmits(t *testing.T) {
	api := &stubAPI{body: []byte(`{"data":{"plan_id":"T5","progress":0,"stage":"submitted","details":{}}}`)}

	sol, err := SolvePlan(context.Background(), api, scenarioPlan("T5", domain.ConnectionWebhook))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.submitted == nil {
		t.Fatalf("plan was not submitted")
	}
	if sol.Status != domain.StatusSubmitted {
		t.Errorf("status: got %q, want submitted", sol.Status)
	}
}

func TestRefreshSolutionRequiresPlanID(t *testing.T) {
	api := &stubAPI{}

	err := RefreshSolution(context.Background(), api, &domain.Solution{})

	var bad *domain.BadFieldError
	if !errors.As(err, &bad) {
		t.Fatalf("got %v, want BadFieldError", err)
	}
	if api.fetches != 0 {
		t.Errorf("fetches: got %d, want 0", api.fetches)
	}
}

func TestRefreshSolutions(t *testing.T) {
	c, _ := newFakeClient(t)
	ctx := context.Background()

	var sols []*domain.Solution
	for _, id := range []string{"A", "B", "C"} {
		sol, err := SolvePlan(ctx, c, scenarioPlan(id, domain.ConnectionPoll))
		if err != nil {
			t.Fatalf("submit %s: %v", id, err)
		}
		sols = append(sols, sol)
	}

	if err := RefreshSolutions(ctx, c, sols, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, sol := range sols {
		if sol.Status != domain.StatusPlanned {
			t.Errorf("plan %s: status %q, want planned", sol.PlanID, sol.Status)
		}
	}

	sols = append(sols, &domain.Solution{PlanID: "unknown"})
	if err := RefreshSolutions(ctx, c, sols, 2); !domain.IsStatus(err, 404) {
		t.Errorf("got %v, want 404 for unknown plan", err)
	}
}
