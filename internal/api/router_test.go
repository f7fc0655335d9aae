package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"elasticroute-client/internal/adapters/elasticroute"
	"elasticroute-client/internal/adapters/fakeapi"
	"elasticroute-client/internal/adapters/store"
	"elasticroute-client/internal/api/dto"
	"elasticroute-client/internal/domain"
	"elasticroute-client/internal/ports"
	"elasticroute-client/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const testKey = "test-key"

func newTestStore(t *testing.T) ports.SolutionStore {
	t.Helper()
	s, closeFn, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "solutions.db"), 0)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = closeFn() })
	return s
}

const webhookBody = `{"data":{"plan_id":"W1","progress":100,"stage":"planned","details":{
  "stops":[
    {"name":"S1","assign_to":"V1","run":1,"sequence":1,"eta":"2026-10-16 09:10:00","lat":1.35,"lng":103.8},
    {"name":"S2","exception":"Vehicle capacity exceeded"}
  ],
  "vehicles":[{"name":"V1"}],
  "depots":[{"name":"Main"}]}}}`

func TestHealth(t *testing.T) {
	h := NewRouter(newTestStore(t), nil, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Errorf("missing X-Request-Id header")
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /health: got %d, want 405", rr.Code)
	}
}

type brokenStore struct{}

func (brokenStore) SaveSolution(context.Context, *domain.Solution) error {
	return errors.New("connection refused")
}

func (brokenStore) GetSolution(context.Context, string) (*domain.Solution, error) {
	return nil, errors.New("connection refused")
}

func TestHealthReportsBrokenStore(t *testing.T) {
	h := NewRouter(brokenStore{}, nil, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want 503", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhooks/plans", strings.NewReader(webhookBody)))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("webhook with broken store: got %d, want 500", rr.Code)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := NewRouter(newTestStore(t), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Errorf("request id: got %q, want abc-123", got)
	}
}

func TestWebhookThenGetSolution(t *testing.T) {
	h := NewRouter(newTestStore(t), nil, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/webhooks/plans", strings.NewReader(webhookBody)))
	if rr.Code != http.StatusAccepted {
		t.Fatalf("webhook: got %d, want 202 (%s)", rr.Code, rr.Body.String())
	}
	var ack dto.WebhookAck
	if err := json.NewDecoder(rr.Body).Decode(&ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack.PlanID != "W1" || ack.Stage != "planned" {
		t.Errorf("ack: got %+v", ack)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/solutions/W1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("get: got %d, want 200", rr.Code)
	}
	var res dto.SolutionResponse
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatalf("decode solution: %v", err)
	}
	if res.Stage != "planned" || res.Progress != 100 {
		t.Errorf("solution state: %+v", res)
	}
	if len(res.Assignments) != 1 || res.Assignments[0].AssignTo != "V1" {
		t.Fatalf("assignments: got %+v", res.Assignments)
	}
	if a := res.Assignments[0]; a.Sequence == nil || *a.Sequence != 1 || a.Lat == nil || *a.Lat != 1.35 {
		t.Errorf("assignment detail: got %+v", a)
	}
	if len(res.UnsolvedStops) != 1 || res.UnsolvedStops[0] != "S2" {
		t.Errorf("unsolved: got %v, want [S2]", res.UnsolvedStops)
	}
}

func TestWebhookRejectsBadBodies(t *testing.T) {
	h := NewRouter(newTestStore(t), nil, nil)

	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"not json", http.MethodPost, "{", http.StatusBadRequest},
		{"missing plan id", http.MethodPost, `{"data":{"stage":"planned"}}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tt.method, "/webhooks/plans", strings.NewReader(tt.body)))
			if rr.Code != tt.want {
				t.Errorf("got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestGetUnknownSolution(t *testing.T) {
	h := NewRouter(newTestStore(t), nil, nil)

	for _, path := range []string{"/solutions/nope", "/solutions/", "/solutions/W1/other"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusNotFound {
			t.Errorf("%s: got %d, want 404", path, rr.Code)
		}
	}
}

func TestRefreshWithoutPlanner(t *testing.T) {
	h := NewRouter(newTestStore(t), nil, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/solutions/W1/refresh", nil))
	if rr.Code != http.StatusNotImplemented {
		t.Errorf("got %d, want 501", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := NewRouter(newTestStore(t), nil, promhttp.Handler())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("metrics: got %d, want 200", rr.Code)
	}
}

// The planner calls back into the receiver, then the stored copy is
// refreshed through the receiver's own refresh route.
func TestWebhookEndToEnd(t *testing.T) {
	fake := fakeapi.New(testKey)
	t.Cleanup(fake.Close)
	client := elasticroute.NewClient(elasticroute.Config{
		APIKey:       testKey,
		PlannerURL:   fake.PlannerURL(),
		DashboardURL: fake.DashboardURL(),
	})

	st := newTestStore(t)
	receiver := httptest.NewServer(NewRouter(st, client, nil))
	t.Cleanup(receiver.Close)

	ctx := context.Background()
	plan := domain.NewPlan("E2E")
	plan.ConnectionType = domain.ConnectionWebhook
	hook := receiver.URL + "/webhooks/plans"
	plan.GeneralSettings.WebhookURL = &hook
	plan.Depots = domain.NewDepots([]map[string]any{{"name": "Main", "address": "X"}})
	plan.Vehicles = domain.NewVehicles([]map[string]any{
		{"name": "V1", "weight_capacity": 100},
		{"name": "V2", "weight_capacity": 100},
	})
	plan.Stops = domain.NewStops([]map[string]any{
		{"name": "S1", "address": "61 Kaki Bukit Avenue 1", "weight_load": 10},
		{"name": "S2", "address": "1 Raffles Place", "weight_load": 500},
		{"name": "S3", "postal_code": "417943", "weight_load": 10},
	})

	sol, err := services.SolvePlan(ctx, client, plan)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if sol.Status != domain.StatusSubmitted {
		t.Fatalf("status after submit: got %q, want submitted", sol.Status)
	}
	if err := st.SaveSolution(ctx, sol); err != nil {
		t.Fatalf("save submitted: %v", err)
	}

	if err := fake.DeliverWebhook(ctx, "E2E"); err != nil {
		t.Fatalf("deliver: %v", err)
	}

	got, err := st.GetSolution(ctx, "E2E")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.StatusPlanned {
		t.Errorf("stored status: got %q, want planned", got.Status)
	}
	if !got.GeneralSettings.HasWebhook() {
		t.Errorf("settings from the submit were not kept")
	}
	if n := len(got.UnsolvedStops()); n != 1 {
		t.Errorf("unsolved: got %d, want 1", n)
	}

	resp, err := http.Post(receiver.URL+"/solutions/E2E/refresh", "application/json", nil)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh: got %d, want 200", resp.StatusCode)
	}
	var res dto.SolutionResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.UnsolvedStops) != 1 || res.UnsolvedStops[0] != "S2" {
		t.Errorf("unsolved after refresh: got %v, want [S2]", res.UnsolvedStops)
	}
	if len(res.Assignments) != 2 {
		t.Errorf("assignments after refresh: got %d, want 2", len(res.Assignments))
	}
}
