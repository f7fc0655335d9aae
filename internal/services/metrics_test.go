package services

import (
	"context"
	"testing"

	"elasticroute-client/internal/domain"
	"elasticroute-client/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

const plannedBody = `{"data":{"plan_id":"M1","progress":100,"stage":"planned","details":{"stops":[],"vehicles":[],"depots":[]}}}`

func TestSolvePlanCountsSubmissions(t *testing.T) {
	api := &stubAPI{body: []byte(plannedBody)}
	counter := metrics.PlanSubmissions.WithLabelValues("poll")
	before := testutil.ToFloat64(counter)

	if _, err := SolvePlan(context.Background(), api, scenarioPlan("M1", domain.ConnectionPoll)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("poll submissions: got +%v, want +1", got)
	}
}

func TestSolvePlanCountsValidationFailures(t *testing.T) {
	counter := metrics.ValidationFailures.WithLabelValues("stop")
	before := testutil.ToFloat64(counter)

	p := scenarioPlan("M2", domain.ConnectionSync)
	p.Stops = p.Stops[:1]
	if _, err := SolvePlan(context.Background(), &stubAPI{}, p); err == nil {
		t.Fatalf("expected a validation error")
	}

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("stop validation failures: got +%v, want +1", got)
	}
}

func TestFailedKind(t *testing.T) {
	tests := map[string]string{
		"Stop name cannot be null":          "stop",
		"You must have at least two stops":  "stop",
		"Vehicle priority must be a number": "vehicle",
		"Depot name cannot be null":         "depot",
		"API Key is missing!":               "other",
	}
	for msg, want := range tests {
		if got := failedKind(msg); got != want {
			t.Errorf("failedKind(%q): got %q, want %q", msg, got, want)
		}
	}
}
