package api

import "testing"

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"/health":               "/health",
		"/webhooks/plans":       "/webhooks/plans",
		"/metrics":              "/metrics",
		"/solutions/T1":         "/solutions/{id}",
		"/solutions/T1/refresh": "/solutions/{id}",
		"/x1":                   "other",
		"/x2":                   "other",
		"/":                     "other",
	}
	for path, want := range tests {
		if got := routeLabel(path); got != want {
			t.Errorf("routeLabel(%q): got %q, want %q", path, got, want)
		}
	}
}

