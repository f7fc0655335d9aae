package api

import (
	"net/http"

	"elasticroute-client/internal/api/handlers"
	"elasticroute-client/internal/ports"
)

// NewRouter wires the webhook receiver. planner may be nil, in which case
// solutions can only arrive by webhook.
func NewRouter(store ports.SolutionStore, planner ports.PlanAPI, metrics http.Handler) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Store: store}
	webhookHandler := &handlers.WebhookHandler{Store: store}
	solutionHandler := &handlers.SolutionHandler{Store: store, Planner: planner}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/webhooks/plans", webhookHandler.Receive)
	mux.HandleFunc("/solutions/", solutionHandler.Route)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}

	return loggingMiddleware(mux)
}
