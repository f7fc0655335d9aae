package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	Registry = prometheus.NewRegistry()

	// APIRequests counts calls to the planner and dashboard by outcome.
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "elasticroute_api_requests_total", Help: "Requests sent to ElasticRoute."},
		[]string{"service", "method", "status"},
	)
	APIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "elasticroute_api_request_duration_seconds", Help: "ElasticRoute request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"service", "method"},
	)

	ValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "elasticroute_validation_failures_total", Help: "Batches rejected before submission."},
		[]string{"kind"},
	)
	PlanSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "elasticroute_plan_submissions_total", Help: "Plans submitted by connection type."},
		[]string{"connection"},
	)
	SolutionRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "elasticroute_solution_refreshes_total", Help: "Solution refreshes by resulting stage."},
		[]string{"stage"},
	)

	// HTTPRequests covers the webhook receiver's own endpoints.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	WebhooksReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "elasticroute_webhooks_received_total", Help: "Plan webhooks received by stage."},
		[]string{"stage"},
	)
)

var regOnce sync.Once

func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(APIRequests, APIDuration, ValidationFailures, PlanSubmissions,
			SolutionRefreshes, HTTPRequests, WebhooksReceived)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
