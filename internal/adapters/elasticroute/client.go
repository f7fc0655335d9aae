package elasticroute

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultPlannerURL   = "https://app.elasticroute.com/api"
	DefaultDashboardURL = "https://app.elasticroute.com/api/v1"
)

// Config is fixed once the client is built.
type Config struct {
	// APIKey is used when set; DefaultAPIKey otherwise.
	APIKey        string
	DefaultAPIKey string

	PlannerURL   string
	DashboardURL string

	HTTPClient *http.Client
	Timeout    time.Duration

	// RequestsPerSecond > 0 throttles outgoing requests.
	RequestsPerSecond float64
	Burst             int

	// MaxAttempts > 1 retries 429, 5xx and network errors with backoff.
	// The default is a single attempt.
	MaxAttempts int

	// RequestOptions run on every request before per-call options.
	RequestOptions []RequestOption
}

// RequestOption adjusts an outgoing request, e.g. to add headers.
type RequestOption func(*http.Request)

func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Client talks to the ElasticRoute planner and dashboard APIs.
// It is safe for concurrent use.
type Client struct {
	session       *http.Client
	apiKey        string
	defaultAPIKey string
	plannerURL    string
	dashboardURL  string
	limiter       *rate.Limiter
	maxAttempts   int
	reqOpts       []RequestOption
}

func NewClient(cfg Config) *Client {
	session := cfg.HTTPClient
	if session == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		session = &http.Client{Timeout: timeout}
	}

	c := &Client{
		session:       session,
		apiKey:        cfg.APIKey,
		defaultAPIKey: cfg.DefaultAPIKey,
		plannerURL:    strings.TrimRight(orDefault(cfg.PlannerURL, DefaultPlannerURL), "/"),
		dashboardURL:  strings.TrimRight(orDefault(cfg.DashboardURL, DefaultDashboardURL), "/"),
		maxAttempts:   max(cfg.MaxAttempts, 1),
		reqOpts:       append([]RequestOption(nil), cfg.RequestOptions...),
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.Burst, 1))
	}
	return c
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// With returns a copy of c that also applies opts to every request. The
// copy shares the underlying HTTP client and rate limiter.
func (c *Client) With(opts ...RequestOption) *Client {
	cp := *c
	cp.reqOpts = append(append([]RequestOption(nil), c.reqOpts...), opts...)
	return &cp
}

// WithAPIKey returns a copy of c that authenticates with key when it is
// not blank.
func (c *Client) WithAPIKey(key string) *Client {
	cp := *c
	if strings.TrimSpace(key) != "" {
		cp.apiKey = key
	}
	return &cp
}
