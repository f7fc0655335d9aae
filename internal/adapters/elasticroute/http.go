package elasticroute

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"elasticroute-client/internal/domain"
	"elasticroute-client/internal/metrics"
	"elasticroute-client/internal/platform/obs"

	"github.com/google/uuid"
)

const (
	servicePlanner   = "planner"
	serviceDashboard = "dashboard"
)

// resolveAPIKey picks the first non-blank of override, the client key and
// the default key.
func (c *Client) resolveAPIKey(override string) (string, error) {
	key := strings.TrimSpace(override)
	if key == "" {
		key = strings.TrimSpace(c.apiKey)
	}
	if key == "" {
		key = strings.TrimSpace(c.defaultAPIKey)
	}
	if key == "" {
		return "", domain.NewBadFieldError("API Key is missing!", nil)
	}
	return key, nil
}

type call struct {
	service string
	method  string
	url     string
	payload any
	apiKey  string
}

func (c *Client) newRequest(ctx context.Context, cl call, body []byte) (*http.Request, error) {
	key, err := c.resolveAPIKey(cl.apiKey)
	if err != nil {
		return nil, err
	}

	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, cl.url, r)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	reqID := obs.RequestID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("X-Request-Id", reqID)

	for _, opt := range c.reqOpts {
		opt(req)
	}
	return req, nil
}

// do sends one request and returns the body of a 2xx response. Anything
// else comes back as *domain.APIError.
func (c *Client) do(req *http.Request, service string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.session.Do(req)
	metrics.APIDuration.WithLabelValues(service, req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequests.WithLabelValues(service, req.Method, "error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	metrics.APIRequests.WithLabelValues(service, req.Method, strconv.Itoa(resp.StatusCode)).Inc()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
		}
	}
	return b, nil
}

// send marshals the payload (if any), performs the request and retries
// transient failures when the client was configured with MaxAttempts > 1.
func (c *Client) send(ctx context.Context, cl call) ([]byte, error) {
	var body []byte
	if cl.payload != nil {
		var err error
		body, err = json.Marshal(cl.payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	backoff := 200 * time.Millisecond
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := c.newRequest(ctx, cl, body)
		if err != nil {
			return nil, err
		}

		b, err := c.do(req, cl.service)
		if err == nil {
			return b, nil
		}
		lastErr = err

		if !retryable(err) || attempt == c.maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}

	return nil, lastErr
}

func retryable(err error) bool {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// decodeData unwraps the {"data": ...} envelope both services use.
func decodeData(b []byte, out any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
