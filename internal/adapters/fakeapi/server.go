// Package fakeapi is an in-process stand-in for the ElasticRoute planner
// and dashboard, backed by httptest. It solves plans with a round-robin
// assignment that is good enough to exercise the client end to end.
package fakeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

type Request struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	Body          []byte
}

type plan struct {
	id       string
	polls    int
	stops    []map[string]any
	vehicles []map[string]any
	depots   []map[string]any
	settings map[string]any
}

type Server struct {
	*httptest.Server

	APIKey string
	// PollsUntilPlanned is the fetch on which a poll or webhook plan first
	// reports "planned"; earlier fetches report "planning".
	PollsUntilPlanned int

	mu       sync.Mutex
	requests []Request
	plans    map[string]*plan
	stops    map[string]map[string]map[string]any
	vehicles map[string]map[string]any
	stages   map[string]string
}

// New starts a fake that accepts only apiKey.
func New(apiKey string) *Server {
	s := &Server{
		APIKey:            apiKey,
		PollsUntilPlanned: 1,
		plans:             map[string]*plan{},
		stops:             map[string]map[string]map[string]any{},
		vehicles:          map[string]map[string]any{},
		stages:            map[string]string{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

func (s *Server) PlannerURL() string   { return s.URL + "/api" }
func (s *Server) DashboardURL() string { return s.URL + "/api/v1" }

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) LastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, Request{
		Method:        r.Method,
		Path:          r.URL.EscapedPath(),
		RawQuery:      r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		Body:          body,
	})

	if r.Header.Get("Authorization") != "Bearer "+s.APIKey {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
		return
	}

	segs, err := segments(r.URL.EscapedPath())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}

	switch {
	case len(segs) >= 3 && segs[0] == "api" && segs[1] == "v1" && segs[2] == "account":
		s.serveDashboard(w, r, segs[3:], body)
	case len(segs) == 3 && segs[0] == "api" && segs[1] == "plan":
		s.servePlan(w, r, segs[2], body)
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
	}
}

func (s *Server) servePlan(w http.ResponseWriter, r *http.Request, id string, body []byte) {
	switch r.Method {
	case http.MethodPost:
		var in struct {
			Stops           []map[string]any `json:"stops"`
			Vehicles        []map[string]any `json:"vehicles"`
			Depots          []map[string]any `json:"depots"`
			GeneralSettings map[string]any   `json:"generalSettings"`
		}
		if err := json.Unmarshal(body, &in); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "malformed plan"})
			return
		}
		p := &plan{id: id, stops: in.Stops, vehicles: in.Vehicles, depots: in.Depots, settings: in.GeneralSettings}
		s.plans[id] = p

		if r.URL.Query().Get("c") == "sync" {
			writeJSON(w, http.StatusOK, planned(p))
			return
		}
		writeJSON(w, http.StatusOK, stage(p, "submitted", 0))

	case http.MethodGet:
		p, ok := s.plans[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Plan not found"})
			return
		}
		p.polls++
		if p.polls < s.PollsUntilPlanned {
			writeJSON(w, http.StatusOK, stage(p, "planning", 50))
			return
		}
		writeJSON(w, http.StatusOK, planned(p))

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
	}
}

// DeliverWebhook solves a submitted plan and posts the result to the plan's
// webhook_url, the way the planner does for webhook connections.
func (s *Server) DeliverWebhook(ctx context.Context, planID string) error {
	s.mu.Lock()
	p, ok := s.plans[planID]
	var payload map[string]any
	var target string
	if ok {
		payload = planned(p)
		target, _ = p.settings["webhook_url"].(string)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("deliver webhook: unknown plan %q", planID)
	}
	if target == "" {
		return fmt.Errorf("deliver webhook: plan %q has no webhook_url", planID)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("deliver webhook: receiver answered %d", resp.StatusCode)
	}
	return nil
}

func stage(p *plan, name string, progress int) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"plan_id":  p.id,
			"progress": progress,
			"stage":    name,
			"details": map[string]any{
				"stops":    p.stops,
				"vehicles": p.vehicles,
				"depots":   p.depots,
			},
		},
	}
}

// planned assigns stops to vehicles in turn. A stop heavier than every
// vehicle's weight_capacity is left unsolved.
func planned(p *plan) map[string]any {
	stops := make([]map[string]any, 0, len(p.stops))
	seq := map[string]int{}
	next := 0
	for _, in := range p.stops {
		st := copyMap(in)
		if len(p.vehicles) == 0 || !fitsAny(st, p.vehicles) {
			st["exception"] = "Vehicle capacity exceeded"
			stops = append(stops, st)
			continue
		}
		v := p.vehicles[next%len(p.vehicles)]
		for !fits(st, v) {
			next++
			v = p.vehicles[next%len(p.vehicles)]
		}
		next++

		name := fmt.Sprint(v["name"])
		seq[name]++
		st["assign_to"] = name
		st["run"] = 1
		st["sequence"] = seq[name]
		st["eta"] = fmt.Sprintf("2026-10-16 %02d:%02d:00", 9+seq[name]/6, (seq[name]*10)%60)
		stops = append(stops, st)
	}
	return map[string]any{
		"data": map[string]any{
			"plan_id":  p.id,
			"progress": 100,
			"stage":    "planned",
			"details": map[string]any{
				"stops":    stops,
				"vehicles": p.vehicles,
				"depots":   p.depots,
			},
		},
	}
}

func fitsAny(stop map[string]any, vehicles []map[string]any) bool {
	for _, v := range vehicles {
		if fits(stop, v) {
			return true
		}
	}
	return false
}

func fits(stop, vehicle map[string]any) bool {
	load, ok := number(stop["weight_load"])
	if !ok {
		return true
	}
	capacity, ok := number(vehicle["weight_capacity"])
	if !ok {
		return true
	}
	return load <= capacity
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		var f float64
		_, err := fmt.Sscan(strings.TrimSpace(n), &f)
		return f, err == nil
	default:
		return 0, false
	}
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func segments(escaped string) ([]string, error) {
	raw := strings.Split(strings.Trim(escaped, "/"), "/")
	out := make([]string, 0, len(raw))
	for _, seg := range raw {
		u, err := url.PathUnescape(seg)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
