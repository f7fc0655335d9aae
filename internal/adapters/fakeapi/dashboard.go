package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
)

func (s *Server) serveDashboard(w http.ResponseWriter, r *http.Request, segs []string, body []byte) {
	if len(segs) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
		return
	}

	switch segs[0] {
	case "stops":
		s.serveStops(w, r, segs[1:], body)
	case "vehicles":
		s.serveVehicles(w, r, segs[1:], body)
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
	}
}

func (s *Server) serveStops(w http.ResponseWriter, r *http.Request, segs []string, body []byte) {
	if len(segs) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
		return
	}
	date := segs[0]
	onDate := s.stops[date]
	if onDate == nil {
		onDate = map[string]map[string]any{}
		s.stops[date] = onDate
	}

	switch {
	case len(segs) == 1 && r.Method == http.MethodGet:
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{"data": list(onDate, limit)})

	case len(segs) == 1 && r.Method == http.MethodPost:
		s.create(w, onDate, body)

	case len(segs) == 1 && r.Method == http.MethodDelete:
		delete(s.stops, date)
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})

	case len(segs) == 2 && segs[1] == "bulk" && r.Method == http.MethodPost:
		s.bulk(w, onDate, body)

	case len(segs) == 2 && segs[1] == "plan" && r.Method == http.MethodPost:
		s.stages[date] = "planning"
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"stage": "planning"}})

	case len(segs) == 3 && segs[1] == "plan" && segs[2] == "status" && r.Method == http.MethodGet:
		st, ok := s.stages[date]
		if !ok {
			st = "submitted"
		} else {
			// a status check finishes any running plan
			s.stages[date] = "planned"
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"stage": st}})

	case len(segs) == 2:
		s.item(w, r, onDate, segs[1], body)

	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
	}
}

func (s *Server) serveVehicles(w http.ResponseWriter, r *http.Request, segs []string, body []byte) {
	switch {
	case len(segs) == 0 && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"data": list(s.vehicles, 0)})
	case len(segs) == 0 && r.Method == http.MethodPost:
		s.create(w, s.vehicles, body)
	case len(segs) == 1 && segs[0] == "bulk" && r.Method == http.MethodPost:
		s.bulk(w, s.vehicles, body)
	case len(segs) == 1:
		s.item(w, r, s.vehicles, segs[0], body)
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not Found"})
	}
}

func (s *Server) create(w http.ResponseWriter, set map[string]map[string]any, body []byte) {
	rec, ok := decodeRecord(w, body)
	if !ok {
		return
	}
	name := fmt.Sprint(rec["name"])
	if _, exists := set[name]; exists {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "name has already been taken"})
		return
	}
	set[name] = rec
	writeJSON(w, http.StatusOK, map[string]any{"data": rec})
}

func (s *Server) bulk(w http.ResponseWriter, set map[string]map[string]any, body []byte) {
	var in struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "malformed body"})
		return
	}
	for _, rec := range in.Data {
		set[fmt.Sprint(rec["name"])] = rec
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": in.Data})
}

// item serves retrieve, update and delete of one named record. Updates
// merge the body into the stored record and re-key it when renamed.
func (s *Server) item(w http.ResponseWriter, r *http.Request, set map[string]map[string]any, name string, body []byte) {
	rec, ok := set[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"data": rec})

	case http.MethodPut:
		changes, ok := decodeRecord(w, body)
		if !ok {
			return
		}
		merged := copyMap(rec)
		for k, v := range changes {
			merged[k] = v
		}
		newName := fmt.Sprint(merged["name"])
		if newName != name {
			if _, taken := set[newName]; taken {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "name has already been taken"})
				return
			}
			delete(set, name)
		}
		set[newName] = merged
		writeJSON(w, http.StatusOK, map[string]any{"data": merged})

	case http.MethodDelete:
		delete(set, name)
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"message": "method not allowed"})
	}
}

func decodeRecord(w http.ResponseWriter, body []byte) (map[string]any, bool) {
	var in struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &in); err != nil || in.Data == nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"message": "malformed body"})
		return nil, false
	}
	return in.Data, true
}

func list(set map[string]map[string]any, limit int) []map[string]any {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	out := make([]map[string]any, 0, len(names))
	for _, n := range names {
		out = append(out, set[n])
	}
	return out
}
