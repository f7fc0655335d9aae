package planfile

import (
	"os"
	"path/filepath"
	"testing"

	"elasticroute-client/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadYAMLPlan(t *testing.T) {
	path := writeFile(t, "plan.yaml", `
id: T1
connection_type: poll
generalSettings:
  country: MY
  max_stops: 12
  webhook_url: https://example.com/hook
depots:
  - name: Main
    address: X
vehicles:
  - name: V1
    weight_capacity: 100
  - name: V2
stops:
  - name: S1
    address: 61 Kaki Bukit Avenue 1
    weight_load: 2.5
  - name: S2
    lat: 1.3521
    lng: 103.8198
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if p.ID != "T1" || p.ConnectionType != domain.ConnectionPoll {
		t.Errorf("header: id %q mode %q", p.ID, p.ConnectionType)
	}
	gs := p.GeneralSettings
	if gs.Country != "MY" || gs.MaxStops != 12 {
		t.Errorf("settings from file: country %q max_stops %d", gs.Country, gs.MaxStops)
	}
	if gs.Timezone != "Asia/Singapore" || gs.AvailFrom != 900 {
		t.Errorf("defaults not kept: timezone %q avail_from %d", gs.Timezone, gs.AvailFrom)
	}
	if !gs.HasWebhook() {
		t.Errorf("webhook_url not loaded")
	}
	if len(p.Depots) != 1 || len(p.Vehicles) != 2 || len(p.Stops) != 2 {
		t.Fatalf("counts: depots %d vehicles %d stops %d", len(p.Depots), len(p.Vehicles), len(p.Stops))
	}
	if got := p.Vehicles[1].Get(domain.VehiclePriority); got != 1 {
		t.Errorf("vehicle default priority: got %v, want 1", got)
	}
	if n, ok := domain.Number(p.Stops[0].Get(domain.StopWeightLoad)); !ok || n != 2.5 {
		t.Errorf("weight_load: got %v", p.Stops[0].Get(domain.StopWeightLoad))
	}
}

func TestLoadJSONPlanDefaultsToSync(t *testing.T) {
	path := writeFile(t, "plan.json", `{
  "stops": [{"name": "S1", "postal_code": "417943"}],
  "vehicles": [{"name": "V1"}],
  "depots": [{"name": "Main", "address": "X"}]
}`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.ID != "" {
		t.Errorf("id: got %q, want empty", p.ID)
	}
	if p.ConnectionType != domain.ConnectionSync {
		t.Errorf("mode: got %q, want sync", p.ConnectionType)
	}
	if p.GeneralSettings != domain.DefaultGeneralSettings() {
		t.Errorf("settings: got %+v, want defaults", p.GeneralSettings)
	}
}

func TestLoadRejectsBadPlans(t *testing.T) {
	tests := map[string]string{
		"unknown mode":      "connection_type: carrier-pigeon\n",
		"unknown top field": "colour: blue\n",
		"empty":             "",
		"not yaml":          "stops: [\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeFile(t, "plan.yaml", content)); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected an error")
	}
}

func TestLoadStopsListOrMapping(t *testing.T) {
	list := writeFile(t, "stops.yaml", "- name: S1\n  date: \"2026-10-16\"\n- name: S2\n")
	wrapped := writeFile(t, "stops.json", `{"stops":[{"name":"S1"},{"name":"S2"},{"name":"S3"}]}`)

	got, err := LoadStops(list)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Name() != "S1" {
		t.Errorf("list: got %d stops", len(got))
	}

	got, err = LoadStops(wrapped)
	if err != nil {
		t.Fatalf("mapping: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("mapping: got %d stops, want 3", len(got))
	}
}

func TestLoadVehiclesWrongKey(t *testing.T) {
	path := writeFile(t, "vehicles.yaml", "stops:\n  - name: S1\n")
	if _, err := LoadVehicles(path); err == nil {
		t.Fatalf("expected an error for a file without vehicles")
	}

	path = writeFile(t, "vehicles.yaml", "vehicles:\n  - name: V1\n    return_to_depot: true\n")
	vs, err := LoadVehicles(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(vs) != 1 || vs[0].Get(domain.VehicleReturnToDepot) != true {
		t.Errorf("vehicles: got %+v", vs)
	}
}
