package domain

import (
	"encoding/json"
	"testing"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{1.5, 1.5, true},
		{3, 3, true},
		{"1.0", 1, true},
		{" 12 ", 12, true},
		{json.Number("7"), 7, true},
		{"-2", -2, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{true, 0, false},
		{nil, 0, false},
	}

	for _, tt := range tests {
		got, ok := Number(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Number(%#v): got (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCoerceCoordinates(t *testing.T) {
	s := NewStop(map[string]any{"lat": "1.3521", "lng": "not-a-number"})

	CoerceCoordinates(s.Record())

	if s.Get(StopLat) != 1.3521 {
		t.Errorf("lat: got %#v, want 1.3521", s.Get(StopLat))
	}
	if s.Get(StopLng) != "not-a-number" {
		t.Errorf("lng: got %#v, want unchanged", s.Get(StopLng))
	}
	if _, ok := CoordinatesOf(s.Record()); ok {
		t.Errorf("coordinates with non-numeric lng reported as valid")
	}
}
