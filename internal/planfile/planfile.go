// Package planfile reads plans, stop lists and vehicle lists from YAML or
// JSON files.
package planfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"elasticroute-client/internal/domain"

	"gopkg.in/yaml.v3"
)

// file is the on-disk plan layout. Keys mirror the planner's submission
// body so a saved request can be loaded back.
type file struct {
	ID              string                 `yaml:"id"`
	APIKey          string                 `yaml:"api_key"`
	ConnectionType  string                 `yaml:"connection_type"`
	GeneralSettings domain.GeneralSettings `yaml:"generalSettings"`
	Stops           []map[string]any       `yaml:"stops"`
	Vehicles        []map[string]any       `yaml:"vehicles"`
	Depots          []map[string]any       `yaml:"depots"`
}

// Load reads a plan. Settings missing from the file keep their defaults and
// connection_type defaults to sync. The id may be empty.
func Load(path string) (*domain.Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	p, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("load plan %s: %w", path, err)
	}
	return p, nil
}

func Parse(b []byte) (*domain.Plan, error) {
	f := file{GeneralSettings: domain.DefaultGeneralSettings()}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty plan file")
		}
		return nil, fmt.Errorf("decode: %w", err)
	}

	mode, err := domain.ParseConnectionType(strings.TrimSpace(f.ConnectionType))
	if err != nil {
		return nil, err
	}

	p := domain.NewPlan(strings.TrimSpace(f.ID))
	p.APIKey = f.APIKey
	p.ConnectionType = mode
	p.GeneralSettings = f.GeneralSettings
	p.Stops = domain.NewStops(f.Stops)
	p.Vehicles = domain.NewVehicles(f.Vehicles)
	p.Depots = domain.NewDepots(f.Depots)
	return p, nil
}

// LoadStops reads a list of stops. The file is either a bare list or a
// mapping with a "stops" key.
func LoadStops(path string) ([]*domain.Stop, error) {
	raw, err := loadList(path, "stops")
	if err != nil {
		return nil, fmt.Errorf("load stops: %w", err)
	}
	return domain.NewStops(raw), nil
}

// LoadVehicles reads a list of vehicles, shaped like LoadStops input.
func LoadVehicles(path string) ([]*domain.Vehicle, error) {
	raw, err := loadList(path, "vehicles")
	if err != nil {
		return nil, fmt.Errorf("load vehicles: %w", err)
	}
	return domain.NewVehicles(raw), nil
}

func loadList(path, key string) ([]map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var node yaml.Node
	if err := yaml.Unmarshal(b, &node); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	root := node.Content[0]
	var out []map[string]any
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&out); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", path, err)
		}
	case yaml.MappingNode:
		var wrapped map[string][]map[string]any
		if err := root.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", path, err)
		}
		list, ok := wrapped[key]
		if !ok {
			return nil, fmt.Errorf("%s: no %q list", path, key)
		}
		out = list
	default:
		return nil, fmt.Errorf("%s: want a list or a %q mapping", path, key)
	}
	return out, nil
}
