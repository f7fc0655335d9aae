// Package validation checks batches of stops, vehicles and depots before
// they are sent to the planner or the dashboard. Every check returns the
// first violation found as a *domain.BadFieldError.
package validation

import (
	"unicode/utf8"

	"elasticroute-client/internal/domain"
)

const maxNameLength = 255

// Countries where a postal code alone is enough to locate a record.
var postalCodeCountries = map[string]bool{"SG": true}

var (
	stopNumericFields    = []string{"weight_load", "volume_load", "seating_load", "service_time"}
	vehicleNumericFields = []string{"weight_capacity", "volume_capacity", "seating_capacity"}
)

// Stops validates a plan's stops. country is the plan's generalSettings
// country and decides whether a postal code can stand in for an address.
func Stops(stops []*domain.Stop, country string) error {
	if len(stops) < 2 {
		return domain.NewBadFieldError("You must have at least two stops", nil)
	}
	records := payloads(stops)
	for _, r := range records {
		if err := checkName("Stop", r, records); err != nil {
			return err
		}
		if err := checkLocation("Stop", r, country); err != nil {
			return err
		}
		if err := checkNumeric("Stop", r, stopNumericFields); err != nil {
			return err
		}
	}
	return nil
}

// DashboardStops validates stops bound for the dashboard. There is no
// minimum count, and any of address, address_1, address_2 or address_3 will
// do in place of coordinates.
func DashboardStops(stops []*domain.Stop) error {
	records := payloads(stops)
	for _, r := range records {
		if err := checkName("Stop", r, records); err != nil {
			return err
		}
		if !hasCoordinates(r) && allBlank(r, "address", "address_1", "address_2", "address_3") {
			return domain.NewBadFieldError("No form of address given for Stop", r)
		}
		if err := checkNumeric("Stop", r, stopNumericFields); err != nil {
			return err
		}
	}
	return nil
}

func Vehicles(vehicles []*domain.Vehicle) error {
	if len(vehicles) < 1 {
		return domain.NewBadFieldError("You must have at least one vehicle", nil)
	}
	return vehicleRecords(payloads(vehicles))
}

// DashboardVehicles is Vehicles without the minimum count.
func DashboardVehicles(vehicles []*domain.Vehicle) error {
	return vehicleRecords(payloads(vehicles))
}

func vehicleRecords(records []map[string]any) error {
	for _, r := range records {
		if err := checkName("Vehicle", r, records); err != nil {
			return err
		}
		if err := checkNumeric("Vehicle", r, vehicleNumericFields); err != nil {
			return err
		}
	}
	return nil
}

func Depots(depots []*domain.Depot, country string) error {
	if len(depots) < 1 {
		return domain.NewBadFieldError("You must have at least one depot", nil)
	}
	records := payloads(depots)
	for _, r := range records {
		if err := checkName("Depot", r, records); err != nil {
			return err
		}
		if err := checkLocation("Depot", r, country); err != nil {
			return err
		}
	}
	return nil
}

// Plan runs the stop, vehicle and depot checks in that order.
func Plan(p *domain.Plan) error {
	country := p.GeneralSettings.Country
	if err := Stops(p.Stops, country); err != nil {
		return err
	}
	if err := Vehicles(p.Vehicles); err != nil {
		return err
	}
	return Depots(p.Depots, country)
}

type payloader interface {
	Payload() map[string]any
}

func payloads[T payloader](items []T) []map[string]any {
	out := make([]map[string]any, len(items))
	for i, it := range items {
		out[i] = it.Payload()
	}
	return out
}

func checkName(kind string, r map[string]any, batch []map[string]any) error {
	if domain.Blank(r["name"]) {
		return domain.NewBadFieldError(kind+" name cannot be null", r)
	}
	name := domain.Text(r["name"])
	if utf8.RuneCountInString(name) > maxNameLength {
		return domain.NewBadFieldError(kind+" name cannot be more than 255 chars", r)
	}
	seen := 0
	for _, other := range batch {
		if !domain.Blank(other["name"]) && domain.Text(other["name"]) == name {
			seen++
		}
	}
	if seen > 1 {
		return domain.NewBadFieldError(kind+" name must be distinct", r)
	}
	return nil
}

func checkLocation(kind string, r map[string]any, country string) error {
	if hasCoordinates(r) || !domain.Blank(r["address"]) {
		return nil
	}
	if !postalCodeCountries[country] {
		return domain.NewBadFieldError(kind+" address and coordinates are not given", r)
	}
	if domain.Blank(r["postal_code"]) {
		return domain.NewBadFieldError(kind+" address and coordinates are not given, and postcode is not present", r)
	}
	return nil
}

func checkNumeric(kind string, r map[string]any, fields []string) error {
	for _, f := range fields {
		v, ok := r[f]
		if !ok || v == nil {
			continue
		}
		n, ok := domain.Number(v)
		if !ok {
			return domain.NewBadFieldError(kind+" "+f+" must be numeric", r)
		}
		if n < 0 {
			return domain.NewBadFieldError(kind+" "+f+" cannot be negative", r)
		}
	}
	return nil
}

func hasCoordinates(r map[string]any) bool {
	return !domain.Blank(r["lat"]) && !domain.Blank(r["lng"])
}

func allBlank(r map[string]any, keys ...string) bool {
	for _, k := range keys {
		if !domain.Blank(r[k]) {
			return false
		}
	}
	return true
}
