package services

import (
	"elasticroute-client/internal/domain"
)

// NormalizePlan fills the fields the planner expects but callers usually
// leave out:
//   - stop from/till default to the settings' avail_from/avail_till
//   - stop and vehicle depot default to the first depot in the list
//   - vehicle avail_from/avail_till default to the settings' values
//   - numeric-string lat/lng on stops and depots become numbers
//
// The depot fallback is positional; the depot flagged as default is not
// consulted.
func NormalizePlan(p *domain.Plan) {
	gs := p.GeneralSettings

	var fallbackDepot string
	if len(p.Depots) > 0 {
		fallbackDepot = p.Depots[0].Name()
	}

	for _, s := range p.Stops {
		if domain.Blank(s.Get(domain.StopFrom)) {
			s.Set(domain.StopFrom, gs.AvailFrom)
		}
		if domain.Blank(s.Get(domain.StopTill)) {
			s.Set(domain.StopTill, gs.AvailTill)
		}
		if domain.Blank(s.Get(domain.StopDepot)) && fallbackDepot != "" {
			s.Set(domain.StopDepot, fallbackDepot)
		}
		domain.CoerceCoordinates(s.Record())
	}

	for _, v := range p.Vehicles {
		if domain.Blank(v.Get(domain.VehicleAvailFrom)) {
			v.Set(domain.VehicleAvailFrom, gs.AvailFrom)
		}
		if domain.Blank(v.Get(domain.VehicleAvailTill)) {
			v.Set(domain.VehicleAvailTill, gs.AvailTill)
		}
		if domain.Blank(v.Get(domain.VehicleDepot)) && fallbackDepot != "" {
			v.Set(domain.VehicleDepot, fallbackDepot)
		}
	}

	for _, d := range p.Depots {
		domain.CoerceCoordinates(d.Record())
	}
}
