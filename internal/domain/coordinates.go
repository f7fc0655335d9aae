package domain

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64
	Lng float64
}

// CoordinatesOf reads lat/lng from a record. Both must be numeric.
func CoordinatesOf(r *Record) (Coordinates, bool) {
	lat, okLat := Number(r.Get("lat"))
	lng, okLng := Number(r.Get("lng"))
	if !okLat || !okLng {
		return Coordinates{}, false
	}
	return Coordinates{Lat: lat, Lng: lng}, true
}

// CoerceCoordinates turns numeric-string lat/lng into float64.
func CoerceCoordinates(r *Record) {
	for _, k := range []string{"lat", "lng"} {
		s, ok := r.Get(k).(string)
		if !ok {
			continue
		}
		if f, ok := Number(s); ok {
			r.Set(k, f)
		}
	}
}
