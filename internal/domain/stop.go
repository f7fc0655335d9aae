package domain

type StopField string

const (
	StopDetrackID       StopField = "detrack_id"
	StopVehicleType     StopField = "vehicle_type"
	StopDepot           StopField = "depot"
	StopGroup           StopField = "group"
	StopDate            StopField = "date"
	StopName            StopField = "name"
	StopTimeWindow      StopField = "time_window"
	StopAddress         StopField = "address"
	StopAddress1        StopField = "address_1"
	StopAddress2        StopField = "address_2"
	StopAddress3        StopField = "address_3"
	StopPostalCode      StopField = "postal_code"
	StopCity            StopField = "city"
	StopState           StopField = "state"
	StopCountry         StopField = "country"
	StopWeightLoad      StopField = "weight_load"
	StopVolumeLoad      StopField = "volume_load"
	StopSeatingLoad     StopField = "seating_load"
	StopServiceTime     StopField = "service_time"
	StopFrom            StopField = "from"
	StopTill            StopField = "till"
	StopAssignTo        StopField = "assign_to"
	StopRun             StopField = "run"
	StopSequence        StopField = "sequence"
	StopETA             StopField = "eta"
	StopLat             StopField = "lat"
	StopLng             StopField = "lng"
	StopException       StopField = "exception"
	StopExceptionReason StopField = "exception_reason"
	StopViolations      StopField = "violations"
	StopSorted          StopField = "sorted"
	StopPlanVehicleType StopField = "plan_vehicle_type"
	StopPlanDepot       StopField = "plan_depot"
	StopPlanTimeWindow  StopField = "plan_time_window"
	StopPlanServiceTime StopField = "plan_service_time"
)

var stopFields = []StopField{
	StopDetrackID, StopVehicleType, StopDepot, StopGroup, StopDate, StopName,
	StopTimeWindow, StopAddress, StopAddress1, StopAddress2, StopAddress3,
	StopPostalCode, StopCity, StopState, StopCountry, StopWeightLoad,
	StopVolumeLoad, StopSeatingLoad, StopServiceTime, StopFrom, StopTill,
	StopAssignTo, StopRun, StopSequence, StopETA, StopLat, StopLng,
	StopException, StopExceptionReason, StopViolations, StopSorted,
	StopPlanVehicleType, StopPlanDepot, StopPlanTimeWindow, StopPlanServiceTime,
}

// Stop is a location to visit. Fields assign_to, run, sequence, eta and
// exception are filled in by the solver.
type Stop struct {
	rec Record
}

// NewStop builds a stop whose initial fields are not tracked as changes.
func NewStop(data map[string]any) *Stop {
	keys := make([]string, len(stopFields))
	for i, f := range stopFields {
		keys[i] = string(f)
	}
	s := &Stop{rec: newRecord(keys, map[string]any{string(StopSorted): false})}
	s.rec.Hydrate(data)
	return s
}

func (s *Stop) Kind() Kind      { return KindStop }
func (s *Stop) Record() *Record { return &s.rec }

func (s *Stop) Get(f StopField) any    { return s.rec.Get(string(f)) }
func (s *Stop) Set(f StopField, v any) { s.rec.Set(string(f), v) }

func (s *Stop) Name() string      { return Text(s.Get(StopName)) }
func (s *Stop) SetName(v string)  { s.Set(StopName, v) }
func (s *Stop) Date() string      { return Text(s.Get(StopDate)) }
func (s *Stop) SetDate(v string)  { s.Set(StopDate, v) }
func (s *Stop) Depot() string     { return Text(s.Get(StopDepot)) }
func (s *Stop) Exception() string { return Text(s.Get(StopException)) }
func (s *Stop) AssignTo() string  { return Text(s.Get(StopAssignTo)) }

func (s *Stop) Payload() map[string]any { return s.rec.Payload() }

func (s *Stop) MarshalJSON() ([]byte, error) { return s.rec.MarshalJSON() }

func (s *Stop) UnmarshalJSON(b []byte) error {
	if s.rec.keys == nil {
		*s = *NewStop(nil)
	}
	return s.rec.unmarshal(b)
}

// NewStops builds stops from raw records, e.g. a decoded response body.
func NewStops(raw []map[string]any) []*Stop {
	out := make([]*Stop, 0, len(raw))
	for _, r := range raw {
		out = append(out, NewStop(r))
	}
	return out
}
