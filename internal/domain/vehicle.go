package domain

type VehicleField string

const (
	VehicleDepot           VehicleField = "depot"
	VehicleName            VehicleField = "name"
	VehiclePriority        VehicleField = "priority"
	VehicleWeightCapacity  VehicleField = "weight_capacity"
	VehicleVolumeCapacity  VehicleField = "volume_capacity"
	VehicleSeatingCapacity VehicleField = "seating_capacity"
	VehicleBuffer          VehicleField = "buffer"
	VehicleAvailFrom       VehicleField = "avail_from"
	VehicleAvailTill       VehicleField = "avail_till"
	VehicleReturnToDepot   VehicleField = "return_to_depot"
	VehicleTypes           VehicleField = "vehicle_types"
	VehicleAvail           VehicleField = "avail"
	VehicleAvailMon        VehicleField = "avail_mon"
	VehicleAvailTue        VehicleField = "avail_tue"
	VehicleAvailWed        VehicleField = "avail_wed"
	VehicleAvailThu        VehicleField = "avail_thu"
	VehicleAvailFri        VehicleField = "avail_fri"
	VehicleAvailSat        VehicleField = "avail_sat"
	VehicleAvailSun        VehicleField = "avail_sun"
	VehicleZones           VehicleField = "zones"
	VehicleGroups          VehicleField = "groups"
)

var vehicleFields = []VehicleField{
	VehicleDepot, VehicleName, VehiclePriority, VehicleWeightCapacity,
	VehicleVolumeCapacity, VehicleSeatingCapacity, VehicleBuffer,
	VehicleAvailFrom, VehicleAvailTill, VehicleReturnToDepot, VehicleTypes,
	VehicleAvail, VehicleAvailMon, VehicleAvailTue, VehicleAvailWed,
	VehicleAvailThu, VehicleAvailFri, VehicleAvailSat, VehicleAvailSun,
	VehicleZones, VehicleGroups,
}

type Vehicle struct {
	rec Record
}

func NewVehicle(data map[string]any) *Vehicle {
	keys := make([]string, len(vehicleFields))
	for i, f := range vehicleFields {
		keys[i] = string(f)
	}
	v := &Vehicle{rec: newRecord(keys, map[string]any{
		string(VehiclePriority):      1,
		string(VehicleReturnToDepot): false,
	})}
	v.rec.Hydrate(data)
	return v
}

func (v *Vehicle) Kind() Kind      { return KindVehicle }
func (v *Vehicle) Record() *Record { return &v.rec }

func (v *Vehicle) Get(f VehicleField) any      { return v.rec.Get(string(f)) }
func (v *Vehicle) Set(f VehicleField, val any) { v.rec.Set(string(f), val) }

func (v *Vehicle) Name() string     { return Text(v.Get(VehicleName)) }
func (v *Vehicle) SetName(n string) { v.Set(VehicleName, n) }
func (v *Vehicle) Depot() string    { return Text(v.Get(VehicleDepot)) }

func (v *Vehicle) Payload() map[string]any { return v.rec.Payload() }

func (v *Vehicle) MarshalJSON() ([]byte, error) { return v.rec.MarshalJSON() }

func (v *Vehicle) UnmarshalJSON(b []byte) error {
	if v.rec.keys == nil {
		*v = *NewVehicle(nil)
	}
	return v.rec.unmarshal(b)
}

func NewVehicles(raw []map[string]any) []*Vehicle {
	out := make([]*Vehicle, 0, len(raw))
	for _, r := range raw {
		out = append(out, NewVehicle(r))
	}
	return out
}
