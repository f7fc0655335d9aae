package domain

type DepotField string

const (
	DepotName       DepotField = "name"
	DepotAddress    DepotField = "address"
	DepotPostalCode DepotField = "postal_code"
	DepotLat        DepotField = "lat"
	DepotLng        DepotField = "lng"
	DepotDefault    DepotField = "default"
)

var depotFields = []DepotField{DepotName, DepotAddress, DepotPostalCode, DepotLat, DepotLng, DepotDefault}

// Depot is a start/end point that stops and vehicles refer to by name. It
// exists only inside a plan; the dashboard has no depot resource.
type Depot struct {
	rec Record
}

func NewDepot(data map[string]any) *Depot {
	keys := make([]string, len(depotFields))
	for i, f := range depotFields {
		keys[i] = string(f)
	}
	d := &Depot{rec: newRecord(keys, nil)}
	d.rec.Hydrate(data)
	return d
}

func (d *Depot) Kind() Kind      { return KindDepot }
func (d *Depot) Record() *Record { return &d.rec }

func (d *Depot) Get(f DepotField) any      { return d.rec.Get(string(f)) }
func (d *Depot) Set(f DepotField, val any) { d.rec.Set(string(f), val) }

func (d *Depot) Name() string { return Text(d.Get(DepotName)) }

func (d *Depot) Payload() map[string]any { return d.rec.Payload() }

func (d *Depot) MarshalJSON() ([]byte, error) { return d.rec.MarshalJSON() }

func (d *Depot) UnmarshalJSON(b []byte) error {
	if d.rec.keys == nil {
		*d = *NewDepot(nil)
	}
	return d.rec.unmarshal(b)
}

func NewDepots(raw []map[string]any) []*Depot {
	out := make([]*Depot, 0, len(raw))
	for _, r := range raw {
		out = append(out, NewDepot(r))
	}
	return out
}
