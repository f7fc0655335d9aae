package domain

// Kind identifies which dashboard resource an entity maps to.
type Kind int

const (
	KindStop Kind = iota
	KindVehicle
	KindDepot
)

func (k Kind) String() string {
	switch k {
	case KindStop:
		return "Stop"
	case KindVehicle:
		return "Vehicle"
	case KindDepot:
		return "Depot"
	default:
		return "Unknown"
	}
}

// Entity is a change-tracked record of a known kind.
type Entity interface {
	Kind() Kind
	Record() *Record
}
