package atomgraph

// Axis represents a top-level PAES M1 content axis.
type Axis string

const (
	AxisNumbers     Axis = "numbers"
	AxisAlgebra     Axis = "algebra"
	AxisGeometry    Axis = "geometry"
	AxisProbability Axis = "probability"
)

// AllAxes returns all axes in display order.
func AllAxes() []Axis {
	return []Axis{
		AxisNumbers,
		AxisAlgebra,
		AxisGeometry,
		AxisProbability,
	}
}

// Valid reports whether a is one of the declared axes.
func (a Axis) Valid() bool {
	switch a {
	case AxisNumbers, AxisAlgebra, AxisGeometry, AxisProbability:
		return true
	}
	return false
}

// AxisDisplayName returns a human-readable name for an axis.
func AxisDisplayName(a Axis) string {
	switch a {
	case AxisNumbers:
		return "Números"
	case AxisAlgebra:
		return "Álgebra y funciones"
	case AxisGeometry:
		return "Geometría"
	case AxisProbability:
		return "Probabilidad y estadística"
	default:
		return string(a)
	}
}

// Atom is a single testable skill unit in the knowledge graph.
type Atom struct {
	ID            string   `json:"id"`
	Name          string   `json:"name,omitempty"`
	Axis          Axis     `json:"axis"`
	Prerequisites []string `json:"prerequisites,omitempty"`
}
