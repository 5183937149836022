package domain

// Node represents a single entry of the value map inside one graph generation.
//
// X/Y and VX/VY are mutated by the force simulation only. FX/FY, when
// non-nil, pin the node at a fixed position for the duration of a drag and
// override simulated motion. Visible is mutated by the interaction
// controller only.
type Node struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Group   string  `json:"group"`
	Value   float64 `json:"value"`
	Visible bool    `json:"visible"`

	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"-"`
	VY float64 `json:"-"`

	FX *float64 `json:"fx,omitempty"`
	FY *float64 `json:"fy,omitempty"`
}

// Pinned reports whether the node is currently held at a fixed position.
func (n *Node) Pinned() bool {
	return n.FX != nil && n.FY != nil
}

// Pin fixes the node at the given coordinates.
func (n *Node) Pin(x, y float64) {
	n.FX = &x
	n.FY = &y
}

// Unpin releases a fixed position, returning the node to simulated motion.
func (n *Node) Unpin() {
	n.FX = nil
	n.FY = nil
}

// NodeDatum is one raw input entry: a node id and its numeric value.
//
// Input arrives as an ordered sequence rather than a Go map because the
// insertion order of the value map determines color and legend ordering,
// and Go map iteration order is not stable.
type NodeDatum struct {
	ID    string  `json:"id" yaml:"id"`
	Value float64 `json:"value" yaml:"value"`
}
