package domain

import "math"

// Sign classifies a link by the sign of its value.
type Sign string

const (
	SignPositive Sign = "positive"
	SignNegative Sign = "negative"
)

// Link represents a weighted connection between two nodes. Endpoints are
// stored as ids and resolved through the Graph arena.
type Link struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// Sign returns the link's sign class. A zero value counts as positive.
func (l Link) Sign() Sign {
	if l.Value >= 0 {
		return SignPositive
	}
	return SignNegative
}

// Magnitude returns the absolute value of the link's weight, which drives
// the rendered stroke width.
func (l Link) Magnitude() float64 {
	return math.Abs(l.Value)
}

// Touches reports whether the given node id is one of the link's endpoints.
func (l Link) Touches(id string) bool {
	return l.Source == id || l.Target == id
}

// Other returns the opposite endpoint of the given node id. It returns
// false if id is not an endpoint of the link.
func (l Link) Other(id string) (string, bool) {
	switch id {
	case l.Source:
		return l.Target, true
	case l.Target:
		return l.Source, true
	}
	return "", false
}

// LinkDatum is one raw input edge record.
type LinkDatum struct {
	Source string  `json:"source" yaml:"source"`
	Target string  `json:"target" yaml:"target"`
	Value  float64 `json:"value" yaml:"value"`
}
