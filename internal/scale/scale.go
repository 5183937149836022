// Package scale derives visual magnitudes from graph values: node radius,
// link stroke width, and group color. All three scales are pure functions
// recomputed whenever the node/link set changes.
package scale

import (
	"math"

	"graphlens/internal/domain"
)

// Config holds the visual ranges the scales map into.
type Config struct {
	MinNodeSize  float64
	MaxNodeSize  float64
	MinLinkWidth float64
	MaxLinkWidth float64
	Palette      []string
}

// Linear maps a value domain [0, max] onto an output range. Inputs below
// zero extrapolate below the range minimum; the domain is anchored at zero
// on purpose.
type Linear struct {
	domainMax float64
	rangeMin  float64
	rangeMax  float64
}

// Map applies the linear scale.
func (s Linear) Map(v float64) float64 {
	return s.rangeMin + (s.rangeMax-s.rangeMin)*(v/s.domainMax)
}

// Power maps a value domain [0, max] onto an output range with a fixed
// exponent. The cubic exponent used for link widths exaggerates magnitude
// differences so strong links stand out.
type Power struct {
	exponent  float64
	domainMax float64
	rangeMin  float64
	rangeMax  float64
}

// Map applies the power scale.
func (s Power) Map(v float64) float64 {
	t := math.Pow(v, s.exponent) / math.Pow(s.domainMax, s.exponent)
	return s.rangeMin + (s.rangeMax-s.rangeMin)*t
}

// Ordinal assigns palette colors to group keys in first-seen order. When
// distinct groups outnumber the palette, colors wrap around by ordinal
// index modulo palette size.
type Ordinal struct {
	palette []string
	order   map[string]int
}

// Color returns the color assigned to the group, registering it on first
// sight.
func (s *Ordinal) Color(group string) string {
	if len(s.palette) == 0 {
		return ""
	}
	idx, ok := s.order[group]
	if !ok {
		idx = len(s.order)
		s.order[group] = idx
	}
	return s.palette[idx%len(s.palette)]
}

// Engine bundles the three scales for one graph generation.
type Engine struct {
	size  Linear
	width Power
	color *Ordinal
}

// New computes the scales for the given graph. Empty graphs get a domain
// maximum of 1 so the scales stay well defined.
func New(g *domain.Graph, cfg Config) *Engine {
	nodeMax := g.MaxNodeValue()
	if nodeMax == 0 {
		nodeMax = 1
	}
	linkMax := g.MaxLinkMagnitude()
	if linkMax == 0 {
		linkMax = 1
	}

	e := &Engine{
		size:  Linear{domainMax: nodeMax, rangeMin: cfg.MinNodeSize, rangeMax: cfg.MaxNodeSize},
		width: Power{exponent: 3, domainMax: linkMax, rangeMin: cfg.MinLinkWidth, rangeMax: cfg.MaxLinkWidth},
		color: &Ordinal{palette: cfg.Palette, order: make(map[string]int)},
	}

	// Register groups in node order so color assignment matches the legend.
	for _, n := range g.Nodes() {
		e.color.Color(n.Group)
	}

	return e
}

// NodeRadius returns the rendered radius for a node value.
func (e *Engine) NodeRadius(v float64) float64 {
	return e.size.Map(v)
}

// LinkWidth returns the rendered stroke width for a link, keyed on the
// absolute value of its weight.
func (e *Engine) LinkWidth(l domain.Link) float64 {
	return e.width.Map(l.Magnitude())
}

// GroupColor returns the ordinal color for a group key.
func (e *Engine) GroupColor(group string) string {
	return e.color.Color(group)
}
