package domain

import (
	"math"
	"sync/atomic"
)

var genCounter atomic.Int64

// Graph is one generation of the node/link model. Nodes and links are
// exclusively owned by their generation; the simulation and the interaction
// controller hold references into the same generation and are rebuilt
// together with it.
type Graph struct {
	gen   int64
	nodes []*Node
	links []Link
	index map[string]*Node
}

// Build constructs a graph generation from raw input.
//
// One node is produced per datum, preserving input order so that color and
// legend assignment stay deterministic. Duplicate ids keep the first
// occurrence. Links whose endpoints do not both resolve to a produced node
// are silently dropped; the order of surviving links is preserved. Empty
// input yields an empty, valid graph.
//
// Non-finite node or link values are rejected with a ValidationError of
// kind invalid-value so they can never reach the scale functions.
func Build(nodeData []NodeDatum, edgeData []LinkDatum) (*Graph, error) {
	g := &Graph{
		gen:   genCounter.Add(1),
		nodes: make([]*Node, 0, len(nodeData)),
		links: make([]Link, 0, len(edgeData)),
		index: make(map[string]*Node, len(nodeData)),
	}

	for _, d := range nodeData {
		if !isFinite(d.Value) {
			return nil, invalidValue("node "+d.ID, "value must be finite")
		}
		if _, exists := g.index[d.ID]; exists {
			continue
		}
		node := &Node{
			ID:      d.ID,
			Name:    d.ID,
			Group:   d.ID, // each node is its own color class for now
			Value:   d.Value,
			Visible: true,
		}
		g.nodes = append(g.nodes, node)
		g.index[d.ID] = node
	}

	for _, d := range edgeData {
		if !isFinite(d.Value) {
			return nil, invalidValue("link "+d.Source+"-"+d.Target, "value must be finite")
		}
		if _, ok := g.index[d.Source]; !ok {
			continue
		}
		if _, ok := g.index[d.Target]; !ok {
			continue
		}
		g.links = append(g.links, Link{Source: d.Source, Target: d.Target, Value: d.Value})
	}

	return g, nil
}

// Gen returns the generation number assigned at build time.
func (g *Graph) Gen() int64 {
	return g.gen
}

// Nodes returns the node arena in input order.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Links returns the surviving links in input order.
func (g *Graph) Links() []Link {
	return g.links
}

// Node resolves a node id through the arena.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Link returns the link at the given index.
func (g *Graph) Link(i int) (Link, bool) {
	if i < 0 || i >= len(g.links) {
		return Link{}, false
	}
	return g.links[i], true
}

// HasNegativeLinks reports whether any link carries a negative value. The
// UI shell uses this to decide whether sign filtering controls apply.
func (g *Graph) HasNegativeLinks() bool {
	for _, l := range g.links {
		if l.Sign() == SignNegative {
			return true
		}
	}
	return false
}

// MaxNodeValue returns the largest node value, or 0 for an empty graph.
func (g *Graph) MaxNodeValue() float64 {
	max := 0.0
	for _, n := range g.nodes {
		if n.Value > max {
			max = n.Value
		}
	}
	return max
}

// MaxLinkMagnitude returns the largest absolute link value, or 0 when
// there are no links.
func (g *Graph) MaxLinkMagnitude() float64 {
	max := 0.0
	for _, l := range g.links {
		if m := l.Magnitude(); m > max {
			max = m
		}
	}
	return max
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
