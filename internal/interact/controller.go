// Package interact implements the interaction state machine: sign filter,
// per-node visibility, transient hover and drag targets, and the visual
// projection that resolves all of them into per-element render state.
package interact

import (
	"fmt"

	"graphlens/internal/domain"
	"graphlens/internal/scale"
)

// FilterMode selects which link sign classes render.
type FilterMode string

const (
	FilterAll      FilterMode = "all"
	FilterPositive FilterMode = "positive"
	FilterNegative FilterMode = "negative"
)

// ParseFilterMode validates a wire-format filter mode.
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(s) {
	case FilterAll, FilterPositive, FilterNegative:
		return FilterMode(s), nil
	}
	return "", fmt.Errorf("unknown filter mode %q", s)
}

// Config holds the opacity tiers and label placement constants.
type Config struct {
	DefaultLinkOpacity float64
	HighlightOpacity   float64
	FadedOpacity       float64
	LegendOpacity      float64
	LabelOffset        float64
}

const noHoverLink = -1

// Controller owns view-lifetime interaction state for one graph
// generation. Filter and visibility survive a rebuild only if the caller
// carries them over; hover and drag targets are transient.
type Controller struct {
	graph  *domain.Graph
	scales *scale.Engine
	cfg    Config

	filter     FilterMode
	hoverNode  string
	hoverLink  int
	dragTarget string
}

// New creates a controller over the given generation with filter mode all
// and every node visible.
func New(g *domain.Graph, scales *scale.Engine, cfg Config) *Controller {
	return &Controller{
		graph:     g,
		scales:    scales,
		cfg:       cfg,
		filter:    FilterAll,
		hoverLink: noHoverLink,
	}
}

// Filter returns the active filter mode.
func (c *Controller) Filter() FilterMode {
	return c.filter
}

// SetFilter switches the sign filter. Link renderability is derived, so no
// state beyond the mode itself changes and the simulation is untouched.
func (c *Controller) SetFilter(mode FilterMode) {
	c.filter = mode
}

// ToggleVisibility flips a node's visible flag. It reports whether the id
// resolved in the current generation; stale ids are ignored.
func (c *Controller) ToggleVisibility(id string) bool {
	n, ok := c.graph.Node(id)
	if !ok {
		return false
	}
	n.Visible = !n.Visible
	return true
}

// SelectAll makes every node visible.
func (c *Controller) SelectAll() {
	for _, n := range c.graph.Nodes() {
		n.Visible = true
	}
}

// SelectNone hides every node.
func (c *Controller) SelectNone() {
	for _, n := range c.graph.Nodes() {
		n.Visible = false
	}
}

// LinkRenderable reports whether a link renders under the current state: a
// link renders iff both endpoints are visible and its sign class matches
// the filter mode. Never stored, always derived.
func (c *Controller) LinkRenderable(l domain.Link) bool {
	src, ok := c.graph.Node(l.Source)
	if !ok || !src.Visible {
		return false
	}
	tgt, ok := c.graph.Node(l.Target)
	if !ok || !tgt.Visible {
		return false
	}
	return c.signMatches(l)
}

func (c *Controller) signMatches(l domain.Link) bool {
	switch c.filter {
	case FilterPositive:
		return l.Sign() == domain.SignPositive
	case FilterNegative:
		return l.Sign() == domain.SignNegative
	default:
		return true
	}
}

// HoverNode sets the hover target to a node. Hovering a hidden or unknown
// node is a no-op and reports false.
func (c *Controller) HoverNode(id string) bool {
	n, ok := c.graph.Node(id)
	if !ok || !n.Visible {
		return false
	}
	c.hoverNode = id
	c.hoverLink = noHoverLink
	return true
}

// HoverLink sets the hover target to the link at the given index. Stale
// indices are ignored.
func (c *Controller) HoverLink(index int) bool {
	if _, ok := c.graph.Link(index); !ok {
		return false
	}
	c.hoverLink = index
	c.hoverNode = ""
	return true
}

// ClearHover restores the baseline projection.
func (c *Controller) ClearHover() {
	c.hoverNode = ""
	c.hoverLink = noHoverLink
}

// SetDragTarget records the node being dragged; empty clears it. The
// simulation owns the positional consequences, this is bookkeeping for
// state reporting.
func (c *Controller) SetDragTarget(id string) {
	c.dragTarget = id
}

// DragTarget returns the active drag target id, or empty.
func (c *Controller) DragTarget() string {
	return c.dragTarget
}

// ConnectedSet computes the hovered node's one-hop neighborhood under the
// current filter and visibility: the hovered id plus the opposite endpoint
// of every incident renderable link, along with those link indices.
func (c *Controller) ConnectedSet(id string) (map[string]bool, map[int]bool) {
	nodes := map[string]bool{id: true}
	links := make(map[int]bool)

	for i, l := range c.graph.Links() {
		other, ok := l.Other(id)
		if !ok {
			continue
		}
		if !c.LinkRenderable(l) {
			continue
		}
		nodes[other] = true
		links[i] = true
	}
	return nodes, links
}

// CarryOver copies filter and visibility state from a previous controller
// into this generation, matching nodes by id. Hover and drag targets do
// not survive a rebuild.
func (c *Controller) CarryOver(prev *Controller) {
	if prev == nil {
		return
	}
	c.filter = prev.filter
	for _, n := range c.graph.Nodes() {
		if old, ok := prev.graph.Node(n.ID); ok {
			n.Visible = old.Visible
		}
	}
}
