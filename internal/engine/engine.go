// Package engine wires one graph generation together: model, scales,
// simulation, interaction controller, and viewport. It owns the tick loop
// that advances the layout and the event bus that tells renderers when to
// pull a fresh frame.
//
// All mutation — tick updates, hover events, drag events, filter and
// visibility toggles — runs to completion under one mutex, giving the
// single-logical-thread semantics the interaction model assumes. The tick
// loop re-resolves the current generation under that same mutex on every
// step, so a simulation superseded by a rebuild can never write into the
// new generation's nodes.
package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"graphlens/internal/config"
	"graphlens/internal/domain"
	"graphlens/internal/interact"
	"graphlens/internal/scale"
	"graphlens/internal/sim"
	"graphlens/internal/viewport"
)

// Engine owns the current graph generation and its derived machinery.
type Engine struct {
	cfg *config.Config
	bus *EventBus

	mu         sync.Mutex
	graph      *domain.Graph
	scales     *scale.Engine
	controller *interact.Controller
	simulation *sim.Simulation
	view       *viewport.Controller
}

// New creates an engine with an empty graph.
func New(cfg *config.Config, bus *EventBus) *Engine {
	e := &Engine{
		cfg:  cfg,
		bus:  bus,
		view: viewport.New(cfg.Zoom.Min, cfg.Zoom.Max),
	}
	// Build never fails on empty input.
	g, _ := domain.Build(nil, nil)
	e.install(g, false)
	return e
}

// install replaces the current generation. Caller must hold e.mu or be
// the constructor.
func (e *Engine) install(g *domain.Graph, carryInteraction bool) {
	scales := scale.New(g, scale.Config{
		MinNodeSize:  e.cfg.Visual.MinNodeSize,
		MaxNodeSize:  e.cfg.Visual.MaxNodeSize,
		MinLinkWidth: e.cfg.Visual.MinLinkWidth,
		MaxLinkWidth: e.cfg.Visual.MaxLinkWidth,
		Palette:      e.cfg.Visual.Colors,
	})
	controller := interact.New(g, scales, interact.Config{
		DefaultLinkOpacity: e.cfg.Visual.DefaultLinkOpacity,
		HighlightOpacity:   e.cfg.Visual.HighlightOpacity,
		FadedOpacity:       e.cfg.Visual.FadedOpacity,
		LegendOpacity:      e.cfg.Visual.LegendOpacity,
		LabelOffset:        e.cfg.Visual.LabelOffset,
	})
	if carryInteraction {
		controller.CarryOver(e.controller)
	}

	simulation := sim.New(g, scales.NodeRadius, sim.Config{
		LinkStrength:     e.cfg.Forces.LinkStrength,
		LinkDistance:     e.cfg.Forces.LinkDistance,
		NodeCharge:       e.cfg.Forces.NodeCharge,
		CenterX:          e.cfg.Canvas.Width / 2,
		CenterY:          e.cfg.Canvas.Height / 2,
		CollisionPadding: e.cfg.Forces.CollisionPadding,
		ReheatTarget:     e.cfg.Forces.SimulationAlpha,
	})

	e.graph = g
	e.scales = scales
	e.controller = controller
	e.simulation = simulation
}

// Load replaces the model from raw input. The previous generation's
// simulation is superseded atomically; its pending ticks become no-ops.
// When resetInteraction is false, filter mode and visibility carry over
// to surviving node ids.
func (e *Engine) Load(nodeData []domain.NodeDatum, edgeData []domain.LinkDatum, resetInteraction bool) error {
	g, err := domain.Build(nodeData, edgeData)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.install(g, !resetInteraction)
	gen := g.Gen()
	nodes, links := len(g.Nodes()), len(g.Links())
	e.mu.Unlock()

	log.Printf("Graph loaded: generation %d, %d nodes, %d links", gen, nodes, links)
	e.bus.Publish(Event{
		Type:    EventGraphLoaded,
		Payload: map[string]interface{}{"generation": gen, "nodes": nodes, "links": links},
	})
	return nil
}

// Run drives the simulation from a ticker until the context is
// cancelled. It is the external frame scheduler of the layout: each firing
// advances at most one tick of whatever simulation is current at that
// moment.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.Forces.TickInterval.Duration())
	defer ticker.Stop()

	settled := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			advanced := e.step()
			if advanced {
				settled = false
				e.bus.Publish(Event{Type: EventFrame, Payload: e.Frame()})
			} else if !settled {
				settled = true
				e.bus.Publish(Event{Type: EventSimulationSettled})
			}
		}
	}
}

// step advances the current simulation one tick under the engine mutex.
func (e *Engine) step() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.simulation.Tick()
}

// Frame is the pull-based render snapshot: per-element visual state plus
// the viewport transform and simulation status.
type Frame struct {
	Generation       int64                  `json:"generation"`
	Alpha            float64                `json:"alpha"`
	Settled          bool                   `json:"settled"`
	Filter           interact.FilterMode    `json:"filter"`
	HasNegativeLinks bool                   `json:"has_negative_links"`
	Projection       interact.Projection    `json:"projection"`
	Legend           []interact.LegendEntry `json:"legend"`
	Transform        viewport.Transform     `json:"transform"`
	ResetViewport    bool                   `json:"reset_viewport"`
}

// Frame snapshots the current generation for the renderer.
func (e *Engine) Frame() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Frame{
		Generation:       e.graph.Gen(),
		Alpha:            e.simulation.Alpha(),
		Settled:          e.simulation.Stopped(),
		Filter:           e.controller.Filter(),
		HasNegativeLinks: e.graph.HasNegativeLinks(),
		Projection:       e.controller.Project(),
		Legend:           e.controller.Legend(),
		Transform:        e.view.Current(),
		ResetViewport:    e.view.ConsumeReset(),
	}
}

// Graph returns raw model data for the API layer.
func (e *Engine) Graph() (int64, []*domain.Node, []domain.Link) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.Gen(), e.graph.Nodes(), e.graph.Links()
}

// SetFilter switches the sign filter and announces the projection change.
// No simulation restart: renderability is derived state.
func (e *Engine) SetFilter(mode interact.FilterMode) {
	e.mu.Lock()
	e.controller.SetFilter(mode)
	e.mu.Unlock()
	e.projectionChanged()
}

// ToggleVisibility flips one node's visibility. Stale ids are ignored.
func (e *Engine) ToggleVisibility(id string) bool {
	e.mu.Lock()
	ok := e.controller.ToggleVisibility(id)
	e.mu.Unlock()
	if ok {
		e.projectionChanged()
	}
	return ok
}

// SelectAll makes every node visible.
func (e *Engine) SelectAll() {
	e.mu.Lock()
	e.controller.SelectAll()
	e.mu.Unlock()
	e.projectionChanged()
}

// SelectNone hides every node.
func (e *Engine) SelectNone() {
	e.mu.Lock()
	e.controller.SelectNone()
	e.mu.Unlock()
	e.projectionChanged()
}

// HoverNode sets the hover target to a node. Hidden or stale targets are
// ignored.
func (e *Engine) HoverNode(id string) bool {
	e.mu.Lock()
	ok := e.controller.HoverNode(id)
	e.mu.Unlock()
	if ok {
		e.projectionChanged()
	}
	return ok
}

// HoverLink sets the hover target to a link index.
func (e *Engine) HoverLink(index int) bool {
	e.mu.Lock()
	ok := e.controller.HoverLink(index)
	e.mu.Unlock()
	if ok {
		e.projectionChanged()
	}
	return ok
}

// ClearHover restores the baseline projection.
func (e *Engine) ClearHover() {
	e.mu.Lock()
	e.controller.ClearHover()
	e.mu.Unlock()
	e.projectionChanged()
}

// DragStart pins a node and reheats the simulation.
func (e *Engine) DragStart(id string) bool {
	e.mu.Lock()
	ok := e.simulation.DragStart(id)
	if ok {
		e.controller.SetDragTarget(id)
	}
	e.mu.Unlock()
	return ok
}

// Drag moves the active pin.
func (e *Engine) Drag(id string, x, y float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.simulation.Drag(id, x, y)
}

// DragEnd releases the pin and lets the layout cool.
func (e *Engine) DragEnd(id string) bool {
	e.mu.Lock()
	ok := e.simulation.DragEnd(id)
	if ok {
		e.controller.SetDragTarget("")
	}
	e.mu.Unlock()
	return ok
}

// ApplyZoom installs a clamped viewport transform.
func (e *Engine) ApplyZoom(t viewport.Transform) viewport.Transform {
	e.mu.Lock()
	installed := e.view.ApplyDelta(t)
	e.mu.Unlock()
	e.bus.Publish(Event{Type: EventViewportChanged, Payload: installed})
	return installed
}

// ResetViewport begins the animated re-center.
func (e *Engine) ResetViewport() viewport.Transform {
	e.mu.Lock()
	t := e.view.Reset()
	e.mu.Unlock()
	e.bus.Publish(Event{Type: EventViewportChanged, Payload: t})
	return t
}

func (e *Engine) projectionChanged() {
	e.bus.Publish(Event{Type: EventProjectionChanged})
}
