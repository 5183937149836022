package engine

import (
	"context"
	"math"
	"testing"
	"time"

	"graphlens/internal/config"
	"graphlens/internal/domain"
	"graphlens/internal/interact"
	"graphlens/internal/viewport"
)

func testEngine(t *testing.T) (*Engine, *EventBus) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Forces.TickInterval = config.Duration(time.Millisecond)
	bus := NewEventBus()
	return New(cfg, bus), bus
}

func loadScenario(t *testing.T, e *Engine) {
	t.Helper()
	err := e.Load(
		[]domain.NodeDatum{{ID: "A", Value: 10}, {ID: "B", Value: 20}, {ID: "C", Value: 15}},
		[]domain.LinkDatum{
			{Source: "A", Target: "B", Value: 5},
			{Source: "B", Target: "C", Value: -3},
			{Source: "A", Target: "D", Value: 1},
		},
		false,
	)
	if err != nil {
		t.Fatalf("failed to load scenario: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("builds model and drops dangling links", func(t *testing.T) {
		e, _ := testEngine(t)
		loadScenario(t, e)

		gen, nodes, links := e.Graph()
		if gen == 0 {
			t.Error("expected non-zero generation")
		}
		if len(nodes) != 3 {
			t.Errorf("expected 3 nodes, got %d", len(nodes))
		}
		if len(links) != 2 {
			t.Errorf("expected 2 links, got %d", len(links))
		}

		frame := e.Frame()
		if !frame.HasNegativeLinks {
			t.Error("expected negative link flag set")
		}
		if len(frame.Projection.Nodes) != 3 || len(frame.Projection.Links) != 2 {
			t.Error("expected projection sized to the model")
		}
	})

	t.Run("rejects non-finite input", func(t *testing.T) {
		e, _ := testEngine(t)
		err := e.Load([]domain.NodeDatum{{ID: "A", Value: 1}}, []domain.LinkDatum{
			{Source: "A", Target: "A", Value: math.Inf(1)},
		}, false)
		if err == nil {
			t.Fatal("expected validation error")
		}

		// The previous (empty) generation must survive a failed load.
		_, nodes, _ := e.Graph()
		if len(nodes) != 0 {
			t.Errorf("expected untouched empty model, got %d nodes", len(nodes))
		}
	})

	t.Run("rebuild replaces the generation", func(t *testing.T) {
		e, _ := testEngine(t)
		loadScenario(t, e)
		gen1, _, _ := e.Graph()

		loadScenario(t, e)
		gen2, _, _ := e.Graph()
		if gen2 == gen1 {
			t.Error("expected fresh generation after reload")
		}
	})

	t.Run("interaction state carries over across rebuilds", func(t *testing.T) {
		e, _ := testEngine(t)
		loadScenario(t, e)
		e.SetFilter(interact.FilterPositive)
		e.ToggleVisibility("A")

		loadScenario(t, e)
		frame := e.Frame()
		if frame.Filter != interact.FilterPositive {
			t.Errorf("expected filter carried over, got %s", frame.Filter)
		}
		for _, n := range frame.Projection.Nodes {
			if n.ID == "A" && n.Visible {
				t.Error("expected A still hidden after rebuild")
			}
		}
	})

	t.Run("reset drops interaction state", func(t *testing.T) {
		e, _ := testEngine(t)
		loadScenario(t, e)
		e.SetFilter(interact.FilterNegative)
		e.ToggleVisibility("A")

		err := e.Load(
			[]domain.NodeDatum{{ID: "A", Value: 1}},
			nil,
			true,
		)
		if err != nil {
			t.Fatalf("failed to reload: %v", err)
		}
		frame := e.Frame()
		if frame.Filter != interact.FilterAll {
			t.Errorf("expected filter reset to all, got %s", frame.Filter)
		}
		for _, n := range frame.Projection.Nodes {
			if !n.Visible {
				t.Errorf("expected %s visible after reset", n.ID)
			}
		}
	})
}

func TestStaleEvents(t *testing.T) {
	e, _ := testEngine(t)
	loadScenario(t, e)

	if !e.DragStart("B") {
		t.Fatal("expected drag start on current generation to succeed")
	}

	// Rebuild with a model that no longer contains B: every pending event
	// naming it must turn into a no-op.
	if err := e.Load([]domain.NodeDatum{{ID: "X", Value: 1}}, nil, false); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}

	if e.Drag("B", 1, 2) {
		t.Error("expected stale drag to be ignored")
	}
	if e.DragEnd("B") {
		t.Error("expected stale drag end to be ignored")
	}
	if e.HoverNode("B") {
		t.Error("expected stale hover to be ignored")
	}
	if e.ToggleVisibility("B") {
		t.Error("expected stale toggle to be ignored")
	}
}

func TestFilterDoesNotRestartSimulation(t *testing.T) {
	e, _ := testEngine(t)
	loadScenario(t, e)

	for e.step() {
	}
	settledFrame := e.Frame()
	if !settledFrame.Settled {
		t.Fatal("expected simulation settled")
	}

	e.SetFilter(interact.FilterNegative)
	if e.step() {
		t.Error("expected filter change to leave the simulation settled")
	}
}

func TestDragLifecycle(t *testing.T) {
	e, _ := testEngine(t)
	loadScenario(t, e)

	for e.step() {
	}

	if !e.DragStart("A") {
		t.Fatal("expected drag start to succeed")
	}
	if e.Frame().Settled {
		t.Error("expected drag start to reheat the simulation")
	}

	e.Drag("A", 10, 20)
	e.step()
	frame := e.Frame()
	for _, n := range frame.Projection.Nodes {
		if n.ID == "A" && (n.X != 10 || n.Y != 20) {
			t.Errorf("expected dragged node pinned at (10,20), got (%f,%f)", n.X, n.Y)
		}
	}

	e.DragEnd("A")
	for e.step() {
	}
	if !e.Frame().Settled {
		t.Error("expected simulation settled after drag end")
	}
}

func TestViewportOps(t *testing.T) {
	e, _ := testEngine(t)

	installed := e.ApplyZoom(viewport.Transform{X: 5, Y: 5, K: 100})
	if installed.K != e.Frame().Transform.K {
		t.Error("expected frame to carry installed transform")
	}
	if installed.K > 4 {
		t.Errorf("expected zoom clamped to extent, got %f", installed.K)
	}

	e.ResetViewport()
	frame := e.Frame()
	if frame.Transform != viewport.Identity {
		t.Errorf("expected identity transform after reset, got %+v", frame.Transform)
	}
	if !frame.ResetViewport {
		t.Error("expected reset flag in the first frame after reset")
	}
	if e.Frame().ResetViewport {
		t.Error("expected reset flag consumed by the previous frame")
	}
}

func TestRunPublishesFrames(t *testing.T) {
	e, bus := testEngine(t)
	events := make(chan Event, 256)
	bus.Subscribe(events)

	loadScenario(t, e)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.Run(ctx)

	deadline := time.After(5 * time.Second)
	sawFrame, sawSettled := false, false
	for !(sawFrame && sawSettled) {
		select {
		case ev := <-events:
			switch ev.Type {
			case EventFrame:
				sawFrame = true
			case EventSimulationSettled:
				sawSettled = true
			}
		case <-deadline:
			t.Fatalf("timed out waiting for events: frame=%v settled=%v", sawFrame, sawSettled)
		}
	}
}
