package scale

import (
	"math"
	"testing"

	"graphlens/internal/domain"
)

func testConfig() Config {
	return Config{
		MinNodeSize:  5,
		MaxNodeSize:  30,
		MinLinkWidth: 1,
		MaxLinkWidth: 10,
		Palette:      []string{"#1f77b4", "#ff7f0e", "#2ca02c"},
	}
}

func buildGraph(t *testing.T, nodes []domain.NodeDatum, links []domain.LinkDatum) *domain.Graph {
	t.Helper()
	g, err := domain.Build(nodes, links)
	if err != nil {
		t.Fatalf("failed to build graph: %v", err)
	}
	return g
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSizeScale(t *testing.T) {
	g := buildGraph(t,
		[]domain.NodeDatum{{ID: "A", Value: 10}, {ID: "B", Value: 20}},
		nil,
	)
	e := New(g, testConfig())

	t.Run("zero maps to minimum radius", func(t *testing.T) {
		if r := e.NodeRadius(0); !almostEqual(r, 5) {
			t.Errorf("expected radius 5 at zero, got %f", r)
		}
	})

	t.Run("domain maximum maps to maximum radius", func(t *testing.T) {
		if r := e.NodeRadius(20); !almostEqual(r, 30) {
			t.Errorf("expected radius 30 at max, got %f", r)
		}
	})

	t.Run("midpoint interpolates linearly", func(t *testing.T) {
		if r := e.NodeRadius(10); !almostEqual(r, 17.5) {
			t.Errorf("expected radius 17.5 at midpoint, got %f", r)
		}
	})

	t.Run("negative values extrapolate below minimum", func(t *testing.T) {
		if r := e.NodeRadius(-10); r >= 5 {
			t.Errorf("expected radius below 5 for negative value, got %f", r)
		}
	})

	t.Run("empty graph anchors domain at one", func(t *testing.T) {
		empty := buildGraph(t, nil, nil)
		e := New(empty, testConfig())
		if r := e.NodeRadius(1); !almostEqual(r, 30) {
			t.Errorf("expected radius 30 at value 1 on empty graph, got %f", r)
		}
	})
}

func TestWidthScale(t *testing.T) {
	g := buildGraph(t,
		[]domain.NodeDatum{{ID: "A", Value: 1}, {ID: "B", Value: 2}},
		[]domain.LinkDatum{
			{Source: "A", Target: "B", Value: -4},
			{Source: "B", Target: "A", Value: 2},
		},
	)
	e := New(g, testConfig())

	t.Run("zero magnitude maps to minimum width", func(t *testing.T) {
		if w := e.LinkWidth(domain.Link{Value: 0}); !almostEqual(w, 1) {
			t.Errorf("expected width 1 at zero, got %f", w)
		}
	})

	t.Run("maximum magnitude maps to maximum width", func(t *testing.T) {
		if w := e.LinkWidth(domain.Link{Value: -4}); !almostEqual(w, 10) {
			t.Errorf("expected width 10 at max magnitude, got %f", w)
		}
	})

	t.Run("sign does not affect width", func(t *testing.T) {
		pos := e.LinkWidth(domain.Link{Value: 2})
		neg := e.LinkWidth(domain.Link{Value: -2})
		if !almostEqual(pos, neg) {
			t.Errorf("expected equal widths for ±2, got %f and %f", pos, neg)
		}
	})

	t.Run("cubic exponent compresses small magnitudes", func(t *testing.T) {
		// At half the domain the cubic ramp sits at 1/8 of the range.
		w := e.LinkWidth(domain.Link{Value: 2})
		expected := 1 + 9.0/8.0
		if !almostEqual(w, expected) {
			t.Errorf("expected width %f at half domain, got %f", expected, w)
		}
	})
}

func TestColorScale(t *testing.T) {
	t.Run("assigns colors in node order", func(t *testing.T) {
		g := buildGraph(t,
			[]domain.NodeDatum{{ID: "x", Value: 1}, {ID: "y", Value: 1}, {ID: "z", Value: 1}},
			nil,
		)
		e := New(g, testConfig())

		if c := e.GroupColor("x"); c != "#1f77b4" {
			t.Errorf("expected first palette color for x, got %s", c)
		}
		if c := e.GroupColor("z"); c != "#2ca02c" {
			t.Errorf("expected third palette color for z, got %s", c)
		}
	})

	t.Run("wraps around when groups exceed palette", func(t *testing.T) {
		g := buildGraph(t,
			[]domain.NodeDatum{
				{ID: "a", Value: 1}, {ID: "b", Value: 1}, {ID: "c", Value: 1}, {ID: "d", Value: 1},
			},
			nil,
		)
		e := New(g, testConfig())

		if e.GroupColor("a") != e.GroupColor("d") {
			t.Error("expected fourth group to reuse first palette color")
		}
	})

	t.Run("assignment is stable on repeat lookups", func(t *testing.T) {
		g := buildGraph(t, []domain.NodeDatum{{ID: "a", Value: 1}}, nil)
		e := New(g, testConfig())

		first := e.GroupColor("a")
		if second := e.GroupColor("a"); second != first {
			t.Errorf("expected stable color, got %s then %s", first, second)
		}
	})

	t.Run("empty palette yields empty color", func(t *testing.T) {
		cfg := testConfig()
		cfg.Palette = nil
		g := buildGraph(t, []domain.NodeDatum{{ID: "a", Value: 1}}, nil)
		e := New(g, cfg)

		if c := e.GroupColor("a"); c != "" {
			t.Errorf("expected empty color with empty palette, got %s", c)
		}
	})
}
