package viewport

import "testing"

func TestApplyDelta(t *testing.T) {
	t.Run("passes transforms inside the extent", func(t *testing.T) {
		c := New(0.5, 4)
		got := c.ApplyDelta(Transform{X: 10, Y: -20, K: 2})

		if got.K != 2 || got.X != 10 || got.Y != -20 {
			t.Errorf("unexpected transform %+v", got)
		}
		if c.Current() != got {
			t.Error("expected Current to match installed transform")
		}
	})

	t.Run("clamps scale below the minimum", func(t *testing.T) {
		c := New(0.5, 4)
		got := c.ApplyDelta(Transform{K: 0.1})
		if got.K != 0.5 {
			t.Errorf("expected scale clamped to 0.5, got %f", got.K)
		}
	})

	t.Run("clamps scale above the maximum", func(t *testing.T) {
		c := New(0.5, 4)
		got := c.ApplyDelta(Transform{K: 10})
		if got.K != 4 {
			t.Errorf("expected scale clamped to 4, got %f", got.K)
		}
	})
}

func TestReset(t *testing.T) {
	c := New(0.5, 4)
	c.ApplyDelta(Transform{X: 100, Y: 50, K: 3})

	got := c.Reset()
	if got != Identity {
		t.Errorf("expected identity after reset, got %+v", got)
	}

	t.Run("reset flag is one-shot", func(t *testing.T) {
		if !c.ConsumeReset() {
			t.Fatal("expected pending reset")
		}
		if c.ConsumeReset() {
			t.Error("expected reset flag cleared after consumption")
		}
	})

	t.Run("a new gesture cancels a pending reset", func(t *testing.T) {
		c.Reset()
		c.ApplyDelta(Transform{K: 2})
		if c.ConsumeReset() {
			t.Error("expected gesture to cancel pending reset")
		}
	})
}
