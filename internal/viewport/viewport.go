// Package viewport owns the 2D view transform for the rendered graph: a
// translation plus a uniform scale, bounded to the configured zoom extent.
// The transform only affects how already-computed positions are drawn; it
// is fully orthogonal to simulation state.
package viewport

// Transform is an affine translate-plus-uniform-scale.
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the untransformed view.
var Identity = Transform{X: 0, Y: 0, K: 1}

// Controller clamps incoming zoom gestures to the configured extent and
// supports the animated re-center action by flagging a reset for the
// renderer to interpolate.
type Controller struct {
	minZoom float64
	maxZoom float64

	current   Transform
	resetting bool
}

// New creates a controller at the identity transform.
func New(minZoom, maxZoom float64) *Controller {
	return &Controller{
		minZoom: minZoom,
		maxZoom: maxZoom,
		current: Identity,
	}
}

// Current returns the active transform.
func (c *Controller) Current() Transform {
	return c.current
}

// ApplyDelta installs a transform produced by the external gesture
// recognizer, clamping the scale to the zoom extent. It returns the
// transform actually installed.
func (c *Controller) ApplyDelta(t Transform) Transform {
	if t.K < c.minZoom {
		t.K = c.minZoom
	}
	if t.K > c.maxZoom {
		t.K = c.maxZoom
	}
	c.current = t
	c.resetting = false
	return c.current
}

// Reset returns the view to the identity transform. The renderer animates
// the return; the controller just exposes the target and a one-shot flag.
func (c *Controller) Reset() Transform {
	c.current = Identity
	c.resetting = true
	return c.current
}

// ConsumeReset reports whether a reset is pending and clears the flag, so
// the renderer animates the return exactly once.
func (c *Controller) ConsumeReset() bool {
	r := c.resetting
	c.resetting = false
	return r
}
