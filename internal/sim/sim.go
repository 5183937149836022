// Package sim implements the force-directed layout simulation.
//
// The simulation advances in discrete ticks driven by an external scheduler
// (the engine's ticker loop). Each tick superposes four forces — link
// attraction, pairwise charge repulsion, centering, and circle collision —
// then integrates velocities into positions. A decaying temperature (alpha)
// controls per-tick movement; once alpha falls below its floor and the
// target is zero the layout is settled and ticking can stop.
//
// A node being dragged is pinned: its fixed position unconditionally
// overrides simulated motion until the drag ends.
package sim

import (
	"math"

	"graphlens/internal/domain"
)

// Config holds the force magnitudes and energy-model constants.
type Config struct {
	// LinkStrength scales link attraction. Kept intentionally weak so the
	// link force does not dominate the layout.
	LinkStrength float64
	// LinkDistance is the separation links pull their endpoints toward.
	LinkDistance float64
	// NodeCharge is the many-body strength. Negative values repel.
	NodeCharge float64
	// CenterX/CenterY is the viewport center the node set is pulled toward.
	CenterX float64
	CenterY float64
	// CollisionPadding is added to each node's scaled radius when resolving
	// overlaps.
	CollisionPadding float64
	// ReheatTarget is the alpha target applied on drag start.
	ReheatTarget float64
	// AlphaDecay is the per-tick interpolation rate toward the alpha target.
	AlphaDecay float64
	// AlphaMin is the settling threshold.
	AlphaMin float64
	// VelocityDecay damps velocities each tick.
	VelocityDecay float64
}

// Defaults fills zero-valued energy constants. Force magnitudes come from
// the application config and are left alone.
func (c Config) withDefaults() Config {
	if c.AlphaMin == 0 {
		c.AlphaMin = 0.001
	}
	if c.AlphaDecay == 0 {
		// Reaches AlphaMin in about 300 ticks from a cold start.
		c.AlphaDecay = 1 - math.Pow(c.AlphaMin, 1.0/300)
	}
	if c.VelocityDecay == 0 {
		c.VelocityDecay = 0.6
	}
	if c.LinkDistance == 0 {
		c.LinkDistance = 30
	}
	return c
}

// RadiusFunc reports the collision radius for a node value. The engine
// passes the size scale so collision circles match rendered circles.
type RadiusFunc func(value float64) float64

// Simulation owns position and velocity updates for one graph generation.
type Simulation struct {
	graph  *domain.Graph
	cfg    Config
	radius RadiusFunc

	alpha       float64
	alphaTarget float64
}

const (
	initialRadius = 10.0
	initialAngle  = math.Pi * (3 - 2.2360679774997896) // golden angle, radians
)

// New creates a simulation for the graph and seeds initial positions on a
// phyllotaxis spiral around the center. The seeding is deterministic in
// node order, so identical input produces identical layouts.
func New(g *domain.Graph, radius RadiusFunc, cfg Config) *Simulation {
	s := &Simulation{
		graph:  g,
		cfg:    cfg.withDefaults(),
		radius: radius,
		alpha:  1,
	}

	for i, n := range g.Nodes() {
		if n.X != 0 || n.Y != 0 {
			continue // caller provided a starting position
		}
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		n.X = s.cfg.CenterX + r*math.Cos(a)
		n.Y = s.cfg.CenterY + r*math.Sin(a)
	}

	return s
}

// Gen returns the generation of the graph this simulation owns.
func (s *Simulation) Gen() int64 {
	return s.graph.Gen()
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// Stopped reports whether the layout has settled: alpha has decayed below
// the floor and no perturbation is holding the target up.
func (s *Simulation) Stopped() bool {
	return s.alphaTarget == 0 && s.alpha < s.cfg.AlphaMin
}

// Reheat raises the alpha target, restarting movement after a perturbation
// such as a drag start.
func (s *Simulation) Reheat(target float64) {
	s.alphaTarget = target
	if s.alpha < target {
		s.alpha = target
	}
}

// Cool returns the alpha target to zero so the layout settles again.
func (s *Simulation) Cool() {
	s.alphaTarget = 0
}

// Tick advances the simulation one step. It returns false once the layout
// has settled and the step was a no-op, letting the driving loop stop.
func (s *Simulation) Tick() bool {
	if s.Stopped() {
		return false
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay

	s.applyLinkForce()
	s.applyChargeForce()
	s.applyCollisionForce()
	s.integrate()
	s.applyCenterForce()

	return true
}

// applyLinkForce pulls each link's endpoints toward the target separation.
func (s *Simulation) applyLinkForce() {
	for i, l := range s.graph.Links() {
		src, ok := s.graph.Node(l.Source)
		if !ok {
			continue
		}
		tgt, ok := s.graph.Node(l.Target)
		if !ok {
			continue
		}

		dx := tgt.X + tgt.VX - src.X - src.VX
		dy := tgt.Y + tgt.VY - src.Y - src.VY
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			dx, dy = jiggle(i), jiggle(i+1)
			dist = math.Hypot(dx, dy)
		}

		k := (dist - s.cfg.LinkDistance) / dist * s.alpha * s.cfg.LinkStrength
		tgt.VX -= dx * k / 2
		tgt.VY -= dy * k / 2
		src.VX += dx * k / 2
		src.VY += dy * k / 2
	}
}

// applyChargeForce applies exact pairwise n-body repulsion. O(n²), which is
// fine at the node counts this engine serves; a Barnes-Hut tree would be a
// drop-in replacement here if that stops being true.
func (s *Simulation) applyChargeForce() {
	nodes := s.graph.Nodes()
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			dx := b.X - a.X
			dy := b.Y - a.Y
			dist2 := dx*dx + dy*dy
			if dist2 == 0 {
				dx, dy = jiggle(i), jiggle(j)
				dist2 = dx*dx + dy*dy
			}

			// Negative charge pushes the pair apart.
			w := s.cfg.NodeCharge * s.alpha / dist2
			a.VX += dx * w
			a.VY += dy * w
			b.VX -= dx * w
			b.VY -= dy * w
		}
	}
}

// applyCollisionForce resolves overlaps between node circles, radius being
// the rendered radius plus the configured padding.
func (s *Simulation) applyCollisionForce() {
	nodes := s.graph.Nodes()
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			ra := s.radius(a.Value) + s.cfg.CollisionPadding
			rb := s.radius(b.Value) + s.cfg.CollisionPadding

			dx := (b.X + b.VX) - (a.X + a.VX)
			dy := (b.Y + b.VY) - (a.Y + a.VY)
			dist2 := dx*dx + dy*dy
			r := ra + rb
			if dist2 >= r*r {
				continue
			}
			if dist2 == 0 {
				dx, dy = jiggle(i), jiggle(j)
				dist2 = dx*dx + dy*dy
			}

			dist := math.Sqrt(dist2)
			overlap := (r - dist) / dist
			// Heavier (larger) node moves less.
			wa := rb * rb / (ra*ra + rb*rb)
			a.VX -= dx * overlap * wa
			a.VY -= dy * overlap * wa
			b.VX += dx * overlap * (1 - wa)
			b.VY += dy * overlap * (1 - wa)
		}
	}
}

// applyCenterForce translates the node set so its centroid sits at the
// configured center, stabilizing a runaway layout. Pinned nodes are left
// where the drag put them.
func (s *Simulation) applyCenterForce() {
	nodes := s.graph.Nodes()
	if len(nodes) == 0 {
		return
	}

	var cx, cy float64
	for _, n := range nodes {
		cx += n.X
		cy += n.Y
	}
	cx = cx/float64(len(nodes)) - s.cfg.CenterX
	cy = cy/float64(len(nodes)) - s.cfg.CenterY

	for _, n := range nodes {
		if n.Pinned() {
			continue
		}
		n.X -= cx
		n.Y -= cy
	}
}

// integrate folds velocities into positions. A pinned node snaps to its
// fixed position with zero velocity.
func (s *Simulation) integrate() {
	for _, n := range s.graph.Nodes() {
		if n.Pinned() {
			n.X = *n.FX
			n.Y = *n.FY
			n.VX = 0
			n.VY = 0
			continue
		}
		n.VX *= s.cfg.VelocityDecay
		n.VY *= s.cfg.VelocityDecay
		n.X += n.VX
		n.Y += n.VY
	}
}

// jiggle produces a tiny deterministic offset to separate coincident
// points without introducing randomness.
func jiggle(i int) float64 {
	return (math.Mod(float64(i)*0.61803398875, 1) - 0.5) * 1e-6
}
