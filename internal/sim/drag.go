package sim

// Drag sub-protocol. A drag start pins the node at its current coordinates
// and reheats the simulation at a low temperature; moves update the pin;
// the drag end releases the pin and lets the temperature decay to zero.
// Events naming an id outside the current generation are ignored.

// DragStart pins the node where it currently sits and restarts ticking.
// It reports whether the node exists in this generation.
func (s *Simulation) DragStart(id string) bool {
	n, ok := s.graph.Node(id)
	if !ok {
		return false
	}
	n.Pin(n.X, n.Y)
	s.Reheat(s.cfg.ReheatTarget)
	return true
}

// Drag moves an active pin. A drag event for an unpinned or unknown node
// is a no-op.
func (s *Simulation) Drag(id string, x, y float64) bool {
	n, ok := s.graph.Node(id)
	if !ok || !n.Pinned() {
		return false
	}
	n.Pin(x, y)
	return true
}

// DragEnd releases the pin and lets the layout cool back down.
func (s *Simulation) DragEnd(id string) bool {
	n, ok := s.graph.Node(id)
	if !ok {
		return false
	}
	n.Unpin()
	s.Cool()
	return true
}
