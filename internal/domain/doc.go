// Package domain defines the core domain types for the graphlens layout engine.
//
// This package contains the entities the rest of the system operates on:
// nodes, links, and the Graph arena that owns them.
//
// # Core Types
//
// Node represents a single entry of the value map with its visual state
// (position, visibility) attached. Positions are owned by the simulation;
// visibility is owned by the interaction controller; the drag pin (FX/FY)
// overrides simulated motion while set.
//
// Link represents a signed, weighted connection between two nodes. Links
// store endpoint ids only and are resolved through the Graph arena at read
// time, never as direct object references that could go stale.
//
// Graph is one generation of the model. It is rebuilt as a whole whenever
// the raw input changes; a generation counter lets stale events from a
// superseded generation be detected and ignored.
//
// # Design Principles
//
// - Links reference nodes by id, resolved through the arena
// - Construction never fails on dangling edges, only on non-finite values
// - No database or external dependencies
package domain
