// Package graph implements the authoritative graph store: nodes, edges,
// cluster hierarchy, fold state, and snapshot import/export.
//
// The engine owns all graph state. Every mutation flows through an Engine
// method, maintains the no-overlap invariant between visible node
// footprints, and emits exactly one domain event carrying value-copied
// payloads. Reads return deep copies, never internal pointers.
package graph
