// Package event provides the synchronous publish/subscribe hub that
// connects the graph engine, the gesture router, and every downstream
// consumer (undo, projections, renderers).
//
// Every event carries an explicit category assigned at construction time
// from a closed type table: DOMAIN events describe durable graph mutations
// and are retained in a bounded in-memory history; UI, OVERLAY and ERROR
// events are delivered but not retained.
//
// Dispatch is synchronous and in subscription order. Listener and
// middleware panics are recovered and logged so one faulty consumer never
// interrupts its siblings or the emitting call.
package event
