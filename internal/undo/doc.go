// Package undo implements the event-sourced undo/redo stack. The manager
// listens to graph and area domain events and captures each as an
// undo/redo closure pair; mutation call sites never talk to it directly.
// Node drags are captured once per completed drag from the interaction
// start/end snapshots rather than per intermediate move. Replay runs
// under an applying guard so the events a replay re-emits are not
// captured as new commands.
package undo
