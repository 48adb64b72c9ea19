package undo

import (
	"sync"

	"github.com/symbolfield/core/internal/area"
	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
	"github.com/symbolfield/core/internal/router"
)

// DefaultStackLimit bounds the undo stack; the oldest command falls off
// when a new one would exceed it.
const DefaultStackLimit = 100

// command is one undoable user action as a closure pair.
type command struct {
	label string
	undo  func()
	redo  func()
}

// Manager is the event-sourced undo/redo stack. It subscribes to the
// domain events the graph engine and area store emit and captures each as
// a command; it never wraps mutation call sites. Replaying a command runs
// under an applying guard so the events it re-emits are not captured
// again.
type Manager struct {
	mu       sync.Mutex
	engine   *graph.Engine
	areas    *area.Store
	log      event.Logger
	limit    int
	undoS    []command
	redoS    []command
	applying bool

	// dragIDs is non-nil while a node drag is in flight; NodeUpdated
	// events for these ids are covered by the drag's start/end capture.
	dragIDs map[graph.NodeID]bool
	// dragRegions coalesces RegionUpdated events for areas riding along
	// with the drag: first before, last after, one command per area.
	dragRegions map[area.ID]*regionSpan

	unsub []func()
}

type regionSpan struct {
	before area.Area
	after  area.Area
}

// Option configures a Manager.
type Option func(*Manager)

// WithStackLimit overrides the stack depth bound.
func WithStackLimit(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.limit = n
		}
	}
}

// WithLogger sets the manager's logger.
func WithLogger(l event.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// New wires a manager to the bus. It starts capturing immediately.
func New(bus *event.Bus, engine *graph.Engine, areas *area.Store, opts ...Option) *Manager {
	m := &Manager{
		engine: engine,
		areas:  areas,
		log:    nopLogger{},
		limit:  DefaultStackLimit,
	}
	for _, opt := range opts {
		opt(m)
	}

	on := func(t event.Type, h event.Handler) {
		m.unsub = append(m.unsub, bus.On(t, h))
	}
	on(event.NodeCreated, m.onNodeCreated)
	on(event.NodeUpdated, m.onNodeUpdated)
	on(event.NodeDeleted, m.onNodeDeleted)
	on(event.LinkCreated, m.onLinkCreated)
	on(event.LinkDeleted, m.onLinkDeleted)
	on(event.RegionCreated, m.onRegionCreated)
	on(event.RegionUpdated, m.onRegionUpdated)
	on(event.RegionDeleted, m.onRegionDeleted)
	on(event.InteractionStart, m.onInteractionStart)
	on(event.InteractionEnd, m.onInteractionEnd)
	on(event.GraphCleared, func(event.Event) { m.Reset() })
	on(event.GraphUndo, func(event.Event) { m.Undo() })
	on(event.GraphRedo, func(event.Event) { m.Redo() })
	return m
}

// Close detaches the manager from the bus.
func (m *Manager) Close() {
	for _, u := range m.unsub {
		u()
	}
	m.unsub = nil
}

// push records a new command and clears the redo stack.
func (m *Manager) push(c command) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.applying {
		return
	}
	m.undoS = append(m.undoS, c)
	if len(m.undoS) > m.limit {
		m.undoS = append(m.undoS[:0:0], m.undoS[len(m.undoS)-m.limit:]...)
	}
	m.redoS = m.redoS[:0]
}

// Undo pops and replays the most recent command's undo closure.
func (m *Manager) Undo() bool {
	m.mu.Lock()
	if m.applying || len(m.undoS) == 0 {
		m.mu.Unlock()
		return false
	}
	c := m.undoS[len(m.undoS)-1]
	m.undoS = m.undoS[:len(m.undoS)-1]
	m.applying = true
	m.mu.Unlock()

	c.undo()

	m.mu.Lock()
	m.applying = false
	m.redoS = append(m.redoS, c)
	m.mu.Unlock()
	return true
}

// Redo replays the most recently undone command.
func (m *Manager) Redo() bool {
	m.mu.Lock()
	if m.applying || len(m.redoS) == 0 {
		m.mu.Unlock()
		return false
	}
	c := m.redoS[len(m.redoS)-1]
	m.redoS = m.redoS[:len(m.redoS)-1]
	m.applying = true
	m.mu.Unlock()

	c.redo()

	m.mu.Lock()
	m.applying = false
	m.undoS = append(m.undoS, c)
	m.mu.Unlock()
	return true
}

// Reset drops both stacks. Snapshot import goes through here via the
// GraphCleared event.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.undoS = m.undoS[:0]
	m.redoS = m.redoS[:0]
	m.mu.Unlock()
}

// CanUndo reports whether an undoable command exists.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undoS) > 0
}

// CanRedo reports whether a redoable command exists.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redoS) > 0
}

// Depth returns the undo stack depth.
func (m *Manager) Depth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undoS)
}

func (m *Manager) capturing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.applying
}

func (m *Manager) onNodeCreated(e event.Event) {
	p, ok := e.Payload.(graph.NodeCreatedPayload)
	if !ok || !m.capturing() {
		return
	}
	n := p.Node
	m.push(command{
		label: "create node",
		undo: func() {
			if err := m.engine.RemoveNode(n.ID); err != nil {
				m.log.Warnf("undo: remove created node %s: %v", n.ID, err)
			}
		},
		redo: func() { m.engine.RestoreNode(n) },
	})
}

func (m *Manager) onNodeUpdated(e event.Event) {
	p, ok := e.Payload.(graph.NodeUpdatedPayload)
	if !ok || !m.capturing() {
		return
	}
	m.mu.Lock()
	inDrag := m.dragIDs != nil && m.dragIDs[p.ID]
	m.mu.Unlock()
	if inDrag {
		// The drag's start/end capture covers this node.
		return
	}
	before, after := p.Before, p.After
	m.push(command{
		label: "update node",
		undo: func() {
			if _, err := m.engine.ReplaceNode(before); err != nil {
				m.log.Warnf("undo: restore node %s: %v", before.ID, err)
			}
		},
		redo: func() {
			if _, err := m.engine.ReplaceNode(after); err != nil {
				m.log.Warnf("redo: restore node %s: %v", after.ID, err)
			}
		},
	})
}

func (m *Manager) onNodeDeleted(e event.Event) {
	p, ok := e.Payload.(graph.NodeDeletedPayload)
	if !ok || !m.capturing() {
		return
	}
	n := p.Node
	edges := append([]graph.Edge(nil), p.Edges...)
	m.push(command{
		label: "delete node",
		undo: func() {
			// Node first, then its cascaded edges.
			m.engine.RestoreNode(n)
			for _, edge := range edges {
				if _, err := m.engine.RestoreEdge(edge); err != nil {
					m.log.Warnf("undo: restore edge %s: %v", edge.ID, err)
				}
			}
		},
		redo: func() {
			if err := m.engine.RemoveNode(n.ID); err != nil {
				m.log.Warnf("redo: remove node %s: %v", n.ID, err)
			}
		},
	})
}

func (m *Manager) onLinkCreated(e event.Event) {
	p, ok := e.Payload.(graph.LinkCreatedPayload)
	if !ok || !m.capturing() {
		return
	}
	edge := p.Edge
	m.push(command{
		label: "create link",
		undo: func() {
			if err := m.engine.RemoveEdge(edge.ID); err != nil {
				m.log.Warnf("undo: remove link %s: %v", edge.ID, err)
			}
		},
		redo: func() {
			if _, err := m.engine.RestoreEdge(edge); err != nil {
				m.log.Warnf("redo: restore link %s: %v", edge.ID, err)
			}
		},
	})
}

func (m *Manager) onLinkDeleted(e event.Event) {
	p, ok := e.Payload.(graph.LinkDeletedPayload)
	if !ok || !m.capturing() {
		return
	}
	edge := p.Edge
	m.push(command{
		label: "delete link",
		undo: func() {
			if _, err := m.engine.RestoreEdge(edge); err != nil {
				m.log.Warnf("undo: restore link %s: %v", edge.ID, err)
			}
		},
		redo: func() {
			if err := m.engine.RemoveEdge(edge.ID); err != nil {
				m.log.Warnf("redo: remove link %s: %v", edge.ID, err)
			}
		},
	})
}

func (m *Manager) onRegionCreated(e event.Event) {
	p, ok := e.Payload.(area.RegionCreatedPayload)
	if !ok || !m.capturing() {
		return
	}
	a := p.Area
	m.push(command{
		label: "create area",
		undo:  func() { m.areas.Remove(a.ID) },
		redo:  func() { m.areas.Restore(a) },
	})
}

func (m *Manager) onRegionUpdated(e event.Event) {
	p, ok := e.Payload.(area.RegionUpdatedPayload)
	if !ok || !m.capturing() {
		return
	}
	m.mu.Lock()
	if m.dragRegions != nil {
		if span, ok := m.dragRegions[p.ID]; ok {
			span.after = p.After
		} else {
			m.dragRegions[p.ID] = &regionSpan{before: p.Before, after: p.After}
		}
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	before, after := p.Before, p.After
	m.push(command{
		label: "update area",
		undo:  func() { m.areas.Update(before.ID, fullPatch(before)) },
		redo:  func() { m.areas.Update(after.ID, fullPatch(after)) },
	})
}

func (m *Manager) onRegionDeleted(e event.Event) {
	p, ok := e.Payload.(area.RegionDeletedPayload)
	if !ok || !m.capturing() {
		return
	}
	a := p.Area
	m.push(command{
		label: "delete area",
		undo:  func() { m.areas.Restore(a) },
		redo:  func() { m.areas.Remove(a.ID) },
	})
}

// fullPatch converts an area snapshot into a patch touching every field,
// so applying it restores the snapshot exactly.
func fullPatch(a area.Area) area.Patch {
	return area.Patch{
		Shape:  &a.Shape,
		Rect:   &a.Rect,
		Circle: &a.Circle,
		Anchor: &a.Anchor,
		Title:  &a.Title,
		Color:  &a.Color,
		ZIndex: &a.ZIndex,
		Locked: &a.Locked,
	}
}

func (m *Manager) onInteractionStart(e event.Event) {
	p, ok := e.Payload.(router.InteractionStartPayload)
	if !ok || p.Kind != router.KindDragNodes || !m.capturing() {
		return
	}
	ids := make(map[graph.NodeID]bool, len(p.Positions))
	for id := range p.Positions {
		ids[id] = true
	}
	m.mu.Lock()
	m.dragIDs = ids
	m.dragRegions = make(map[area.ID]*regionSpan)
	m.mu.Unlock()
}

func (m *Manager) onInteractionEnd(e event.Event) {
	p, ok := e.Payload.(router.InteractionEndPayload)
	if !ok || p.Kind != router.KindDragNodes {
		return
	}
	m.mu.Lock()
	m.dragIDs = nil
	spans := m.dragRegions
	m.dragRegions = nil
	m.mu.Unlock()
	if !m.capturing() || p.Canceled {
		return
	}

	// Ride-along area translations become their own commands. A canceled
	// or sub-threshold drag moves areas back before ending, leaving the
	// span geometry unchanged.
	for _, span := range spans {
		if !regionChanged(span.before, span.after) {
			continue
		}
		before, after := span.before, span.after
		m.push(command{
			label: "move area",
			undo:  func() { m.areas.Update(before.ID, fullPatch(before)) },
			redo:  func() { m.areas.Update(after.ID, fullPatch(after)) },
		})
	}

	if positionsEqual(p.Start, p.End) {
		return
	}
	start := clonePositions(p.Start)
	end := clonePositions(p.End)
	m.push(command{
		label: "move nodes",
		undo:  func() { m.applyPositions(start) },
		redo:  func() { m.applyPositions(end) },
	})
}

// regionChanged compares two area snapshots ignoring the update stamp.
func regionChanged(before, after area.Area) bool {
	after.UpdatedAt = before.UpdatedAt
	return after != before
}

// applyPositions restores a recorded position map through ReplaceNode.
// Every recorded position was valid when captured; replaying through the
// placement guard would let the map's iteration order push nodes off
// their snapshots whenever a not-yet-restored sibling still occupies
// adjacent space.
func (m *Manager) applyPositions(positions map[graph.NodeID]geom.Point) {
	for id, p := range positions {
		n := m.engine.Node(id)
		if n == nil {
			m.log.Warnf("undo: move node %s: %v", id, graph.ErrNodeNotFound)
			continue
		}
		snap := *n
		snap.Position = p
		if _, err := m.engine.ReplaceNode(snap); err != nil {
			m.log.Warnf("undo: move node %s: %v", id, err)
		}
	}
}

func clonePositions(in map[graph.NodeID]geom.Point) map[graph.NodeID]geom.Point {
	out := make(map[graph.NodeID]geom.Point, len(in))
	for id, p := range in {
		out[id] = p
	}
	return out
}

func positionsEqual(a, b map[graph.NodeID]geom.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for id, p := range a {
		if q, ok := b[id]; !ok || p != q {
			return false
		}
	}
	return true
}
