package selection

import (
	"sync"

	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
)

// Mode tags how the current selection was made.
type Mode string

const (
	// ModeSingle is a plain click selection.
	ModeSingle Mode = "single"
	// ModeMulti is a shift-click accumulation.
	ModeMulti Mode = "multi"
	// ModeBox is a marquee selection.
	ModeBox Mode = "box"
)

// BoundsPadding grows the selection bounding box around each member node.
const BoundsPadding = geom.GridCell

// NodeLookup resolves node ids for bounds computation. *graph.Engine
// satisfies it.
type NodeLookup interface {
	Node(id graph.NodeID) *graph.Node
}

// ChangedPayload accompanies event.SelectionChanged.
type ChangedPayload struct {
	IDs     []graph.NodeID
	Primary graph.NodeID
	Mode    Mode
	Bounds  *geom.Rect
}

// Tracker owns the current node selection: an ordered unique id set, a
// primary id (the last touched member, anchor for bulk operations), a mode
// tag, and a bounding box recomputed on every membership change.
type Tracker struct {
	mu      sync.RWMutex
	ids     []graph.NodeID
	member  map[graph.NodeID]bool
	primary graph.NodeID
	mode    Mode
	bounds  *geom.Rect

	bus   *event.Bus
	nodes NodeLookup
}

// NewTracker creates an empty selection publishing to bus, computing
// bounds against nodes.
func NewTracker(bus *event.Bus, nodes NodeLookup) *Tracker {
	return &Tracker{
		member: make(map[graph.NodeID]bool),
		mode:   ModeSingle,
		bus:    bus,
		nodes:  nodes,
	}
}

// Select makes id the selection, or adds it when multi is set. The
// touched id becomes primary either way.
func (t *Tracker) Select(id graph.NodeID, multi bool) {
	t.mu.Lock()
	if multi {
		if !t.member[id] {
			t.member[id] = true
			t.ids = append(t.ids, id)
		}
		t.mode = ModeMulti
	} else {
		t.ids = []graph.NodeID{id}
		t.member = map[graph.NodeID]bool{id: true}
		t.mode = ModeSingle
	}
	t.primary = id
	t.finishLocked()
}

// Toggle adds id when absent and removes it when present. Removing the
// primary re-elects the last remaining member as primary.
func (t *Tracker) Toggle(id graph.NodeID) {
	t.mu.Lock()
	if t.member[id] {
		t.removeLocked(id)
	} else {
		t.member[id] = true
		t.ids = append(t.ids, id)
		t.primary = id
	}
	t.mode = ModeMulti
	t.finishLocked()
}

// SetSelection replaces the entire selection. Duplicate ids collapse; the
// last id becomes primary.
func (t *Tracker) SetSelection(ids []graph.NodeID, mode Mode) {
	t.mu.Lock()
	t.ids = t.ids[:0]
	t.member = make(map[graph.NodeID]bool, len(ids))
	for _, id := range ids {
		if t.member[id] {
			continue
		}
		t.member[id] = true
		t.ids = append(t.ids, id)
	}
	t.primary = ""
	if len(t.ids) > 0 {
		t.primary = t.ids[len(t.ids)-1]
	}
	t.mode = mode
	t.finishLocked()
}

// Add extends the selection without changing mode semantics of a bulk op.
func (t *Tracker) Add(ids []graph.NodeID, mode Mode) {
	t.mu.Lock()
	for _, id := range ids {
		if t.member[id] {
			continue
		}
		t.member[id] = true
		t.ids = append(t.ids, id)
		t.primary = id
	}
	t.mode = mode
	t.finishLocked()
}

// Remove drops id from the selection if present. Used when a selected
// node is deleted out from under the selection.
func (t *Tracker) Remove(id graph.NodeID) {
	t.mu.Lock()
	if !t.member[id] {
		t.mu.Unlock()
		return
	}
	t.removeLocked(id)
	t.finishLocked()
}

// Clear empties the selection.
func (t *Tracker) Clear() {
	t.mu.Lock()
	if len(t.ids) == 0 {
		t.mu.Unlock()
		return
	}
	t.ids = nil
	t.member = make(map[graph.NodeID]bool)
	t.primary = ""
	t.mode = ModeSingle
	t.finishLocked()
}

func (t *Tracker) removeLocked(id graph.NodeID) {
	delete(t.member, id)
	for i, v := range t.ids {
		if v == id {
			t.ids = append(t.ids[:i:i], t.ids[i+1:]...)
			break
		}
	}
	if t.primary == id {
		t.primary = ""
		if len(t.ids) > 0 {
			t.primary = t.ids[len(t.ids)-1]
		}
	}
}

// finishLocked recomputes bounds, releases the lock, and emits the
// selection-changed event.
func (t *Tracker) finishLocked() {
	t.bounds = t.computeBoundsLocked()
	payload := ChangedPayload{
		IDs:     append([]graph.NodeID(nil), t.ids...),
		Primary: t.primary,
		Mode:    t.mode,
		Bounds:  cloneRect(t.bounds),
	}
	t.mu.Unlock()
	t.bus.Emit(event.SelectionChanged, payload)
}

func (t *Tracker) computeBoundsLocked() *geom.Rect {
	var r *geom.Rect
	for _, id := range t.ids {
		n := t.nodes.Node(id)
		if n == nil {
			continue
		}
		nr := geom.Rect{
			X: n.Position.X - BoundsPadding,
			Y: n.Position.Y - BoundsPadding,
			W: 2 * BoundsPadding,
			H: 2 * BoundsPadding,
		}
		if r == nil {
			c := nr
			r = &c
			continue
		}
		minX := min(r.X, nr.X)
		minY := min(r.Y, nr.Y)
		maxX := max(r.X+r.W, nr.X+nr.W)
		maxY := max(r.Y+r.H, nr.Y+nr.H)
		r.X, r.Y, r.W, r.H = minX, minY, maxX-minX, maxY-minY
	}
	return r
}

func cloneRect(r *geom.Rect) *geom.Rect {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// IDs returns the selected ids in selection order.
func (t *Tracker) IDs() []graph.NodeID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]graph.NodeID(nil), t.ids...)
}

// Has reports whether id is selected.
func (t *Tracker) Has(id graph.NodeID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.member[id]
}

// Primary returns the primary id, or "" when the selection is empty.
func (t *Tracker) Primary() graph.NodeID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.primary
}

// Mode returns the current selection mode.
func (t *Tracker) Mode() Mode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

// Bounds returns the padded bounding box of the selection, or nil when
// empty.
func (t *Tracker) Bounds() *geom.Rect {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return cloneRect(t.bounds)
}

// Count returns the number of selected nodes.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ids)
}

// IsEmpty reports whether nothing is selected.
func (t *Tracker) IsEmpty() bool {
	return t.Count() == 0
}

// RefreshBounds recomputes bounds from current node positions without
// changing membership, emitting the change. Called after drags settle.
func (t *Tracker) RefreshBounds() {
	t.mu.Lock()
	if len(t.ids) == 0 {
		t.mu.Unlock()
		return
	}
	t.finishLocked()
}
