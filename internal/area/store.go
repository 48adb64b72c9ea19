package area

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
	"github.com/symbolfield/core/internal/palette"
)

// NodePositionFunc resolves a node id to its current world position, for
// node-anchored geometry. Returning false means the node is gone.
type NodePositionFunc func(graph.NodeID) (geom.Point, bool)

// Store owns all overlay areas. Mutations emit Region* domain events with
// value-copied payloads, mirroring the graph engine's contract.
type Store struct {
	mu    sync.RWMutex
	areas map[ID]*Area
	order []ID

	bus     *event.Bus
	nodePos NodePositionFunc
	colors  int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithNodePositions supplies the resolver used for node-anchored areas.
func WithNodePositions(fn NodePositionFunc) StoreOption {
	return func(s *Store) { s.nodePos = fn }
}

// NewStore creates an empty area store publishing to bus.
func NewStore(bus *event.Bus, opts ...StoreOption) *Store {
	s := &Store{
		areas: make(map[ID]*Area),
		bus:   bus,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds an area and emits RegionCreated.
func (s *Store) Create(spec Spec) *Area {
	s.mu.Lock()
	if spec.ID != "" {
		if existing, ok := s.areas[spec.ID]; ok {
			out := existing.Clone()
			s.mu.Unlock()
			return out
		}
	}
	a := &Area{
		ID:        spec.ID,
		Shape:     spec.Shape,
		Rect:      spec.Rect,
		Circle:    spec.Circle,
		Anchor:    spec.Anchor,
		Title:     spec.Title,
		Color:     spec.Color,
		ZIndex:    spec.ZIndex,
		Locked:    spec.Locked,
		CreatedAt: nowMillis(),
	}
	a.UpdatedAt = a.CreatedAt
	if a.ID == "" {
		a.ID = ID(uuid.New().String())
	}
	if a.Shape == "" {
		a.Shape = ShapeRect
	}
	if a.Anchor.Kind == "" {
		a.Anchor.Kind = AnchorCanvas
	}
	if strings.TrimSpace(a.Title) == "" {
		a.Title = s.nextTitleLocked()
	}
	if a.Color == "" {
		a.Color = palette.ColorFor(s.colors)
		s.colors++
	}
	s.areas[a.ID] = a
	s.order = append(s.order, a.ID)
	out := a.Clone()
	s.mu.Unlock()

	s.bus.Emit(event.RegionCreated, RegionCreatedPayload{Area: *out.Clone()})
	return out
}

// Update applies a merge patch and emits RegionUpdated with before/after
// snapshots. Unknown ids are silent no-ops returning nil.
func (s *Store) Update(id ID, patch Patch) *Area {
	s.mu.Lock()
	a, ok := s.areas[id]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	before := *a.Clone()

	if patch.Shape != nil {
		a.Shape = *patch.Shape
	}
	if patch.Rect != nil {
		a.Rect = *patch.Rect
	}
	if patch.Circle != nil {
		a.Circle = *patch.Circle
	}
	if patch.Anchor != nil {
		a.Anchor = *patch.Anchor
	}
	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.Color != nil {
		a.Color = *patch.Color
	}
	if patch.ZIndex != nil {
		a.ZIndex = *patch.ZIndex
	}
	if patch.Locked != nil {
		a.Locked = *patch.Locked
	}
	a.UpdatedAt = nowMillis()

	after := *a.Clone()
	s.mu.Unlock()

	s.bus.Emit(event.RegionUpdated, RegionUpdatedPayload{ID: id, Before: before, After: after})
	out := after
	return &out
}

// Remove deletes an area and emits RegionDeleted. Unknown ids are silent
// no-ops.
func (s *Store) Remove(id ID) {
	s.mu.Lock()
	a, ok := s.areas[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	removed := *a.Clone()
	delete(s.areas, id)
	for i, aid := range s.order {
		if aid == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.bus.Emit(event.RegionDeleted, RegionDeletedPayload{ID: id, Area: removed})
}

// Restore reinserts a previously removed area verbatim, keeping its id and
// timestamps. Emits RegionCreated. Used by undo and import.
func (s *Store) Restore(a Area) *Area {
	s.mu.Lock()
	if existing, ok := s.areas[a.ID]; ok {
		out := existing.Clone()
		s.mu.Unlock()
		return out
	}
	stored := a.Clone()
	s.areas[stored.ID] = stored
	s.order = append(s.order, stored.ID)
	out := stored.Clone()
	s.mu.Unlock()

	s.bus.Emit(event.RegionCreated, RegionCreatedPayload{Area: *stored.Clone()})
	return out
}

// Area returns a copy of the area, or nil when unknown.
func (s *Store) Area(id ID) *Area {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.areas[id]; ok {
		return a.Clone()
	}
	return nil
}

// Areas returns copies of all areas in insertion order.
func (s *Store) Areas() []*Area {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Area, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.areas[id].Clone())
	}
	return out
}

// Count returns the number of areas.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.areas)
}

// Clear removes every area without emitting per-area events.
func (s *Store) Clear() {
	s.mu.Lock()
	s.areas = make(map[ID]*Area)
	s.order = nil
	s.mu.Unlock()
}

// EffectiveBounds returns the area's bounding rect with its anchor
// applied: a following node anchor centers the geometry on the node
// position plus offset. The second result is false when the area or its
// anchor node no longer exists.
func (s *Store) EffectiveBounds(id ID) (geom.Rect, bool) {
	a := s.Area(id)
	if a == nil {
		return geom.Rect{}, false
	}
	base := a.BaseBounds()
	if a.Anchor.Kind != AnchorNode || !a.Anchor.Follow {
		return base, true
	}
	if s.nodePos == nil {
		return base, true
	}
	pos, ok := s.nodePos(a.Anchor.NodeID)
	if !ok {
		return base, false
	}
	center := pos.Add(a.Anchor.Offset.X, a.Anchor.Offset.Y)
	return geom.Rect{
		X: center.X - base.W/2,
		Y: center.Y - base.H/2,
		W: base.W,
		H: base.H,
	}, true
}

// TranslateBy moves a canvas-anchored area by delta. Locked and
// node-following areas do not move. Reports whether a move happened.
func (s *Store) TranslateBy(id ID, delta geom.Point) bool {
	a := s.Area(id)
	if a == nil || a.Locked {
		return false
	}
	if a.Anchor.Kind == AnchorNode && a.Anchor.Follow {
		return false
	}
	if a.Shape == ShapeCircle {
		c := a.Circle
		c.CX += delta.X
		c.CY += delta.Y
		return s.Update(id, Patch{Circle: &c}) != nil
	}
	r := a.Rect
	r.X += delta.X
	r.Y += delta.Y
	return s.Update(id, Patch{Rect: &r}) != nil
}

// HitTest returns the topmost unlocked-or-locked area containing the
// world point, preferring higher z-index, then later creation.
func (s *Store) HitTest(p geom.Point) *Area {
	s.mu.RLock()
	ids := make([]ID, len(s.order))
	copy(ids, s.order)
	s.mu.RUnlock()

	var best *Area
	for _, id := range ids {
		bounds, ok := s.EffectiveBounds(id)
		if !ok || !bounds.Contains(p) {
			continue
		}
		a := s.Area(id)
		if a == nil {
			continue
		}
		if a.Shape == ShapeCircle && a.Anchor.Kind == AnchorCanvas {
			if !a.Circle.Contains(p) {
				continue
			}
		}
		if best == nil || a.ZIndex >= best.ZIndex {
			best = a
		}
	}
	return best
}

// IntersectingRect returns ids of every area whose effective bounds
// intersect r, in insertion order. Box-select uses this.
func (s *Store) IntersectingRect(r geom.Rect) []ID {
	s.mu.RLock()
	ids := make([]ID, len(s.order))
	copy(ids, s.order)
	s.mu.RUnlock()

	var out []ID
	for _, id := range ids {
		bounds, ok := s.EffectiveBounds(id)
		if ok && bounds.Intersects(r) {
			out = append(out, id)
		}
	}
	return out
}

// DetachFromNode re-roots every area following the node onto the canvas at
// its last effective position. Called when an anchor node is deleted.
func (s *Store) DetachFromNode(nodeID graph.NodeID) {
	for _, a := range s.Areas() {
		if a.Anchor.Kind != AnchorNode || a.Anchor.NodeID != nodeID {
			continue
		}
		bounds, _ := s.EffectiveBounds(a.ID)
		anchor := Anchor{Kind: AnchorCanvas}
		if a.Shape == ShapeCircle {
			c := a.Circle
			center := bounds.Center()
			c.CX, c.CY = center.X, center.Y
			s.Update(a.ID, Patch{Anchor: &anchor, Circle: &c})
			continue
		}
		r := a.Rect
		r.X, r.Y = bounds.X, bounds.Y
		s.Update(a.ID, Patch{Anchor: &anchor, Rect: &r})
	}
}

func (s *Store) nextTitleLocked() string {
	max := 0
	for _, a := range s.areas {
		rest, ok := strings.CutPrefix(a.Title, "Area ")
		if !ok {
			continue
		}
		if v, err := strconv.Atoi(rest); err == nil && v > max {
			max = v
		}
	}
	return fmt.Sprintf("Area %d", max+1)
}
