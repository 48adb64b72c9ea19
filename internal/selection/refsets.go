package selection

import (
	"sync"

	"github.com/symbolfield/core/internal/area"
	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/graph"
)

// EdgeSetPayload accompanies event.EdgeSelectionChanged.
type EdgeSetPayload struct {
	IDs []graph.EdgeID
}

// EdgeSet tracks selected edges. Edges are never draggable so the set
// carries no mode or bounds; it exists for delete and escape handling.
type EdgeSet struct {
	mu     sync.RWMutex
	ids    []graph.EdgeID
	member map[graph.EdgeID]bool
	bus    *event.Bus
}

// NewEdgeSet creates an empty edge selection publishing to bus.
func NewEdgeSet(bus *event.Bus) *EdgeSet {
	return &EdgeSet{member: make(map[graph.EdgeID]bool), bus: bus}
}

// Select replaces the set with id, or adds when multi is set.
func (s *EdgeSet) Select(id graph.EdgeID, multi bool) {
	s.mu.Lock()
	if !multi {
		s.ids = s.ids[:0]
		s.member = make(map[graph.EdgeID]bool)
	}
	if !s.member[id] {
		s.member[id] = true
		s.ids = append(s.ids, id)
	}
	s.emitLocked()
}

// Toggle flips membership of id.
func (s *EdgeSet) Toggle(id graph.EdgeID) {
	s.mu.Lock()
	if s.member[id] {
		delete(s.member, id)
		for i, v := range s.ids {
			if v == id {
				s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
				break
			}
		}
	} else {
		s.member[id] = true
		s.ids = append(s.ids, id)
	}
	s.emitLocked()
}

// SetSelection replaces the set.
func (s *EdgeSet) SetSelection(ids []graph.EdgeID) {
	s.mu.Lock()
	s.ids = s.ids[:0]
	s.member = make(map[graph.EdgeID]bool, len(ids))
	for _, id := range ids {
		if !s.member[id] {
			s.member[id] = true
			s.ids = append(s.ids, id)
		}
	}
	s.emitLocked()
}

// Remove drops id if present.
func (s *EdgeSet) Remove(id graph.EdgeID) {
	s.mu.Lock()
	if !s.member[id] {
		s.mu.Unlock()
		return
	}
	delete(s.member, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			break
		}
	}
	s.emitLocked()
}

// Clear empties the set. No event fires when already empty.
func (s *EdgeSet) Clear() {
	s.mu.Lock()
	if len(s.ids) == 0 {
		s.mu.Unlock()
		return
	}
	s.ids = nil
	s.member = make(map[graph.EdgeID]bool)
	s.emitLocked()
}

func (s *EdgeSet) emitLocked() {
	payload := EdgeSetPayload{IDs: append([]graph.EdgeID(nil), s.ids...)}
	s.mu.Unlock()
	s.bus.Emit(event.EdgeSelectionChanged, payload)
}

// IDs returns the selected edge ids in selection order.
func (s *EdgeSet) IDs() []graph.EdgeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]graph.EdgeID(nil), s.ids...)
}

// Has reports whether id is selected.
func (s *EdgeSet) Has(id graph.EdgeID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.member[id]
}

// Count returns the number of selected edges.
func (s *EdgeSet) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// AreaSetPayload accompanies event.AreaSelectionChanged.
type AreaSetPayload struct {
	IDs     []area.ID
	Primary area.ID
}

// AreaSet tracks selected areas with a primary id.
type AreaSet struct {
	mu      sync.RWMutex
	ids     []area.ID
	member  map[area.ID]bool
	primary area.ID
	bus     *event.Bus
}

// NewAreaSet creates an empty area selection publishing to bus.
func NewAreaSet(bus *event.Bus) *AreaSet {
	return &AreaSet{member: make(map[area.ID]bool), bus: bus}
}

// Select replaces the set with id, or adds when multi is set. The touched
// id becomes primary.
func (s *AreaSet) Select(id area.ID, multi bool) {
	s.mu.Lock()
	if !multi {
		s.ids = s.ids[:0]
		s.member = make(map[area.ID]bool)
	}
	if !s.member[id] {
		s.member[id] = true
		s.ids = append(s.ids, id)
	}
	s.primary = id
	s.emitLocked()
}

// Toggle flips membership, re-electing primary on removal.
func (s *AreaSet) Toggle(id area.ID) {
	s.mu.Lock()
	if s.member[id] {
		delete(s.member, id)
		for i, v := range s.ids {
			if v == id {
				s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
				break
			}
		}
		if s.primary == id {
			s.primary = ""
			if len(s.ids) > 0 {
				s.primary = s.ids[len(s.ids)-1]
			}
		}
	} else {
		s.member[id] = true
		s.ids = append(s.ids, id)
		s.primary = id
	}
	s.emitLocked()
}

// Add extends the set without clearing it.
func (s *AreaSet) Add(ids []area.ID) {
	s.mu.Lock()
	for _, id := range ids {
		if s.member[id] {
			continue
		}
		s.member[id] = true
		s.ids = append(s.ids, id)
		s.primary = id
	}
	s.emitLocked()
}

// SetSelection replaces the set; the last id becomes primary.
func (s *AreaSet) SetSelection(ids []area.ID) {
	s.mu.Lock()
	s.ids = s.ids[:0]
	s.member = make(map[area.ID]bool, len(ids))
	for _, id := range ids {
		if !s.member[id] {
			s.member[id] = true
			s.ids = append(s.ids, id)
		}
	}
	s.primary = ""
	if len(s.ids) > 0 {
		s.primary = s.ids[len(s.ids)-1]
	}
	s.emitLocked()
}

// Remove drops id if present.
func (s *AreaSet) Remove(id area.ID) {
	s.mu.Lock()
	if !s.member[id] {
		s.mu.Unlock()
		return
	}
	delete(s.member, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i:i], s.ids[i+1:]...)
			break
		}
	}
	if s.primary == id {
		s.primary = ""
		if len(s.ids) > 0 {
			s.primary = s.ids[len(s.ids)-1]
		}
	}
	s.emitLocked()
}

// Clear empties the set. No event fires when already empty.
func (s *AreaSet) Clear() {
	s.mu.Lock()
	if len(s.ids) == 0 {
		s.mu.Unlock()
		return
	}
	s.ids = nil
	s.member = make(map[area.ID]bool)
	s.primary = ""
	s.emitLocked()
}

func (s *AreaSet) emitLocked() {
	payload := AreaSetPayload{
		IDs:     append([]area.ID(nil), s.ids...),
		Primary: s.primary,
	}
	s.mu.Unlock()
	s.bus.Emit(event.AreaSelectionChanged, payload)
}

// IDs returns the selected area ids in selection order.
func (s *AreaSet) IDs() []area.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]area.ID(nil), s.ids...)
}

// Primary returns the primary area id, or "" when the set is empty.
func (s *AreaSet) Primary() area.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.primary
}

// Has reports whether id is selected.
func (s *AreaSet) Has(id area.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.member[id]
}

// Count returns the number of selected areas.
func (s *AreaSet) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}
