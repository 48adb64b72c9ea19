package graph

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/geom"
)

// Engine is the authoritative graph store. All mutations go through it and
// every successful mutation emits exactly one domain event on the bus.
//
// Engine is safe for concurrent use. Events are emitted after the internal
// lock is released, so listeners may call back into the engine.
type Engine struct {
	mu    sync.RWMutex
	nodes map[NodeID]*Node
	edges map[EdgeID]*Edge

	// Insertion order, for deterministic iteration and topmost hit tests.
	nodeOrder []NodeID
	edgeOrder []EdgeID

	bus *event.Bus
	log event.Logger
}

type pendingEvent struct {
	t       event.Type
	payload any
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets the logger used for guard warnings.
func WithEngineLogger(l event.Logger) EngineOption {
	return func(g *Engine) {
		if l != nil {
			g.log = l
		}
	}
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// NewEngine creates an empty engine publishing to bus.
func NewEngine(bus *event.Bus, opts ...EngineOption) *Engine {
	g := &Engine{
		nodes: make(map[NodeID]*Node),
		edges: make(map[EdgeID]*Edge),
		bus:   bus,
		log:   nopLogger{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Engine) emit(events []pendingEvent) {
	for _, ev := range events {
		g.bus.Emit(ev.t, ev.payload)
	}
}

// AddNode creates a node from spec and emits NodeCreated.
//
// Creation is idempotent two ways: a spec whose ID already exists returns
// the existing node, and a spec whose position falls within
// PlacementGuardRadius of an existing node's center returns that node
// instead of stacking a duplicate on top of it.
func (g *Engine) AddNode(spec NodeSpec) *Node {
	g.mu.Lock()

	if spec.ID != "" {
		if existing, ok := g.nodes[spec.ID]; ok {
			out := existing.Clone()
			g.mu.Unlock()
			return out
		}
	}

	pos := geom.Point{}
	if spec.Position != nil {
		pos = *spec.Position
	}
	if !pos.IsFinite() {
		g.log.Warnf("graph: non-finite position for new node, using origin")
		pos = geom.Point{}
	}

	if near := g.nodeWithinLocked(pos, PlacementGuardRadius); near != nil {
		out := near.Clone()
		g.mu.Unlock()
		return out
	}

	n := &Node{
		ID:        spec.ID,
		Type:      spec.Type,
		Position:  pos,
		Data:      cloneMap(spec.Data),
		Style:     cloneMap(spec.Style),
		Meta:      cloneMap(spec.Meta),
		CreatedAt: nowMillis(),
	}
	n.UpdatedAt = n.CreatedAt
	if n.ID == "" {
		n.ID = NodeID(uuid.New().String())
	}
	if n.Type == "" {
		n.Type = TypeNode
	}
	if n.Data == nil {
		n.Data = map[string]any{}
	}
	if lbl, _ := n.Data["label"].(string); strings.TrimSpace(lbl) == "" || strings.EqualFold(lbl, "empty") {
		n.Data["label"] = g.nextEmptyLabelLocked()
	}

	g.insertNodeLocked(n)
	out := n.Clone()
	g.mu.Unlock()

	g.emit([]pendingEvent{{event.NodeCreated, NodeCreatedPayload{Node: *n.Clone()}}})
	return out
}

// RestoreNode reinserts a previously exported or deleted node verbatim,
// keeping its id and timestamps and bypassing the placement guard. Emits
// NodeCreated. Used by undo and snapshot import.
func (g *Engine) RestoreNode(n Node) *Node {
	g.mu.Lock()
	if existing, ok := g.nodes[n.ID]; ok {
		out := existing.Clone()
		g.mu.Unlock()
		return out
	}
	stored := n.Clone()
	if stored.Type == "" {
		stored.Type = TypeNode
	}
	if stored.Data == nil {
		stored.Data = map[string]any{}
	}
	if !stored.Position.IsFinite() {
		stored.Position = geom.Point{}
	}
	g.insertNodeLocked(stored)
	out := stored.Clone()
	g.mu.Unlock()

	g.emit([]pendingEvent{{event.NodeCreated, NodeCreatedPayload{Node: *stored.Clone()}}})
	return out
}

func (g *Engine) insertNodeLocked(n *Node) {
	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
}

// UpdateNode applies a merge patch to a node and emits NodeUpdated with
// full before/after snapshots. Map fields merge key-by-key; position
// updates are sanitized and pushed out of any overlapping footprints
// before being committed.
func (g *Engine) UpdateNode(id NodeID, patch NodePatch) (*Node, error) {
	g.mu.Lock()
	n, ok := g.nodes[id]
	if !ok {
		g.mu.Unlock()
		return nil, fmt.Errorf("update %q: %w", id, ErrNodeNotFound)
	}

	before := *n.Clone()

	if patch.Position != nil {
		pos := *patch.Position
		if !pos.IsFinite() {
			g.log.Warnf("graph: non-finite position update for %s ignored", id)
		} else {
			if !n.Hidden() {
				pos = resolveOverlap(pos, n.Radius(), g.visibleOthersLocked(id))
			}
			n.Position = pos
		}
	}
	mergeInto(&n.Data, patch.Data)
	mergeInto(&n.Style, patch.Style)
	mergeInto(&n.Meta, patch.Meta)
	n.UpdatedAt = nowMillis()

	after := *n.Clone()
	g.mu.Unlock()

	g.emit([]pendingEvent{{event.NodeUpdated, NodeUpdatedPayload{ID: id, Before: before, After: after}}})
	out := after
	return &out, nil
}

// ReplaceNode overwrites a node with a full snapshot, bypassing merge
// semantics and the collision pass. Undo uses it to restore exact prior
// states, including deleted map keys and positions that would otherwise
// be pushed around. Emits NodeUpdated.
func (g *Engine) ReplaceNode(snap Node) (*Node, error) {
	g.mu.Lock()
	n, ok := g.nodes[snap.ID]
	if !ok {
		g.mu.Unlock()
		return nil, fmt.Errorf("replace %q: %w", snap.ID, ErrNodeNotFound)
	}

	before := *n.Clone()
	restored := snap.Clone()
	if !restored.Position.IsFinite() {
		restored.Position = n.Position
	}
	*n = *restored
	after := *n.Clone()
	g.mu.Unlock()

	g.emit([]pendingEvent{{event.NodeUpdated, NodeUpdatedPayload{ID: snap.ID, Before: before, After: after}}})
	out := after
	return &out, nil
}

func mergeInto(dst *map[string]any, patch map[string]any) {
	if len(patch) == 0 {
		return
	}
	if *dst == nil {
		*dst = make(map[string]any, len(patch))
	}
	for k, v := range patch {
		if v == nil {
			delete(*dst, k)
			continue
		}
		(*dst)[k] = v
	}
}

// RemoveNode deletes a node and cascades every edge touching it, emitting
// a single NodeDeleted event that carries the removed edges. Root and
// core nodes are protected and cannot be removed.
func (g *Engine) RemoveNode(id NodeID) error {
	g.mu.Lock()
	n, ok := g.nodes[id]
	if !ok {
		g.mu.Unlock()
		return fmt.Errorf("remove %q: %w", id, ErrNodeNotFound)
	}
	if n.Type.Protected() {
		g.mu.Unlock()
		g.log.Warnf("graph: refusing to remove protected node %s", id)
		return fmt.Errorf("remove %q: %w", id, ErrProtectedNode)
	}

	var removed []Edge
	kept := g.edgeOrder[:0]
	for _, eid := range g.edgeOrder {
		e := g.edges[eid]
		if e.Touches(id) {
			removed = append(removed, *e)
			delete(g.edges, eid)
			continue
		}
		kept = append(kept, eid)
	}
	g.edgeOrder = kept

	deleted := *n.Clone()
	delete(g.nodes, id)
	for i, nid := range g.nodeOrder {
		if nid == id {
			g.nodeOrder = append(g.nodeOrder[:i:i], g.nodeOrder[i+1:]...)
			break
		}
	}
	g.mu.Unlock()

	g.emit([]pendingEvent{{event.NodeDeleted, NodeDeletedPayload{ID: id, Node: deleted, Edges: removed}}})
	return nil
}

// AddEdge links source to target and emits LinkCreated. At most one edge
// of a given type exists per endpoint pair; requesting a duplicate returns
// the existing edge.
//
// A default edge whose source is a cluster also adopts an unparented,
// unprotected target into the cluster, mirroring the cluster's folded
// state onto the child.
func (g *Engine) AddEdge(source, target NodeID, typ EdgeType) (*Edge, error) {
	if typ == "" {
		typ = EdgeDefault
	}
	if source == target {
		g.log.Warnf("graph: self link on %s rejected", source)
		return nil, fmt.Errorf("link %s->%s: %w", source, target, ErrSelfLink)
	}

	g.mu.Lock()
	src, okS := g.nodes[source]
	tgt, okT := g.nodes[target]
	if !okS || !okT {
		g.mu.Unlock()
		g.log.Warnf("graph: link %s->%s references missing node", source, target)
		return nil, fmt.Errorf("link %s->%s: %w", source, target, ErrMissingEndpoint)
	}

	if existing := g.edgeBetweenLocked(source, target, typ); existing != nil {
		out := existing.Clone()
		g.mu.Unlock()
		return out, nil
	}

	e := &Edge{
		ID:     EdgeID(uuid.New().String()),
		Source: source,
		Target: target,
		Type:   typ,
	}
	g.edges[e.ID] = e
	g.edgeOrder = append(g.edgeOrder, e.ID)

	events := []pendingEvent{{event.LinkCreated, LinkCreatedPayload{Edge: *e}}}

	if typ == EdgeDefault && src.Type == TypeCluster && !tgt.Type.Protected() && tgt.ParentClusterID() == "" {
		before := *tgt.Clone()
		mergeInto(&tgt.Meta, map[string]any{
			metaParentCluster: string(source),
			metaHidden:        src.Folded(),
		})
		tgt.UpdatedAt = nowMillis()
		events = append(events, pendingEvent{event.NodeUpdated, NodeUpdatedPayload{ID: target, Before: before, After: *tgt.Clone()}})
	}

	out := e.Clone()
	g.mu.Unlock()

	g.emit(events)
	return out, nil
}

// RestoreEdge reinserts a previously removed edge verbatim, keeping its
// id. Emits LinkCreated. Used by undo and snapshot import.
func (g *Engine) RestoreEdge(e Edge) (*Edge, error) {
	g.mu.Lock()
	if existing, ok := g.edges[e.ID]; ok {
		out := existing.Clone()
		g.mu.Unlock()
		return out, nil
	}
	if _, ok := g.nodes[e.Source]; !ok {
		g.mu.Unlock()
		return nil, fmt.Errorf("restore link %s: %w", e.ID, ErrMissingEndpoint)
	}
	if _, ok := g.nodes[e.Target]; !ok {
		g.mu.Unlock()
		return nil, fmt.Errorf("restore link %s: %w", e.ID, ErrMissingEndpoint)
	}
	if e.Type == "" {
		e.Type = EdgeDefault
	}
	stored := e.Clone()
	g.edges[stored.ID] = stored
	g.edgeOrder = append(g.edgeOrder, stored.ID)
	out := stored.Clone()
	g.mu.Unlock()

	g.emit([]pendingEvent{{event.LinkCreated, LinkCreatedPayload{Edge: *stored}}})
	return out, nil
}

// RemoveEdge deletes an edge and emits LinkDeleted.
func (g *Engine) RemoveEdge(id EdgeID) error {
	g.mu.Lock()
	e, ok := g.edges[id]
	if !ok {
		g.mu.Unlock()
		return fmt.Errorf("remove link %q: %w", id, ErrEdgeNotFound)
	}
	removed := *e
	delete(g.edges, id)
	for i, eid := range g.edgeOrder {
		if eid == id {
			g.edgeOrder = append(g.edgeOrder[:i:i], g.edgeOrder[i+1:]...)
			break
		}
	}
	g.mu.Unlock()

	g.emit([]pendingEvent{{event.LinkDeleted, LinkDeletedPayload{ID: id, Edge: removed}}})
	return nil
}

// Clear empties the graph and emits GraphCleared with the removed counts.
func (g *Engine) Clear() {
	g.mu.Lock()
	nc, ec := len(g.nodes), len(g.edges)
	g.nodes = make(map[NodeID]*Node)
	g.edges = make(map[EdgeID]*Edge)
	g.nodeOrder = nil
	g.edgeOrder = nil
	g.mu.Unlock()

	g.emit([]pendingEvent{{event.GraphCleared, GraphClearedPayload{NodeCount: nc, EdgeCount: ec}}})
}

// Node returns a copy of the node, or nil when unknown.
func (g *Engine) Node(id NodeID) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if n, ok := g.nodes[id]; ok {
		return n.Clone()
	}
	return nil
}

// Nodes returns copies of all nodes in insertion order.
func (g *Engine) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id].Clone())
	}
	return out
}

// Edge returns a copy of the edge, or nil when unknown.
func (g *Engine) Edge(id EdgeID) *Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if e, ok := g.edges[id]; ok {
		return e.Clone()
	}
	return nil
}

// Edges returns copies of all edges in insertion order.
func (g *Engine) Edges() []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Edge, 0, len(g.edgeOrder))
	for _, id := range g.edgeOrder {
		out = append(out, g.edges[id].Clone())
	}
	return out
}

// EdgesOf returns copies of every edge touching the node.
func (g *Engine) EdgesOf(id NodeID) []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []*Edge
	for _, eid := range g.edgeOrder {
		if e := g.edges[eid]; e.Touches(id) {
			out = append(out, e.Clone())
		}
	}
	return out
}

// EdgeBetween returns the edge of the given type between the endpoints in
// either direction, or nil.
func (g *Engine) EdgeBetween(a, b NodeID, typ EdgeType) *Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if e := g.edgeBetweenLocked(a, b, typ); e != nil {
		return e.Clone()
	}
	return nil
}

func (g *Engine) edgeBetweenLocked(a, b NodeID, typ EdgeType) *Edge {
	for _, eid := range g.edgeOrder {
		e := g.edges[eid]
		if e.Type != typ {
			continue
		}
		if (e.Source == a && e.Target == b) || (e.Source == b && e.Target == a) {
			return e
		}
	}
	return nil
}

// NodeCount returns the number of nodes.
func (g *Engine) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Engine) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// FindNodeAt returns the topmost visible node whose footprint (grown by
// slack) contains the world point, or nil. Later-created nodes win ties.
func (g *Engine) FindNodeAt(p geom.Point, slack float64) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for i := len(g.nodeOrder) - 1; i >= 0; i-- {
		n := g.nodes[g.nodeOrder[i]]
		if n.Hidden() {
			continue
		}
		if p.Dist(n.Position) <= n.Radius()+slack {
			return n.Clone()
		}
	}
	return nil
}

// FindFreePosition returns a collision-free, grid-snapped position for a
// footprint of the given type near want.
func (g *Engine) FindFreePosition(want geom.Point, typ NodeType) geom.Point {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return findFreePosition(want, typ.Radius(), g.visibleOthersLocked(""))
}

// nodeWithinLocked returns any node whose center is within dist of p.
func (g *Engine) nodeWithinLocked(p geom.Point, dist float64) *Node {
	for _, id := range g.nodeOrder {
		n := g.nodes[id]
		if n.Hidden() {
			continue
		}
		if p.Dist(n.Position) <= dist {
			return n
		}
	}
	return nil
}

// visibleOthersLocked returns every visible node except the excluded id.
func (g *Engine) visibleOthersLocked(exclude NodeID) []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		if id == exclude {
			continue
		}
		n := g.nodes[id]
		if n.Hidden() {
			continue
		}
		out = append(out, n)
	}
	return out
}

// nextEmptyLabelLocked returns the next unused "Empty N" label.
func (g *Engine) nextEmptyLabelLocked() string {
	max := 0
	for _, n := range g.nodes {
		lbl := n.Label()
		rest, ok := strings.CutPrefix(lbl, "Empty ")
		if !ok {
			continue
		}
		if v, err := strconv.Atoi(rest); err == nil && v > max {
			max = v
		}
	}
	return fmt.Sprintf("Empty %d", max+1)
}
