// Package projection keeps a pull-based read model for renderers. The
// graph engine and area store stay the single source of truth; the view
// subscribes to their domain events and re-fetches on each one, so
// renderers read a coherent cache and never write back.
package projection

import (
	"sync"

	"github.com/symbolfield/core/internal/area"
	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/graph"
)

// View is a refreshed-on-event cache of the canvas domain state.
type View struct {
	mu     sync.RWMutex
	engine *graph.Engine
	areas  *area.Store

	nodes   []*graph.Node
	edges   []*graph.Edge
	regions []*area.Area
	version uint64

	unsub []func()
}

// NewView builds the read model and subscribes it to every domain event
// that can change what a renderer sees.
func NewView(bus *event.Bus, engine *graph.Engine, areas *area.Store) *View {
	v := &View{engine: engine, areas: areas}
	refresh := func(event.Event) { v.Refresh() }
	for _, t := range []event.Type{
		event.NodeCreated, event.NodeUpdated, event.NodeDeleted,
		event.LinkCreated, event.LinkDeleted,
		event.RegionCreated, event.RegionUpdated, event.RegionDeleted,
		event.GraphCleared,
	} {
		v.unsub = append(v.unsub, bus.On(t, refresh))
	}
	v.Refresh()
	return v
}

// Close detaches the view from the bus.
func (v *View) Close() {
	for _, u := range v.unsub {
		u()
	}
	v.unsub = nil
}

// Refresh re-fetches everything from the source stores and bumps the
// version. Safe to call directly when no event fired, e.g. after wiring.
func (v *View) Refresh() {
	nodes := v.engine.Nodes()
	edges := v.engine.Edges()
	var regions []*area.Area
	if v.areas != nil {
		regions = v.areas.Areas()
	}

	v.mu.Lock()
	v.nodes = nodes
	v.edges = edges
	v.regions = regions
	v.version++
	v.mu.Unlock()
}

// Version is a counter bumped on every refresh; renderers compare it to
// skip redraws when nothing changed underneath them.
func (v *View) Version() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}

// Nodes returns every cached node, hidden ones included.
func (v *View) Nodes() []*graph.Node {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.nodes
}

// VisibleNodes returns the nodes a renderer should draw, excluding those
// hidden inside folded clusters.
func (v *View) VisibleNodes() []*graph.Node {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]*graph.Node, 0, len(v.nodes))
	for _, n := range v.nodes {
		if !n.Hidden() {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns every cached edge.
func (v *View) Edges() []*graph.Edge {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.edges
}

// VisibleEdges returns edges whose both endpoints are visible. Rerouting
// a hidden endpoint's edges to a visible ancestor is the renderer's
// business, not this cache's.
func (v *View) VisibleEdges() []*graph.Edge {
	v.mu.RLock()
	defer v.mu.RUnlock()
	visible := make(map[graph.NodeID]bool, len(v.nodes))
	for _, n := range v.nodes {
		if !n.Hidden() {
			visible[n.ID] = true
		}
	}
	out := make([]*graph.Edge, 0, len(v.edges))
	for _, e := range v.edges {
		if visible[e.Source] && visible[e.Target] {
			out = append(out, e)
		}
	}
	return out
}

// Areas returns every cached area in z-order as stored.
func (v *View) Areas() []*area.Area {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.regions
}

// NodeCount returns the cached node count.
func (v *View) NodeCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.nodes)
}

// EdgeCount returns the cached edge count.
func (v *View) EdgeCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.edges)
}
