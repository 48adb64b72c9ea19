package router

import (
	"sync"

	"github.com/symbolfield/core/internal/area"
	"github.com/symbolfield/core/internal/camera"
	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
	"github.com/symbolfield/core/internal/selection"
	"github.com/symbolfield/core/internal/view"
)

// linkDragPromoteSq is the squared screen distance past which an armed
// link commits to dragging.
const linkDragPromoteSq = 16.0

// clickThreshold is the screen distance under which a pointer-up is a
// click, not a drag.
const clickThreshold = 5.0

// ClusterDeleteChoice answers the cluster deletion prompt.
type ClusterDeleteChoice int

const (
	// ChoiceCascade deletes the cluster and its whole subtree.
	ChoiceCascade ClusterDeleteChoice = iota
	// ChoiceRelease deletes the cluster but keeps its members.
	ChoiceRelease
	// ChoiceCancel aborts the deletion.
	ChoiceCancel
)

// ClusterDeletePrompt is consulted synchronously before a cluster with
// members is deleted. No mutation happens until it answers.
type ClusterDeletePrompt func(clusterID graph.NodeID, memberCount int) ClusterDeleteChoice

// Router converts raw pointer and keyboard gestures into intents and
// executes them against the graph engine, selection state, area store,
// view state, and camera. It owns exactly one mutable slot: the active
// interaction.
type Router struct {
	mu     sync.Mutex
	active Interaction

	// Sticky pointer context.
	lastPointerWorld geom.Point
	hoveredEdge      graph.EdgeID

	bus     *event.Bus
	engine  *graph.Engine
	areas   *area.Store
	nodes   *selection.Tracker
	edges   *selection.EdgeSet
	areaSel *selection.AreaSet
	state   *view.State
	cam     *camera.Camera
	log     event.Logger
	prompt  ClusterDeletePrompt
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the router's logger.
func WithLogger(l event.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.log = l
		}
	}
}

// WithClusterDeletePrompt installs the synchronous cascade-vs-release
// prompt. Without one, cluster deletions cascade.
func WithClusterDeletePrompt(p ClusterDeletePrompt) Option {
	return func(r *Router) {
		if p != nil {
			r.prompt = p
		}
	}
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// Deps bundles the stores the router mutates.
type Deps struct {
	Bus     *event.Bus
	Engine  *graph.Engine
	Areas   *area.Store
	Nodes   *selection.Tracker
	Edges   *selection.EdgeSet
	AreaSel *selection.AreaSet
	State   *view.State
	Camera  *camera.Camera
}

// New wires a router over its collaborators.
func New(d Deps, opts ...Option) *Router {
	r := &Router{
		bus:     d.Bus,
		engine:  d.Engine,
		areas:   d.Areas,
		nodes:   d.Nodes,
		edges:   d.Edges,
		areaSel: d.AreaSel,
		state:   d.State,
		cam:     d.Camera,
		log:     nopLogger{},
		prompt: func(graph.NodeID, int) ClusterDeleteChoice {
			return ChoiceCascade
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Active returns the current interaction, or nil. Intended for tests and
// diagnostics.
func (r *Router) Active() Interaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// SetHoveredEdge records the edge under the pointer, reported by the
// input layer's hit testing. Delete falls back to it when no edge is
// selected.
func (r *Router) SetHoveredEdge(id graph.EdgeID) {
	r.mu.Lock()
	r.hoveredEdge = id
	r.mu.Unlock()
}

// LastPointerWorld returns the last known pointer position in world
// coordinates. Keyboard node creation places there.
func (r *Router) LastPointerWorld() geom.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPointerWorld
}

func (r *Router) setActive(i Interaction) {
	r.mu.Lock()
	r.active = i
	r.mu.Unlock()
}

func (r *Router) clearPreviews(kind InteractionKind) {
	switch kind {
	case KindLinkArm, KindLinkDrag, KindLinkPreview:
		r.bus.Emit(event.LinkPreviewUpdated, LinkPreviewPayload{Active: false})
	case KindBoxSelect:
		r.bus.Emit(event.SelectionPreviewUpdated, SelectionPreviewPayload{Active: false})
	}
}

// linkLine computes the preview line from the source node's boundary
// toward the pointer, using the node's type-specific radius.
func (r *Router) linkLine(source graph.NodeID, to geom.Point) (geom.Line, bool) {
	n := r.engine.Node(source)
	if n == nil {
		return geom.Line{}, false
	}
	from := n.Position
	d := to.Sub(from)
	dist := from.Dist(to)
	if dist > n.Radius() {
		scale := n.Radius() / dist
		from = geom.Point{X: from.X + d.X*scale, Y: from.Y + d.Y*scale}
	}
	return geom.Line{X1: from.X, Y1: from.Y, X2: to.X, Y2: to.Y}, true
}

func (r *Router) emitLinkPreview(source graph.NodeID, to geom.Point, associative bool) {
	line, ok := r.linkLine(source, to)
	if !ok {
		return
	}
	r.bus.Emit(event.LinkPreviewUpdated, LinkPreviewPayload{
		Active:      true,
		Source:      source,
		Line:        line,
		Associative: associative,
	})
}

// edgeType returns the edge type for a link gesture.
func edgeType(associative bool) graph.EdgeType {
	if associative {
		return graph.EdgeAssociative
	}
	return graph.EdgeDefault
}
