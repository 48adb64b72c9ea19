package app

import (
	"github.com/symbolfield/core/internal/address"
	"github.com/symbolfield/core/internal/area"
	"github.com/symbolfield/core/internal/camera"
	"github.com/symbolfield/core/internal/config"
	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
	"github.com/symbolfield/core/internal/projection"
	"github.com/symbolfield/core/internal/router"
	"github.com/symbolfield/core/internal/selection"
	"github.com/symbolfield/core/internal/undo"
	"github.com/symbolfield/core/internal/view"
)

// Core owns one instance of every canvas component, explicitly
// constructed and wired over a single event bus. Nothing here is a
// process-wide singleton; tests build isolated Cores.
type Core struct {
	Log      *Logger
	Bus      *event.Bus
	Engine   *graph.Engine
	Areas    *area.Store
	Nodes    *selection.Tracker
	Edges    *selection.EdgeSet
	AreaSel  *selection.AreaSet
	State    *view.State
	Camera   *camera.Camera
	Router   *router.Router
	Undo     *undo.Manager
	View     *projection.View
	Resolver *address.Resolver

	unsub []func()
}

// Options configures a Core.
type Options struct {
	// Logger defaults to a stderr logger at Info level.
	Logger *Logger
	// Storage persists settings; defaults to in-memory.
	Storage config.Storage
	// ViewportW/ViewportH size the camera viewport.
	ViewportW, ViewportH float64
	// ClusterDeletePrompt answers cascade-vs-release for cluster deletes.
	ClusterDeletePrompt router.ClusterDeletePrompt
	// UndoLimit bounds the undo stack depth; zero keeps the default.
	UndoLimit int
}

// NewCore constructs and wires the whole interaction core.
func NewCore(opts Options) *Core {
	log := opts.Logger
	if log == nil {
		log = NewLogger(DefaultLoggerConfig())
	}
	storage := opts.Storage
	if storage == nil {
		storage = config.NewMemoryStorage()
	}
	if opts.ViewportW <= 0 {
		opts.ViewportW = 1280
	}
	if opts.ViewportH <= 0 {
		opts.ViewportH = 800
	}

	c := &Core{Log: log}
	c.Bus = event.NewBus(event.WithLogger(log.WithComponent("bus")))
	c.Engine = graph.NewEngine(c.Bus, graph.WithEngineLogger(log.WithComponent("graph")))
	c.Areas = area.NewStore(c.Bus, area.WithNodePositions(func(id graph.NodeID) (geom.Point, bool) {
		n := c.Engine.Node(id)
		if n == nil {
			return geom.Point{}, false
		}
		return n.Position, true
	}))
	c.Nodes = selection.NewTracker(c.Bus, c.Engine)
	c.Edges = selection.NewEdgeSet(c.Bus)
	c.AreaSel = selection.NewAreaSet(c.Bus)
	c.State = view.NewState(c.Bus, storage, view.WithStateLogger(log.WithComponent("view")))
	c.Camera = camera.New(opts.ViewportW, opts.ViewportH)
	c.View = projection.NewView(c.Bus, c.Engine, c.Areas)

	undoOpts := []undo.Option{undo.WithLogger(log.WithComponent("undo"))}
	if opts.UndoLimit > 0 {
		undoOpts = append(undoOpts, undo.WithStackLimit(opts.UndoLimit))
	}
	c.Undo = undo.New(c.Bus, c.Engine, c.Areas, undoOpts...)

	routerOpts := []router.Option{router.WithLogger(log.WithComponent("router"))}
	if opts.ClusterDeletePrompt != nil {
		routerOpts = append(routerOpts, router.WithClusterDeletePrompt(opts.ClusterDeletePrompt))
	}
	c.Router = router.New(router.Deps{
		Bus:     c.Bus,
		Engine:  c.Engine,
		Areas:   c.Areas,
		Nodes:   c.Nodes,
		Edges:   c.Edges,
		AreaSel: c.AreaSel,
		State:   c.State,
		Camera:  c.Camera,
	}, routerOpts...)

	c.Resolver = address.NewResolver(c.Bus, c.State, c.Camera, c.Nodes,
		address.WithResolverLogger(log.WithComponent("address")))

	c.subscribe()
	return c
}

// Close detaches every bus subscription the core owns.
func (c *Core) Close() {
	for _, u := range c.unsub {
		u()
	}
	c.unsub = nil
	c.Undo.Close()
	c.View.Close()
}

// subscribe wires the cross-component pruning listeners: deleting an
// entity evicts it from every selection set and detaches dependents.
func (c *Core) subscribe() {
	on := func(t event.Type, h event.Handler) {
		c.unsub = append(c.unsub, c.Bus.On(t, h))
	}

	on(event.NodeDeleted, func(e event.Event) {
		p, ok := e.Payload.(graph.NodeDeletedPayload)
		if !ok {
			return
		}
		c.Nodes.Remove(p.ID)
		c.Areas.DetachFromNode(p.ID)
		for _, edge := range p.Edges {
			c.Edges.Remove(edge.ID)
		}
		if c.State.ActiveNode() == p.ID {
			c.State.ExitNode()
		}
		if c.State.FieldScope() == p.ID {
			c.State.SetFieldScope("")
		}
	})

	on(event.LinkDeleted, func(e event.Event) {
		if p, ok := e.Payload.(graph.LinkDeletedPayload); ok {
			c.Edges.Remove(p.ID)
		}
	})

	on(event.RegionDeleted, func(e event.Event) {
		if p, ok := e.Payload.(area.RegionDeletedPayload); ok {
			c.AreaSel.Remove(p.ID)
		}
	})

	on(event.GraphCleared, func(event.Event) {
		c.Nodes.Clear()
		c.Edges.Clear()
		c.AreaSel.Clear()
	})
}
