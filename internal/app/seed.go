package app

import (
	"github.com/symbolfield/core/internal/area"
	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
)

// SpaceCreatedPayload accompanies event.SpaceCreated.
type SpaceCreatedPayload struct {
	ID   string
	Name string
}

// PlaygroundPayload accompanies event.PlaygroundCreated and
// event.PlaygroundReset.
type PlaygroundPayload struct {
	NodeCount int
	EdgeCount int
}

// SeedSpace enters the space and, when the graph is empty, creates its
// core node at the origin. Every space orbits one protected core node;
// node creation via keyboard stays disabled until it exists.
func (c *Core) SeedSpace(id, name string) {
	c.State.SetSpace(id)
	if c.Engine.NodeCount() == 0 {
		origin := geom.Point{}
		c.Engine.AddNode(graph.NodeSpec{
			Type:     graph.TypeCore,
			Position: &origin,
			Data:     map[string]any{"label": name},
		})
	}
	c.Bus.Emit(event.SpaceCreated, SpaceCreatedPayload{ID: id, Name: name})
	// The seeded baseline is not an undoable user action.
	c.Undo.Reset()
}

// SeedPlayground rebuilds the tutorial space: a core node, a few labeled
// nodes to push around, a folded cluster, and one area overlay. Calling
// it on a non-empty graph resets the playground and clears history via
// the graph-cleared event.
func (c *Core) SeedPlayground() {
	reset := c.Engine.NodeCount() > 0
	if reset {
		c.Engine.Clear()
		c.Areas.Clear()
	}

	at := func(x, y float64) *geom.Point { return &geom.Point{X: x, Y: y} }
	label := func(s string) map[string]any { return map[string]any{"label": s} }

	core := c.Engine.AddNode(graph.NodeSpec{Type: graph.TypeCore, Position: at(0, 0), Data: label("Playground")})
	drag := c.Engine.AddNode(graph.NodeSpec{Position: at(144, -48), Data: label("Drag me")})
	link := c.Engine.AddNode(graph.NodeSpec{Position: at(144, 48), Data: label("Link from me")})
	fold := c.Engine.AddNode(graph.NodeSpec{Position: at(-144, 0), Data: label("Open the cluster")})

	cluster := c.Engine.AddNode(graph.NodeSpec{Type: graph.TypeCluster, Position: at(-288, 0), Data: label("A cluster")})
	inner := c.Engine.AddNode(graph.NodeSpec{Position: at(-288, 120), Data: label("Hidden inside")})

	c.seedEdge(core.ID, drag.ID)
	c.seedEdge(core.ID, link.ID)
	c.seedEdge(core.ID, fold.ID)
	c.seedEdge(fold.ID, cluster.ID)
	c.seedEdge(cluster.ID, inner.ID)
	if err := c.Engine.FoldCluster(cluster.ID); err != nil {
		c.Log.Warnf("app: fold playground cluster: %v", err)
	}

	c.Areas.Create(area.Spec{
		Shape: area.ShapeRect,
		Rect:  geom.Rect{X: 96, Y: -108, W: 240, H: 216},
		Title: "Try dragging here",
	})

	payload := PlaygroundPayload{NodeCount: c.Engine.NodeCount(), EdgeCount: c.Engine.EdgeCount()}
	if reset {
		c.Bus.Emit(event.PlaygroundReset, payload)
	} else {
		c.Bus.Emit(event.PlaygroundCreated, payload)
	}
	c.Undo.Reset()
}

func (c *Core) seedEdge(a, b graph.NodeID) {
	if _, err := c.Engine.AddEdge(a, b, graph.EdgeDefault); err != nil {
		c.Log.Warnf("app: seed edge %s->%s: %v", a, b, err)
	}
}
