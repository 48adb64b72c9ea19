package undo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symbolfield/core/internal/area"
	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
	"github.com/symbolfield/core/internal/router"
)

func newTestManager(opts ...Option) (*Manager, *graph.Engine, *area.Store, *event.Bus) {
	bus := event.NewBus()
	eng := graph.NewEngine(bus)
	areas := area.NewStore(bus)
	return New(bus, eng, areas, opts...), eng, areas, bus
}

func pt(x, y float64) *geom.Point {
	return &geom.Point{X: x, Y: y}
}

func TestCreateNodeUndoRedo(t *testing.T) {
	m, eng, _, _ := newTestManager()

	n := eng.AddNode(graph.NodeSpec{Position: pt(10, 20)})
	require.Equal(t, 1, m.Depth())

	require.True(t, m.Undo())
	assert.Nil(t, eng.Node(n.ID))
	assert.Zero(t, m.Depth())
	assert.True(t, m.CanRedo())

	require.True(t, m.Redo())
	restored := eng.Node(n.ID)
	require.NotNil(t, restored)
	assert.Equal(t, geom.Point{X: 10, Y: 20}, restored.Position)
	assert.Equal(t, n.CreatedAt, restored.CreatedAt)
}

func TestUpdateNodeUndoRestoresExactState(t *testing.T) {
	m, eng, _, _ := newTestManager()

	n := eng.AddNode(graph.NodeSpec{Position: pt(0, 0), Data: map[string]any{"label": "a"}})
	_, err := eng.UpdateNode(n.ID, graph.NodePatch{Data: map[string]any{"label": "b", "extra": 1}})
	require.NoError(t, err)
	require.Equal(t, 2, m.Depth())

	require.True(t, m.Undo())
	got := eng.Node(n.ID)
	assert.Equal(t, "a", got.Label())
	assert.NotContains(t, got.Data, "extra", "undo must drop keys the update added")

	require.True(t, m.Redo())
	got = eng.Node(n.ID)
	assert.Equal(t, "b", got.Label())
	assert.Contains(t, got.Data, "extra")
}

func TestDeleteNodeUndoRestoresCascadedEdges(t *testing.T) {
	m, eng, _, _ := newTestManager()

	a := eng.AddNode(graph.NodeSpec{Position: pt(0, 0)})
	b := eng.AddNode(graph.NodeSpec{Position: pt(100, 0)})
	c := eng.AddNode(graph.NodeSpec{Position: pt(200, 0)})
	_, err := eng.AddEdge(a.ID, b.ID, graph.EdgeDefault)
	require.NoError(t, err)
	_, err = eng.AddEdge(a.ID, c.ID, graph.EdgeAssociative)
	require.NoError(t, err)

	depth := m.Depth()
	require.NoError(t, eng.RemoveNode(a.ID))
	require.Equal(t, depth+1, m.Depth(), "a cascade is one command")

	// One undo brings back the node and both edges.
	require.True(t, m.Undo())
	require.NotNil(t, eng.Node(a.ID))
	assert.Len(t, eng.EdgesOf(a.ID), 2)

	require.True(t, m.Redo())
	assert.Nil(t, eng.Node(a.ID))
	assert.Empty(t, eng.EdgesOf(a.ID))
}

func TestLinkUndoRedo(t *testing.T) {
	m, eng, _, _ := newTestManager()

	a := eng.AddNode(graph.NodeSpec{Position: pt(0, 0)})
	b := eng.AddNode(graph.NodeSpec{Position: pt(100, 0)})
	e, err := eng.AddEdge(a.ID, b.ID, graph.EdgeDefault)
	require.NoError(t, err)

	require.True(t, m.Undo())
	assert.Nil(t, eng.Edge(e.ID))

	require.True(t, m.Redo())
	restored := eng.Edge(e.ID)
	require.NotNil(t, restored)
	assert.Equal(t, e.ID, restored.ID)
}

func TestDragCapturedOnce(t *testing.T) {
	m, eng, _, bus := newTestManager()

	a := eng.AddNode(graph.NodeSpec{Position: pt(0, 0)})
	depth := m.Depth()

	start := map[graph.NodeID]geom.Point{a.ID: {X: 0, Y: 0}}
	bus.Emit(event.InteractionStart, router.InteractionStartPayload{
		Kind:      router.KindDragNodes,
		Positions: start,
	})

	// Intermediate moves inside the drag are not individual commands.
	_, err := eng.UpdateNode(a.ID, graph.NodePatch{Position: pt(50, 0)})
	require.NoError(t, err)
	_, err = eng.UpdateNode(a.ID, graph.NodePatch{Position: pt(120, 0)})
	require.NoError(t, err)
	assert.Equal(t, depth, m.Depth())

	bus.Emit(event.InteractionEnd, router.InteractionEndPayload{
		Kind:  router.KindDragNodes,
		Start: start,
		End:   map[graph.NodeID]geom.Point{a.ID: {X: 120, Y: 0}},
	})
	require.Equal(t, depth+1, m.Depth())

	require.True(t, m.Undo())
	assert.Equal(t, geom.Point{X: 0, Y: 0}, eng.Node(a.ID).Position)
	require.True(t, m.Redo())
	assert.Equal(t, geom.Point{X: 120, Y: 0}, eng.Node(a.ID).Position)
}

func TestDragUndoRestoresPackedRow(t *testing.T) {
	m, eng, _, bus := newTestManager()

	// Five nodes at exact minimum separation, shifted one slot left:
	// every restore target sits flush against a still-occupied position,
	// so any collision pass during the restore would scatter the row.
	var ids []graph.NodeID
	start := make(map[graph.NodeID]geom.Point)
	for i := 0; i < 5; i++ {
		n := eng.AddNode(graph.NodeSpec{Position: pt(float64(i)*48, 0)})
		ids = append(ids, n.ID)
		start[n.ID] = n.Position
	}
	require.Equal(t, geom.Point{X: 192, Y: 0}, start[ids[4]], "row placed without push-out")

	bus.Emit(event.InteractionStart, router.InteractionStartPayload{
		Kind:      router.KindDragNodes,
		Positions: start,
	})
	end := make(map[graph.NodeID]geom.Point)
	for _, id := range ids {
		p := start[id].Add(-48, 0)
		_, err := eng.UpdateNode(id, graph.NodePatch{Position: &p})
		require.NoError(t, err)
		end[id] = p
	}
	bus.Emit(event.InteractionEnd, router.InteractionEndPayload{
		Kind:  router.KindDragNodes,
		Start: start,
		End:   end,
	})

	require.True(t, m.Undo())
	for i, id := range ids {
		assert.Equal(t, start[id], eng.Node(id).Position, "node %d after undo", i)
	}
	require.True(t, m.Redo())
	for i, id := range ids {
		assert.Equal(t, end[id], eng.Node(id).Position, "node %d after redo", i)
	}
}

func TestClickDragProducesNoCommand(t *testing.T) {
	m, eng, _, bus := newTestManager()

	a := eng.AddNode(graph.NodeSpec{Position: pt(0, 0)})
	depth := m.Depth()
	positions := map[graph.NodeID]geom.Point{a.ID: {X: 0, Y: 0}}

	bus.Emit(event.InteractionStart, router.InteractionStartPayload{
		Kind:      router.KindDragNodes,
		Positions: positions,
	})
	bus.Emit(event.InteractionEnd, router.InteractionEndPayload{
		Kind:  router.KindDragNodes,
		Start: positions,
		End:   positions,
	})
	assert.Equal(t, depth, m.Depth(), "equal start and end maps mean no mutation")
}

func TestDragAreaRideAlongCapturedOnce(t *testing.T) {
	m, eng, areas, bus := newTestManager()

	n := eng.AddNode(graph.NodeSpec{Position: pt(0, 0)})
	a := areas.Create(area.Spec{Shape: area.ShapeRect, Rect: geom.Rect{X: 100, Y: 100, W: 50, H: 50}})
	depth := m.Depth()

	start := map[graph.NodeID]geom.Point{n.ID: {X: 0, Y: 0}}
	bus.Emit(event.InteractionStart, router.InteractionStartPayload{
		Kind:      router.KindDragNodes,
		Positions: start,
	})

	// The area mirrors every pointer move while the drag is in flight.
	for i := 0; i < 3; i++ {
		areas.TranslateBy(a.ID, geom.Point{X: 10, Y: 0})
	}
	_, err := eng.UpdateNode(n.ID, graph.NodePatch{Position: pt(30, 0)})
	require.NoError(t, err)

	bus.Emit(event.InteractionEnd, router.InteractionEndPayload{
		Kind:  router.KindDragNodes,
		Start: start,
		End:   map[graph.NodeID]geom.Point{n.ID: {X: 30, Y: 0}},
	})
	require.Equal(t, depth+2, m.Depth(), "one area command and one node command per drag")

	require.True(t, m.Undo()) // nodes back
	require.True(t, m.Undo()) // area back
	assert.Equal(t, 100.0, areas.Area(a.ID).Rect.X)
	assert.Equal(t, geom.Point{}, eng.Node(n.ID).Position)

	require.True(t, m.Redo())
	assert.Equal(t, 130.0, areas.Area(a.ID).Rect.X)
}

func TestCanceledDragProducesNoCommand(t *testing.T) {
	m, eng, _, bus := newTestManager()

	a := eng.AddNode(graph.NodeSpec{Position: pt(0, 0)})
	depth := m.Depth()

	bus.Emit(event.InteractionStart, router.InteractionStartPayload{
		Kind:      router.KindDragNodes,
		Positions: map[graph.NodeID]geom.Point{a.ID: {X: 0, Y: 0}},
	})
	bus.Emit(event.InteractionEnd, router.InteractionEndPayload{
		Kind:     router.KindDragNodes,
		Canceled: true,
	})
	assert.Equal(t, depth, m.Depth())
}

func TestAreaLifecycleUndoRedo(t *testing.T) {
	m, _, areas, _ := newTestManager()

	a := areas.Create(area.Spec{Shape: area.ShapeRect, Rect: geom.Rect{W: 100, H: 60}})
	title := "renamed"
	areas.Update(a.ID, area.Patch{Title: &title})
	areas.Remove(a.ID)
	require.Equal(t, 3, m.Depth())

	require.True(t, m.Undo()) // undo remove
	require.NotNil(t, areas.Area(a.ID))
	assert.Equal(t, "renamed", areas.Area(a.ID).Title)

	require.True(t, m.Undo()) // undo rename
	assert.NotEqual(t, "renamed", areas.Area(a.ID).Title)

	require.True(t, m.Undo()) // undo create
	assert.Nil(t, areas.Area(a.ID))

	require.True(t, m.Redo())
	require.True(t, m.Redo())
	require.True(t, m.Redo())
	assert.Nil(t, areas.Area(a.ID))
}

func TestUndoRedoSymmetry(t *testing.T) {
	m, eng, _, _ := newTestManager()

	a := eng.AddNode(graph.NodeSpec{Position: pt(0, 0)})
	b := eng.AddNode(graph.NodeSpec{Position: pt(100, 0)})
	_, err := eng.AddEdge(a.ID, b.ID, graph.EdgeDefault)
	require.NoError(t, err)
	_, err = eng.UpdateNode(b.ID, graph.NodePatch{Data: map[string]any{"label": "beta"}})
	require.NoError(t, err)
	require.NoError(t, eng.RemoveNode(a.ID))

	want := eng.Export()
	n := m.Depth()
	for i := 0; i < n; i++ {
		require.True(t, m.Undo())
	}
	assert.Zero(t, eng.NodeCount())
	for i := 0; i < n; i++ {
		require.True(t, m.Redo())
	}

	got := eng.Export()
	assert.ElementsMatch(t, want.Nodes, got.Nodes)
	assert.ElementsMatch(t, want.Edges, got.Edges)
}

func TestNewActionClearsRedo(t *testing.T) {
	m, eng, _, _ := newTestManager()

	eng.AddNode(graph.NodeSpec{Position: pt(0, 0)})
	require.True(t, m.Undo())
	require.True(t, m.CanRedo())

	eng.AddNode(graph.NodeSpec{Position: pt(100, 0)})
	assert.False(t, m.CanRedo())
}

func TestStackLimit(t *testing.T) {
	m, eng, _, _ := newTestManager(WithStackLimit(2))

	eng.AddNode(graph.NodeSpec{Position: pt(0, 0)})
	eng.AddNode(graph.NodeSpec{Position: pt(100, 0)})
	eng.AddNode(graph.NodeSpec{Position: pt(200, 0)})

	assert.Equal(t, 2, m.Depth())
	assert.True(t, m.Undo())
	assert.True(t, m.Undo())
	assert.False(t, m.Undo(), "the oldest command fell off the stack")
}

func TestClearResetsStacks(t *testing.T) {
	m, eng, _, _ := newTestManager()

	eng.AddNode(graph.NodeSpec{Position: pt(0, 0)})
	require.True(t, m.CanUndo())

	eng.Clear()
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
}

func TestUndoViaBusSignal(t *testing.T) {
	m, eng, _, bus := newTestManager()

	n := eng.AddNode(graph.NodeSpec{Position: pt(0, 0)})
	bus.Emit(event.GraphUndo, nil)
	assert.Nil(t, eng.Node(n.ID))
	bus.Emit(event.GraphRedo, nil)
	assert.NotNil(t, eng.Node(n.ID))
	assert.Equal(t, 1, m.Depth())
}
