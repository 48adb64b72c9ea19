package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symbolfield/core/internal/area"
	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
)

func newTestView() (*View, *graph.Engine, *area.Store) {
	bus := event.NewBus()
	eng := graph.NewEngine(bus)
	areas := area.NewStore(bus)
	return NewView(bus, eng, areas), eng, areas
}

func pt(x, y float64) *geom.Point {
	return &geom.Point{X: x, Y: y}
}

func TestViewTracksMutations(t *testing.T) {
	v, eng, areas := newTestView()

	a := eng.AddNode(graph.NodeSpec{Position: pt(0, 0)})
	b := eng.AddNode(graph.NodeSpec{Position: pt(100, 0)})
	_, err := eng.AddEdge(a.ID, b.ID, graph.EdgeDefault)
	require.NoError(t, err)
	areas.Create(area.Spec{Shape: area.ShapeRect, Rect: geom.Rect{W: 50, H: 50}})

	assert.Equal(t, 2, v.NodeCount())
	assert.Equal(t, 1, v.EdgeCount())
	assert.Len(t, v.Areas(), 1)

	require.NoError(t, eng.RemoveNode(a.ID))
	assert.Equal(t, 1, v.NodeCount())
	assert.Zero(t, v.EdgeCount(), "the cascade drops the edge from the cache too")
}

func TestViewVersionBumpsPerEvent(t *testing.T) {
	v, eng, _ := newTestView()

	before := v.Version()
	eng.AddNode(graph.NodeSpec{Position: pt(0, 0)})
	assert.Greater(t, v.Version(), before)
}

func TestVisibleNodesExcludeFoldedMembers(t *testing.T) {
	v, eng, _ := newTestView()

	cluster := eng.AddNode(graph.NodeSpec{Type: graph.TypeCluster, Position: pt(300, 300)})
	member := eng.AddNode(graph.NodeSpec{Position: pt(0, 0)})
	other := eng.AddNode(graph.NodeSpec{Position: pt(100, 100)})
	_, err := eng.AddEdge(cluster.ID, member.ID, graph.EdgeDefault)
	require.NoError(t, err)
	_, err = eng.AddEdge(member.ID, other.ID, graph.EdgeDefault)
	require.NoError(t, err)

	require.NoError(t, eng.FoldCluster(cluster.ID))

	ids := make([]graph.NodeID, 0)
	for _, n := range v.VisibleNodes() {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []graph.NodeID{cluster.ID, other.ID}, ids)

	// Edges touching the hidden member disappear from the visible set.
	assert.Len(t, v.Edges(), 2)
	assert.Empty(t, v.VisibleEdges())
}

func TestViewClear(t *testing.T) {
	v, eng, _ := newTestView()

	eng.AddNode(graph.NodeSpec{Position: pt(0, 0)})
	eng.Clear()
	assert.Zero(t, v.NodeCount())
}

func TestCloseStopsTracking(t *testing.T) {
	v, eng, _ := newTestView()

	v.Close()
	eng.AddNode(graph.NodeSpec{Position: pt(0, 0)})
	assert.Zero(t, v.NodeCount())
}
