package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
)

type stubNodes map[graph.NodeID]geom.Point

func (s stubNodes) Node(id graph.NodeID) *graph.Node {
	p, ok := s[id]
	if !ok {
		return nil
	}
	return &graph.Node{ID: id, Type: graph.TypeNode, Position: p}
}

func newTestTracker(nodes stubNodes) (*Tracker, *event.Bus) {
	bus := event.NewBus()
	return NewTracker(bus, nodes), bus
}

func TestSelect_ReplaceAndMulti(t *testing.T) {
	tr, bus := newTestTracker(stubNodes{"a": {}, "b": {X: 100}})

	var changes []ChangedPayload
	bus.On(event.SelectionChanged, func(e event.Event) {
		changes = append(changes, e.Payload.(ChangedPayload))
	})

	tr.Select("a", false)
	tr.Select("b", false)
	assert.Equal(t, []graph.NodeID{"b"}, tr.IDs())
	assert.Equal(t, graph.NodeID("b"), tr.Primary())
	assert.Equal(t, ModeSingle, tr.Mode())

	tr.Select("a", true)
	assert.Equal(t, []graph.NodeID{"b", "a"}, tr.IDs())
	assert.Equal(t, graph.NodeID("a"), tr.Primary())
	assert.Equal(t, ModeMulti, tr.Mode())

	require.Len(t, changes, 3)
	assert.Equal(t, []graph.NodeID{"b", "a"}, changes[2].IDs)
}

func TestToggle_ReelectsPrimary(t *testing.T) {
	tr, _ := newTestTracker(stubNodes{"a": {}, "b": {X: 100}, "c": {X: 200}})

	tr.SetSelection([]graph.NodeID{"a", "b", "c"}, ModeBox)
	assert.Equal(t, graph.NodeID("c"), tr.Primary())

	tr.Toggle("c")
	assert.False(t, tr.Has("c"))
	assert.Equal(t, graph.NodeID("b"), tr.Primary(), "primary re-elected from remaining members")

	tr.Toggle("c")
	assert.True(t, tr.Has("c"))
	assert.Equal(t, graph.NodeID("c"), tr.Primary())
}

func TestSetSelection_DeduplicatesAndSetsMode(t *testing.T) {
	tr, _ := newTestTracker(stubNodes{"a": {}, "b": {X: 100}})

	tr.SetSelection([]graph.NodeID{"a", "b", "a"}, ModeBox)
	assert.Equal(t, []graph.NodeID{"a", "b"}, tr.IDs())
	assert.Equal(t, ModeBox, tr.Mode())
	assert.Equal(t, graph.NodeID("b"), tr.Primary())
}

func TestBounds_PaddedMinMax(t *testing.T) {
	tr, _ := newTestTracker(stubNodes{
		"a": {X: 0, Y: 0},
		"b": {X: 100, Y: 50},
	})

	tr.SetSelection([]graph.NodeID{"a", "b"}, ModeBox)

	b := tr.Bounds()
	require.NotNil(t, b)
	assert.Equal(t, geom.Rect{
		X: -BoundsPadding,
		Y: -BoundsPadding,
		W: 100 + 2*BoundsPadding,
		H: 50 + 2*BoundsPadding,
	}, *b)
}

func TestBounds_NilWhenEmpty(t *testing.T) {
	tr, _ := newTestTracker(stubNodes{"a": {}})

	tr.Select("a", false)
	require.NotNil(t, tr.Bounds())

	tr.Clear()
	assert.Nil(t, tr.Bounds())
	assert.True(t, tr.IsEmpty())
}

func TestClear_NoEventWhenAlreadyEmpty(t *testing.T) {
	tr, bus := newTestTracker(stubNodes{})
	count := 0
	bus.On(event.SelectionChanged, func(event.Event) { count++ })

	tr.Clear()
	assert.Zero(t, count)
}

func TestRemove_DeletedNode(t *testing.T) {
	tr, _ := newTestTracker(stubNodes{"a": {}, "b": {X: 100}})

	tr.SetSelection([]graph.NodeID{"a", "b"}, ModeMulti)
	tr.Remove("b")

	assert.Equal(t, []graph.NodeID{"a"}, tr.IDs())
	assert.Equal(t, graph.NodeID("a"), tr.Primary())
}

func TestEdgeSet(t *testing.T) {
	bus := event.NewBus()
	es := NewEdgeSet(bus)

	var changes []EdgeSetPayload
	bus.On(event.EdgeSelectionChanged, func(e event.Event) {
		changes = append(changes, e.Payload.(EdgeSetPayload))
	})

	es.Select("e1", false)
	es.Select("e2", true)
	assert.Equal(t, []graph.EdgeID{"e1", "e2"}, es.IDs())

	es.Toggle("e1")
	assert.False(t, es.Has("e1"))

	es.Select("e3", false)
	assert.Equal(t, []graph.EdgeID{"e3"}, es.IDs())

	es.Clear()
	assert.Zero(t, es.Count())
	assert.Len(t, changes, 5)
}

func TestAreaSet_PrimaryElection(t *testing.T) {
	bus := event.NewBus()
	as := NewAreaSet(bus)

	as.Select("a1", false)
	as.Select("a2", true)
	assert.Equal(t, "a2", string(as.Primary()))

	as.Toggle("a2")
	assert.Equal(t, "a1", string(as.Primary()))

	as.Clear()
	assert.Zero(t, as.Count())
	assert.Equal(t, "", string(as.Primary()))
}
