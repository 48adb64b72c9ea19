package area

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
)

func newTestStore(positions map[graph.NodeID]geom.Point) (*Store, *event.Bus) {
	bus := event.NewBus()
	s := NewStore(bus, WithNodePositions(func(id graph.NodeID) (geom.Point, bool) {
		p, ok := positions[id]
		return p, ok
	}))
	return s, bus
}

func TestCreate_Defaults(t *testing.T) {
	s, bus := newTestStore(nil)

	var created []RegionCreatedPayload
	bus.On(event.RegionCreated, func(e event.Event) {
		created = append(created, e.Payload.(RegionCreatedPayload))
	})

	a := s.Create(Spec{Rect: geom.Rect{X: 0, Y: 0, W: 100, H: 50}})
	b := s.Create(Spec{Rect: geom.Rect{X: 200, Y: 0, W: 100, H: 50}})

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, ShapeRect, a.Shape)
	assert.Equal(t, AnchorCanvas, a.Anchor.Kind)
	assert.Equal(t, "Area 1", a.Title)
	assert.Equal(t, "Area 2", b.Title)
	assert.NotEmpty(t, a.Color)
	assert.NotEqual(t, a.Color, b.Color, "sequential areas get distinct default colors")
	require.Len(t, created, 2)
}

func TestUpdate_EmitsBeforeAfter(t *testing.T) {
	s, bus := newTestStore(nil)
	a := s.Create(Spec{Rect: geom.Rect{W: 10, H: 10}})

	var updates []RegionUpdatedPayload
	bus.On(event.RegionUpdated, func(e event.Event) {
		updates = append(updates, e.Payload.(RegionUpdatedPayload))
	})

	title := "renamed"
	got := s.Update(a.ID, Patch{Title: &title})

	require.NotNil(t, got)
	assert.Equal(t, "renamed", got.Title)
	require.Len(t, updates, 1)
	assert.Equal(t, a.Title, updates[0].Before.Title)
	assert.Equal(t, "renamed", updates[0].After.Title)
}

func TestUpdate_UnknownIsNoOp(t *testing.T) {
	s, bus := newTestStore(nil)
	fired := false
	bus.On(event.RegionUpdated, func(event.Event) { fired = true })

	assert.Nil(t, s.Update("ghost", Patch{}))
	assert.False(t, fired)
}

func TestRemoveAndRestore(t *testing.T) {
	s, bus := newTestStore(nil)
	a := s.Create(Spec{Rect: geom.Rect{W: 10, H: 10}})

	var deleted []RegionDeletedPayload
	bus.On(event.RegionDeleted, func(e event.Event) {
		deleted = append(deleted, e.Payload.(RegionDeletedPayload))
	})

	s.Remove(a.ID)
	assert.Nil(t, s.Area(a.ID))
	require.Len(t, deleted, 1)

	restored := s.Restore(deleted[0].Area)
	assert.Equal(t, a.ID, restored.ID)
	assert.Equal(t, a.CreatedAt, restored.CreatedAt)
}

func TestEffectiveBounds_NodeAnchorFollows(t *testing.T) {
	positions := map[graph.NodeID]geom.Point{"n1": {X: 100, Y: 100}}
	s, _ := newTestStore(positions)

	a := s.Create(Spec{
		Rect:   geom.Rect{X: 0, Y: 0, W: 40, H: 20},
		Anchor: Anchor{Kind: AnchorNode, NodeID: "n1", Follow: true, Offset: geom.Point{X: 10, Y: 0}},
	})

	bounds, ok := s.EffectiveBounds(a.ID)
	require.True(t, ok)
	assert.Equal(t, geom.Rect{X: 90, Y: 90, W: 40, H: 20}, bounds)

	positions["n1"] = geom.Point{X: 200, Y: 100}
	bounds, ok = s.EffectiveBounds(a.ID)
	require.True(t, ok)
	assert.Equal(t, 180.0, bounds.X, "bounds follow the node")
}

func TestTranslateBy(t *testing.T) {
	s, _ := newTestStore(map[graph.NodeID]geom.Point{"n1": {}})

	canvas := s.Create(Spec{Rect: geom.Rect{X: 0, Y: 0, W: 10, H: 10}})
	locked := s.Create(Spec{Rect: geom.Rect{X: 50, Y: 0, W: 10, H: 10}, Locked: true})
	anchored := s.Create(Spec{
		Rect:   geom.Rect{W: 10, H: 10},
		Anchor: Anchor{Kind: AnchorNode, NodeID: "n1", Follow: true},
	})

	assert.True(t, s.TranslateBy(canvas.ID, geom.Point{X: 5, Y: 5}))
	assert.Equal(t, 5.0, s.Area(canvas.ID).Rect.X)

	assert.False(t, s.TranslateBy(locked.ID, geom.Point{X: 5, Y: 5}))
	assert.Equal(t, 50.0, s.Area(locked.ID).Rect.X)

	assert.False(t, s.TranslateBy(anchored.ID, geom.Point{X: 5, Y: 5}),
		"node-following areas are not independently movable")
}

func TestHitTest_PrefersHigherZ(t *testing.T) {
	s, _ := newTestStore(nil)

	low := s.Create(Spec{Rect: geom.Rect{X: 0, Y: 0, W: 100, H: 100}, ZIndex: 0})
	high := s.Create(Spec{Rect: geom.Rect{X: 50, Y: 50, W: 100, H: 100}, ZIndex: 5})

	hit := s.HitTest(geom.Point{X: 75, Y: 75})
	require.NotNil(t, hit)
	assert.Equal(t, high.ID, hit.ID)

	hit = s.HitTest(geom.Point{X: 10, Y: 10})
	require.NotNil(t, hit)
	assert.Equal(t, low.ID, hit.ID)

	assert.Nil(t, s.HitTest(geom.Point{X: 500, Y: 500}))
}

func TestIntersectingRect(t *testing.T) {
	s, _ := newTestStore(nil)

	a := s.Create(Spec{Rect: geom.Rect{X: 0, Y: 0, W: 50, H: 50}})
	s.Create(Spec{Rect: geom.Rect{X: 500, Y: 500, W: 50, H: 50}})
	c := s.Create(Spec{Shape: ShapeCircle, Circle: geom.Circle{CX: 100, CY: 25, R: 30}})

	got := s.IntersectingRect(geom.Rect{X: 25, Y: 0, W: 60, H: 60})
	assert.Equal(t, []ID{a.ID, c.ID}, got)
}

func TestDetachFromNode(t *testing.T) {
	positions := map[graph.NodeID]geom.Point{"n1": {X: 100, Y: 100}}
	s, _ := newTestStore(positions)

	a := s.Create(Spec{
		Rect:   geom.Rect{W: 40, H: 20},
		Anchor: Anchor{Kind: AnchorNode, NodeID: "n1", Follow: true},
	})

	s.DetachFromNode("n1")

	got := s.Area(a.ID)
	assert.Equal(t, AnchorCanvas, got.Anchor.Kind)
	assert.Equal(t, geom.Rect{X: 80, Y: 90, W: 40, H: 20}, got.Rect,
		"detached area keeps its last effective position")
}

func TestImportJSON_LegacyLayouts(t *testing.T) {
	s, _ := newTestStore(nil)

	legacy := []byte(`{
		"regions": [
			{"id": "a1", "name": "old name", "bounds": {"x": 1, "y": 2, "width": 30, "height": 40}},
			{"id": "a2", "shape": "circle", "circle": {"cx": 10, "cy": 10, "r": 5}, "anchor": "n1"}
		]
	}`)
	require.NoError(t, s.ImportJSON(legacy))

	a1 := s.Area("a1")
	require.NotNil(t, a1)
	assert.Equal(t, "old name", a1.Title)
	assert.Equal(t, geom.Rect{X: 1, Y: 2, W: 30, H: 40}, a1.Rect)
	assert.Equal(t, ShapeRect, a1.Shape)

	a2 := s.Area("a2")
	require.NotNil(t, a2)
	assert.Equal(t, AnchorNode, a2.Anchor.Kind)
	assert.Equal(t, graph.NodeID("n1"), a2.Anchor.NodeID)
	assert.True(t, a2.Anchor.Follow)
}

func TestExportImport_RoundTrip(t *testing.T) {
	s, _ := newTestStore(nil)
	s.Create(Spec{Rect: geom.Rect{X: 1, Y: 2, W: 3, H: 4}, Title: "keep"})

	data, err := s.ExportJSON()
	require.NoError(t, err)

	fresh, _ := newTestStore(nil)
	require.NoError(t, fresh.ImportJSON(data))

	areas := fresh.Areas()
	require.Len(t, areas, 1)
	assert.Equal(t, "keep", areas[0].Title)
	assert.Equal(t, geom.Rect{X: 1, Y: 2, W: 3, H: 4}, areas[0].Rect)
}
