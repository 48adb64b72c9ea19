package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symbolfield/core/internal/camera"
	"github.com/symbolfield/core/internal/config"
	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
	"github.com/symbolfield/core/internal/selection"
	"github.com/symbolfield/core/internal/view"
)

type fixture struct {
	bus      *event.Bus
	engine   *graph.Engine
	state    *view.State
	cam      *camera.Camera
	sel      *selection.Tracker
	resolver *Resolver
}

func newFixture() *fixture {
	bus := event.NewBus()
	engine := graph.NewEngine(bus)
	state := view.NewState(bus, config.NewMemoryStorage())
	cam := camera.New(800, 600)
	sel := selection.NewTracker(bus, engine)
	return &fixture{
		bus:      bus,
		engine:   engine,
		state:    state,
		cam:      cam,
		sel:      sel,
		resolver: NewResolver(bus, state, cam, sel),
	}
}

func TestBuildResolve_RoundTrip(t *testing.T) {
	f := newFixture()

	n := f.engine.AddNode(graph.NodeSpec{Position: &geom.Point{X: 100, Y: 100}})
	f.state.SetSpace("space-1")
	f.state.SetFieldScope("cluster-1")
	f.cam.SetState(camera.State{Pan: geom.Point{X: 10, Y: 20}, Zoom: 1.5})
	f.sel.Select(n.ID, false)

	addr := f.resolver.Build()
	assert.Equal(t, "space-1", addr.SpaceID)
	assert.Equal(t, graph.NodeID("cluster-1"), addr.Scope)
	require.NotNil(t, addr.Camera.State)
	assert.Equal(t, 1.5, addr.Camera.State.Zoom)
	assert.Equal(t, []graph.NodeID{n.ID}, addr.Selection)

	// Disturb everything, then resolve back.
	fresh := newFixture()
	fresh.engine.AddNode(graph.NodeSpec{ID: n.ID, Position: &geom.Point{X: 100, Y: 100}})
	require.NoError(t, fresh.resolver.Resolve(addr))

	assert.Equal(t, "space-1", fresh.state.SpaceID())
	assert.Equal(t, graph.NodeID("cluster-1"), fresh.state.FieldScope())
	assert.Equal(t, 1.5, fresh.cam.Zoom())
	assert.Equal(t, geom.Point{X: 10, Y: 20}, fresh.cam.State().Pan)
	assert.Equal(t, []graph.NodeID{n.ID}, fresh.sel.IDs())
}

func TestResolve_MissingSpaceFails(t *testing.T) {
	f := newFixture()
	f.state.SetSpace("before")

	var failures []FailedPayload
	resolved := 0
	f.bus.On(event.AddressFailed, func(e event.Event) {
		failures = append(failures, e.Payload.(FailedPayload))
	})
	f.bus.On(event.AddressResolved, func(event.Event) { resolved++ })

	err := f.resolver.Resolve(Address{})
	assert.ErrorIs(t, err, ErrResolve)

	require.Len(t, failures, 1)
	assert.Equal(t, ReasonMissingSpaceID, failures[0].Reason)
	assert.Zero(t, resolved)
	assert.Equal(t, "before", f.state.SpaceID(), "failed resolve leaves state untouched")
}

func TestResolve_NodeTarget(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.resolver.Resolve(Address{
		SpaceID: "s1",
		Target:  Target{Context: view.ContextNode, NodeID: "n7"},
	}))

	assert.Equal(t, view.ContextNode, f.state.Context())
	assert.Equal(t, graph.NodeID("n7"), f.state.ActiveNode())
}

func TestResolve_FitRectCamera(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.resolver.Resolve(Address{
		SpaceID: "s1",
		Camera:  CameraSpec{Fit: &geom.Rect{X: 0, Y: 0, W: 400, H: 400}},
	}))

	// Fit positions the rect center at the viewport center.
	center := f.cam.WorldToScreen(geom.Point{X: 200, Y: 200})
	assert.InDelta(t, 400, center.X, 0.001)
	assert.InDelta(t, 300, center.Y, 0.001)
}

func TestResolve_EmitsResolved(t *testing.T) {
	f := newFixture()

	var payloads []ResolvedPayload
	f.bus.On(event.AddressResolved, func(e event.Event) {
		payloads = append(payloads, e.Payload.(ResolvedPayload))
	})

	require.NoError(t, f.resolver.Resolve(Address{SpaceID: "s1"}))
	require.Len(t, payloads, 1)
	assert.Equal(t, "s1", payloads[0].Address.SpaceID)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	addr := Address{
		SpaceID: "space-1",
		Target:  Target{Context: view.ContextNode, NodeID: "n1"},
		Scope:   "c1",
		Camera: CameraSpec{State: &camera.State{
			Pan:  geom.Point{X: 12.5, Y: -7},
			Zoom: 2,
		}},
		Selection: []graph.NodeID{"n1", "n2"},
	}

	s := Encode(addr)
	assert.Contains(t, s, Scheme)

	got, err := Decode(s)
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}

func TestEncodeDecode_FitRect(t *testing.T) {
	addr := Address{
		SpaceID: "s",
		Camera:  CameraSpec{Fit: &geom.Rect{X: 1, Y: 2, W: 3, H: 4}},
	}
	got, err := Decode(Encode(addr))
	require.NoError(t, err)
	require.NotNil(t, got.Camera.Fit)
	assert.Equal(t, *addr.Camera.Fit, *got.Camera.Fit)
	assert.Nil(t, got.Camera.State)
}

func TestDecode_SchemeOptional(t *testing.T) {
	got, err := Decode(`{"space":"s1"}`)
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SpaceID)
}

func TestResolveString_BadEncoding(t *testing.T) {
	f := newFixture()

	var failures []FailedPayload
	f.bus.On(event.AddressFailed, func(e event.Event) {
		failures = append(failures, e.Payload.(FailedPayload))
	})

	err := f.resolver.ResolveString("sf://{broken")
	assert.ErrorIs(t, err, ErrResolve)
	require.Len(t, failures, 1)
	assert.Equal(t, ReasonBadEncoding, failures[0].Reason)
}
