package address

import (
	"errors"
	"fmt"

	"github.com/symbolfield/core/internal/camera"
	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
	"github.com/symbolfield/core/internal/selection"
	"github.com/symbolfield/core/internal/view"
)

// Reason codes carried by resolution failures.
const (
	ReasonMissingSpaceID = "missing_space_id"
	ReasonBadEncoding    = "bad_encoding"
)

// ErrResolve indicates an address that could not be applied.
var ErrResolve = errors.New("address: resolve failed")

// Target is where the address points within its space.
type Target struct {
	Context view.Context `json:"context"`
	NodeID  graph.NodeID `json:"nodeId,omitempty"`
}

// CameraSpec restores the viewport either as an explicit pan+zoom or as a
// fit-to-rectangle computed against the viewport at resolve time. At most
// one of the two is set.
type CameraSpec struct {
	State *camera.State `json:"state,omitempty"`
	Fit   *geom.Rect    `json:"fit,omitempty"`
}

// Address is a portable description of a navigation position: space,
// target, cluster scope, camera, and selection. It reconstructs
// view/navigation, camera, and selection state in full.
type Address struct {
	SpaceID   string         `json:"space"`
	Target    Target         `json:"target"`
	Scope     graph.NodeID   `json:"scope,omitempty"`
	Camera    CameraSpec     `json:"camera"`
	Selection []graph.NodeID `json:"selection,omitempty"`
}

// ResolvedPayload accompanies event.AddressResolved.
type ResolvedPayload struct {
	Address Address
}

// FailedPayload accompanies event.AddressFailed.
type FailedPayload struct {
	Reason  string
	Address Address
}

// Resolver builds addresses from live state and applies them back.
type Resolver struct {
	bus   *event.Bus
	state *view.State
	cam   *camera.Camera
	sel   *selection.Tracker
	log   event.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger for resolution warnings.
func WithResolverLogger(l event.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// NewResolver wires a resolver over the navigation state, camera and node
// selection.
func NewResolver(bus *event.Bus, state *view.State, cam *camera.Camera, sel *selection.Tracker, opts ...ResolverOption) *Resolver {
	r := &Resolver{bus: bus, state: state, cam: cam, sel: sel, log: nopLogger{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Build captures the current navigation position as an address.
func (r *Resolver) Build() Address {
	st := r.cam.State()
	a := Address{
		SpaceID: r.state.SpaceID(),
		Target: Target{
			Context: r.state.Context(),
			NodeID:  r.state.ActiveNode(),
		},
		Scope:     r.state.FieldScope(),
		Camera:    CameraSpec{State: &st},
		Selection: r.sel.IDs(),
	}
	return a
}

// Resolve applies an address: space, cluster scope, view context, camera
// and selection, in that order. An address without a space id fails with
// a reason code and emits AddressFailed without touching any state.
func (r *Resolver) Resolve(a Address) error {
	if a.SpaceID == "" {
		r.fail(a, ReasonMissingSpaceID)
		return fmt.Errorf("%w: %s", ErrResolve, ReasonMissingSpaceID)
	}

	r.state.SetSpace(a.SpaceID)
	r.state.SetFieldScope(a.Scope)

	switch a.Target.Context {
	case view.ContextNode:
		r.state.EnterNode(a.Target.NodeID)
	case view.ContextNow:
		r.state.EnterNow("")
	default:
		r.state.ExitNode()
		r.state.ExitNow()
	}

	switch {
	case a.Camera.Fit != nil:
		r.cam.FitRect(*a.Camera.Fit, geom.GridCell)
	case a.Camera.State != nil:
		r.cam.SetState(*a.Camera.State)
	}

	if len(a.Selection) > 0 {
		r.sel.SetSelection(a.Selection, selection.ModeMulti)
	} else {
		r.sel.Clear()
	}

	r.bus.Emit(event.AddressResolved, ResolvedPayload{Address: a})
	return nil
}

// ResolveString decodes and resolves a portable address string.
func (r *Resolver) ResolveString(s string) error {
	a, err := Decode(s)
	if err != nil {
		r.fail(Address{}, ReasonBadEncoding)
		return err
	}
	return r.Resolve(a)
}

func (r *Resolver) fail(a Address, reason string) {
	r.log.Warnf("address: resolve failed: %s", reason)
	r.bus.Emit(event.AddressFailed, FailedPayload{Reason: reason, Address: a})
}
