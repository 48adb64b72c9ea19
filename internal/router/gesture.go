package router

import (
	"github.com/symbolfield/core/internal/geom"
)

// TargetType is the input layer's pre-classification of what sits under
// the pointer.
type TargetType string

const (
	// TargetNode means the pointer is over a node.
	TargetNode TargetType = "node"
	// TargetEdge means the pointer is over an edge.
	TargetEdge TargetType = "edge"
	// TargetEmpty means the pointer is over empty canvas.
	TargetEmpty TargetType = "empty"
)

// PartLabel tags a hit on a node's label, which is excluded from
// node-open semantics.
const PartLabel = "label"

// Modifiers carries the modifier flags attached to a gesture. DoubleClick
// is supplied by the input layer, which owns the double-click timer.
type Modifiers struct {
	Shift       bool
	Ctrl        bool
	Alt         bool
	Meta        bool
	Space       bool
	DoubleClick bool
}

// Primary reports whether the platform primary-command modifier is held
// (Meta on macOS, Ctrl elsewhere).
func (m Modifiers) Primary() bool {
	return m.Meta || m.Ctrl
}

// PointerGesture is one pointer event from the input layer: world and
// screen coordinates plus the pre-classified target.
type PointerGesture struct {
	World  geom.Point
	Screen geom.Point
	Button int
	Mods   Modifiers

	Target   TargetType
	TargetID string
	// Part refines the hit within the target, e.g. PartLabel.
	Part string
}

// KeyGesture is one keyboard event from the input layer.
type KeyGesture struct {
	// Key is the logical key: single letters lowercase, specials spelled
	// out ("Escape", "Enter", "Delete", "Backspace").
	Key  string
	Mods Modifiers
}
