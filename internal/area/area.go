package area

import (
	"time"

	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
)

// ID identifies an area.
type ID string

// Shape selects an area's geometry kind.
type Shape string

const (
	// ShapeRect is an axis-aligned rectangle.
	ShapeRect Shape = "rect"
	// ShapeCircle is a circle.
	ShapeCircle Shape = "circle"
)

// AnchorKind selects what an area's geometry is rooted to.
type AnchorKind string

const (
	// AnchorCanvas fixes the area in world coordinates.
	AnchorCanvas AnchorKind = "canvas"
	// AnchorNode roots the area to a node's position.
	AnchorNode AnchorKind = "node"
)

// Anchor describes what an area is attached to. Node-anchored areas with
// Follow set derive their geometry from the node position plus Offset and
// are not independently movable; changing the anchor is the only way to
// re-root them.
type Anchor struct {
	Kind   AnchorKind   `json:"kind"`
	NodeID graph.NodeID `json:"nodeId,omitempty"`
	Follow bool         `json:"follow,omitempty"`
	Offset geom.Point   `json:"offset,omitempty"`
}

// Area is a freeform overlay region. Exactly one of Rect or Circle is
// meaningful, selected by Shape; both are stored so patches can switch
// shape without losing the other geometry.
type Area struct {
	ID     ID          `json:"id"`
	Shape  Shape       `json:"shape"`
	Rect   geom.Rect   `json:"rect"`
	Circle geom.Circle `json:"circle"`
	Anchor Anchor      `json:"anchor"`

	Title  string `json:"title"`
	Color  string `json:"color"`
	ZIndex int    `json:"zIndex"`
	Locked bool   `json:"locked"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Clone returns a copy of the area.
func (a *Area) Clone() *Area {
	c := *a
	return &c
}

// BaseBounds returns the area's stored bounding rect, ignoring anchors.
func (a *Area) BaseBounds() geom.Rect {
	if a.Shape == ShapeCircle {
		return a.Circle.Bounds()
	}
	return a.Rect
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// Spec describes an area to create. Zero-value fields take store defaults:
// a generated id, canvas anchor, a sequential "Area N" title, and a
// deterministic default color.
type Spec struct {
	ID     ID
	Shape  Shape
	Rect   geom.Rect
	Circle geom.Circle
	Anchor Anchor
	Title  string
	Color  string
	ZIndex int
	Locked bool
}

// Patch is a merge patch for Update. Nil fields are untouched.
type Patch struct {
	Shape  *Shape
	Rect   *geom.Rect
	Circle *geom.Circle
	Anchor *Anchor
	Title  *string
	Color  *string
	ZIndex *int
	Locked *bool
}
