package router

import (
	"github.com/symbolfield/core/internal/area"
	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
)

// InteractionKind tags an active interaction variant.
type InteractionKind string

const (
	KindBoxSelect   InteractionKind = "box_select"
	KindRegionDraw  InteractionKind = "region_draw"
	KindDragNodes   InteractionKind = "drag_nodes"
	KindPan         InteractionKind = "pan"
	KindLinkArm     InteractionKind = "link_arm"
	KindLinkDrag    InteractionKind = "link_drag"
	KindLinkPreview InteractionKind = "link_preview"
)

// Interaction is the single in-flight gesture. Exactly one variant per
// kind; each carries only the fields its kind needs. At most one
// interaction is active at a time.
type Interaction interface {
	Kind() InteractionKind
}

// BoxSelect is a marquee selection in progress.
type BoxSelect struct {
	Start    geom.Point
	Last     geom.Point
	Additive bool
}

func (*BoxSelect) Kind() InteractionKind { return KindBoxSelect }

// RegionDraw is an overlay area being drawn.
type RegionDraw struct {
	Start geom.Point
	Last  geom.Point
	Shape area.Shape
}

func (*RegionDraw) Kind() InteractionKind { return KindRegionDraw }

// DragNodes is a node drag in progress. Start holds the world position of
// every dragged node at pointer-down; the live position is always
// Start[id] plus the screen delta converted to world units.
type DragNodes struct {
	IDs         []graph.NodeID
	Start       map[graph.NodeID]geom.Point
	StartScreen geom.Point
	LastScreen  geom.Point

	// AreaIDs are multi-selected areas riding along with the drag;
	// AreaDelta accumulates the world delta already applied to them.
	AreaIDs   []area.ID
	AreaDelta geom.Point

	// PendingSelect defers selection to pointer-up: a click without
	// movement selects instead of dragging.
	PendingSelect bool
	PendingMulti  bool
	ClickedID     graph.NodeID
}

func (*DragNodes) Kind() InteractionKind { return KindDragNodes }

// Pan is a camera pan in progress.
type Pan struct {
	LastScreen geom.Point
}

func (*Pan) Kind() InteractionKind { return KindPan }

// LinkArm is a link armed on pointer-down but not yet dragged far enough
// to commit to dragging.
type LinkArm struct {
	Source      graph.NodeID
	StartScreen geom.Point
	Associative bool
}

func (*LinkArm) Kind() InteractionKind { return KindLinkArm }

// LinkDrag is a link being dragged from a source node.
type LinkDrag struct {
	Source      graph.NodeID
	LastWorld   geom.Point
	Associative bool
}

func (*LinkDrag) Kind() InteractionKind { return KindLinkDrag }

// LinkPreview is the sticky keyboard-initiated link mode: a source is
// armed and the next click picks (or creates) the target.
type LinkPreview struct {
	Source      graph.NodeID
	LastWorld   geom.Point
	Associative bool
}

func (*LinkPreview) Kind() InteractionKind { return KindLinkPreview }
