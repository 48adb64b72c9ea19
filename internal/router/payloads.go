package router

import (
	"github.com/symbolfield/core/internal/geom"
	"github.com/symbolfield/core/internal/graph"
)

// Event payloads emitted by the router.

// InteractionStartPayload accompanies event.InteractionStart. Positions
// is the pointer-down snapshot of dragged node positions; nil for
// non-drag interactions. The undo manager uses it to capture a drag as a
// single command.
type InteractionStartPayload struct {
	Kind      InteractionKind
	Positions map[graph.NodeID]geom.Point
}

// InteractionUpdatePayload accompanies event.InteractionUpdate.
type InteractionUpdatePayload struct {
	Kind InteractionKind
	// Rect is the live marquee or region rect; nil for other kinds.
	Rect *geom.Rect
	// Delta is the accumulated world-space delta for drags and pans.
	Delta geom.Point
}

// InteractionEndPayload accompanies event.InteractionEnd. Start and End
// carry the drag position maps; for a click reinterpreted as selection
// they are equal, which downstream consumers treat as no mutation.
type InteractionEndPayload struct {
	Kind     InteractionKind
	Start    map[graph.NodeID]geom.Point
	End      map[graph.NodeID]geom.Point
	Canceled bool
}

// LinkPreviewPayload accompanies event.LinkPreviewUpdated. Active false
// clears the preview. The line runs from the source node's boundary, not
// its center, to the pointer.
type LinkPreviewPayload struct {
	Active      bool
	Source      graph.NodeID
	Line        geom.Line
	Associative bool
}

// SelectionPreviewPayload accompanies event.SelectionPreviewUpdated.
// Active false clears the marquee.
type SelectionPreviewPayload struct {
	Active   bool
	Rect     geom.Rect
	Additive bool
}
