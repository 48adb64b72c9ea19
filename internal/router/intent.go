package router

import (
	"github.com/symbolfield/core/internal/graph"
	"github.com/symbolfield/core/internal/view"
)

// IntentKind tags the router's interpretation of a raw gesture, prior to
// execution.
type IntentKind string

const (
	IntentNone           IntentKind = "none"
	IntentCreateNode     IntentKind = "create_node"
	IntentPanStart       IntentKind = "pan_start"
	IntentBoxSelectStart IntentKind = "box_select_start"
	IntentRegionDraw     IntentKind = "region_draw_start"
	IntentStartLink      IntentKind = "start_link"
	IntentOpenNode       IntentKind = "open_node"
	IntentPrepareDrag    IntentKind = "prepare_drag"
)

// Intent is the interpreted meaning of a pointer-down gesture.
type Intent struct {
	Kind        IntentKind
	NodeID      graph.NodeID
	Additive    bool
	Associative bool
}

// interpretIntent maps a pointer-down gesture to an intent. It is a pure
// function of the gesture, the active tool, and nothing else, so every
// ambiguous case (click vs drag, arm vs commit) is testable as data in,
// data out. Edge hits are handled before interpretation and never reach
// here.
func interpretIntent(g PointerGesture, tool view.Tool) Intent {
	switch g.Target {
	case TargetEmpty:
		switch {
		case g.Mods.Space:
			return Intent{Kind: IntentPanStart}
		case g.Mods.DoubleClick:
			return Intent{Kind: IntentCreateNode}
		case tool == view.ToolArea:
			return Intent{Kind: IntentRegionDraw}
		case tool == view.ToolPointer:
			return Intent{Kind: IntentBoxSelectStart, Additive: g.Mods.Shift}
		}
		return Intent{Kind: IntentNone}

	case TargetNode:
		id := graph.NodeID(g.TargetID)
		switch {
		case g.Mods.Space:
			return Intent{Kind: IntentPanStart}
		case tool == view.ToolLink:
			return Intent{Kind: IntentStartLink, NodeID: id, Associative: g.Mods.Alt}
		case g.Mods.Alt:
			return Intent{Kind: IntentStartLink, NodeID: id, Associative: true}
		case g.Mods.DoubleClick && g.Part != PartLabel:
			return Intent{Kind: IntentOpenNode, NodeID: id}
		}
		return Intent{Kind: IntentPrepareDrag, NodeID: id, Additive: g.Mods.Shift}
	}
	return Intent{Kind: IntentNone}
}
