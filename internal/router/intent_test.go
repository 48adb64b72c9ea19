package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/symbolfield/core/internal/view"
)

func TestInterpretIntent(t *testing.T) {
	tests := []struct {
		name string
		g    PointerGesture
		tool view.Tool
		want Intent
	}{
		{
			name: "empty pointer tool starts box select",
			g:    PointerGesture{Target: TargetEmpty},
			tool: view.ToolPointer,
			want: Intent{Kind: IntentBoxSelectStart},
		},
		{
			name: "empty with shift is additive box select",
			g:    PointerGesture{Target: TargetEmpty, Mods: Modifiers{Shift: true}},
			tool: view.ToolPointer,
			want: Intent{Kind: IntentBoxSelectStart, Additive: true},
		},
		{
			name: "empty double click creates node",
			g:    PointerGesture{Target: TargetEmpty, Mods: Modifiers{DoubleClick: true}},
			tool: view.ToolPointer,
			want: Intent{Kind: IntentCreateNode},
		},
		{
			name: "space pans regardless of tool",
			g:    PointerGesture{Target: TargetEmpty, Mods: Modifiers{Space: true}},
			tool: view.ToolArea,
			want: Intent{Kind: IntentPanStart},
		},
		{
			name: "empty with area tool draws region",
			g:    PointerGesture{Target: TargetEmpty},
			tool: view.ToolArea,
			want: Intent{Kind: IntentRegionDraw},
		},
		{
			name: "empty with link tool does nothing",
			g:    PointerGesture{Target: TargetEmpty},
			tool: view.ToolLink,
			want: Intent{Kind: IntentNone},
		},
		{
			name: "node with pointer tool prepares drag",
			g:    PointerGesture{Target: TargetNode, TargetID: "n1"},
			tool: view.ToolPointer,
			want: Intent{Kind: IntentPrepareDrag, NodeID: "n1"},
		},
		{
			name: "node with shift is additive drag",
			g:    PointerGesture{Target: TargetNode, TargetID: "n1", Mods: Modifiers{Shift: true}},
			tool: view.ToolPointer,
			want: Intent{Kind: IntentPrepareDrag, NodeID: "n1", Additive: true},
		},
		{
			name: "node with space pans",
			g:    PointerGesture{Target: TargetNode, TargetID: "n1", Mods: Modifiers{Space: true}},
			tool: view.ToolPointer,
			want: Intent{Kind: IntentPanStart},
		},
		{
			name: "node with link tool arms link",
			g:    PointerGesture{Target: TargetNode, TargetID: "n1"},
			tool: view.ToolLink,
			want: Intent{Kind: IntentStartLink, NodeID: "n1"},
		},
		{
			name: "node with link tool and alt arms associative link",
			g:    PointerGesture{Target: TargetNode, TargetID: "n1", Mods: Modifiers{Alt: true}},
			tool: view.ToolLink,
			want: Intent{Kind: IntentStartLink, NodeID: "n1", Associative: true},
		},
		{
			name: "node with alt arms associative link without the tool",
			g:    PointerGesture{Target: TargetNode, TargetID: "n1", Mods: Modifiers{Alt: true}},
			tool: view.ToolPointer,
			want: Intent{Kind: IntentStartLink, NodeID: "n1", Associative: true},
		},
		{
			name: "node double click opens",
			g:    PointerGesture{Target: TargetNode, TargetID: "n1", Mods: Modifiers{DoubleClick: true}},
			tool: view.ToolPointer,
			want: Intent{Kind: IntentOpenNode, NodeID: "n1"},
		},
		{
			name: "label double click falls through to drag",
			g:    PointerGesture{Target: TargetNode, TargetID: "n1", Part: PartLabel, Mods: Modifiers{DoubleClick: true}},
			tool: view.ToolPointer,
			want: Intent{Kind: IntentPrepareDrag, NodeID: "n1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, interpretIntent(tt.g, tt.tool))
		})
	}
}

func TestModifiersPrimary(t *testing.T) {
	assert.False(t, Modifiers{}.Primary())
	assert.True(t, Modifiers{Ctrl: true}.Primary())
	assert.True(t, Modifiers{Meta: true}.Primary())
	assert.False(t, Modifiers{Shift: true}.Primary())
}
