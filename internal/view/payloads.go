package view

import "github.com/symbolfield/core/internal/graph"

// Event payloads emitted by the state machine.

// ToolChangedPayload accompanies event.ToolChanged.
type ToolChangedPayload struct {
	Tool Tool
}

// SpaceChangedPayload accompanies event.SpaceChanged.
type SpaceChangedPayload struct {
	SpaceID string
}

// FieldScopeChangedPayload accompanies event.FieldScopeChanged. An empty
// ClusterID means scope was cleared.
type FieldScopeChangedPayload struct {
	ClusterID graph.NodeID
}

// NodeEnteredPayload accompanies event.NodeEntered.
type NodeEnteredPayload struct {
	NodeID graph.NodeID
}

// NodeExitedPayload accompanies event.NodeExited.
type NodeExitedPayload struct {
	NodeID graph.NodeID
}

// NowEnteredPayload accompanies event.NowEntered.
type NowEnteredPayload struct {
	Session FocusSession
}

// NowExitedPayload accompanies event.NowExited.
type NowExitedPayload struct{}

// SessionStatePayload accompanies event.SessionStateSet.
type SessionStatePayload struct {
	Session FocusSession
}

// PanelToggledPayload accompanies event.PaletteToggled and
// event.SettingsToggled.
type PanelToggledPayload struct {
	Open bool
}

// ToggleChangedPayload accompanies the boolean visibility toggles.
type ToggleChangedPayload struct {
	Enabled bool
}

// GridStepChangedPayload accompanies event.GridStepChanged.
type GridStepChangedPayload struct {
	Step float64
}
