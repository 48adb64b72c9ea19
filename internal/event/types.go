package event

// Type identifies an event. The set of types is closed; emitting sites use
// these constants together with the payload structs owned by the emitting
// package, so a payload's shape is fixed by its type.
type Type string

// Domain events. These describe durable graph state changes and are
// retained in the bus history.
const (
	NodeCreated   Type = "NodeCreated"
	NodeUpdated   Type = "NodeUpdated"
	NodeDeleted   Type = "NodeDeleted"
	LinkCreated   Type = "LinkCreated"
	LinkDeleted   Type = "LinkDeleted"
	RegionCreated Type = "RegionCreated"
	RegionUpdated Type = "RegionUpdated"
	RegionDeleted Type = "RegionDeleted"

	SessionStateSet Type = "SessionStateSet"

	SpaceCreated Type = "SpaceCreated"
	SpaceRenamed Type = "SpaceRenamed"
	SpaceDeleted Type = "SpaceDeleted"

	PlaygroundCreated Type = "PlaygroundCreated"
	PlaygroundReset   Type = "PlaygroundReset"

	OnboardingStarted   Type = "OnboardingStarted"
	OnboardingCompleted Type = "OnboardingCompleted"
)

// UI events. Transient application state; not retained.
const (
	SelectionChanged     Type = "SelectionChanged"
	EdgeSelectionChanged Type = "EdgeSelectionChanged"
	AreaSelectionChanged Type = "AreaSelectionChanged"

	ToolChanged       Type = "ToolChanged"
	SpaceChanged      Type = "SpaceChanged"
	FieldScopeChanged Type = "FieldScopeChanged"

	NodeEntered Type = "NodeEntered"
	NodeExited  Type = "NodeExited"
	NowEntered  Type = "NowEntered"
	NowExited   Type = "NowExited"

	SettingsToggled Type = "SettingsToggled"
	PaletteToggled  Type = "PaletteToggled"

	GridSnapChanged           Type = "GridSnapChanged"
	GridStepChanged           Type = "GridStepChanged"
	GridVisibilityChanged     Type = "GridVisibilityChanged"
	EdgesVisibilityChanged    Type = "EdgesVisibilityChanged"
	HudVisibilityChanged      Type = "HudVisibilityChanged"
	CountersVisibilityChanged Type = "CountersVisibilityChanged"
	FocusDimChanged           Type = "FocusDimChanged"

	AddressResolved Type = "AddressResolved"

	GraphUndo    Type = "GraphUndo"
	GraphRedo    Type = "GraphRedo"
	GraphCleared Type = "GraphCleared"

	UISignal          Type = "UISignal"
	UIFocusNode       Type = "UIFocusNode"
	InteractionStart  Type = "UIInteractionStart"
	InteractionUpdate Type = "UIInteractionUpdate"
	InteractionEnd    Type = "UIInteractionEnd"
)

// Overlay events. High-frequency visual hints; not retained.
const (
	LinkPreviewUpdated      Type = "LinkPreviewUpdated"
	SelectionPreviewUpdated Type = "SelectionPreviewUpdated"
)

// Error events. Failures surfaced as typed events rather than panics.
const (
	AddressFailed Type = "AddressFailed"
)

// Category classifies an event for retention and routing. The category is
// assigned from the table below when the event is constructed, never
// inferred from the type's spelling.
type Category int

const (
	// CategoryUI marks transient application-state events.
	CategoryUI Category = iota
	// CategoryDomain marks durable graph mutations kept in bus history.
	CategoryDomain
	// CategoryOverlay marks high-frequency visual-only events.
	CategoryOverlay
	// CategoryError marks surfaced failures.
	CategoryError
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryDomain:
		return "DOMAIN"
	case CategoryOverlay:
		return "OVERLAY"
	case CategoryError:
		return "ERROR"
	case CategoryUI:
		return "UI"
	default:
		return "UNKNOWN"
	}
}

// CategoryOf returns the category for a type. Types outside the closed set
// classify as UI, matching the treatment of ad hoc tooling events.
func CategoryOf(t Type) Category {
	switch t {
	case NodeCreated, NodeUpdated, NodeDeleted,
		LinkCreated, LinkDeleted,
		RegionCreated, RegionUpdated, RegionDeleted,
		SessionStateSet,
		SpaceCreated, SpaceRenamed, SpaceDeleted,
		PlaygroundCreated, PlaygroundReset,
		OnboardingStarted, OnboardingCompleted:
		return CategoryDomain
	case LinkPreviewUpdated, SelectionPreviewUpdated:
		return CategoryOverlay
	case AddressFailed:
		return CategoryError
	default:
		return CategoryUI
	}
}
