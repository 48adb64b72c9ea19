package view

import (
	"sync"
	"time"

	"github.com/symbolfield/core/internal/config"
	"github.com/symbolfield/core/internal/event"
	"github.com/symbolfield/core/internal/graph"
)

// Tool is the active interaction tool.
type Tool string

const (
	// ToolPointer selects and drags.
	ToolPointer Tool = "pointer"
	// ToolLink creates edges.
	ToolLink Tool = "link"
	// ToolArea draws overlay regions.
	ToolArea Tool = "area"
)

// Context is the current view level.
type Context string

const (
	// ContextHome is the space-picker level, before any space is open.
	ContextHome Context = "home"
	// ContextSpace is the normal canvas level.
	ContextSpace Context = "space"
	// ContextNode is the deep view inside a single node.
	ContextNode Context = "node"
	// ContextNow is the focus-session view.
	ContextNow Context = "now"
)

// Mode is the coarse application mode.
type Mode string

const (
	// ModeNormal is regular editing.
	ModeNormal Mode = "normal"
	// ModeOnboarding is the guided first-run tour.
	ModeOnboarding Mode = "onboarding"
)

// FocusSession describes an active "now" session.
type FocusSession struct {
	Active    bool   `json:"active"`
	Label     string `json:"label,omitempty"`
	StartedAt int64  `json:"started_at,omitempty"`
}

// State is the navigation state machine: mode, view context, tool, space,
// cluster field scope, deep node, overlay panels, and the persisted
// toggles. Every transition is an explicit setter that no-ops when the
// value is unchanged, emits a dedicated event when it changes, and for
// persisted toggles writes through to settings storage.
type State struct {
	mu         sync.RWMutex
	mode       Mode
	context    Context
	tool       Tool
	spaceID    string
	fieldScope graph.NodeID
	activeNode graph.NodeID
	focus      FocusSession

	paletteOpen  bool
	settingsOpen bool
	drawerOpen   bool

	settings config.Settings

	bus     *event.Bus
	storage config.Storage
	log     event.Logger
}

// StateOption configures a State.
type StateOption func(*State)

// WithStateLogger sets the logger for storage write failures.
func WithStateLogger(l event.Logger) StateOption {
	return func(s *State) {
		if l != nil {
			s.log = l
		}
	}
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// NewState creates the state machine, loading persisted toggles from
// storage.
func NewState(bus *event.Bus, storage config.Storage, opts ...StateOption) *State {
	settings, err := storage.Load()
	s := &State{
		mode:     ModeNormal,
		context:  ContextHome,
		tool:     ToolPointer,
		settings: settings,
		bus:      bus,
		storage:  storage,
		log:      nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if err != nil {
		s.log.Warnf("view: settings load failed, using defaults: %v", err)
	}
	s.spaceID = settings.LastSpaceID
	if s.spaceID != "" {
		s.context = ContextSpace
	}
	return s
}

// SetTool switches the active tool. Reports whether it changed.
func (s *State) SetTool(t Tool) bool {
	s.mu.Lock()
	if s.tool == t {
		s.mu.Unlock()
		return false
	}
	s.tool = t
	s.mu.Unlock()
	s.bus.Emit(event.ToolChanged, ToolChangedPayload{Tool: t})
	return true
}

// SetSpace opens a space, resetting scope state and persisting the id as
// the last visited space.
func (s *State) SetSpace(id string) bool {
	s.mu.Lock()
	if s.spaceID == id {
		s.mu.Unlock()
		return false
	}
	s.spaceID = id
	s.fieldScope = ""
	s.activeNode = ""
	if id == "" {
		s.context = ContextHome
	} else {
		s.context = ContextSpace
	}
	s.settings.LastSpaceID = id
	settings := s.settings
	s.mu.Unlock()

	s.persist(settings)
	s.bus.Emit(event.SpaceChanged, SpaceChangedPayload{SpaceID: id})
	return true
}

// SetFieldScope enters (or with "" exits) a cluster scope.
func (s *State) SetFieldScope(clusterID graph.NodeID) bool {
	s.mu.Lock()
	if s.fieldScope == clusterID {
		s.mu.Unlock()
		return false
	}
	s.fieldScope = clusterID
	s.mu.Unlock()
	s.bus.Emit(event.FieldScopeChanged, FieldScopeChangedPayload{ClusterID: clusterID})
	return true
}

// ToggleFieldScope enters the cluster scope, or exits if it is already
// the active scope.
func (s *State) ToggleFieldScope(clusterID graph.NodeID) {
	if s.FieldScope() == clusterID {
		s.SetFieldScope("")
		return
	}
	s.SetFieldScope(clusterID)
}

// EnterNode switches to the deep node view, resetting the drawer.
func (s *State) EnterNode(id graph.NodeID) bool {
	s.mu.Lock()
	if s.context == ContextNode && s.activeNode == id {
		s.mu.Unlock()
		return false
	}
	s.context = ContextNode
	s.activeNode = id
	s.drawerOpen = false
	s.mu.Unlock()
	s.bus.Emit(event.NodeEntered, NodeEnteredPayload{NodeID: id})
	return true
}

// ExitNode leaves the deep node view back to the space canvas.
func (s *State) ExitNode() bool {
	s.mu.Lock()
	if s.context != ContextNode {
		s.mu.Unlock()
		return false
	}
	id := s.activeNode
	s.context = ContextSpace
	s.activeNode = ""
	s.drawerOpen = false
	s.mu.Unlock()
	s.bus.Emit(event.NodeExited, NodeExitedPayload{NodeID: id})
	return true
}

// EnterNow starts a focus session and emits both the UI transition and
// the durable session event.
func (s *State) EnterNow(label string) bool {
	s.mu.Lock()
	if s.context == ContextNow {
		s.mu.Unlock()
		return false
	}
	s.context = ContextNow
	s.focus = FocusSession{Active: true, Label: label, StartedAt: time.Now().UnixMilli()}
	session := s.focus
	s.mu.Unlock()
	s.bus.Emit(event.NowEntered, NowEnteredPayload{Session: session})
	s.bus.Emit(event.SessionStateSet, SessionStatePayload{Session: session})
	return true
}

// ExitNow ends the focus session.
func (s *State) ExitNow() bool {
	s.mu.Lock()
	if s.context != ContextNow {
		s.mu.Unlock()
		return false
	}
	s.context = ContextSpace
	s.focus = FocusSession{}
	s.mu.Unlock()
	s.bus.Emit(event.NowExited, NowExitedPayload{})
	s.bus.Emit(event.SessionStateSet, SessionStatePayload{Session: FocusSession{}})
	return true
}

// StartOnboarding switches to the guided tour mode.
func (s *State) StartOnboarding() bool {
	s.mu.Lock()
	if s.mode == ModeOnboarding {
		s.mu.Unlock()
		return false
	}
	s.mode = ModeOnboarding
	s.mu.Unlock()
	s.bus.Emit(event.OnboardingStarted, nil)
	return true
}

// CompleteOnboarding returns to normal mode.
func (s *State) CompleteOnboarding() bool {
	s.mu.Lock()
	if s.mode != ModeOnboarding {
		s.mu.Unlock()
		return false
	}
	s.mode = ModeNormal
	s.mu.Unlock()
	s.bus.Emit(event.OnboardingCompleted, nil)
	return true
}

// SetPaletteOpen opens or closes the command palette.
func (s *State) SetPaletteOpen(open bool) bool {
	s.mu.Lock()
	if s.paletteOpen == open {
		s.mu.Unlock()
		return false
	}
	s.paletteOpen = open
	s.mu.Unlock()
	s.bus.Emit(event.PaletteToggled, PanelToggledPayload{Open: open})
	return true
}

// SetSettingsOpen opens or closes the settings panel.
func (s *State) SetSettingsOpen(open bool) bool {
	s.mu.Lock()
	if s.settingsOpen == open {
		s.mu.Unlock()
		return false
	}
	s.settingsOpen = open
	s.mu.Unlock()
	s.bus.Emit(event.SettingsToggled, PanelToggledPayload{Open: open})
	return true
}

// SetDrawerOpen opens or closes the node-view drawer.
func (s *State) SetDrawerOpen(open bool) {
	s.mu.Lock()
	s.drawerOpen = open
	s.mu.Unlock()
}

func (s *State) persist(settings config.Settings) {
	if err := s.storage.Save(settings); err != nil {
		s.log.Warnf("view: settings save failed: %v", err)
	}
}

// Accessors.

// Mode returns the application mode.
func (s *State) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Context returns the view context.
func (s *State) Context() Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.context
}

// Tool returns the active tool.
func (s *State) Tool() Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tool
}

// SpaceID returns the open space id, or "".
func (s *State) SpaceID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spaceID
}

// FieldScope returns the active cluster scope, or "".
func (s *State) FieldScope() graph.NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fieldScope
}

// ActiveNode returns the deep-view node id, or "".
func (s *State) ActiveNode() graph.NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeNode
}

// Focus returns the focus-session state.
func (s *State) Focus() FocusSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focus
}

// PaletteOpen reports whether the palette is open.
func (s *State) PaletteOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paletteOpen
}

// SettingsOpen reports whether the settings panel is open.
func (s *State) SettingsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settingsOpen
}

// DrawerOpen reports whether the node-view drawer is open.
func (s *State) DrawerOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drawerOpen
}

// Settings returns the persisted toggle snapshot.
func (s *State) Settings() config.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}
