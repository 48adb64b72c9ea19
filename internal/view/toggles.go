package view

import (
	"github.com/symbolfield/core/internal/config"
	"github.com/symbolfield/core/internal/event"
)

// Persisted toggles. Each setter is a no-op when the value is unchanged;
// otherwise it updates the snapshot, writes through to storage, and emits
// its dedicated event.

func (s *State) setToggle(t event.Type, mutate func(*config.Settings) bool, payload func(config.Settings) any) bool {
	s.mu.Lock()
	if !mutate(&s.settings) {
		s.mu.Unlock()
		return false
	}
	settings := s.settings
	s.mu.Unlock()

	s.persist(settings)
	s.bus.Emit(t, payload(settings))
	return true
}

// SetGridSnap toggles snap-to-grid.
func (s *State) SetGridSnap(on bool) bool {
	return s.setToggle(event.GridSnapChanged,
		func(c *config.Settings) bool {
			if c.GridSnap == on {
				return false
			}
			c.GridSnap = on
			return true
		},
		func(c config.Settings) any { return ToggleChangedPayload{Enabled: c.GridSnap} },
	)
}

// SetGridStep sets the grid cell size used for snapping. Non-positive
// values are ignored.
func (s *State) SetGridStep(step float64) bool {
	if step <= 0 {
		return false
	}
	return s.setToggle(event.GridStepChanged,
		func(c *config.Settings) bool {
			if c.GridStep == step {
				return false
			}
			c.GridStep = step
			return true
		},
		func(c config.Settings) any { return GridStepChangedPayload{Step: c.GridStep} },
	)
}

// SetGridVisible toggles grid rendering.
func (s *State) SetGridVisible(on bool) bool {
	return s.setToggle(event.GridVisibilityChanged,
		func(c *config.Settings) bool {
			if c.GridVisible == on {
				return false
			}
			c.GridVisible = on
			return true
		},
		func(c config.Settings) any { return ToggleChangedPayload{Enabled: c.GridVisible} },
	)
}

// SetEdgesVisible toggles edge rendering.
func (s *State) SetEdgesVisible(on bool) bool {
	return s.setToggle(event.EdgesVisibilityChanged,
		func(c *config.Settings) bool {
			if c.EdgesVisible == on {
				return false
			}
			c.EdgesVisible = on
			return true
		},
		func(c config.Settings) any { return ToggleChangedPayload{Enabled: c.EdgesVisible} },
	)
}

// SetHudVisible toggles the HUD.
func (s *State) SetHudVisible(on bool) bool {
	return s.setToggle(event.HudVisibilityChanged,
		func(c *config.Settings) bool {
			if c.HudVisible == on {
				return false
			}
			c.HudVisible = on
			return true
		},
		func(c config.Settings) any { return ToggleChangedPayload{Enabled: c.HudVisible} },
	)
}

// SetCountersVisible toggles the node/edge counters.
func (s *State) SetCountersVisible(on bool) bool {
	return s.setToggle(event.CountersVisibilityChanged,
		func(c *config.Settings) bool {
			if c.CountersVisible == on {
				return false
			}
			c.CountersVisible = on
			return true
		},
		func(c config.Settings) any { return ToggleChangedPayload{Enabled: c.CountersVisible} },
	)
}

// SetFocusDim toggles dimming of out-of-scope nodes.
func (s *State) SetFocusDim(on bool) bool {
	return s.setToggle(event.FocusDimChanged,
		func(c *config.Settings) bool {
			if c.FocusDim == on {
				return false
			}
			c.FocusDim = on
			return true
		},
		func(c config.Settings) any { return ToggleChangedPayload{Enabled: c.FocusDim} },
	)
}
