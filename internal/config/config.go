// Package config holds the persisted UI settings and their storage
// backends. The view state machine writes through to a Storage on every
// toggle change; everything else about view state is transient.
package config

import (
	"github.com/symbolfield/core/internal/geom"
)

// Settings is the persisted snapshot of user-facing toggles.
type Settings struct {
	GridSnap        bool    `yaml:"grid_snap" json:"gridSnap"`
	GridStep        float64 `yaml:"grid_step" json:"gridStep"`
	GridVisible     bool    `yaml:"grid_visible" json:"gridVisible"`
	EdgesVisible    bool    `yaml:"edges_visible" json:"edgesVisible"`
	HudVisible      bool    `yaml:"hud_visible" json:"hudVisible"`
	CountersVisible bool    `yaml:"counters_visible" json:"countersVisible"`
	FocusDim        bool    `yaml:"focus_dim" json:"focusDim"`
	LastSpaceID     string  `yaml:"last_space_id,omitempty" json:"lastSpaceId,omitempty"`
}

// Default returns the settings of a fresh install.
func Default() Settings {
	return Settings{
		GridSnap:        true,
		GridStep:        geom.GridCell,
		GridVisible:     true,
		EdgesVisible:    true,
		HudVisible:      true,
		CountersVisible: false,
		FocusDim:        true,
	}
}

// Normalize fixes up values that would break grid math.
func (s Settings) Normalize() Settings {
	if s.GridStep <= 0 {
		s.GridStep = geom.GridCell
	}
	return s
}

// Storage persists settings. Implementations must tolerate Load before
// any Save and return defaults in that case.
type Storage interface {
	Load() (Settings, error)
	Save(Settings) error
}
