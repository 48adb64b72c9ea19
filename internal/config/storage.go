package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// MemoryStorage keeps settings in memory, for tests and for running
// without a settings path configured.
type MemoryStorage struct {
	mu       sync.Mutex
	settings Settings
	saved    bool
}

// NewMemoryStorage creates an in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Load returns the last saved settings, or defaults before any save.
func (m *MemoryStorage) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return Default(), nil
	}
	return m.settings.Normalize(), nil
}

// Save stores the settings.
func (m *MemoryStorage) Save(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	m.saved = true
	return nil
}

// FileStorage persists settings as a YAML file.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage creates a YAML-backed storage at path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads settings from the file, returning defaults when the file
// does not exist yet.
func (f *FileStorage) Load() (Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("load settings: %w", err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("parse settings: %w", err)
	}
	return s.Normalize(), nil
}

// Save writes settings to the file, creating parent directories as
// needed.
func (f *FileStorage) Save(s Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
