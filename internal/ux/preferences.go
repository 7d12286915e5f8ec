// Package ux persists user-interface preferences that must survive
// restarts: per-banner dismissal flags, theme choice, and the default
// dashboard tab. This is the client's durable local storage; it lives
// in ~/.careerdesk/preferences.json until the user clears it.
package ux

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// PreferencesVersion is the current schema version for
// preferences.json.
const PreferencesVersion = "1.0"

// Well-known banner ids.
const (
	BannerEmailVerification = "email_verification"
	BannerPlanUpgrade       = "plan_upgrade"
)

// Preferences is the persisted preference schema.
type Preferences struct {
	// Version is the schema version for migration detection
	Version string `json:"version"`

	// DismissedBanners maps banner id -> dismissal timestamp (RFC3339).
	// Presence means dismissed; the timestamp is informational.
	DismissedBanners map[string]string `json:"dismissed_banners,omitempty"`

	// Theme is "light", "dark", or "" for auto-detect.
	Theme string `json:"theme,omitempty"`

	// DefaultTab is the dashboard tab restored on launch.
	DefaultTab string `json:"default_tab,omitempty"`

	// SearchDebounceMS overrides the search debounce (0 = default).
	SearchDebounceMS int `json:"search_debounce_ms,omitempty"`
}

// Manager handles loading/saving preferences.
type Manager struct {
	mu    sync.RWMutex
	path  string
	prefs *Preferences
}

// NewManager creates a preferences manager rooted at dir
// (normally ~/.careerdesk).
func NewManager(dir string) *Manager {
	return &Manager{path: filepath.Join(dir, "preferences.json")}
}

// DefaultPreferences returns the defaults for a fresh install.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Version:          PreferencesVersion,
		DismissedBanners: make(map[string]string),
	}
}

// Load reads preferences from disk, creating defaults if not exists.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.prefs = DefaultPreferences()
			return nil
		}
		return fmt.Errorf("failed to read preferences: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return fmt.Errorf("failed to parse preferences: %w", err)
	}
	if prefs.DismissedBanners == nil {
		prefs.DismissedBanners = make(map[string]string)
	}
	m.prefs = &prefs
	return nil
}

// Save writes preferences to disk.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save()
}

func (m *Manager) save() error {
	if m.prefs == nil {
		m.prefs = DefaultPreferences()
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	data, err := json.MarshalIndent(m.prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// Get returns the current preferences (thread-safe copy-out is not
// needed; callers treat the pointer as read-only).
func (m *Manager) Get() *Preferences {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.prefs == nil {
		return DefaultPreferences()
	}
	return m.prefs
}

// IsBannerDismissed reports whether the banner was previously
// dismissed.
func (m *Manager) IsBannerDismissed(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.prefs == nil {
		return false
	}
	_, ok := m.prefs.DismissedBanners[id]
	return ok
}

// DismissBanner records a banner dismissal and persists immediately so
// the flag survives a crash.
func (m *Manager) DismissBanner(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prefs == nil {
		m.prefs = DefaultPreferences()
	}
	if _, ok := m.prefs.DismissedBanners[id]; ok {
		return nil
	}
	m.prefs.DismissedBanners[id] = time.Now().Format(time.RFC3339)
	return m.save()
}

// SetTheme updates the theme preference and persists it.
func (m *Manager) SetTheme(theme string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prefs == nil {
		m.prefs = DefaultPreferences()
	}
	m.prefs.Theme = theme
	return m.save()
}

// SetDefaultTab persists the dashboard tab to restore on next launch.
func (m *Manager) SetDefaultTab(tab string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prefs == nil {
		m.prefs = DefaultPreferences()
	}
	m.prefs.DefaultTab = tab
	return m.save()
}
