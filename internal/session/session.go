// Package session owns the process-scoped mutable state shared across
// views: the authenticated identity with its opaque token pair, and
// the unread-notification counter. Views read through accessors;
// mutation happens only through the operations here.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"careerdesk/internal/api"
	"careerdesk/internal/logging"
)

// State is the session store. It implements api.TokenSource so the
// HTTP client can read and rotate the token pair.
type State struct {
	mu     sync.RWMutex
	path   string
	file   sessionFile
	unread int
}

type sessionFile struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	Account      *api.Account `json:"account,omitempty"`
	SavedAt      string       `json:"saved_at"`
}

// New creates a session store persisting at dir/session.json.
func New(dir string) *State {
	return &State{path: filepath.Join(dir, "session.json")}
}

// Load reads the persisted session from disk. A missing file is a
// logged-out state, not an error.
func (s *State) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.file = sessionFile{}
			return nil
		}
		return fmt.Errorf("failed to read session: %w", err)
	}
	var sf sessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("failed to parse session: %w", err)
	}
	s.file = sf
	return nil
}

// save persists the session. Tokens are opaque secrets: 0600, owner
// only.
func (s *State) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	s.file.SavedAt = time.Now().Format(time.RFC3339)
	data, err := json.MarshalIndent(s.file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// AccessToken returns the current access token, or "" when logged out.
func (s *State) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.file.AccessToken
}

// RefreshToken returns the current refresh token, or "".
func (s *State) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.file.RefreshToken
}

// SetTokens stores a new token pair and persists it.
func (s *State) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file.AccessToken = access
	if refresh != "" {
		s.file.RefreshToken = refresh
	}
	logging.Session("token pair rotated")
	return s.save()
}

// SetAccount stores the authenticated identity alongside the tokens.
func (s *State) SetAccount(acct api.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file.Account = &acct
	return s.save()
}

// Account returns the stored identity, or nil when logged out.
func (s *State) Account() *api.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.file.Account == nil {
		return nil
	}
	acct := *s.file.Account
	return &acct
}

// Authenticated reports whether a token pair is present.
func (s *State) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.file.AccessToken != ""
}

// Clear is the logout teardown: wipe in-memory state and remove the
// persisted file.
func (s *State) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = sessionFile{}
	s.unread = 0
	logging.Session("session cleared")
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Unread returns the current unread-notification counter.
func (s *State) Unread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// SetUnread updates the unread counter. In-memory only; the poller
// refreshes it from the backend.
func (s *State) SetUnread(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 0 {
		n = 0
	}
	s.unread = n
}
