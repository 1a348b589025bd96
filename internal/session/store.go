// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/uniconnect/uniconnect-tui/internal/util"
)

// FileName is the session file inside the session directory.
const FileName = "session.json"

// ErrIncompleteSession is returned when a caller tries to store a token
// without a user or a user without a token.
var ErrIncompleteSession = errors.New("session: token and user must be set together")

// =============================================================================
// TYPES
// =============================================================================

// User is the identity returned by the auth endpoints.
type User struct {
	UserID       int64  `json:"userId"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	UniversityID int64  `json:"universityId"`
}

// Snapshot is a consistent copy of the session.
type Snapshot struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
	Guest bool   `json:"guest,omitempty"`
}

// Authenticated reports whether the snapshot carries a token.
func (s Snapshot) Authenticated() bool {
	return s.Token != ""
}

// UserID returns the session user's id, or 0 when there is no user.
func (s Snapshot) UserID() int64 {
	if s.User == nil {
		return 0
	}
	return s.User.UserID
}

// normalized drops a half-present identity so that token and user are
// observed together or not at all.
func (s Snapshot) normalized() Snapshot {
	if s.Token == "" || s.User == nil {
		s.Token = ""
		s.User = nil
	}
	return s
}

func (s Snapshot) clone() Snapshot {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// =============================================================================
// STORE
// =============================================================================

// Store holds the session in memory and, unless created with
// NewMemoryStore, mirrors it to a file.
type Store struct {
	mu    sync.RWMutex
	path  string
	state Snapshot
}

// NewStore opens the session stored in dir, creating nothing until the
// first write. A corrupt or half-written file is treated as no session.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("session: directory is required")
	}
	s := &Store{path: filepath.Join(dir, FileName)}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemoryStore returns a store that is never persisted.
func NewMemoryStore() *Store {
	return &Store{}
}

// Path returns the session file path, or "" for a memory store.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the session file. Missing or unreadable content yields
// an empty session.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	snap, err := readFile(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.state = snap
	s.mu.Unlock()
	return nil
}

func readFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read session: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, nil
	}
	return snap.normalized(), nil
}

// SetSession stores token and user together. The file is written before
// memory is updated, so a failed write leaves the previous session intact.
// A successful login leaves guest mode.
func (s *Store) SetSession(token string, user *User) error {
	if token == "" || user == nil {
		return ErrIncompleteSession
	}
	u := *user
	return s.replace(func(cur Snapshot) Snapshot {
		return Snapshot{Token: token, User: &u}
	})
}

// Token returns the bearer token, or "" when there is none.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// User returns a copy of the session user, or nil when there is none.
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

// Snapshot returns a consistent copy of token, user and guest flag.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// IsAuthenticated reports whether a token is present.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// Clear removes token and user together. The guest flag is kept.
func (s *Store) Clear() error {
	return s.replace(func(cur Snapshot) Snapshot {
		return Snapshot{Guest: cur.Guest}
	})
}

// ClearAll removes token, user and the guest flag.
func (s *Store) ClearAll() error {
	return s.replace(func(Snapshot) Snapshot { return Snapshot{} })
}

// SetGuest sets or clears the guest flag without touching the identity.
func (s *Store) SetGuest(guest bool) error {
	return s.replace(func(cur Snapshot) Snapshot {
		cur.Guest = guest
		return cur
	})
}

// IsGuest reports whether guest mode is on.
func (s *Store) IsGuest() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Guest
}

// replace computes the next state under the lock, persists it and then
// swaps it in.
func (s *Store) replace(next func(Snapshot) Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := next(s.state.clone()).normalized()
	if err := s.persist(snap); err != nil {
		return err
	}
	s.state = snap
	return nil
}

func (s *Store) persist(snap Snapshot) error {
	if s.path == "" {
		return nil
	}
	if !snap.Authenticated() && !snap.Guest {
		return util.RemoveIfExists(s.path)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	// SECURITY: the file carries a bearer token; owner-only access.
	if err := util.AtomicWriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
