// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import (
	"sort"
	"sync"
)

// =============================================================================
// SCREEN
// =============================================================================

// Token identifies one load into a region. Only the latest token issued for a
// region may commit.
type Token struct {
	Region string
	Gen    uint64
}

// Update pairs a token with the content it commits.
type Update struct {
	Token Token
	Node  Node
}

type region struct {
	gen     uint64
	content Node
	filled  bool
}

// Screen holds the current content of every region. It is safe for
// concurrent use; loads may finish in any order.
type Screen struct {
	mu       sync.Mutex
	regions  map[string]*region
	visible  map[string]bool
	onChange func()
}

// NewScreen returns an empty screen. The contributors panel starts visible.
func NewScreen() *Screen {
	return &Screen{
		regions: make(map[string]*region),
		visible: map[string]bool{RegionContributors: true},
	}
}

// OnChange registers fn to run after every successful commit or
// visibility change. fn runs without the screen lock held.
func (s *Screen) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Screen) regionLocked(id string) *region {
	r, ok := s.regions[id]
	if !ok {
		r = &region{}
		s.regions[id] = r
	}
	return r
}

// Begin starts a load into a region and supersedes every earlier token for
// it.
func (s *Screen) Begin(id string) Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.regionLocked(id)
	r.gen++
	return Token{Region: id, Gen: r.gen}
}

// Latest returns the newest token of a region without superseding it.
// Background refreshes use it so they never cancel a user-started load.
func (s *Screen) Latest(id string) Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Token{Region: id, Gen: s.regionLocked(id).gen}
}

// Commit replaces the region's whole content with n if tok is still current.
// A superseded commit is dropped and Commit returns false.
func (s *Screen) Commit(tok Token, n Node) bool {
	return s.CommitAll([]Update{{Token: tok, Node: n}})
}

// CommitAll applies every update or none: if any token is superseded nothing
// changes.
func (s *Screen) CommitAll(updates []Update) bool {
	s.mu.Lock()
	for _, u := range updates {
		r, ok := s.regions[u.Token.Region]
		if !ok || r.gen != u.Token.Gen {
			s.mu.Unlock()
			return false
		}
	}
	for _, u := range updates {
		r := s.regions[u.Token.Region]
		r.content = u.Node
		r.filled = true
	}
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
	return true
}

// Clear empties a region and supersedes pending loads into it.
func (s *Screen) Clear(id string) {
	s.mu.Lock()
	r := s.regionLocked(id)
	r.gen++
	r.content = Node{}
	r.filled = false
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Reset empties every region and supersedes all pending loads.
func (s *Screen) Reset() {
	s.mu.Lock()
	for _, r := range s.regions {
		r.gen++
		r.content = Node{}
		r.filled = false
	}
	s.visible = map[string]bool{RegionContributors: true}
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// SetVisible makes exactly the given regions visible, plus the contributors
// panel.
func (s *Screen) SetVisible(ids ...string) {
	s.mu.Lock()
	s.visible = map[string]bool{RegionContributors: true}
	for _, id := range ids {
		s.visible[id] = true
	}
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// IsVisible reports whether a region is shown.
func (s *Screen) IsVisible(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible[id]
}

// Visible returns the visible region ids in sorted order.
func (s *Screen) Visible() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.visible))
	for id := range s.visible {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Region returns a region's content and whether anything was committed.
func (s *Screen) Region(id string) (Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.regions[id]
	if !ok || !r.filled {
		return Node{}, false
	}
	return r.content, true
}

// Count returns how many nodes of kind k the region currently holds.
func (s *Screen) Count(id string, k Kind) int {
	n, ok := s.Region(id)
	if !ok {
		return 0
	}
	return CountKind(n, k)
}

