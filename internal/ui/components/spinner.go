// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/uniconnect/uniconnect-tui/internal/ui/styles"
)

// =============================================================================
// BUSY STATE
// =============================================================================

// Busy tracks outstanding loads. Show and Hide may be called from any
// goroutine and nest: the indicator stays up until every Show is hidden.
type Busy struct {
	mu      sync.Mutex
	depth   int
	message string
}

// Show marks a load as started.
func (b *Busy) Show(msg string) {
	b.mu.Lock()
	b.depth++
	if msg != "" {
		b.message = msg
	}
	b.mu.Unlock()
}

// Hide marks a load as finished.
func (b *Busy) Hide() {
	b.mu.Lock()
	if b.depth > 0 {
		b.depth--
	}
	if b.depth == 0 {
		b.message = ""
	}
	b.mu.Unlock()
}

// Active reports whether any load is outstanding, and its message.
func (b *Busy) Active() (bool, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.depth > 0, b.message
}

// =============================================================================
// SPINNER MODEL
// =============================================================================

// Spinner renders the busy indicator with an ASCII-safe animation.
type Spinner struct {
	spinner spinner.Model
	busy    *Busy
}

// NewSpinner creates a spinner that reflects busy.
func NewSpinner(busy *Busy) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(styles.Purple)
	return Spinner{spinner: s, busy: busy}
}

// Tick starts the animation.
func (s Spinner) Tick() tea.Msg {
	return s.spinner.Tick()
}

// Update handles spinner ticks.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner and the load message, or "" when idle.
func (s Spinner) View() string {
	active, msg := s.busy.Active()
	if !active {
		return ""
	}
	if msg == "" {
		msg = "Loading..."
	}
	return s.spinner.View() + " " + lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(msg)
}
