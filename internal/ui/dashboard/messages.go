// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/uniconnect/uniconnect-tui/internal/session"
)

// =============================================================================
// MESSAGES
// =============================================================================

// screenChangedMsg is sent after the view screen changed.
type screenChangedMsg struct{}

// redirectMsg is sent when the gateway sends the user back to login.
type redirectMsg struct{}

// sessionChangedMsg carries a session file change made by another process.
type sessionChangedMsg struct {
	snap session.Snapshot
}

// pollTickMsg starts a chat refresh. seq ties it to one poll chain.
type pollTickMsg struct {
	seq int
}

// pollDoneMsg ends a chat refresh.
type pollDoneMsg struct {
	seq int
}

// authDoneMsg ends a login, registration or guest entry.
type authDoneMsg struct {
	err error
}

// actionDoneMsg ends a controller action started from the dashboard.
type actionDoneMsg struct {
	err error
}

// =============================================================================
// COMMANDS
// =============================================================================

// waitSignal turns the next receive on ch into msg. A closed channel ends
// the listener.
func waitSignal(ch <-chan struct{}, msg tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return msg
	}
}

func waitSession(ch <-chan session.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return sessionChangedMsg{snap: snap}
	}
}

func pollAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return pollTickMsg{seq: seq}
	})
}
