// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package dashboard is the interactive UniConnect client, built as a single
Bubble Tea model.

It has two screens. The login screen handles login, registration and guest
entry. The dashboard shows the tab bar, the regions of the active tab from
the view-state controller, and the top contributors panel.

# Key Types

  - Model: the tea.Model. Value receivers, Update dispatches to handleX
    methods.
  - Options: wiring for the controller, auth client, session store and the
    shared toast and busy state.
  - KeyMap: key bindings.

# Background work

Controller calls run as tea.Cmds and report back with actionDoneMsg. The
controller's screen signals changes through a channel so loads that finish
late still redraw. The chat poll is a chain of tea.Tick commands tagged
with a sequence number; leaving the dashboard bumps the number and the old
chain stops at its next tick.

# Usage

	m := dashboard.New(dashboard.Options{
		Context:    ctx,
		Controller: ctrl,
		Auth:       clients.Auth,
		Store:      store,
		Toasts:     toasts,
		Busy:       busy,
		Redirects:  redirects,
	})
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
*/
package dashboard
