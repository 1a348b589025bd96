// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the terminal UI pieces of the UniConnect
dashboard, built on Bubble Tea, Bubbles and Lip Gloss.

# Components

Header (header.go) - Brand plus the current user's name and role, or the
Guest User / GUEST badge.

TabBar (tabbar.go) - Numbered tab labels, compacted on narrow terminals.

TreeRenderer (tree.go) - Draws view trees: cards, chat bubbles, links and
action buttons with a selectable cursor.

ToastManager (toast.go) - Auto-dismissing notifications. Safe for use from
command goroutines.

Busy and Spinner (spinner.go) - Nested loading state and its indicator.

RenderHelp (help.go) - Key reference rendered with glamour.

# Usage

	theme := styles.NewTheme(false)
	toasts := components.NewToastManager()
	busy := &components.Busy{}
	ctrl := viewstate.New(viewstate.Options{Notifier: toasts, Loader: busy})
	body := components.NewTreeRenderer(theme).Render(node, nil, 80)
*/
package components
