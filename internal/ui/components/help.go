// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/glamour"
)

// HelpMarkdown is the dashboard key reference.
const HelpMarkdown = `# UniConnect keys

| Key | Action |
|-----|--------|
| 1-8, tab, shift+tab | switch tab |
| up / down | move between actions |
| enter | run the selected action |
| / | search posts and marketplace |
| n | new post, PYQ upload, listing or alumni profile for the tab |
| c | new confession |
| m | message the open chat partner |
| r | reload the current tab |
| ctrl+l | log out |
| ? | toggle this help |
| q, ctrl+c | quit |

Guests can browse every tab. Posting, liking, commenting, uploading and
chatting need an account.
`

// RenderHelp renders the key reference with glamour. Plain markdown is
// returned if rendering fails.
func RenderHelp(width int, noColor bool) string {
	if width <= 0 {
		width = 80
	}
	style := glamour.WithAutoStyle()
	if noColor {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return HelpMarkdown
	}
	out, err := r.Render(HelpMarkdown)
	if err != nil {
		return HelpMarkdown
	}
	return out
}
