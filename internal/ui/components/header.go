// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/uniconnect/uniconnect-tui/internal/session"
	"github.com/uniconnect/uniconnect-tui/internal/ui/styles"
	"github.com/uniconnect/uniconnect-tui/internal/util"
)

// Brand is the application title shown in the header.
const Brand = "UniConnect"

// Header is the title bar with the current user.
type Header struct {
	Width int
	theme *styles.Theme
}

// NewHeader creates a header.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Width: 80, theme: theme}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// Identity returns the name and role shown for a session. Guests and
// sessions without a user show "Guest User" and "GUEST".
func Identity(snap session.Snapshot) (name, role string) {
	if snap.User == nil {
		return "Guest User", "GUEST"
	}
	name = strings.TrimSpace(snap.User.Name)
	if name == "" {
		name = "User"
	}
	role = strings.ToUpper(strings.TrimSpace(snap.User.Role))
	if role == "" {
		role = "STUDENT"
	}
	return name, role
}

// View renders the header for snap.
func (h *Header) View(snap session.Snapshot) string {
	name, role := Identity(snap)

	brand := h.theme.HeaderBrand.Render(Brand)
	badge := h.theme.GuestBadge.Render(role)
	if snap.User != nil {
		badge = h.theme.Badge.Render("[" + role + "]")
	}
	user := h.theme.HeaderUser.Render(util.TruncateWidth(name, 30)) + " " + badge

	width := h.Width
	if width < 20 {
		width = 20
	}
	gap := width - lipgloss.Width(brand) - lipgloss.Width(user) - 2
	if gap < 1 {
		gap = 1
	}
	return h.theme.Header.Width(width).Render(brand + strings.Repeat(" ", gap) + user)
}
