// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the application.
type Theme struct {
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// FRAME
	// ==========================================================================

	Header      lipgloss.Style
	HeaderBrand lipgloss.Style
	HeaderUser  lipgloss.Style
	GuestBadge  lipgloss.Style
	Tab         lipgloss.Style
	TabActive   lipgloss.Style
	StatusBar   lipgloss.Style
	Sidebar     lipgloss.Style

	// ==========================================================================
	// CONTENT
	// ==========================================================================

	Heading  lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Card     lipgloss.Style
	Badge    lipgloss.Style
	Action   lipgloss.Style
	Selected lipgloss.Style
	Danger   lipgloss.Style
	Link     lipgloss.Style
	Empty    lipgloss.Style

	OwnBubble   lipgloss.Style
	OtherBubble lipgloss.Style

	// ==========================================================================
	// FORMS
	// ==========================================================================

	Prompt lipgloss.Style
	Error  lipgloss.Style
	Hint   lipgloss.Style
}

// NewTheme creates a theme for the current terminal. noColor, or a
// non-empty NO_COLOR, forces the ASCII profile.
func NewTheme(noColor bool) *Theme {
	profile := termenv.ColorProfile()
	if noColor || os.Getenv("NO_COLOR") != "" {
		profile = termenv.Ascii
	}
	lipgloss.SetColorProfile(profile)

	t := &Theme{ColorProfile: profile}
	t.initStyles()
	return t
}

// NoColor reports whether colors are disabled.
func (t *Theme) NoColor() bool {
	return t.ColorProfile == termenv.Ascii
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)
	t.HeaderUser = lipgloss.NewStyle().
		Foreground(TextSecondary)
	t.GuestBadge = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Amber).
		Padding(0, 1)

	t.Tab = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)
	t.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple).
		Underline(true).
		Padding(0, 1)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Overlay).
		PaddingLeft(1)

	t.Heading = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)
	t.Text = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.Badge = lipgloss.NewStyle().
		Foreground(TextSecondary)
	t.Action = lipgloss.NewStyle().
		Foreground(Cyan)
	t.Selected = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Purple)
	t.Danger = lipgloss.NewStyle().
		Foreground(Rose)
	// Underline keeps links distinguishable without color.
	t.Link = lipgloss.NewStyle().
		Foreground(Cyan).
		Underline(true)
	t.Empty = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.OwnBubble = lipgloss.NewStyle().
		Foreground(OwnBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OwnBubbleBorder).
		Padding(0, 1)
	t.OtherBubble = lipgloss.NewStyle().
		Foreground(OtherBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OtherBubbleBorder).
		Padding(0, 1)

	t.Prompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)
	t.Error = lipgloss.NewStyle().
		Foreground(Rose)
	t.Hint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns, shows the contributors sidebar
)
