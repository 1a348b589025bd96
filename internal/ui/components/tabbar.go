// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/uniconnect/uniconnect-tui/internal/ui/styles"
)

// TabBar renders numbered tab labels with the active one highlighted.
type TabBar struct {
	Labels []string
	theme  *styles.Theme
}

// NewTabBar creates a tab bar for labels.
func NewTabBar(theme *styles.Theme, labels []string) *TabBar {
	return &TabBar{Labels: labels, theme: theme}
}

// View renders the bar. active is an index into Labels; any other value
// highlights nothing. When the full labels do not fit in width only the
// numbers are shown, except for the active tab.
func (b *TabBar) View(active, width int) string {
	full := make([]string, len(b.Labels))
	total := 0
	for i, l := range b.Labels {
		full[i] = strconv.Itoa(i+1) + " " + l
		total += runewidth.StringWidth(full[i]) + 2
	}
	compact := width > 0 && total > width

	parts := make([]string, len(b.Labels))
	for i := range b.Labels {
		label := full[i]
		if compact && i != active {
			label = strconv.Itoa(i + 1)
		}
		if i == active {
			parts[i] = b.theme.TabActive.Render(label)
		} else {
			parts[i] = b.theme.Tab.Render(label)
		}
	}
	return strings.Join(parts, "")
}
