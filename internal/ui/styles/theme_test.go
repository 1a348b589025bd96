// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTheme_NoColor(t *testing.T) {
	theme := NewTheme(true)
	assert.True(t, theme.NoColor())
	assert.Contains(t, theme.TabActive.Render("Feed"), "Feed")
}

func TestNewTheme_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, NewTheme(false).NoColor())
}

func TestGetLayoutMode(t *testing.T) {
	theme := NewTheme(true)
	cases := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
	}
	for _, tc := range cases {
		theme.SetSize(tc.width, 30)
		assert.Equal(t, tc.want, theme.GetLayoutMode(), "width %d", tc.width)
	}
}
