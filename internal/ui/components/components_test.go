// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniconnect/uniconnect-tui/internal/session"
	"github.com/uniconnect/uniconnect-tui/internal/ui/styles"
	"github.com/uniconnect/uniconnect-tui/internal/view"
)

// =============================================================================
// TOASTS
// =============================================================================

func TestToastManager_NewestFirstAndCapped(t *testing.T) {
	m := NewToastManager()
	m.Info("one")
	m.Success("two")
	m.Error("three")
	m.Info("four")

	toasts := m.Toasts()
	require.Len(t, toasts, 3)
	assert.Equal(t, "four", toasts[0].Message)
	assert.Equal(t, ToastKindError, toasts[1].Kind)
	assert.Equal(t, ErrorToastDuration, toasts[1].Duration)
	assert.Equal(t, DefaultToastDuration, toasts[2].Duration)
}

func TestToastManager_TickExpires(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewToastManager()
	m.now = func() time.Time { return now }

	m.Success("saved")
	m.Error("failed")

	now = now.Add(DefaultToastDuration)
	left := m.Tick()
	require.Len(t, left, 1)
	assert.Equal(t, "failed", left[0].Message)

	now = now.Add(ErrorToastDuration)
	assert.Empty(t, m.Tick())
}

func TestToastManager_Dismiss(t *testing.T) {
	m := NewToastManager()
	id := m.Add(ToastKindInfo, "hello")
	m.Info("world")
	m.Dismiss(id)
	toasts := m.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, "world", toasts[0].Message)

	m.Clear()
	assert.Empty(t, m.Toasts())
}

func TestToastManager_Concurrent(t *testing.T) {
	m := NewToastManager()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Info("x")
			m.Tick()
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, len(m.Toasts()), 3)
}

func TestRenderToast_ContainsMessage(t *testing.T) {
	out := RenderToast(Toast{Message: "Post liked!", Kind: ToastKindSuccess}, 80)
	assert.Contains(t, out, "Post liked!")
	assert.Contains(t, out, styles.StatusIndicators.Success)
	assert.Empty(t, RenderToastStack(nil, 80))
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, "aaa bbb\nccc", wrapText("aaa bbb ccc", 7))
	assert.Equal(t, "", wrapText("", 10))
}

// =============================================================================
// BUSY
// =============================================================================

func TestBusy_Nests(t *testing.T) {
	var b Busy
	active, _ := b.Active()
	assert.False(t, active)

	b.Show("Loading chat...")
	b.Show("")
	b.Hide()
	active, msg := b.Active()
	assert.True(t, active)
	assert.Equal(t, "Loading chat...", msg)

	b.Hide()
	b.Hide()
	active, msg = b.Active()
	assert.False(t, active)
	assert.Empty(t, msg)
}

func TestSpinner_ViewFollowsBusy(t *testing.T) {
	b := &Busy{}
	s := NewSpinner(b)
	assert.Empty(t, s.View())
	b.Show("Creating post...")
	assert.Contains(t, s.View(), "Creating post...")
}

// =============================================================================
// HEADER AND TABS
// =============================================================================

func TestIdentity(t *testing.T) {
	name, role := Identity(session.Snapshot{Guest: true})
	assert.Equal(t, "Guest User", name)
	assert.Equal(t, "GUEST", role)

	name, role = Identity(session.Snapshot{Token: "t", User: &session.User{Name: "Asha", Role: "student"}})
	assert.Equal(t, "Asha", name)
	assert.Equal(t, "STUDENT", role)
}

func TestHeader_View(t *testing.T) {
	h := NewHeader(styles.NewTheme(true))
	h.SetWidth(60)
	out := h.View(session.Snapshot{Token: "t", User: &session.User{Name: "Asha", Role: "ALUMNI"}})
	assert.Contains(t, out, Brand)
	assert.Contains(t, out, "Asha")
	assert.Contains(t, out, "ALUMNI")
}

func TestTabBar_CompactsWhenNarrow(t *testing.T) {
	bar := NewTabBar(styles.NewTheme(true), []string{"Feed", "PYQ Vault", "Confessions"})
	wide := bar.View(1, 200)
	assert.Contains(t, wide, "1 Feed")
	assert.Contains(t, wide, "3 Confessions")

	narrow := bar.View(1, 10)
	assert.NotContains(t, narrow, "Feed")
	assert.Contains(t, narrow, "2 PYQ Vault")
}

// =============================================================================
// TREE RENDERER
// =============================================================================

func TestTreeRenderer_SanitizesAndSelects(t *testing.T) {
	r := NewTreeRenderer(styles.NewTheme(true))
	like := view.Action{Name: view.ActLike, ID: 7}
	n := view.Section("feed",
		view.Card("post-7",
			view.Heading("Asha"),
			view.Text("hello\x1b[31m red\x1b[0m"),
			view.Button("♥ 2", like),
			view.Badge("💬 0"),
		),
	)

	out := r.Render(n, &like, 60)
	assert.NotContains(t, out, "\x1b[31m")
	assert.Contains(t, out, "hello red")
	assert.Contains(t, out, styles.StatusIndicators.Cursor+"[♥ 2]")

	plain := r.Render(n, nil, 60)
	assert.NotContains(t, plain, styles.StatusIndicators.Cursor+"[")
}

func TestTreeRenderer_DropsUnsafeLinks(t *testing.T) {
	r := NewTreeRenderer(styles.NewTheme(true))
	out := r.Render(view.Section("x",
		view.Link("LinkedIn", "javascript:alert(1)"),
		view.Image("poster", "javascript:alert(1)"),
	), nil, 60)
	assert.NotContains(t, out, "javascript")
	assert.Contains(t, out, "LinkedIn")
}

func TestTreeRenderer_Messages(t *testing.T) {
	r := NewTreeRenderer(styles.NewTheme(true))
	msg := view.Node{Kind: view.KindMessage, Text: "hi there"}.
		With(view.AttrOwn, "true").
		With(view.AttrFrom, "You").
		With(view.AttrTime, "Jan 2, 2025 3:04 PM")
	out := r.Render(msg, nil, 60)
	assert.Contains(t, out, "hi there")
	assert.Contains(t, out, "You · Jan 2, 2025 3:04 PM")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 60)
	}
}
