// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/uniconnect/uniconnect-tui/internal/ui/styles"
	"github.com/uniconnect/uniconnect-tui/internal/view"
)

// =============================================================================
// VIEW TREE RENDERER
// =============================================================================

// TreeRenderer draws view trees in the terminal. All server text passes
// through view.Sanitize.
type TreeRenderer struct {
	theme *styles.Theme
}

// NewTreeRenderer creates a renderer.
func NewTreeRenderer(theme *styles.Theme) *TreeRenderer {
	return &TreeRenderer{theme: theme}
}

// Render draws n within width columns. The action equal to selected, if
// any, is highlighted as the cursor.
func (r *TreeRenderer) Render(n view.Node, selected *view.Action, width int) string {
	if width < 20 {
		width = 20
	}
	return r.render(n, selected, width)
}

func (r *TreeRenderer) render(n view.Node, sel *view.Action, width int) string {
	t := r.theme
	switch n.Kind {
	case view.KindSection, view.KindList:
		return r.children(n.Children, sel, width)
	case view.KindCard:
		body := r.children(n.Children, sel, width-4)
		return t.Card.Width(width - 2).Render(body)
	case view.KindHeading:
		text := clean(n.Text)
		if av := n.Attr(view.AttrAvatar); av != "" {
			text = clean(av) + " " + text
		}
		return t.Heading.Width(width).Render(text)
	case view.KindText:
		return t.Text.Width(width).Render(clean(n.Text))
	case view.KindMuted:
		return t.Muted.Width(width).Render(clean(n.Text))
	case view.KindEmpty:
		return t.Empty.Width(width).Render(clean(n.Text))
	case view.KindBadge:
		return t.Badge.Render(clean(n.Text))
	case view.KindMessage:
		return r.message(n, width)
	case view.KindAction:
		return r.action(n, sel)
	case view.KindLink:
		href := view.SafeURL(n.Attr(view.AttrHref))
		if href == "" {
			return t.Muted.Render(clean(n.Text))
		}
		return t.Link.Render(clean(n.Text)) + t.Muted.Render(" "+href)
	case view.KindImage:
		src := view.SafeURL(n.Attr(view.AttrSrc))
		if src == "" {
			return ""
		}
		return t.Muted.Render("(image) " + src)
	}
	return ""
}

// children lays out nodes top to bottom. Runs of actions and badges share
// one line.
func (r *TreeRenderer) children(nodes []view.Node, sel *view.Action, width int) string {
	var lines, inline []string
	flush := func() {
		if len(inline) > 0 {
			lines = append(lines, strings.Join(inline, "  "))
			inline = nil
		}
	}
	for _, c := range nodes {
		out := r.render(c, sel, width)
		if out == "" {
			continue
		}
		if c.Kind == view.KindAction || c.Kind == view.KindBadge {
			inline = append(inline, out)
			continue
		}
		flush()
		lines = append(lines, out)
	}
	flush()
	return strings.Join(lines, "\n")
}

func (r *TreeRenderer) action(n view.Node, sel *view.Action) string {
	label := "[" + clean(n.Text) + "]"
	if n.Attr(view.AttrActive) == "true" {
		label += " *"
	}
	if sel != nil && n.Action != nil && *n.Action == *sel {
		return r.theme.Selected.Render(styles.StatusIndicators.Cursor + label)
	}
	if n.Action != nil && isDestructive(n.Action.Name) {
		return r.theme.Danger.Render(label)
	}
	return r.theme.Action.Render(label)
}

func (r *TreeRenderer) message(n view.Node, width int) string {
	own := n.Attr(view.AttrOwn) == "true"
	bubbleWidth := width * 3 / 4
	meta := clean(n.Attr(view.AttrFrom))
	if ts := n.Attr(view.AttrTime); ts != "" {
		meta += " · " + clean(ts)
	}
	body := r.theme.Muted.Render(meta) + "\n" + clean(n.Text)

	style := r.theme.OtherBubble
	pos := lipgloss.Left
	if own {
		style = r.theme.OwnBubble
		pos = lipgloss.Right
	}
	if lipgloss.Width(body) > bubbleWidth-4 {
		style = style.Width(bubbleWidth)
	}
	bubble := style.Render(body)
	return lipgloss.PlaceHorizontal(width, pos, bubble)
}

func isDestructive(name view.ActionName) bool {
	switch name {
	case view.ActDeletePost, view.ActDeleteComment, view.ActDeletePYQ, view.ActDeleteItem:
		return true
	}
	return false
}

func clean(s string) string {
	return view.Sanitize(s)
}
