// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import (
	"regexp"
	"strings"
	"unicode"
)

// =============================================================================
// TEXT RENDERER
// =============================================================================

var (
	csiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)
	oscPattern = regexp.MustCompile(`\x1b\][^\x07\x1b]*(\x07|\x1b\\)?`)
)

// Sanitize strips terminal escape sequences and control characters other
// than newline and tab, so server text cannot drive the terminal.
func Sanitize(s string) string {
	s = oscPattern.ReplaceAllString(s, "")
	s = csiPattern.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// RenderText renders a tree as indented plain text for the CLI.
func RenderText(n Node) string {
	var sb strings.Builder
	writeText(&sb, n, 0)
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func writeText(sb *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	line := func(s string) {
		for _, l := range strings.Split(Sanitize(s), "\n") {
			sb.WriteString(indent + l + "\n")
		}
	}
	switch n.Kind {
	case KindSection, KindList:
		for _, c := range n.Children {
			writeText(sb, c, depth)
		}
	case KindCard:
		for _, c := range n.Children {
			writeText(sb, c, depth+1)
		}
		sb.WriteString("\n")
	case KindHeading:
		if av := n.Attr(AttrAvatar); av != "" {
			line("(" + av + ") " + n.Text)
			return
		}
		line(n.Text)
	case KindText, KindEmpty, KindBadge:
		line(n.Text)
	case KindMuted:
		line("  " + n.Text)
	case KindMessage:
		line("[" + n.Attr(AttrTime) + "] " + n.Attr(AttrFrom) + ": " + n.Text)
	case KindAction:
		marker := ""
		if n.Attr(AttrActive) == "true" {
			marker = " *"
		}
		line("[" + n.Text + "]" + marker)
	case KindLink:
		if href := SafeURL(n.Attr(AttrHref)); href != "" {
			line(n.Text + ": " + href)
		}
	case KindImage:
		if src := SafeURL(n.Attr(AttrSrc)); src != "" {
			line("(image) " + src)
		}
	}
}
