// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import (
	"html"
	"net/url"
	"strconv"
	"strings"
)

// =============================================================================
// HTML RENDERER
// =============================================================================

// RenderHTML serializes a tree to HTML. Every text and attribute value is
// escaped here and nowhere else; URLs other than http and https are dropped.
func RenderHTML(n Node) string {
	var sb strings.Builder
	writeHTML(&sb, n)
	return sb.String()
}

func writeHTML(sb *strings.Builder, n Node) {
	esc := html.EscapeString
	switch n.Kind {
	case KindSection:
		open(sb, "section", n, "")
		writeChildren(sb, n)
		sb.WriteString("</section>")
	case KindList:
		open(sb, "div", n, "list")
		writeChildren(sb, n)
		sb.WriteString("</div>")
	case KindCard:
		open(sb, "div", n, "card")
		if av := n.Attr(AttrAvatar); av != "" {
			sb.WriteString(`<div class="user-avatar">` + esc(av) + `</div>`)
		}
		writeChildren(sb, n)
		sb.WriteString("</div>")
	case KindHeading:
		sb.WriteString("<h3>")
		if av := n.Attr(AttrAvatar); av != "" {
			sb.WriteString(`<span class="user-avatar">` + esc(av) + `</span>`)
		}
		sb.WriteString(esc(n.Text) + "</h3>")
	case KindText:
		sb.WriteString("<p>" + esc(n.Text) + "</p>")
	case KindMuted:
		sb.WriteString(`<p class="text-muted">` + esc(n.Text) + "</p>")
	case KindEmpty:
		sb.WriteString(`<p class="empty-state">` + esc(n.Text) + "</p>")
	case KindBadge:
		sb.WriteString(`<span class="badge">` + esc(n.Text) + "</span>")
	case KindMessage:
		side := "theirs"
		if n.Attr(AttrOwn) == "true" {
			side = "mine"
		}
		sb.WriteString(`<div class="message-wrapper ` + side + `"`)
		if n.ID != "" {
			sb.WriteString(` id="` + esc(n.ID) + `"`)
		}
		sb.WriteString(`><p>` + esc(n.Text) + `</p><span class="text-xs">` + esc(n.Attr(AttrTime)) + `</span></div>`)
	case KindAction:
		sb.WriteString("<button")
		if n.Action != nil {
			sb.WriteString(` data-action="` + esc(string(n.Action.Name)) + `"`)
			sb.WriteString(` data-id="` + strconv.FormatInt(n.Action.ID, 10) + `"`)
			if n.Action.Ref != 0 {
				sb.WriteString(` data-ref="` + strconv.FormatInt(n.Action.Ref, 10) + `"`)
			}
		}
		if n.Attr(AttrActive) == "true" {
			sb.WriteString(` class="active"`)
		}
		sb.WriteString(">" + esc(n.Text) + "</button>")
	case KindLink:
		href := SafeURL(n.Attr(AttrHref))
		if href == "" {
			sb.WriteString("<span>" + esc(n.Text) + "</span>")
			return
		}
		sb.WriteString(`<a href="` + esc(href) + `" target="_blank" rel="noopener noreferrer">` + esc(n.Text) + "</a>")
	case KindImage:
		src := SafeURL(n.Attr(AttrSrc))
		if src == "" {
			return
		}
		sb.WriteString(`<img src="` + esc(src) + `" alt="` + esc(n.Text) + `">`)
	default:
		writeChildren(sb, n)
	}
}

func open(sb *strings.Builder, tag string, n Node, class string) {
	sb.WriteString("<" + tag)
	if n.ID != "" {
		sb.WriteString(` id="` + html.EscapeString(n.ID) + `"`)
	}
	if c := strings.TrimSpace(class + " " + n.Attr(AttrClass)); c != "" {
		sb.WriteString(` class="` + html.EscapeString(c) + `"`)
	}
	sb.WriteString(">")
}

func writeChildren(sb *strings.Builder, n Node) {
	for _, c := range n.Children {
		writeHTML(sb, c)
	}
}

// SafeURL returns raw if it is an absolute http or https URL, else "".
func SafeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return raw
	}
	return ""
}
