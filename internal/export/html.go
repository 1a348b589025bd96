// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports conversations to a standalone HTML page with
// embedded CSS. All user text is escaped.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a conversation to HTML.
func (e *HTMLExporter) Export(conv *Conversation) ([]byte, error) {
	if err := conv.validate(); err != nil {
		return nil, err
	}
	at := conv.exportedAt()
	title := html.EscapeString(conv.Title())

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", title)
	sb.WriteString("    <meta name=\"generator\" content=\"uniconnect\">\n")
	fmt.Fprintf(&sb, "    <meta name=\"date\" content=\"%s\">\n", at.Format(time.RFC3339))
	sb.WriteString(css)
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"%s-theme\">\n", e.theme())

	sb.WriteString("    <div class=\"container\">\n")
	sb.WriteString("        <header class=\"header\">\n")
	fmt.Fprintf(&sb, "            <h1>%s</h1>\n", title)
	fmt.Fprintf(&sb, "            <span class=\"meta\">%d messages</span>\n", len(conv.Messages))
	sb.WriteString("        </header>\n")

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range conv.Messages {
		class := "message"
		if msg.SentBy(conv.Self.ID) {
			class += " own"
		}
		fmt.Fprintf(&sb, "            <div class=\"%s\">\n", class)
		fmt.Fprintf(&sb, "                <div class=\"sender\">%s</div>\n", html.EscapeString(conv.senderLabel(msg)))
		fmt.Fprintf(&sb, "                <div class=\"content\">%s</div>\n", formatContent(msg.Content))
		if ts := formatTimestamp(msg.CreatedAt); e.options.IncludeTimestamps && ts != "" {
			fmt.Fprintf(&sb, "                <div class=\"time\">%s</div>\n", ts)
		}
		sb.WriteString("            </div>\n")
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	fmt.Fprintf(&sb, "            <p>Exported from <strong>UniConnect</strong> on %s</p>\n",
		at.Format("January 2, 2006 at 3:04 PM"))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

func (e *HTMLExporter) theme() string {
	if e.options.Theme == "light" {
		return "light"
	}
	return "dark"
}

// formatContent escapes text and keeps line breaks.
func formatContent(s string) string {
	return strings.ReplaceAll(html.EscapeString(strings.TrimSpace(s)), "\n", "<br>")
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

const css = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        .dark-theme {
            --bg: #1a1b26; --panel: #24283b; --text: #c0caf5;
            --muted: #565f89; --own: #3d59a1; --other: #414868;
        }
        .light-theme {
            --bg: #ffffff; --panel: #f7f8fa; --text: #24292e;
            --muted: #6a737d; --own: #dbe9ff; --other: #e1e4e8;
        }
        body {
            font-family: -apple-system, "Segoe UI", Roboto, Arial, sans-serif;
            line-height: 1.5; color: var(--text); background: var(--bg); padding: 20px;
        }
        .container { max-width: 720px; margin: 0 auto; background: var(--panel); border-radius: 12px; overflow: hidden; }
        .header { padding: 24px; border-bottom: 1px solid var(--other); }
        .header h1 { font-size: 24px; }
        .meta { color: var(--muted); font-size: 14px; }
        .conversation { padding: 24px; display: flex; flex-direction: column; gap: 12px; }
        .message { max-width: 75%; padding: 10px 14px; border-radius: 12px; background: var(--other); align-self: flex-start; }
        .message.own { background: var(--own); align-self: flex-end; }
        .sender { font-weight: 600; font-size: 13px; }
        .time { color: var(--muted); font-size: 12px; margin-top: 4px; }
        .footer { padding: 16px 24px; color: var(--muted); font-size: 13px; text-align: center; }
    </style>
`
