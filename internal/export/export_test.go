// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniconnect/uniconnect-tui/internal/model"
)

func sampleConversation() *Conversation {
	me := model.UserRef{ID: 1, Name: "Asha"}
	them := model.UserRef{ID: 2, Name: "Ravi Kumar"}
	at := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)
	return &Conversation{
		Self:    me,
		Partner: them,
		Messages: []model.ChatMessage{
			{ID: 1, Sender: &me, Receiver: &them, Content: "Is the cycle still available?", CreatedAt: model.Timestamp{Time: at}},
			{ID: 2, Sender: &them, Receiver: &me, Content: "Yes!\nCome by at 5.", CreatedAt: model.Timestamp{Time: at.Add(time.Minute)}},
		},
		ExportedAt: at.Add(time.Hour),
	}
}

func TestConversation_Title(t *testing.T) {
	c := sampleConversation()
	assert.Equal(t, "Chat with Ravi Kumar", c.Title())
	c.Partner.Name = "  "
	assert.Equal(t, "Chat with User", c.Title())
}

func TestNew_Formats(t *testing.T) {
	for _, f := range []string{"md", "markdown", "HTML", "htm", "json"} {
		_, err := New(f, nil)
		assert.NoError(t, err, f)
	}
	_, err := New("pdf", nil)
	assert.Error(t, err)
}

func TestExport_RejectsEmpty(t *testing.T) {
	for _, e := range []Exporter{NewMarkdownExporter(nil), NewHTMLExporter(nil), NewJSONExporter(nil)} {
		_, err := e.Export(nil)
		assert.Error(t, err)
		_, err = e.Export(&Conversation{Partner: model.UserRef{Name: "x"}})
		assert.Error(t, err)
	}
}

func TestMarkdownExporter(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleConversation())
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, "---\n"))
	assert.Contains(t, s, "title: Chat with Ravi Kumar\n")
	assert.Contains(t, s, "messages: 2\n")
	assert.Contains(t, s, "# Chat with Ravi Kumar")
	assert.Contains(t, s, "**You**")
	assert.Contains(t, s, "**Ravi Kumar**")
	assert.Contains(t, s, "> Yes!\n> Come by at 5.")
}

func TestMarkdownExporter_EscapesHeadings(t *testing.T) {
	c := sampleConversation()
	c.Partner.Name = "#evil*\ninjected: yes"
	out, err := NewMarkdownExporter(nil).Export(c)
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, `title: "Chat with #evil*\ninjected: yes"`)
	assert.NotContains(t, s, "\ninjected: yes\n")
}

func TestHTMLExporter_EscapesContent(t *testing.T) {
	c := sampleConversation()
	c.Messages[1].Content = "<script>alert('x')</script>"
	c.Partner.Name = "<b>Ravi</b>"
	out, err := NewHTMLExporter(&Options{Theme: "light", IncludeTimestamps: true}).Export(c)
	require.NoError(t, err)
	s := string(out)

	assert.NotContains(t, s, "<script>")
	assert.Contains(t, s, "&lt;script&gt;")
	assert.Contains(t, s, "<title>Chat with &lt;b&gt;Ravi&lt;/b&gt;</title>")
	assert.Contains(t, s, `<body class="light-theme">`)
	assert.Contains(t, s, `<div class="message own">`)
	assert.Equal(t, 2, strings.Count(s, `<div class="sender">`))
}

func TestHTMLExporter_LineBreaks(t *testing.T) {
	out, err := NewHTMLExporter(nil).Export(sampleConversation())
	require.NoError(t, err)
	assert.Contains(t, string(out), "Yes!<br>Come by at 5.")
	assert.Contains(t, string(out), `<body class="dark-theme">`)
}

func TestJSONExporter(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(sampleConversation())
	require.NoError(t, err)

	var got struct {
		Partner  model.UserRef       `json:"partner"`
		Messages []model.ChatMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, int64(2), got.Partner.ID)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "Is the cycle still available?", got.Messages[0].Content)
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	c := sampleConversation()
	exp, err := New("md", nil)
	require.NoError(t, err)

	path, err := ExportToFile(c, exp, &Options{OutputDir: filepath.Join(dir, "out")})
	require.NoError(t, err)

	assert.Equal(t, "chat_Ravi-Kumar_20250304_113000.md", filepath.Base(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Chat with Ravi Kumar")
}

func TestExportToFile_PropagatesExportError(t *testing.T) {
	_, err := ExportToFile(&Conversation{}, NewJSONExporter(nil), &Options{OutputDir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export failed")
}
