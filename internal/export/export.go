// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/uniconnect/uniconnect-tui/internal/model"
	"github.com/uniconnect/uniconnect-tui/internal/util"
)

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation is one chat thread between the logged-in user and a partner.
type Conversation struct {
	Self       model.UserRef       `json:"self"`
	Partner    model.UserRef       `json:"partner"`
	Messages   []model.ChatMessage `json:"messages"`
	ExportedAt time.Time           `json:"exportedAt"`
}

// Title returns "Chat with <partner>".
func (c *Conversation) Title() string {
	name := strings.TrimSpace(c.Partner.Name)
	if name == "" {
		name = "User"
	}
	return "Chat with " + name
}

// senderLabel names the author of m from the exporting user's side.
func (c *Conversation) senderLabel(m model.ChatMessage) string {
	if m.SentBy(c.Self.ID) {
		return "You"
	}
	if m.Sender != nil && strings.TrimSpace(m.Sender.Name) != "" {
		return m.Sender.Name
	}
	return "User"
}

func (c *Conversation) validate() error {
	if c == nil {
		return errors.New("conversation is nil")
	}
	if len(c.Messages) == 0 {
		return errors.New("conversation has no messages")
	}
	return nil
}

func (c *Conversation) exportedAt() time.Time {
	if c.ExportedAt.IsZero() {
		return time.Now()
	}
	return c.ExportedAt
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a conversation to one output format.
type Exporter interface {
	Export(conv *Conversation) ([]byte, error)
	FileExtension() string
	MimeType() string
}

// Options configures export behavior.
type Options struct {
	// OutputDir is where files are written. Default: current directory.
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// IncludeTimestamps adds per-message times.
	IncludeTimestamps bool

	// Theme for HTML export ("light" or "dark").
	Theme string
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeTimestamps: true,
		Theme:             "dark",
	}
}

// New returns the exporter for a format name: "markdown"/"md",
// "html"/"htm" or "json".
func New(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "markdown", "md":
		return NewMarkdownExporter(opts), nil
	case "html", "htm":
		return NewHTMLExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile writes conv with exporter into opts.OutputDir and returns the
// file path. The write is atomic.
func ExportToFile(conv *Conversation, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(conv)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	filename := Filename(conv, exporter.FileExtension(), conv.exportedAt())
	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	outputPath := filepath.Join(dir, filename)
	if err := util.AtomicWriteFile(outputPath, content, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		// The file exists either way.
		_ = openFile(outputPath)
	}
	return outputPath, nil
}

// Filename builds "chat_<partner>_<timestamp><ext>".
func Filename(conv *Conversation, ext string, at time.Time) string {
	return fmt.Sprintf("chat_%s_%s%s",
		util.SafeFilename(conv.Partner.Name),
		at.Format("20060102_150405"),
		ext,
	)
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}

// formatTimestamp formats a message time, or "" when unknown.
func formatTimestamp(t model.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
