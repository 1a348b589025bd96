// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/config"
	"github.com/uniconnect/uniconnect-tui/internal/view"
	"github.com/uniconnect/uniconnect-tui/internal/viewstate"
)

// =============================================================================
// LINE INPUT
// =============================================================================

// LineReader reads chat input one line at a time.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// linerReader is a LineReader on the terminal with persistent history.
type linerReader struct {
	*liner.State
	historyFile string
}

// NewLineReader opens a terminal line editor. History is kept in
// chat_history under the config directory.
func NewLineReader() LineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	r := &linerReader{State: line}
	if dir, err := config.Dir(); err == nil {
		r.historyFile = filepath.Join(dir, "chat_history")
		if f, err := os.Open(r.historyFile); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	return r
}

// Close saves history and restores the terminal.
func (r *linerReader) Close() error {
	if r.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(r.historyFile), 0o700); err == nil {
			if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
				_, _ = r.WriteHistory(f)
				f.Close()
			}
		}
	}
	return r.State.Close()
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// transcript prints each conversation message once, in the order the
// screen shows them. It is fed from screen change callbacks, which may run
// on the poller goroutine.
type transcript struct {
	mu     sync.Mutex
	out    io.Writer
	screen *view.Screen
	header string
	seen   map[string]bool
}

func newTranscript(out io.Writer, screen *view.Screen) *transcript {
	return &transcript{out: out, screen: screen, seen: make(map[string]bool)}
}

func (t *transcript) flush() {
	n, ok := t.screen.Region(view.RegionConversation)
	if !ok {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	view.Walk(n, func(c view.Node) bool {
		switch c.Kind {
		case view.KindHeading:
			if c.Text != t.header {
				t.header = c.Text
				fmt.Fprintln(t.out, TitleStyle.Render(view.Sanitize(c.Text)))
			}
		case view.KindEmpty:
			if len(t.seen) == 0 {
				fmt.Fprintln(t.out, DimStyle.Render(c.Text))
			}
		case view.KindMessage:
			if !t.seen[c.ID] {
				t.seen[c.ID] = true
				fmt.Fprintln(t.out, formatMessage(c))
			}
		}
		return true
	})
}

func (t *transcript) println(s string) {
	t.mu.Lock()
	fmt.Fprintln(t.out, s)
	t.mu.Unlock()
}

// formatMessage renders one message line. Own messages and the partner's
// use different colors.
func formatMessage(n view.Node) string {
	style := OtherMessageStyle
	if n.Attr(view.AttrOwn) == "true" {
		style = OwnMessageStyle
	}
	prefix := view.Sanitize(n.Attr(view.AttrFrom)) + ":"
	when := ""
	if t := n.Attr(view.AttrTime); t != "" {
		when = DimStyle.Render("["+t+"]") + " "
	}
	return when + style.Render(prefix) + " " + view.Sanitize(n.Text)
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

const chatHelp = `Type a message and press Enter to send it.
  /refresh  check for new messages now
  /quit     leave the chat (also Ctrl+D)`

// HandleChat opens a conversation and reads messages to send until the
// user quits. New messages from the partner appear as the background
// refresh finds them.
func HandleChat(ctx context.Context, a *App, args Args, rl LineReader) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	defer rl.Close()

	ctrl := a.Controller
	screen := ctrl.Screen()
	tr := newTranscript(a.Out, screen)
	screen.OnChange(tr.flush)
	defer screen.OnChange(nil)

	if err := a.finish(ctrl.SwitchTab(ctx, viewstate.TabMessages)); err != nil {
		return err
	}
	if err := a.finish(ctrl.OpenChat(ctx, args.PartnerID, "")); err != nil {
		return err
	}
	tr.flush()
	tr.println(DimStyle.Render("/help for commands"))

	pollCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.Poller.Run(pollCtx, ctrl.ChatSubscription())
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	for {
		if expired(a) {
			return ErrSessionExpired
		}

		line, err := rl.Prompt(PromptStyle.Render("> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return NewCommandError("chat", "read input", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch line {
		case "/quit", "/exit", "/q":
			return nil
		case "/help":
			tr.println(chatHelp)
			continue
		case "/refresh":
			a.Poller.Tick(ctx, ctrl.ChatSubscription())
			continue
		}

		rl.AppendHistory(line)
		if err := a.finish(ctrl.SendMessage(ctx, line)); err != nil {
			if api.IsUnauthorized(err) {
				return ErrSessionExpired
			}
			a.Logger.Debug("send failed", zap.Error(err))
			DisplayError(a.Err, err, false)
		}
	}
}

// expired reports whether the gateway has sent the user back to login.
func expired(a *App) bool {
	select {
	case <-a.Redirects:
		return true
	default:
		return false
	}
}
