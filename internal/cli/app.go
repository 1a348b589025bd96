// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/client"
	"github.com/uniconnect/uniconnect-tui/internal/config"
	"github.com/uniconnect/uniconnect-tui/internal/logging"
	"github.com/uniconnect/uniconnect-tui/internal/realtime"
	"github.com/uniconnect/uniconnect-tui/internal/session"
	"github.com/uniconnect/uniconnect-tui/internal/viewstate"
)

// =============================================================================
// APP WIRING
// =============================================================================

// AppOptions overrides parts of the wiring. Zero values use the process
// defaults.
type AppOptions struct {
	Store      *session.Store
	HTTPClient *http.Client
	Out        io.Writer
	Err        io.Writer
	Prompter   *Prompter
	JSON       bool
}

// App holds everything a command needs: the session store, the gateway,
// the domain clients and a controller for the non-interactive commands.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Store      *session.Store
	Gateway    *api.Client
	Clients    *client.Clients
	Controller *viewstate.Controller
	Poller     *realtime.Poller

	// Redirects receives a value each time the gateway sends the user back
	// to login. Sends never block.
	Redirects chan struct{}

	Out      io.Writer
	Err      io.Writer
	Prompter *Prompter
	JSON     bool

	notes *noteBuffer
}

// NewApp wires the client core for cfg.
func NewApp(cfg *config.Config, logger *zap.Logger, opts AppOptions) (*App, error) {
	logger = logging.OrNop(logger)

	store := opts.Store
	if store == nil {
		dir, err := cfg.SessionDir()
		if err != nil {
			return nil, &ConfigError{Err: err}
		}
		store, err = session.NewStore(dir)
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Poller:    realtime.NewPoller(logger.Named("poller")),
		Redirects: make(chan struct{}, 1),
		Out:       opts.Out,
		Err:       opts.Err,
		Prompter:  opts.Prompter,
		JSON:      opts.JSON,
		notes:     &noteBuffer{},
	}
	if a.Out == nil {
		a.Out = os.Stdout
	}
	if a.Err == nil {
		a.Err = os.Stderr
	}
	if a.Prompter == nil {
		a.Prompter = NewTerminalPrompter()
	}

	nav := api.NavigatorFunc(func() {
		select {
		case a.Redirects <- struct{}{}:
		default:
		}
	})
	a.Gateway = api.New(api.Config{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		UserAgent:         cfg.API.UserAgent,
		HTTPClient:        opts.HTTPClient,
	}, store, nav, logger.Named("api"))
	a.Clients = client.New(a.Gateway, store, nav)
	a.Controller = viewstate.New(viewstate.Options{
		Clients:       a.Clients,
		Store:         store,
		Notifier:      a.notes,
		Logger:        logger.Named("viewstate"),
		GuestReadOnly: cfg.Policy.GuestReadOnly,
		PollInterval:  cfg.Chat.PollInterval,
	})
	return a, nil
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

type noteKind int

const (
	noteSuccess noteKind = iota
	noteInfo
	noteError
)

type note struct {
	kind noteKind
	msg  string
}

// noteBuffer collects controller notifications until the command decides
// how to show them.
type noteBuffer struct {
	mu    sync.Mutex
	notes []note
}

func (b *noteBuffer) add(k noteKind, msg string) {
	b.mu.Lock()
	b.notes = append(b.notes, note{kind: k, msg: msg})
	b.mu.Unlock()
}

func (b *noteBuffer) Success(msg string) { b.add(noteSuccess, msg) }
func (b *noteBuffer) Info(msg string)    { b.add(noteInfo, msg) }
func (b *noteBuffer) Error(msg string)   { b.add(noteError, msg) }

func (b *noteBuffer) drain() []note {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notes
	b.notes = nil
	return out
}

// userMessageError carries the message the user was already shown for a
// failure. The wrapped error still decides the exit code.
type userMessageError struct {
	msg string
	err error
}

func (e *userMessageError) Error() string { return e.msg }
func (e *userMessageError) Unwrap() error { return e.err }

// finish flushes pending notifications. On success they are printed to
// Err. On failure the most recent non-success notification replaces the
// error text, so the user sees the same message the dashboard would show.
func (a *App) finish(err error) error {
	notes := a.notes.drain()
	if err == nil {
		for _, n := range notes {
			switch n.kind {
			case noteSuccess:
				fmt.Fprintln(a.Err, SuccessStyle.Render(n.msg))
			case noteInfo:
				fmt.Fprintln(a.Err, InfoStyle.Render(n.msg))
			case noteError:
				fmt.Fprintln(a.Err, ErrorStyle.Render(n.msg))
			}
		}
		return nil
	}
	for i := len(notes) - 1; i >= 0; i-- {
		if notes[i].kind != noteSuccess {
			return &userMessageError{msg: notes[i].msg, err: err}
		}
	}
	return err
}

// requireSession fails with ErrNotLoggedIn unless there is a token or a
// guest session.
func (a *App) requireSession() error {
	if a.Store.IsAuthenticated() || a.Store.IsGuest() {
		return nil
	}
	return ErrNotLoggedIn
}
