// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/uniconnect/uniconnect-tui/internal/session"
	"github.com/uniconnect/uniconnect-tui/internal/ui/components"
	"github.com/uniconnect/uniconnect-tui/internal/ui/dashboard"
	"github.com/uniconnect/uniconnect-tui/internal/ui/styles"
	"github.com/uniconnect/uniconnect-tui/internal/viewstate"
)

// RunTUI runs the full-screen dashboard until the user quits.
func RunTUI(ctx context.Context, a *App, args Args) error {
	if !IsTTY() || !IsStdoutTTY() {
		return &TTYRequiredError{Operation: "start the dashboard"}
	}

	initial := args.Tab
	if !args.HasTab {
		if t, err := viewstate.ParseTab(a.Config.UI.InitialTab); err == nil {
			initial = t
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	toasts := components.NewToastManager()
	busy := &components.Busy{}
	ctrl := viewstate.New(viewstate.Options{
		Clients:       a.Clients,
		Store:         a.Store,
		Notifier:      toasts,
		Loader:        busy,
		Logger:        a.Logger.Named("viewstate"),
		GuestReadOnly: a.Config.Policy.GuestReadOnly,
		PollInterval:  a.Config.Chat.PollInterval,
	})

	var sessions chan session.Snapshot
	if a.Config.Session.Watch {
		sessions = make(chan session.Snapshot, 1)
		go func() {
			err := a.Store.Watch(ctx, func(s session.Snapshot) {
				select {
				case sessions <- s:
				case <-ctx.Done():
				}
			})
			if err != nil {
				a.Logger.Warn("session watch stopped", zap.Error(err))
			}
		}()
	}

	m := dashboard.New(dashboard.Options{
		Context:        ctx,
		Controller:     ctrl,
		Auth:           a.Clients.Auth,
		Store:          a.Store,
		Theme:          styles.NewTheme(args.NoColor || a.Config.UI.NoColor || !ColorsEnabled()),
		Toasts:         toasts,
		Busy:           busy,
		Poller:         a.Poller,
		Logger:         a.Logger.Named("dashboard"),
		Redirects:      a.Redirects,
		SessionChanges: sessions,
		InitialTab:     initial,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
