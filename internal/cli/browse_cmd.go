// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/uniconnect/uniconnect-tui/internal/view"
	"github.com/uniconnect/uniconnect-tui/internal/viewstate"
)

// =============================================================================
// TABS
// =============================================================================

// HandleTab loads one tab and prints its regions as text.
func HandleTab(ctx context.Context, a *App, args Args) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if err := a.finish(a.Controller.SwitchTab(ctx, args.Tab)); err != nil {
		return err
	}
	return printRegions(a, args.Tab.String(), args.Tab.Regions())
}

// HandleSearch searches posts and listings and prints both result lists.
func HandleSearch(ctx context.Context, a *App, args Args) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if err := a.finish(a.Controller.Search(ctx, args.Query)); err != nil {
		return err
	}
	return printRegions(a, "search", viewstate.TabSearchResults.Regions())
}

// printRegions writes the filled regions in order. Unfilled regions, such
// as a conversation nobody opened, are skipped.
func printRegions(a *App, command string, ids []string) error {
	screen := a.Controller.Screen()
	if a.JSON {
		out := make(map[string]string, len(ids))
		for _, id := range ids {
			if n, ok := screen.Region(id); ok {
				out[id] = view.RenderText(n)
			}
		}
		return NewJSONResponse(command, out).Print(a.Out)
	}

	var blocks []string
	for _, id := range ids {
		if n, ok := screen.Region(id); ok {
			blocks = append(blocks, view.RenderText(n))
		}
	}
	fmt.Fprint(a.Out, strings.Join(blocks, "\n"))
	return nil
}

// =============================================================================
// POST
// =============================================================================

// HandlePost creates a post or an anonymous confession.
func HandlePost(ctx context.Context, a *App, args Args) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	return a.finish(a.Controller.CreatePost(ctx, args.Content, args.Confession))
}
