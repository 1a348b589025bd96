// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/export"
	"github.com/uniconnect/uniconnect-tui/internal/model"
)

var exportFormats = []string{"md", "html", "json"}

// HandleExport writes one conversation to a file.
func HandleExport(ctx context.Context, a *App, args Args) error {
	if !a.Store.IsAuthenticated() {
		return ErrNotLoggedIn
	}

	opts := export.DefaultOptions()
	if args.Output != "" {
		opts.OutputDir = args.Output
	}
	opts.OpenAfterExport = args.Open
	exporter, err := export.New(args.Format, opts)
	if err != nil {
		return ErrUnsupportedFormat(args.Format, exportFormats)
	}

	conv, err := loadConversation(ctx, a, args.PartnerID)
	if err != nil {
		return err
	}
	if len(conv.Messages) == 0 {
		return api.Validation("No messages to export")
	}

	path, err := export.ExportToFile(conv, exporter, opts)
	if err != nil {
		return NewCommandError("export", "write file", err)
	}
	a.Logger.Info("conversation exported")

	if a.JSON {
		return NewJSONResponse("export", map[string]any{
			"path":     path,
			"messages": len(conv.Messages),
		}).Print(a.Out)
	}
	fmt.Fprintln(a.Out, SuccessStyle.Render(fmt.Sprintf("Exported %d messages to %s", len(conv.Messages), path)))
	return nil
}

// loadConversation fetches the messages and the partner list together. The
// partner's name comes from the list; unknown partners are "User".
func loadConversation(ctx context.Context, a *App, partnerID int64) (*export.Conversation, error) {
	var (
		messages []model.ChatMessage
		partners []model.UserRef
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		messages, err = a.Clients.Chat.Conversation(gctx, partnerID)
		return err
	})
	g.Go(func() (err error) {
		partners, err = a.Clients.Chat.Partners(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	partner := model.UserRef{ID: partnerID, Name: "User"}
	for _, p := range partners {
		if p.ID == partnerID {
			partner = p
			break
		}
	}

	self := model.UserRef{}
	if u := a.Store.User(); u != nil {
		self = model.UserRef{ID: u.UserID, Name: u.Name, Email: u.Email}
	}
	return &export.Conversation{
		Self:       self,
		Partner:    partner,
		Messages:   messages,
		ExportedAt: time.Now(),
	}, nil
}
