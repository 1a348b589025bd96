// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewstate

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/model"
	"github.com/uniconnect/uniconnect-tui/internal/realtime"
	"github.com/uniconnect/uniconnect-tui/internal/view"
)

const guestChatNotice = "Log in to chat with other students."

// =============================================================================
// PARTNERS AND CONVERSATIONS
// =============================================================================

func (c *Controller) loadPartners(ctx context.Context) error {
	tok := c.screen.Begin(view.RegionPartners)
	if c.readOnly(c.store.Snapshot()) {
		c.screen.Commit(tok, view.Section(view.RegionPartners, view.Muted(guestChatNotice)))
		return nil
	}
	partners, err := c.clients.Chat.Partners(ctx)
	if err != nil {
		return err
	}
	c.commitPartners(tok, partners)
	return nil
}

func (c *Controller) commitPartners(tok view.Token, partners []model.UserRef) bool {
	c.mu.Lock()
	c.partners = partners
	active := c.state.PartnerID
	c.mu.Unlock()
	return c.screen.Commit(tok, view.Partners(partners, active))
}

// partnerName prefers the partner list, then the name the chat was opened
// with, then "User".
func (c *Controller) partnerName(id int64, partners []model.UserRef) string {
	for _, p := range partners {
		if p.ID == id && p.Name != "" {
			return p.Name
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.PartnerID == id && c.state.PartnerName != "" {
		return c.state.PartnerName
	}
	return "User"
}

// loadConversation fetches the conversation and partner list together and
// renders the conversation.
func (c *Controller) loadConversation(ctx context.Context, partnerID int64) error {
	tok := c.screen.Begin(view.RegionConversation)

	var (
		messages []model.ChatMessage
		partners []model.UserRef
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		messages, err = c.clients.Chat.Conversation(gctx, partnerID)
		return err
	})
	g.Go(func() (err error) {
		partners, err = c.clients.Chat.Partners(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	name := c.partnerName(partnerID, partners)
	c.screen.Commit(tok, view.Conversation(c.Viewer(), name, messages))
	return nil
}

// OpenChat makes partnerID the active conversation and loads it. name is
// shown until the partner list confirms it.
func (c *Controller) OpenChat(ctx context.Context, partnerID int64, name string) error {
	if partnerID == 0 {
		return nil
	}
	if err := c.guard("chat"); err != nil {
		return err
	}
	c.mu.Lock()
	if c.state.PartnerID != partnerID {
		c.state.Draft = ""
		c.state.PendingItemID = nil
	}
	c.state.PartnerID = partnerID
	c.state.PartnerName = name
	partners := c.partners
	c.mu.Unlock()

	// Re-mark the active partner right away.
	if partners != nil {
		c.commitPartners(c.screen.Latest(view.RegionPartners), partners)
	}

	c.loader.Show("Loading chat...")
	defer c.loader.Hide()
	if err := c.loadConversation(ctx, partnerID); err != nil {
		return c.actionFailed("open chat", err, "Failed to load conversation")
	}
	return nil
}

// OpenChatWithSeller opens a chat with a listing's seller and pre-fills a
// message about the item.
func (c *Controller) OpenChatWithSeller(ctx context.Context, sellerID, itemID int64, itemTitle string) error {
	if sellerID == 0 {
		return nil
	}
	if err := c.guard("contact sellers"); err != nil {
		return err
	}
	c.mu.Lock()
	c.state.PartnerID = sellerID
	c.state.PartnerName = ""
	c.mu.Unlock()

	if err := c.SwitchTab(ctx, TabMessages); api.IsUnauthorized(err) {
		return err
	}
	if err := c.OpenChat(ctx, sellerID, ""); err != nil {
		return err
	}

	item := itemID
	c.mu.Lock()
	c.state.Draft = `Hi, I'm interested in buying "` + itemTitle + `". Is it still available?`
	c.state.PendingItemID = &item
	c.mu.Unlock()
	return nil
}

// SendMessage sends the content to the active partner and reloads the
// conversation. Blank content or no open chat is a no-op.
func (c *Controller) SendMessage(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	st := c.State()
	if content == "" || st.PartnerID == 0 {
		return nil
	}
	if err := c.guard("chat"); err != nil {
		return err
	}
	if _, err := c.clients.Chat.Send(ctx, st.PartnerID, content, st.PendingItemID); err != nil {
		return c.actionFailed("send message", err, "Failed to send message")
	}

	c.mu.Lock()
	c.state.Draft = ""
	c.state.PendingItemID = nil
	c.mu.Unlock()

	if err := c.loadConversation(ctx, st.PartnerID); err != nil {
		return c.actionFailed("reload conversation", err, "Failed to load conversation")
	}
	return nil
}

// =============================================================================
// BACKGROUND REFRESH
// =============================================================================

// ChatSubscription refreshes the messages tab in the background.
type ChatSubscription struct {
	c *Controller
}

var _ realtime.Subscription = (*ChatSubscription)(nil)

// ChatSubscription returns the controller's chat subscription.
func (c *Controller) ChatSubscription() *ChatSubscription {
	return &ChatSubscription{c: c}
}

// Interval implements realtime.Subscription.
func (s *ChatSubscription) Interval() time.Duration { return s.c.pollInterval }

// Refresh does nothing unless the messages tab is active. It always
// refreshes the partner list and re-renders the open conversation only when
// the server has more messages than are shown. Fewer or equal messages never
// trigger a render, so deletions appear on the next manual load.
func (s *ChatSubscription) Refresh(ctx context.Context) error {
	c := s.c
	st := c.State()
	if st.Tab != TabMessages || c.readOnly(c.store.Snapshot()) {
		return nil
	}

	var errs []error
	partnersTok := c.screen.Latest(view.RegionPartners)
	partners, err := c.clients.Chat.Partners(ctx)
	if err != nil {
		errs = append(errs, err)
	} else {
		c.commitPartners(partnersTok, partners)
	}

	if st.PartnerID != 0 {
		convTok := c.screen.Latest(view.RegionConversation)
		rec := realtime.Reconciler[[]model.ChatMessage]{
			Fetch: func(ctx context.Context) ([]model.ChatMessage, error) {
				return c.clients.Chat.Conversation(ctx, st.PartnerID)
			},
			ShouldApply: func(msgs []model.ChatMessage) bool {
				return len(msgs) > c.screen.Count(view.RegionConversation, view.KindMessage)
			},
			Apply: func(msgs []model.ChatMessage) {
				if c.State().PartnerID != st.PartnerID {
					return
				}
				name := c.partnerName(st.PartnerID, partners)
				if c.screen.Commit(convTok, view.Conversation(c.Viewer(), name, msgs)) {
					c.logger.Debug("conversation refreshed", zap.Int64("partner_id", st.PartnerID), zap.Int("messages", len(msgs)))
				}
			},
		}
		if _, err := rec.Reconcile(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
