// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"
	"net/http"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/model"
)

// Chat covers two-party messaging.
type Chat struct{ base }

// Send posts a message. itemID ties it to a marketplace listing and may be nil.
func (c *Chat) Send(ctx context.Context, receiverID int64, content string, itemID *int64) (*model.ChatMessage, error) {
	var out model.ChatMessage
	err := c.gw.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/chat/send",
		Body:   model.SendMessageRequest{ReceiverID: receiverID, Content: content, ItemID: itemID},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Conversation returns every message exchanged with otherUserID, oldest first.
func (c *Chat) Conversation(ctx context.Context, otherUserID int64) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	err := c.gw.Do(ctx, api.Request{Path: idPath("/chat/conversation/", otherUserID, "")}, &out)
	return out, err
}

// Partners returns the users the caller has chatted with.
func (c *Chat) Partners(ctx context.Context) ([]model.UserRef, error) {
	var out []model.UserRef
	err := c.gw.Do(ctx, api.Request{Path: "/chat/partners"}, &out)
	return out, err
}
