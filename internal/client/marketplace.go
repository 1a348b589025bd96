// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"
	"net/http"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/model"
)

// Marketplace covers listings for sale.
type Marketplace struct{ base }

// Items returns listings, optionally restricted to category.
func (m *Marketplace) Items(ctx context.Context, category string) ([]model.MarketplaceItem, error) {
	q := m.universityQuery()
	if category != "" {
		q.Set("category", category)
	}
	var out []model.MarketplaceItem
	err := m.gw.Do(ctx, api.Request{Path: "/marketplace/items", Query: q}, &out)
	return out, err
}

// Create lists an item.
func (m *Marketplace) Create(ctx context.Context, req model.ListingRequest) (*model.MarketplaceItem, error) {
	var out model.MarketplaceItem
	err := m.gw.Do(ctx, api.Request{Method: http.MethodPost, Path: "/marketplace/items", Body: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a listing.
func (m *Marketplace) Delete(ctx context.Context, id int64) error {
	return m.gw.Do(ctx, api.Request{Method: http.MethodDelete, Path: idPath("/marketplace/items/", id, "")}, nil)
}
