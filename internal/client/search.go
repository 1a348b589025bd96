// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/model"
)

// Search covers the combined posts and marketplace search.
type Search struct{ base }

// Query runs one search. The query is sent as given.
func (s *Search) Query(ctx context.Context, query string) (*model.SearchResults, error) {
	q := s.universityQuery()
	q.Set("query", query)
	var out model.SearchResults
	if err := s.gw.Do(ctx, api.Request{Path: "/search", Query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
