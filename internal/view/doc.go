// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package view provides the declarative view tree the dashboard renders.
//
// Loaders never produce markup directly. They build a Node tree from server
// records, and a renderer turns the tree into HTML, plain text or styled
// terminal output. Text in the tree is always raw; the renderers are the
// only place escaping happens.
//
// # Key Types
//
//   - Node: one element of the tree (card, text, action, message...)
//   - Viewer: who is looking, used for owner-only affordances
//   - Screen: named content regions with supersede-on-restart commits
//
// # Usage
//
//	tok := screen.Begin(view.RegionFeed)
//	posts, err := clients.Posts.Feed(ctx, client.FeedOptions{Type: model.PostNormal})
//	if err == nil {
//	    screen.Commit(tok, view.Posts(viewer, view.RegionFeed, posts))
//	}
//
// A commit whose token was issued before a later Begin for the same region
// is dropped, so a slow response can never overwrite a newer one.
package view
