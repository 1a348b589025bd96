// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package client maps UniConnect resources onto gateway calls.
//
// There is one client per resource. University-scoped reads take the
// university id from the session user at call time; with no user the
// parameter is sent empty. Clients never swallow errors.
//
// # Usage
//
//	c := client.New(gw, store)
//	posts, err := c.Posts.Feed(ctx, client.FeedOptions{Type: model.PostNormal})
package client
