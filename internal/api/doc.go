// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the single choke point for calls to the UniConnect backend.
//
// Every request goes through Client.Do or Client.Upload, which attach the
// bearer token, interpret the status code and normalize error shapes.
// A 401 clears the session and redirects to login before the caller sees
// the error; it is never retried.
//
// # Key Types
//
//   - Client: the gateway
//   - Request: method, path, query, JSON body and header overrides
//   - Multipart: text fields plus one file, for uploads
//   - Error: normalized failure with a Kind (Unauthorized, RequestFailed, ...)
//
// # Usage
//
//	gw := api.New(api.Config{BaseURL: cfg.API.BaseURL}, store, nav, logger)
//	var posts []model.Post
//	err := gw.Do(ctx, api.Request{Path: "/posts/feed"}, &posts)
//	if api.IsUnauthorized(err) {
//	    // already redirected
//	}
package api
