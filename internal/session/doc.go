// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session persists the authenticated identity of the client.
//
// The token and the user profile live in one JSON file that is replaced
// atomically, so a reader observes both or neither. A guest flag is kept
// alongside them. Expiry is never tracked locally; the API gateway clears
// the session when the backend answers 401.
//
// # Key Types
//
//   - Store: mutex-guarded, file-backed (or in-memory) session
//   - User: the profile returned by login and register
//   - Snapshot: a consistent copy of the whole session
//   - TokenInfo: unverified claims of the bearer token, for display
//
// # Usage
//
//	store, err := session.NewStore(dir)
//	if err != nil {
//	    return err
//	}
//	if err := store.SetSession(resp.Token, &user); err != nil {
//	    return err
//	}
//	if store.IsAuthenticated() {
//	    // attach store.Token()
//	}
package session
