// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package realtime keeps views fresh without a push connection.
//
// A Subscription knows how often it wants refreshing and how to refresh
// itself. The Poller drives subscriptions on a ticker and swallows their
// failures, because nobody is watching a background refresh. Swapping the
// Poller for a push transport does not change the Subscription contract.
//
// # Key Types
//
//   - Subscription: interval plus a refresh step
//   - Reconciler: fetch, decide and apply, generic over the fetched type
//   - Poller: runs subscriptions until the context ends
package realtime
