// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the records exchanged with the UniConnect backend.
//
// Records are server-owned snapshots. The client never mutates them; every
// change is a round trip followed by a re-fetch of the owning list.
// Decoding is tolerant of the shapes the backend actually produces: the feed
// may be a bare array or a paged object, anonymity may be spelled
// isAnonymous or anonymous, and timestamps may lack a zone.
//
// # Key Types
//
//   - Post, Comment: feed and confession entries
//   - PYQ: past exam paper
//   - MarketplaceItem, Event, AlumniProfile, FoodCourt, PG, Club
//   - ChatMessage, UserRef: chat records and embedded owner references
//   - Feed: a post list decoded from either feed shape
//   - Timestamp: lenient time decoding
package model
