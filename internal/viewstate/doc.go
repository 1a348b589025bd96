// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package viewstate owns the dashboard's state machine.
//
// The Controller tracks the active tab and the open conversation, loads tab
// content through the domain clients and commits view trees into a
// view.Screen. Every load takes a generation token before its request, so a
// slow response for a region that has since been reloaded is dropped.
//
// # Key Types
//
//   - Tab: the nine top-level views
//   - AppState: current tab, chat partner and message draft
//   - Controller: tab switching, loads and user actions
//   - ChatSubscription: background chat refresh for realtime.Poller
//
// # Usage
//
//	ctrl := viewstate.New(viewstate.Options{
//	    Clients: clients,
//	    Store:   store,
//	    Screen:  view.NewScreen(),
//	})
//	ctrl.Init(ctx, viewstate.TabFeed)
//	ctrl.SwitchTab(ctx, viewstate.TabMarketplace)
//	go realtime.NewPoller(logger).Run(ctx, ctrl.ChatSubscription())
package viewstate
