// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the uniconnect command line.
//
// Without arguments uniconnect starts the full-screen dashboard. The other
// commands run one operation against the backend and print the result, so
// the client can be scripted.
//
// # Key Types
//
//   - Command: the subcommand to run
//   - Args: parsed global and command-specific flags
//   - App: the wired client core shared by every command
//   - LineReader: chat input, backed by a terminal line editor
//
// # Usage
//
//	cmd, args, err := cli.Parse(os.Args[1:])
//	app, err := cli.NewApp(cfg, logger, cli.AppOptions{JSON: args.JSON})
//	switch cmd {
//	case cli.CmdLogin:
//	    err = cli.HandleLogin(ctx, app, args)
//	case cli.CmdChat:
//	    err = cli.HandleChat(ctx, app, args, cli.NewLineReader())
//	// ... other commands
//	}
//	os.Exit(cli.GetExitCode(err))
//
// # Commands
//
// Session:
//   - login, register, guest, logout, whoami
//
// Browsing:
//   - feed, pyq, confessions, alumni, freshers, marketplace, events,
//     messages: print one tab
//   - search: posts and listings matching a query
//
// Actions:
//   - post: create a post or an anonymous confession
//   - chat: interactive conversation with background refresh
//   - export: write a conversation as Markdown, HTML or JSON
//
// # Exit Codes
//
// 0 success, 1 general error, 2 usage or validation error, 3 configuration
// error, 4 missing or expired session, 5 network error, 6 request rejected
// by the backend.
package cli
