// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the uniconnect client.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: crash-safe write used for the session file, config and exports
//   - RemoveIfExists: delete a file, treating absence as success
//
// String Utilities:
//   - TruncateWidth: display-width truncation (CJK aware, via go-runewidth)
//   - SafeFilename: reduce arbitrary text to a portable file name
//
// # Usage
//
//	err := util.AtomicWriteFile(path, data, 0600)
//	label := util.TruncateWidth(post.Content, 60)
package util
