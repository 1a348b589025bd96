// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat conversations to files.
//
// # Key Types
//
//   - Conversation: one thread between the user and a partner
//   - Exporter: format interface implemented by Markdown, HTML and JSON
//   - Options: output directory, timestamps and HTML theme
//
// # Usage
//
//	exp, err := export.New("md", nil)
//	path, err := export.ExportToFile(&export.Conversation{
//	    Self:     me,
//	    Partner:  partner,
//	    Messages: msgs,
//	}, exp, &export.Options{OutputDir: dir})
package export
