// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the UniConnect
// terminal client. Colors are Lip Gloss AdaptiveColors so light and dark
// terminals both read well.
//
// # Key Types
//
//   - Theme: styles for the frame, content nodes, chat bubbles and forms
//   - LayoutMode: narrow, medium or wide layout
//
// # Usage
//
//	theme := styles.NewTheme(cfg.UI.NoColor)
//	theme.SetSize(width, height)
//	if theme.GetLayoutMode() == styles.LayoutWide {
//	    // render the sidebar
//	}
package styles
