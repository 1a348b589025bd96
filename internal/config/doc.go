// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for uniconnect.
//
// Configuration is read from a TOML file, overlaid with environment
// variables, completed with defaults and validated.
//
// # Key Types
//
//   - Config: main configuration structure
//   - APIConfig: backend base URL, timeout and client-side throttle
//   - SessionConfig: where the session file lives and whether it is watched
//   - ChatConfig: background chat refresh interval
//   - PolicyConfig: guest-mode policy
//   - LogConfig: log level and file
//
// # Configuration Precedence
//
//   - Environment variables (UNICONNECT_*, NO_COLOR)
//   - ~/.uniconnect/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	base := cfg.API.BaseURL
package config
