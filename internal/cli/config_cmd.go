// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/uniconnect/uniconnect-tui/internal/config"
)

// HandleConfig shows the effective configuration, prints the config file
// path, or writes a default config file.
//
//	uniconnect config show
//	uniconnect config path
//	uniconnect config init
func HandleConfig(w io.Writer, cfg *config.Config, path string, args Args) error {
	switch args.Subcommand {
	case "", "show":
		if args.JSON {
			return NewJSONResponse("config", cfg).Print(w)
		}
		fmt.Fprintln(w, DimStyle.Render("# "+path))
		fmt.Fprint(w, cfg.String())
		return nil

	case "path":
		fmt.Fprintln(w, path)
		return nil

	case "init":
		if _, err := os.Stat(path); err == nil {
			return NewCommandError("config", "init", fmt.Errorf("%s already exists", path))
		} else if !errors.Is(err, fs.ErrNotExist) {
			return NewCommandError("config", "init", err)
		}
		if err := config.SaveTOML(config.Default(), path); err != nil {
			return &ConfigError{Err: err}
		}
		fmt.Fprintln(w, SuccessStyle.Render("Wrote "+path))
		return nil
	}
	return NewValidationError("config subcommand", args.Subcommand, "expected show, path or init")
}
