// uniconnect - terminal client for the UniConnect campus network.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/uniconnect/uniconnect-tui/internal/cli"
	"github.com/uniconnect/uniconnect-tui/internal/config"
	"github.com/uniconnect/uniconnect-tui/internal/logging"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	cmd, args, err := cli.Parse(argv)
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
		if cmd == cli.CmdHelp {
			fmt.Fprintln(os.Stderr)
			cli.PrintUsage(os.Stderr)
		}
		return cli.GetExitCode(err)
	}

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return cli.ExitSuccess
	case cli.CmdVersion:
		cli.PrintVersion(os.Stdout)
		return cli.ExitSuccess
	}

	path := args.ConfigPath
	if path == "" {
		if path, err = config.Path(); err != nil {
			return fail(&cli.ConfigError{Err: err}, args)
		}
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return fail(&cli.ConfigError{Err: err}, args)
	}
	config.SetGlobal(cfg)

	if args.NoColor || cfg.UI.NoColor {
		cli.ForceColorsEnabled(false)
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if cmd == cli.CmdConfig {
		return fail(cli.HandleConfig(os.Stdout, cfg, path, args), args)
	}

	logger, cleanup, err := newLogger(cfg, args, cmd == cli.CmdTUI)
	if err != nil {
		return fail(&cli.ConfigError{Err: err}, args)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(cfg, logger, cli.AppOptions{JSON: args.JSON})
	if err != nil {
		return fail(err, args)
	}
	logger.Debug("starting", zap.String("version", Version), zap.String("base_url", cfg.API.BaseURL))

	switch cmd {
	case cli.CmdTUI:
		err = cli.RunTUI(ctx, app, args)
	case cli.CmdLogin:
		err = cli.HandleLogin(ctx, app, args)
	case cli.CmdRegister:
		err = cli.HandleRegister(ctx, app, args)
	case cli.CmdGuest:
		err = cli.HandleGuest(app)
	case cli.CmdLogout:
		err = cli.HandleLogout(app)
	case cli.CmdWhoami:
		err = cli.HandleWhoami(ctx, app)
	case cli.CmdTab:
		err = cli.HandleTab(ctx, app, args)
	case cli.CmdSearch:
		err = cli.HandleSearch(ctx, app, args)
	case cli.CmdPost:
		err = cli.HandlePost(ctx, app, args)
	case cli.CmdChat:
		err = cli.HandleChat(ctx, app, args, cli.NewLineReader())
	case cli.CmdExport:
		err = cli.HandleExport(ctx, app, args)
	}
	if err != nil {
		logger.Warn("command failed", zap.Error(err))
	}
	return fail(err, args)
}

// newLogger writes to the log file. The dashboard owns the terminal, so
// only one-shot commands with --verbose log to stderr.
func newLogger(cfg *config.Config, args cli.Args, fullScreen bool) (*zap.Logger, func(), error) {
	opts := logging.Options{Level: cfg.Log.Level}
	if args.Verbose {
		opts.Level = "debug"
	}
	file, err := cfg.LogFile()
	if err != nil {
		return nil, nil, err
	}
	opts.File = file
	if args.Verbose && cfg.Log.File == "" && !fullScreen {
		opts.File = ""
	}
	return logging.New(opts)
}

func fail(err error, args cli.Args) int {
	if err != nil {
		cli.DisplayError(os.Stderr, err, args.JSON)
	}
	return cli.GetExitCode(err)
}
