// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/uniconnect/uniconnect-tui/internal/viewstate"
)

// Version information, set at build time.
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the subcommand to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdRegister
	CmdGuest
	CmdLogout
	CmdWhoami
	CmdTab
	CmdSearch
	CmdPost
	CmdChat
	CmdExport
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	NoColor    bool
	Verbose    bool
	JSON       bool
	ConfigPath string

	// Command-specific
	Subcommand string
	Tab        viewstate.Tab
	HasTab     bool
	Query      string
	Content    string
	Confession bool
	Email      string
	Password   string
	Name       string
	PartnerID  int64
	Format     string
	Output     string
	Open       bool

	// Raw holds the arguments after the command name.
	Raw []string
}

const usageText = `uniconnect - terminal client for the UniConnect campus network

Usage:
  uniconnect                        Start the dashboard (default)
  uniconnect tui [--tab NAME]       Start the dashboard on a tab
  uniconnect login [-e EMAIL] [-p PASSWORD]
                                    Log in (prompts for missing values)
  uniconnect register               Create an account
  uniconnect guest                  Continue as a read-only guest
  uniconnect logout                 Clear the stored session
  uniconnect whoami                 Show the current session

Browsing:
  uniconnect feed                   Print the feed
  uniconnect confessions            Print confessions
  uniconnect pyq                    Print past papers
  uniconnect alumni                 Print alumni profiles
  uniconnect freshers               Print food courts, PGs and clubs
  uniconnect marketplace            Print marketplace listings
  uniconnect events                 Print upcoming events
  uniconnect messages               Print chat partners
  uniconnect search QUERY           Search posts and listings

Posting and chat:
  uniconnect post TEXT [--confession]
                                    Create a post or anonymous confession
  uniconnect chat USER_ID           Chat with a user (refreshes every 5s)
  uniconnect export --with USER_ID [--format html|md|json] [--out DIR] [--open]
                                    Export a conversation to a file

Other:
  uniconnect config [show|path]     Show configuration
  uniconnect version                Show version
  uniconnect help                   Show this help

Global Flags:
  --config FILE   Use a different config file
  --no-color      Disable colors (also NO_COLOR)
  -v, --verbose   Debug logging
  --json          JSON output where supported

Environment:
  UNICONNECT_API_URL, UNICONNECT_API_TIMEOUT, UNICONNECT_RPS,
  UNICONNECT_SESSION_DIR, UNICONNECT_POLL_INTERVAL,
  UNICONNECT_LOG_LEVEL, UNICONNECT_LOG_FILE

Version: %s
`

// PrintUsage writes the help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "uniconnect version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses the process arguments (without the program name).
func Parse(argv []string) (Command, Args, error) {
	remaining, args := parseGlobalFlags(argv)
	if len(remaining) == 0 {
		return CmdTUI, args, nil
	}

	name := strings.ToLower(remaining[0])
	rest := remaining[1:]
	args.Raw = rest

	if tab, err := viewstate.ParseTab(name); err == nil && tab != viewstate.TabSearchResults {
		args.Tab = tab
		args.HasTab = true
		return CmdTab, args, nil
	}

	switch name {
	case "tui", "dashboard":
		p := NewArgParser(rest)
		if t := p.Flag("tab", "t"); t != "" {
			tab, err := viewstate.ParseTab(t)
			if err != nil {
				return CmdTUI, args, NewValidationError("tab", t, "unknown tab")
			}
			args.Tab = tab
			args.HasTab = true
		}
		return CmdTUI, args, nil

	case "login":
		p := NewArgParser(rest)
		args.Email = p.Flag("email", "e")
		args.Password = p.Flag("password", "p")
		return CmdLogin, args, nil

	case "register", "signup":
		p := NewArgParser(rest)
		args.Name = p.Flag("name", "n")
		args.Email = p.Flag("email", "e")
		args.Password = p.Flag("password", "p")
		return CmdRegister, args, nil

	case "guest":
		return CmdGuest, args, nil

	case "logout":
		return CmdLogout, args, nil

	case "whoami":
		return CmdWhoami, args, nil

	case "search":
		args.Query = strings.Join(rest, " ")
		if strings.TrimSpace(args.Query) == "" {
			return CmdSearch, args, ErrMissingArgument("query", "uniconnect search calculator")
		}
		return CmdSearch, args, nil

	case "post":
		p := NewArgParser(rest, "confession", "c")
		args.Confession = p.BoolFlag("confession", "c")
		args.Content = JoinPositionalArgs(p, 0)
		if strings.TrimSpace(args.Content) == "" {
			return CmdPost, args, ErrMissingArgument("text", `uniconnect post "Anyone up for cricket?"`)
		}
		return CmdPost, args, nil

	case "chat":
		p := NewArgParser(rest)
		id, err := ParseID(p.Positional(0), "user id")
		if err != nil {
			return CmdChat, args, err
		}
		args.PartnerID = id
		return CmdChat, args, nil

	case "export":
		p := NewArgParser(rest, "open")
		id, err := p.FlagInt64("with", "w")
		if err != nil {
			return CmdExport, args, err
		}
		args.PartnerID = id
		args.Format = strings.ToLower(p.FlagOrDefault("format", "md"))
		args.Output = p.Flag("out", "o")
		args.Open = p.BoolFlag("open")
		return CmdExport, args, nil

	case "config":
		args.Subcommand = "show"
		if len(rest) > 0 {
			args.Subcommand = strings.ToLower(rest[0])
		}
		return CmdConfig, args, nil

	case "version", "--version":
		return CmdVersion, args, nil

	case "help", "--help", "-h":
		return CmdHelp, args, nil
	}

	return CmdHelp, args, NewValidationError("command", name, "unknown command")
}

// parseGlobalFlags extracts flags that apply to every command. They may
// appear anywhere before a "--".
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	var remaining []string
	for i := 0; i < len(argv); i++ {
		switch a := argv[i]; a {
		case "--no-color":
			args.NoColor = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--json":
			args.JSON = true
		case "--config":
			if i+1 < len(argv) {
				args.ConfigPath = argv[i+1]
				i++
			}
		default:
			if v, ok := strings.CutPrefix(a, "--config="); ok {
				args.ConfigPath = v
				continue
			}
			remaining = append(remaining, a)
		}
	}
	return remaining, args
}
