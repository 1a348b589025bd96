// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/model"
	"github.com/uniconnect/uniconnect-tui/internal/session"
)

// =============================================================================
// LOGIN / REGISTER
// =============================================================================

// HandleLogin logs in, prompting for anything not given on the command line.
func HandleLogin(ctx context.Context, a *App, args Args) error {
	email := strings.TrimSpace(args.Email)
	password := args.Password

	var err error
	if email == "" {
		if email, err = a.Prompter.Ask("Email: "); err != nil {
			return NewCommandError("login", "read email", err)
		}
	}
	if password == "" {
		if password, err = a.Prompter.AskSecret("Password: "); err != nil {
			return NewCommandError("login", "read password", err)
		}
	}
	if email == "" || password == "" {
		return api.Validation("Please enter email and password")
	}

	resp, err := a.Clients.Auth.Login(ctx, email, password)
	if err != nil {
		if api.IsUnauthorized(err) {
			return &userMessageError{msg: "Invalid email or password", err: err}
		}
		return &userMessageError{msg: api.Message(err, "Login failed"), err: err}
	}
	a.Logger.Info("logged in")
	return printWelcome(a, "login", resp)
}

// HandleRegister creates an account and logs in.
func HandleRegister(ctx context.Context, a *App, args Args) error {
	name := strings.TrimSpace(args.Name)
	email := strings.TrimSpace(args.Email)
	password := args.Password

	var err error
	if name == "" {
		if name, err = a.Prompter.Ask("Name: "); err != nil {
			return NewCommandError("register", "read name", err)
		}
	}
	if email == "" {
		if email, err = a.Prompter.Ask("Email: "); err != nil {
			return NewCommandError("register", "read email", err)
		}
	}
	if password == "" {
		if password, err = a.Prompter.AskSecret("Password: "); err != nil {
			return NewCommandError("register", "read password", err)
		}
	}
	if name == "" || email == "" || password == "" {
		return api.Validation("Please fill all required fields")
	}

	resp, err := a.Clients.Auth.Register(ctx, model.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return &userMessageError{msg: api.Message(err, "Registration failed"), err: err}
	}
	a.Logger.Info("registered")
	return printWelcome(a, "register", resp)
}

func printWelcome(a *App, command string, resp *model.AuthResponse) error {
	if a.JSON {
		return NewJSONResponse(command, map[string]any{
			"userId":       resp.UserID,
			"name":         resp.Name,
			"email":        resp.Email,
			"role":         resp.Role,
			"universityId": resp.UniversityID,
		}).Print(a.Out)
	}
	name := resp.Name
	if name == "" {
		name = resp.Email
	}
	fmt.Fprintln(a.Out, SuccessStyle.Render("Welcome, "+name+"!"))
	return nil
}

// =============================================================================
// GUEST / LOGOUT
// =============================================================================

// HandleGuest switches to a guest session.
func HandleGuest(a *App) error {
	if err := a.Clients.Auth.EnterGuest(); err != nil {
		return NewCommandError("guest", "save session", err)
	}
	fmt.Fprintln(a.Out, InfoStyle.Render("Browsing as guest. Log in to post, comment or chat."))
	return nil
}

// HandleLogout clears the stored session.
func HandleLogout(a *App) error {
	if err := a.Controller.Logout(); err != nil {
		return NewCommandError("logout", "clear session", err)
	}
	// Logout always redirects; nothing is listening in one-shot mode.
	select {
	case <-a.Redirects:
	default:
	}
	fmt.Fprintln(a.Out, SuccessStyle.Render("Logged out."))
	return nil
}

// =============================================================================
// WHOAMI
// =============================================================================

// WhoamiInfo is the session summary printed by whoami.
type WhoamiInfo struct {
	State        string    `json:"state"`
	UserID       int64     `json:"userId,omitempty"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	Role         string    `json:"role,omitempty"`
	UniversityID int64     `json:"universityId,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt,omitzero"`
	Expired      bool      `json:"expired,omitempty"`
	SessionFile  string    `json:"sessionFile,omitempty"`

	// Profile is the backend's view of the user (GET /users/me). It is only
	// filled by HandleWhoami for a logged-in session.
	Profile      *model.UserRef `json:"profile,omitempty"`
	ProfileError string         `json:"profileError,omitempty"`
}

// Whoami summarizes snap. Token claims are decoded for display only.
func Whoami(snap session.Snapshot, path string, now time.Time) WhoamiInfo {
	info := WhoamiInfo{State: "logged out", SessionFile: path}
	switch {
	case snap.Authenticated() && snap.User != nil:
		info.State = "logged in"
		info.UserID = snap.User.UserID
		info.Name = snap.User.Name
		info.Email = snap.User.Email
		info.Role = snap.User.Role
		info.UniversityID = snap.User.UniversityID
		if tok, err := session.InspectToken(snap.Token); err == nil {
			info.ExpiresAt = tok.ExpiresAt
			info.Expired = tok.Expired(now)
		}
	case snap.Guest:
		info.State = "guest"
	}
	return info
}

// HandleWhoami prints the current session next to the profile the backend
// reports for it. A rejected token ends the session like any other 401.
func HandleWhoami(ctx context.Context, a *App) error {
	info := Whoami(a.Store.Snapshot(), a.Store.Path(), time.Now())
	if info.State == "logged in" {
		me, err := a.Clients.Users.Me(ctx)
		switch {
		case err == nil:
			info.Profile = me
		case api.IsUnauthorized(err):
			return ErrSessionExpired
		default:
			a.Logger.Warn("profile lookup failed", zap.Error(err))
			info.ProfileError = api.Message(err, "profile unavailable")
		}
	}
	if a.JSON {
		return NewJSONResponse("whoami", info).Print(a.Out)
	}

	fmt.Fprintln(a.Out, TitleStyle.Render("Session"))
	fmt.Fprintln(a.Out, RenderKeyValue("State", info.State))
	if info.UserID != 0 {
		fmt.Fprintln(a.Out, RenderKeyValue("User", fmt.Sprintf("%s (#%d)", info.Name, info.UserID)))
		fmt.Fprintln(a.Out, RenderKeyValue("Email", info.Email))
		if info.Role != "" {
			fmt.Fprintln(a.Out, RenderKeyValue("Role", info.Role))
		}
		if info.UniversityID != 0 {
			fmt.Fprintln(a.Out, RenderKeyValue("University", fmt.Sprintf("#%d", info.UniversityID)))
		}
	}
	if info.Profile != nil {
		fmt.Fprintln(a.Out, RenderKeyValue("Server profile", profileLine(info.Profile)))
	} else if info.ProfileError != "" {
		fmt.Fprintln(a.Out, RenderKeyValue("Server profile", DimStyle.Render("unavailable: "+info.ProfileError)))
	}
	if !info.ExpiresAt.IsZero() {
		exp := info.ExpiresAt.Local().Format("2006-01-02 15:04")
		if info.Expired {
			exp += " (expired)"
		}
		fmt.Fprintln(a.Out, RenderKeyValue("Token expires", exp))
	}
	if info.SessionFile != "" {
		fmt.Fprintln(a.Out, RenderKeyValue("Session file", info.SessionFile))
	}
	return nil
}

func profileLine(u *model.UserRef) string {
	line := fmt.Sprintf("%s (#%d)", u.Name, u.ID)
	if u.Email != "" {
		line += " <" + u.Email + ">"
	}
	if u.Role != "" {
		line += " " + u.Role
	}
	return line
}
