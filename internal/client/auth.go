// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/model"
	"github.com/uniconnect/uniconnect-tui/internal/session"
)

// Auth handles login, registration and logout.
type Auth struct {
	base
	store *session.Store
	nav   api.Navigator
}

// Login authenticates and stores token and user together.
func (a *Auth) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	err := a.gw.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   model.LoginRequest{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if err := a.establish(resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and stores the resulting session.
func (a *Auth) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	err := a.gw.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body:   req,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if err := a.establish(resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *Auth) establish(resp model.AuthResponse) error {
	if resp.Token == "" {
		return &api.Error{Kind: api.KindDecode, Message: "login response carried no token"}
	}
	user := &session.User{
		UserID:       resp.UserID,
		Email:        resp.Email,
		Name:         resp.Name,
		Role:         resp.Role,
		UniversityID: resp.UniversityID,
	}
	if err := a.store.SetSession(resp.Token, user); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// EnterGuest starts a guest session with no identity.
func (a *Auth) EnterGuest() error {
	if err := a.store.Clear(); err != nil {
		return err
	}
	return a.store.SetGuest(true)
}

// Logout clears token, user and guest flag, then leaves for the entry point.
func (a *Auth) Logout() error {
	if err := a.store.ClearAll(); err != nil {
		return err
	}
	if a.nav != nil {
		a.nav.ToLogin()
	}
	return nil
}

// Users reads user profiles.
type Users struct{ base }

// Me returns the authenticated user's full profile.
func (u *Users) Me(ctx context.Context) (*model.UserRef, error) {
	var me model.UserRef
	if err := u.gw.Do(ctx, api.Request{Path: "/users/me"}, &me); err != nil {
		return nil, err
	}
	return &me, nil
}
