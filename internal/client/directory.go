// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"
	"net/http"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/model"
)

// Alumni covers alumni profiles.
type Alumni struct{ base }

// Profiles returns alumni of the session user's university.
func (a *Alumni) Profiles(ctx context.Context) ([]model.AlumniProfile, error) {
	var out []model.AlumniProfile
	err := a.gw.Do(ctx, api.Request{Path: "/alumni", Query: a.universityQuery()}, &out)
	return out, err
}

// CreateProfile publishes the caller's alumni profile.
func (a *Alumni) CreateProfile(ctx context.Context, req model.AlumniProfileRequest) (*model.AlumniProfile, error) {
	var out model.AlumniProfile
	err := a.gw.Do(ctx, api.Request{Method: http.MethodPost, Path: "/alumni/profile", Body: req}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Events covers campus events.
type Events struct{ base }

// List returns upcoming events.
func (e *Events) List(ctx context.Context) ([]model.Event, error) {
	var out []model.Event
	err := e.gw.Do(ctx, api.Request{Path: "/events", Query: e.universityQuery()}, &out)
	return out, err
}

// Clubs covers student clubs.
type Clubs struct{ base }

// List returns the clubs of the session user's university.
func (c *Clubs) List(ctx context.Context) ([]model.Club, error) {
	var out []model.Club
	err := c.gw.Do(ctx, api.Request{Path: "/clubs", Query: c.universityQuery()}, &out)
	return out, err
}

// PGs covers paying-guest accommodation.
type PGs struct{ base }

// List returns PG listings near campus.
func (p *PGs) List(ctx context.Context) ([]model.PG, error) {
	var out []model.PG
	err := p.gw.Do(ctx, api.Request{Path: "/pg", Query: p.universityQuery()}, &out)
	return out, err
}

// FoodCourts covers places to eat.
type FoodCourts struct{ base }

// List returns food courts near campus.
func (f *FoodCourts) List(ctx context.Context) ([]model.FoodCourt, error) {
	var out []model.FoodCourt
	err := f.gw.Do(ctx, api.Request{Path: "/food", Query: f.universityQuery()}, &out)
	return out, err
}
