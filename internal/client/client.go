// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"net/url"
	"strconv"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/session"
)

// Identity supplies the current session user.
type Identity interface {
	User() *session.User
}

// Clients bundles every domain client over one gateway.
type Clients struct {
	Auth        *Auth
	Users       *Users
	Posts       *Posts
	PYQs        *PYQs
	Alumni      *Alumni
	Marketplace *Marketplace
	Events      *Events
	Clubs       *Clubs
	PGs         *PGs
	FoodCourts  *FoodCourts
	Chat        *Chat
	Search      *Search
}

// New builds all clients. store backs both the identity lookups and the
// login/logout flows of Auth.
func New(gw api.Doer, store *session.Store, nav api.Navigator) *Clients {
	b := base{gw: gw, id: store}
	return &Clients{
		Auth:        &Auth{base: b, store: store, nav: nav},
		Users:       &Users{b},
		Posts:       &Posts{b},
		PYQs:        &PYQs{b},
		Alumni:      &Alumni{b},
		Marketplace: &Marketplace{b},
		Events:      &Events{b},
		Clubs:       &Clubs{b},
		PGs:         &PGs{b},
		FoodCourts:  &FoodCourts{b},
		Chat:        &Chat{b},
		Search:      &Search{b},
	}
}

// base carries what every client needs.
type base struct {
	gw api.Doer
	id Identity
}

// universityQuery returns universityId=<id>, empty when there is no user.
func (b base) universityQuery() url.Values {
	q := url.Values{}
	var id string
	if b.id != nil {
		if u := b.id.User(); u != nil && u.UniversityID != 0 {
			id = strconv.FormatInt(u.UniversityID, 10)
		}
	}
	q.Set("universityId", id)
	return q
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + strconv.FormatInt(id, 10) + suffix
}
