// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/model"
	"github.com/uniconnect/uniconnect-tui/internal/session"
	"github.com/uniconnect/uniconnect-tui/internal/testutil/fakeapi"
)

type harness struct {
	srv       *fakeapi.Server
	store     *session.Store
	clients   *Clients
	redirects int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{srv: fakeapi.New(t), store: session.NewMemoryStore()}
	nav := api.NavigatorFunc(func() { h.redirects++ })
	gw := api.New(api.Config{BaseURL: h.srv.URL()}, h.store, nav, nil)
	h.clients = New(gw, h.store, nav)
	return h
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	h.srv.AddUser(7, "Asha", "asha@uni.edu", "pw", 3)
	_, err := h.clients.Auth.Login(context.Background(), "asha@uni.edu", "pw")
	require.NoError(t, err)
}

func lastQuery(t *testing.T, srv *fakeapi.Server, path string) url.Values {
	t.Helper()
	calls := srv.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Path == "/api"+path {
			q, err := url.ParseQuery(calls[i].Query)
			require.NoError(t, err)
			return q
		}
	}
	t.Fatalf("no call to %s", path)
	return nil
}

// =============================================================================
// AUTH
// =============================================================================

func TestAuth_LoginSetsSession(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	snap := h.store.Snapshot()
	assert.Equal(t, fakeapi.TokenFor(7), snap.Token)
	require.NotNil(t, snap.User)
	assert.Equal(t, int64(7), snap.User.UserID)
	assert.Equal(t, int64(3), snap.User.UniversityID)
	assert.Equal(t, "Asha", snap.User.Name)
}

func TestUsers_Me(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	me, err := h.clients.Users.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &model.UserRef{ID: 7, Name: "Asha", Email: "asha@uni.edu", Role: "STUDENT"}, me)

	calls := h.srv.Calls()
	require.NotEmpty(t, calls)
	last := calls[len(calls)-1]
	assert.Equal(t, "/api/users/me", last.Path)
	assert.Equal(t, "Bearer "+fakeapi.TokenFor(7), last.Auth)
}

func TestUsers_MeUnknownTokenEndsSession(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.SetSession(fakeapi.TokenFor(99), &session.User{UserID: 99, Name: "Ghost"}))

	me, err := h.clients.Users.Me(context.Background())
	assert.Nil(t, me)
	assert.True(t, api.IsUnauthorized(err))
	assert.False(t, h.store.IsAuthenticated())
	assert.Equal(t, 1, h.redirects)
}

func TestAuth_FailedLoginLeavesNoSession(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser(7, "Asha", "asha@uni.edu", "pw", 3)

	_, err := h.clients.Auth.Login(context.Background(), "asha@uni.edu", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())
	assert.False(t, h.store.IsAuthenticated())
	assert.Nil(t, h.store.User())
}

func TestAuth_Register(t *testing.T) {
	h := newHarness(t)
	uni := int64(9)
	resp, err := h.clients.Auth.Register(context.Background(), model.RegisterRequest{
		Name: "Ben", Email: "ben@uni.edu", Password: "pw", UniversityID: &uni,
	})
	require.NoError(t, err)
	assert.Equal(t, resp.Token, h.store.Token())
	assert.Equal(t, int64(9), h.store.User().UniversityID)
}

func TestAuth_LogoutClearsEverythingAndNavigates(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	require.NoError(t, h.store.SetGuest(true))

	require.NoError(t, h.clients.Auth.Logout())
	assert.False(t, h.store.IsAuthenticated())
	assert.False(t, h.store.IsGuest())
	assert.Equal(t, 1, h.redirects)
}

func TestAuth_EnterGuest(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	require.NoError(t, h.clients.Auth.EnterGuest())
	assert.True(t, h.store.IsGuest())
	assert.False(t, h.store.IsAuthenticated())
}

// =============================================================================
// UNIVERSITY SCOPING
// =============================================================================

func TestUniversityIDFromSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.clients.Events.List(ctx)
	require.NoError(t, err)
	q := lastQuery(t, h.srv, "/events")
	assert.True(t, q.Has("universityId"))
	assert.Equal(t, "", q.Get("universityId"), "no user sends an empty id")

	h.login(t)
	_, err = h.clients.Events.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3", lastQuery(t, h.srv, "/events").Get("universityId"))
}

func TestPosts_FeedQueryAndPage(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.srv.SetPosts(
		model.Post{ID: 1, Type: model.PostNormal, Content: "hello"},
		model.Post{ID: 2, Type: model.PostConfession, Content: "secret", Anonymous: true},
	)

	posts, err := h.clients.Posts.Feed(context.Background(), FeedOptions{Type: model.PostConfession, Size: 20})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.True(t, posts[0].Anonymous)

	q := lastQuery(t, h.srv, "/posts/feed")
	assert.Equal(t, "CONFESSION", q.Get("type"))
	assert.Equal(t, "20", q.Get("size"))
	assert.False(t, q.Has("page"))
}

func TestPosts_Mutations(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	ctx := context.Background()

	p, err := h.clients.Posts.Create(ctx, "first!", model.PostNormal, false)
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.OwnerID())

	require.NoError(t, h.clients.Posts.Like(ctx, p.ID))
	require.NoError(t, h.clients.Posts.Comment(ctx, p.ID, "nice"))

	posts := h.srv.Posts()
	require.Len(t, posts, 1)
	assert.Equal(t, 1, posts[0].LikeCount)
	require.Len(t, posts[0].Comments, 1)

	require.NoError(t, h.clients.Posts.DeleteComment(ctx, posts[0].Comments[0].ID))
	require.NoError(t, h.clients.Posts.Delete(ctx, p.ID))
	assert.Empty(t, h.srv.Posts())
}

func TestPYQs_UploadAndFilter(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	ctx := context.Background()

	_, err := h.clients.PYQs.Upload(ctx, PYQUpload{
		Subject: "Maths", Year: "2023", ExamType: model.ExamEndSem,
		FileName: "/home/asha/papers/maths.pdf", File: strings.NewReader("%PDF"),
	})
	require.NoError(t, err)

	ups := h.srv.Uploads()
	require.Len(t, ups, 1)
	assert.Equal(t, "maths.pdf", ups[0].FileName)
	assert.Equal(t, "2023", ups[0].Year)
	assert.Equal(t, "END_SEM", ups[0].ExamType)

	list, err := h.clients.PYQs.List(ctx, PYQFilter{Subject: "maths", Year: 2023})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	q := lastQuery(t, h.srv, "/pyqs")
	assert.Equal(t, "2023", q.Get("year"))
}

func TestChat_SendConversationPartners(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.srv.AddUser(8, "Ben", "ben@uni.edu", "pw", 3)
	ctx := context.Background()

	item := int64(55)
	_, err := h.clients.Chat.Send(ctx, 8, "is it available?", &item)
	require.NoError(t, err)

	msgs, err := h.clients.Chat.Conversation(ctx, 8)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].SentBy(7))
	require.NotNil(t, msgs[0].ItemID)
	assert.Equal(t, int64(55), *msgs[0].ItemID)

	partners, err := h.clients.Chat.Partners(ctx)
	require.NoError(t, err)
	require.Len(t, partners, 1)
	assert.Equal(t, "Ben", partners[0].Name)
}

func TestSearch_EncodesQuery(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.srv.SetItems(model.MarketplaceItem{ID: 1, Title: "Calculus & Co book"})

	res, err := h.clients.Search.Query(context.Background(), "calculus & co")
	require.NoError(t, err)
	assert.Len(t, res.Marketplace, 1)
	assert.Equal(t, "calculus & co", lastQuery(t, h.srv, "/search").Get("query"))
}

func TestErrorsPropagate(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.srv.Fail("/marketplace/items", 500, "database down")

	_, err := h.clients.Marketplace.Items(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "database down", err.Error())
	assert.True(t, h.store.IsAuthenticated())
}

func TestUnauthorizedClearsSession(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.srv.ExpireSessions()

	_, err := h.clients.Clubs.List(context.Background())
	assert.True(t, api.IsUnauthorized(err))
	assert.False(t, h.store.IsAuthenticated())
	assert.Equal(t, 1, h.redirects)
	assert.Equal(t, 1, h.srv.CallCount("/clubs"))
}
