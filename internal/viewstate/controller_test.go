// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewstate

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/client"
	"github.com/uniconnect/uniconnect-tui/internal/model"
	"github.com/uniconnect/uniconnect-tui/internal/session"
	"github.com/uniconnect/uniconnect-tui/internal/testutil/fakeapi"
	"github.com/uniconnect/uniconnect-tui/internal/view"
)

// =============================================================================
// HARNESS
// =============================================================================

type toast struct {
	level string
	msg   string
}

type recorder struct {
	mu     sync.Mutex
	toasts []toast
	shows  int
	hides  int
}

func (r *recorder) add(level, msg string) {
	r.mu.Lock()
	r.toasts = append(r.toasts, toast{level, msg})
	r.mu.Unlock()
}

func (r *recorder) Success(msg string) { r.add("success", msg) }
func (r *recorder) Error(msg string)   { r.add("error", msg) }
func (r *recorder) Info(msg string)    { r.add("info", msg) }

func (r *recorder) Show(string) { r.mu.Lock(); r.shows++; r.mu.Unlock() }
func (r *recorder) Hide()       { r.mu.Lock(); r.hides++; r.mu.Unlock() }

func (r *recorder) all() []toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]toast(nil), r.toasts...)
}

func (r *recorder) last() toast {
	all := r.all()
	if len(all) == 0 {
		return toast{}
	}
	return all[len(all)-1]
}

func (r *recorder) balanced() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shows == r.hides
}

type harness struct {
	srv       *fakeapi.Server
	store     *session.Store
	ctrl      *Controller
	rec       *recorder
	logs      *observer.ObservedLogs
	redirects atomic.Int32
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		srv:   fakeapi.New(t),
		store: session.NewMemoryStore(),
		rec:   &recorder{},
	}
	core, logs := observer.New(zapcore.DebugLevel)
	h.logs = logs
	logger := zap.New(core)

	nav := api.NavigatorFunc(func() { h.redirects.Add(1) })
	gw := api.New(api.Config{BaseURL: h.srv.URL()}, h.store, nav, logger)
	h.ctrl = New(Options{
		Clients:       client.New(gw, h.store, nav),
		Store:         h.store,
		Notifier:      h.rec,
		Loader:        h.rec,
		Logger:        logger,
		GuestReadOnly: true,
		PollInterval:  time.Second,
	})
	return h
}

// loginAs seeds a user and stores its session directly.
func (h *harness) loginAs(t *testing.T, id int64, name string) {
	t.Helper()
	token := h.srv.AddUser(id, name, name+"@uni.edu", "pw", 1)
	require.NoError(t, h.store.SetSession(token, &session.User{UserID: id, Name: name, UniversityID: 1}))
}

func (h *harness) regionText(t *testing.T, region string) string {
	t.Helper()
	n, ok := h.ctrl.Screen().Region(region)
	require.True(t, ok, "region %s was never rendered", region)
	return view.RenderText(n)
}

func ref(id int64, name string) *model.UserRef {
	return &model.UserRef{ID: id, Name: name}
}

func msg(id, from, to int64, content string) model.ChatMessage {
	return model.ChatMessage{ID: id, Sender: &model.UserRef{ID: from}, Receiver: &model.UserRef{ID: to}, Content: content}
}

// =============================================================================
// TAB STATE MACHINE
// =============================================================================

func TestSwitchTab_RendersAndShowsOnlyItsRegions(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	h.srv.SetPYQs(model.PYQ{ID: 1, Subject: "DBMS", Year: 2022})

	require.NoError(t, h.ctrl.SwitchTab(context.Background(), TabPYQ))

	assert.Equal(t, TabPYQ, h.ctrl.State().Tab)
	assert.True(t, h.ctrl.Screen().IsVisible(view.RegionPYQ))
	assert.False(t, h.ctrl.Screen().IsVisible(view.RegionFeed))
	assert.Contains(t, h.regionText(t, view.RegionPYQ), "DBMS")
	assert.True(t, h.rec.balanced())
}

func TestInit_LoadsInitialTabAndContributors(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	h.srv.SetContributors(model.Contributor{ID: 7, Name: "Asha", PostCount: 12})

	require.NoError(t, h.ctrl.Init(context.Background(), TabEvents))
	assert.Equal(t, TabEvents, h.ctrl.State().Tab)
	assert.Contains(t, h.regionText(t, view.RegionEvents), view.EmptyEvents)
	assert.Contains(t, h.regionText(t, view.RegionContributors), "12 posts")
}

func TestSwitchTab_SameTabTwiceKeepsSecondResponse(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	ctx := context.Background()

	h.srv.SetPosts(model.Post{ID: 1, Type: model.PostNormal, Content: "stale"})
	release := h.srv.HoldNext("/posts/feed")

	first := make(chan error, 1)
	go func() { first <- h.ctrl.SwitchTab(ctx, TabFeed) }()
	require.True(t, h.srv.WaitForCalls("/posts/feed", 1, 2*time.Second))

	h.srv.SetPosts(model.Post{ID: 2, Type: model.PostNormal, Content: "fresh"})
	require.NoError(t, h.ctrl.SwitchTab(ctx, TabFeed))

	h.srv.SetPosts(model.Post{ID: 1, Type: model.PostNormal, Content: "stale"})
	release()
	require.NoError(t, <-first)

	assert.Equal(t, 2, h.srv.CallCount("/posts/feed"))
	text := h.regionText(t, view.RegionFeed)
	assert.Contains(t, text, "fresh")
	assert.NotContains(t, text, "stale")
}

func TestSwitchTab_SlowResponseDoesNotChangeVisibleTab(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	ctx := context.Background()

	release := h.srv.HoldNext("/posts/feed")
	done := make(chan error, 1)
	go func() { done <- h.ctrl.SwitchTab(ctx, TabFeed) }()
	require.True(t, h.srv.WaitForCalls("/posts/feed", 1, 2*time.Second))

	require.NoError(t, h.ctrl.SwitchTab(ctx, TabPYQ))
	release()
	require.NoError(t, <-done)

	assert.Equal(t, TabPYQ, h.ctrl.State().Tab)
	assert.True(t, h.ctrl.Screen().IsVisible(view.RegionPYQ))
	assert.False(t, h.ctrl.Screen().IsVisible(view.RegionFeed))
}

func TestLoadFailureNotifiesAndKeepsOldContent(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	ctx := context.Background()
	h.srv.SetItems(model.MarketplaceItem{ID: 1, Title: "Lamp"})
	require.NoError(t, h.ctrl.SwitchTab(ctx, TabMarketplace))

	h.srv.Fail("/marketplace/items", 500, "")
	err := h.ctrl.Reload(ctx)
	require.Error(t, err)

	assert.Equal(t, toast{"error", "Failed to load marketplace"}, h.rec.last())
	assert.Contains(t, h.regionText(t, view.RegionMarketplace), "Lamp")
	assert.True(t, h.rec.balanced())
}

func TestUnauthorizedLoadRedirectsWithoutToast(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	h.srv.ExpireSessions()

	err := h.ctrl.SwitchTab(context.Background(), TabEvents)
	assert.True(t, api.IsUnauthorized(err))
	assert.False(t, h.store.IsAuthenticated())
	assert.Equal(t, int32(1), h.redirects.Load())
	assert.Empty(t, h.rec.all())
	assert.Equal(t, 1, h.srv.CallCount("/events"))
}

// =============================================================================
// FRESHERS HUB
// =============================================================================

func TestFreshers_RendersAllThree(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	h.srv.SetFoodCourts(model.FoodCourt{ID: 1, Name: "Canteen"})
	h.srv.SetPGs(model.PG{ID: 1, Name: "Sunrise", Rent: 8000})
	h.srv.SetClubs(model.Club{ID: 1, Name: "Robotics"})

	require.NoError(t, h.ctrl.SwitchTab(context.Background(), TabFreshers))
	assert.Contains(t, h.regionText(t, view.RegionFoodCourts), "Canteen")
	assert.Contains(t, h.regionText(t, view.RegionPGs), "Sunrise")
	assert.Contains(t, h.regionText(t, view.RegionClubs), "Robotics")
}

func TestFreshers_AnyFailureRendersNothing(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	h.srv.SetFoodCourts(model.FoodCourt{ID: 1, Name: "Canteen"})
	h.srv.SetClubs(model.Club{ID: 1, Name: "Robotics"})
	h.srv.Fail("/pg", 500, "")

	err := h.ctrl.SwitchTab(context.Background(), TabFreshers)
	require.Error(t, err)

	for _, region := range TabFreshers.Regions() {
		_, filled := h.ctrl.Screen().Region(region)
		assert.False(t, filled, region)
	}
	assert.Equal(t, toast{"error", "Failed to load freshers"}, h.rec.last())
}

// =============================================================================
// SEARCH
// =============================================================================

func TestSearch_EmptyQueryDoesNothing(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	ctx := context.Background()
	require.NoError(t, h.ctrl.SwitchTab(ctx, TabEvents))

	require.NoError(t, h.ctrl.Search(ctx, "   "))
	assert.Zero(t, h.srv.CallCount("/search"))
	assert.Equal(t, TabEvents, h.ctrl.State().Tab)
}

func TestSearch_FillsBothRegions(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	h.srv.SetPosts(model.Post{ID: 1, Type: model.PostNormal, Content: "selling my calculus notes"})

	require.NoError(t, h.ctrl.Search(context.Background(), "  calculus "))

	assert.Equal(t, TabSearchResults, h.ctrl.State().Tab)
	assert.Contains(t, h.regionText(t, view.RegionSearchPosts), "calculus notes")
	assert.Contains(t, h.regionText(t, view.RegionSearchMarketplace), `No items found matching "calculus"`)
	assert.Equal(t, 1, h.srv.CallCount("/search"))
}

func TestSearch_FailureNotifies(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	h.srv.Fail("/search", 500, "")

	require.Error(t, h.ctrl.Search(context.Background(), "x"))
	assert.Equal(t, toast{"error", "Search failed"}, h.rec.last())
	assert.Contains(t, h.regionText(t, view.RegionSearchPosts), "Searching posts...")
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "café", NormalizeQuery(" café "))
}

// =============================================================================
// ACTIONS
// =============================================================================

func TestLike_ReloadsActiveTab(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	ctx := context.Background()
	h.srv.SetPosts(model.Post{ID: 1, Type: model.PostConfession, Content: "psst", Anonymous: true})
	require.NoError(t, h.ctrl.SwitchTab(ctx, TabConfessions))

	require.NoError(t, h.ctrl.Like(ctx, 1))
	assert.Equal(t, 2, h.srv.CallCount("/posts/feed"))
	assert.Contains(t, h.regionText(t, view.RegionConfessions), "♥ 1")
	assert.Equal(t, toast{"success", "Post liked!"}, h.rec.last())
}

func TestLike_Failure(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	err := h.ctrl.Like(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, toast{"error", "Failed to like post"}, h.rec.last())
}

func TestComment_BlankIsSilent(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	require.NoError(t, h.ctrl.Comment(context.Background(), 1, "  "))
	assert.Empty(t, h.srv.Calls())
	assert.Empty(t, h.rec.all())
}

func TestCommentOnAnonymousPostRendersAnonymous(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	ctx := context.Background()
	h.srv.SetPosts(model.Post{ID: 1, Type: model.PostConfession, Content: "psst", Anonymous: true})
	require.NoError(t, h.ctrl.SwitchTab(ctx, TabConfessions))

	require.NoError(t, h.ctrl.Comment(ctx, 1, "me too"))
	text := h.regionText(t, view.RegionConfessions)
	assert.Contains(t, text, "me too")
	assert.NotContains(t, text, "Asha")
	assert.Equal(t, toast{"success", "Comment posted!"}, h.rec.last())
}

func TestDeleteAffordanceFollowsSessionUser(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	ctx := context.Background()
	h.srv.SetPosts(
		model.Post{ID: 1, Type: model.PostNormal, User: ref(7, "Asha")},
		model.Post{ID: 2, Type: model.PostNormal, User: ref(8, "Ben")},
	)
	require.NoError(t, h.ctrl.SwitchTab(ctx, TabFeed))

	feed, _ := h.ctrl.Screen().Region(view.RegionFeed)
	_, own := view.FindAction(feed, view.ActDeletePost, 1)
	_, other := view.FindAction(feed, view.ActDeletePost, 2)
	assert.True(t, own)
	assert.False(t, other)

	// A different user on the same data sees the opposite.
	require.NoError(t, h.store.SetSession(fakeapi.TokenFor(8), &session.User{UserID: 8, Name: "Ben", UniversityID: 1}))
	h.srv.AddUser(8, "Ben", "ben@uni.edu", "pw", 1)
	require.NoError(t, h.ctrl.Reload(ctx))
	feed, _ = h.ctrl.Screen().Region(view.RegionFeed)
	_, own = view.FindAction(feed, view.ActDeletePost, 1)
	_, other = view.FindAction(feed, view.ActDeletePost, 2)
	assert.False(t, own)
	assert.True(t, other)
}

func TestDeletePost(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	ctx := context.Background()
	h.srv.SetPosts(model.Post{ID: 1, Type: model.PostNormal, User: ref(7, "Asha"), Content: "bye"})
	require.NoError(t, h.ctrl.SwitchTab(ctx, TabFeed))

	require.NoError(t, h.ctrl.DeletePost(ctx, 1))
	assert.Contains(t, h.regionText(t, view.RegionFeed), view.EmptyPosts)
	assert.Contains(t, h.rec.all(), toast{"success", "Post deleted"})
}

func TestCreatePost(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	ctx := context.Background()

	err := h.ctrl.CreatePost(ctx, "  ", false)
	assert.True(t, api.IsValidation(err))
	assert.Equal(t, toast{"error", "Please enter post content"}, h.rec.last())
	assert.Zero(t, h.srv.CallCount("/posts"))

	require.NoError(t, h.ctrl.CreatePost(ctx, "a secret", true))
	assert.Equal(t, TabConfessions, h.ctrl.State().Tab)
	posts := h.srv.Posts()
	require.Len(t, posts, 1)
	assert.Equal(t, model.PostConfession, posts[0].Type)
	assert.True(t, posts[0].Anonymous)
	assert.Contains(t, h.regionText(t, view.RegionConfessions), "a secret")
	assert.Equal(t, toast{"success", "Post created successfully!"}, h.rec.last())
	assert.True(t, h.rec.balanced())
}

func TestUploadPYQ(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	ctx := context.Background()

	err := h.ctrl.UploadPYQ(ctx, PYQForm{Subject: "OS", Year: "2023"})
	assert.True(t, api.IsValidation(err))
	assert.Equal(t, toast{"error", "Please fill all required fields"}, h.rec.last())

	require.NoError(t, h.ctrl.UploadPYQ(ctx, PYQForm{
		Subject: "OS", Year: "2023", ExamType: model.ExamQuiz,
		FileName: "os.pdf", File: strings.NewReader("%PDF-1.4"),
	}))
	assert.Equal(t, TabPYQ, h.ctrl.State().Tab)
	require.Len(t, h.srv.Uploads(), 1)
	assert.Equal(t, "QUIZ", h.srv.Uploads()[0].ExamType)
	assert.Equal(t, toast{"success", "PYQ uploaded successfully!"}, h.rec.last())
}

func TestUploadPYQ_ServerMessageShown(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	h.srv.Fail("/pyqs/upload", 413, "File too large")

	err := h.ctrl.UploadPYQ(context.Background(), PYQForm{Subject: "OS", Year: "2023", FileName: "a.pdf", File: strings.NewReader("x")})
	require.Error(t, err)
	assert.Equal(t, toast{"error", "File too large"}, h.rec.last())
	assert.True(t, h.rec.balanced())
}

func TestCreateListingAndDeleteItem(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	ctx := context.Background()

	err := h.ctrl.CreateListing(ctx, ListingForm{Title: "Lamp"})
	assert.True(t, api.IsValidation(err))
	assert.Equal(t, toast{"error", "Please enter title and price"}, h.rec.last())

	require.NoError(t, h.ctrl.CreateListing(ctx, ListingForm{Title: "Lamp", Price: "350", Category: "Electronics"}))
	assert.Equal(t, TabMarketplace, h.ctrl.State().Tab)
	market, ok := h.ctrl.Screen().Region(view.RegionMarketplace)
	require.True(t, ok)
	del := view.Actions(market)
	require.NotEmpty(t, del)

	var itemID int64
	for _, a := range del {
		if a.Action.Name == view.ActDeleteItem {
			itemID = a.Action.ID
		}
	}
	require.NotZero(t, itemID)

	require.NoError(t, h.ctrl.DeleteItem(ctx, itemID))
	assert.Contains(t, h.regionText(t, view.RegionMarketplace), view.EmptyMarketplace)
	assert.Equal(t, toast{"success", "Item deleted"}, h.rec.last())
}

func TestCreateListing_RejectsBadPrices(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")

	for _, price := range []string{"abc", "-5", "NaN", "nan", "Inf", "-Inf", "+Inf", "1e400"} {
		t.Run(price, func(t *testing.T) {
			err := h.ctrl.CreateListing(context.Background(), ListingForm{Title: "Lamp", Price: price})
			assert.True(t, api.IsValidation(err))
			assert.Equal(t, toast{"error", "Please enter a valid price"}, h.rec.last())
		})
	}
	assert.Zero(t, h.srv.CallCount("/marketplace/items"))
}

func TestCreateAlumniProfile(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	ctx := context.Background()

	require.NoError(t, h.ctrl.CreateAlumniProfile(ctx, model.AlumniProfileRequest{Company: "Acme", JobRole: "SDE", YearsOfExperience: 2}))
	assert.Equal(t, TabAlumni, h.ctrl.State().Tab)
	assert.Contains(t, h.regionText(t, view.RegionAlumni), "SDE at Acme")
}

// =============================================================================
// GUEST POLICY
// =============================================================================

func TestGuestIsReadOnly(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.SetGuest(true))
	ctx := context.Background()
	h.srv.SetItems(model.MarketplaceItem{ID: 1, Title: "Lamp", Seller: ref(8, "Ben")})

	err := h.ctrl.CreatePost(ctx, "hello", false)
	assert.True(t, api.IsValidation(err))
	assert.Equal(t, toast{"info", "Please log in to create a post."}, h.rec.last())

	assert.Error(t, h.ctrl.CreateListing(ctx, ListingForm{Title: "x", Price: "1"}))
	assert.Error(t, h.ctrl.Like(ctx, 1))
	assert.Error(t, h.ctrl.OpenChatWithSeller(ctx, 8, 1, "Lamp"))
	assert.Zero(t, h.srv.CallCount("/posts"))
	assert.Zero(t, h.srv.CallCount("/posts/1/like"))
	assert.Zero(t, h.srv.CallCount("/chat/partners"))

	require.NoError(t, h.ctrl.SwitchTab(ctx, TabMarketplace))
	market, _ := h.ctrl.Screen().Region(view.RegionMarketplace)
	assert.Empty(t, view.Actions(market))

	require.NoError(t, h.ctrl.SwitchTab(ctx, TabMessages))
	assert.Contains(t, h.regionText(t, view.RegionPartners), guestChatNotice)
	assert.Zero(t, h.srv.CallCount("/chat/partners"))
}

func TestGuestPolicyDisabled(t *testing.T) {
	h := newHarness(t)
	h.ctrl.guestReadOnly = false
	require.NoError(t, h.store.SetGuest(true))

	require.NoError(t, h.ctrl.CreatePost(context.Background(), "hello", false))
	assert.Equal(t, 1, h.srv.CallCount("/posts"))
}

func TestJoinClub(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	require.NoError(t, h.ctrl.JoinClub(3))
	assert.Equal(t, toast{"info", "Join request sent!"}, h.rec.last())
	assert.Empty(t, h.srv.Calls())
}

func TestLogoutResetsState(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	ctx := context.Background()
	require.NoError(t, h.ctrl.SwitchTab(ctx, TabEvents))
	require.NoError(t, h.store.SetGuest(true))

	require.NoError(t, h.ctrl.Logout())
	assert.Equal(t, AppState{}, h.ctrl.State())
	assert.False(t, h.store.IsAuthenticated())
	assert.False(t, h.store.IsGuest())
	_, filled := h.ctrl.Screen().Region(view.RegionEvents)
	assert.False(t, filled)
	assert.Equal(t, int32(1), h.redirects.Load())
}
