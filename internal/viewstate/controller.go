// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewstate

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/client"
	"github.com/uniconnect/uniconnect-tui/internal/model"
	"github.com/uniconnect/uniconnect-tui/internal/session"
	"github.com/uniconnect/uniconnect-tui/internal/view"
)

// DefaultPollInterval is the chat refresh interval when none is configured.
const DefaultPollInterval = 5 * time.Second

// =============================================================================
// FEEDBACK INTERFACES
// =============================================================================

// Notifier shows transient messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Loader shows a busy indicator. Every Show is paired with a Hide, on
// success and failure alike.
type Loader interface {
	Show(msg string)
	Hide()
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}
func (nopNotifier) Info(string)    {}

type nopLoader struct{}

func (nopLoader) Show(string) {}
func (nopLoader) Hide()       {}

// =============================================================================
// STATE
// =============================================================================

// AppState is the dashboard's mutable state.
type AppState struct {
	Tab         Tab
	PartnerID   int64
	PartnerName string
	Draft       string
	// PendingItemID ties the next message to a marketplace listing.
	PendingItemID *int64
}

// Reset returns the state to its initial value.
func (s *AppState) Reset() {
	*s = AppState{}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Options configures a Controller.
type Options struct {
	Clients  *client.Clients
	Store    *session.Store
	Screen   *view.Screen
	Notifier Notifier
	Loader   Loader
	Logger   *zap.Logger
	// GuestReadOnly blocks every mutating action for guest sessions.
	GuestReadOnly bool
	PollInterval  time.Duration
}

// Controller drives the dashboard. Its methods may be called from several
// goroutines; results land on the Screen.
type Controller struct {
	clients       *client.Clients
	store         *session.Store
	screen        *view.Screen
	notify        Notifier
	loader        Loader
	logger        *zap.Logger
	guestReadOnly bool
	pollInterval  time.Duration

	mu       sync.Mutex
	state    AppState
	partners []model.UserRef
}

// New builds a Controller. Nil feedback and logger options are replaced by
// no-ops; a nil Screen gets a fresh one.
func New(opts Options) *Controller {
	c := &Controller{
		clients:       opts.Clients,
		store:         opts.Store,
		screen:        opts.Screen,
		notify:        opts.Notifier,
		loader:        opts.Loader,
		logger:        opts.Logger,
		guestReadOnly: opts.GuestReadOnly,
		pollInterval:  opts.PollInterval,
	}
	if c.screen == nil {
		c.screen = view.NewScreen()
	}
	if c.notify == nil {
		c.notify = nopNotifier{}
	}
	if c.loader == nil {
		c.loader = nopLoader{}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.pollInterval <= 0 {
		c.pollInterval = DefaultPollInterval
	}
	return c
}

// Screen returns the screen the controller renders into.
func (c *Controller) Screen() *view.Screen { return c.screen }

// State returns a copy of the current state.
func (c *Controller) State() AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetDraft replaces the message draft.
func (c *Controller) SetDraft(draft string) {
	c.mu.Lock()
	c.state.Draft = draft
	c.mu.Unlock()
}

// Viewer describes the current session for builders. It is read on every
// render so ownership is never cached.
func (c *Controller) Viewer() view.Viewer {
	snap := c.store.Snapshot()
	return view.Viewer{
		UserID:   snap.UserID(),
		ReadOnly: c.readOnly(snap),
	}
}

func (c *Controller) readOnly(snap session.Snapshot) bool {
	return c.guestReadOnly && !snap.Authenticated()
}

// guard fails a mutating action for read-only sessions before any request.
func (c *Controller) guard(what string) error {
	if !c.readOnly(c.store.Snapshot()) {
		return nil
	}
	msg := "Please log in to " + what + "."
	c.notify.Info(msg)
	return api.Validation(msg)
}

// CanMutate reports whether the session may run mutating actions. A
// read-only session gets the same notice as a blocked action.
func (c *Controller) CanMutate(what string) bool {
	return c.guard(what) == nil
}

// =============================================================================
// TABS
// =============================================================================

// Init loads the first tab and the contributors panel.
func (c *Controller) Init(ctx context.Context, initial Tab) error {
	if initial == TabSearchResults {
		initial = TabFeed
	}
	err := c.SwitchTab(ctx, initial)
	c.LoadTopContributors(ctx)
	return err
}

// SwitchTab activates a tab, shows its regions and reloads its content from
// scratch.
func (c *Controller) SwitchTab(ctx context.Context, tab Tab) error {
	c.mu.Lock()
	c.state.Tab = tab
	c.mu.Unlock()
	c.screen.SetVisible(tab.Regions()...)
	return c.load(ctx, tab)
}

// Reload re-fetches the active tab.
func (c *Controller) Reload(ctx context.Context) error {
	return c.load(ctx, c.State().Tab)
}

func (c *Controller) load(ctx context.Context, tab Tab) error {
	if tab == TabSearchResults {
		return nil
	}
	c.loader.Show("")
	defer c.loader.Hide()

	var err error
	switch tab {
	case TabFeed:
		err = c.loadPosts(ctx, view.RegionFeed, model.PostNormal)
	case TabConfessions:
		err = c.loadPosts(ctx, view.RegionConfessions, model.PostConfession)
	case TabPYQ:
		err = c.loadPYQs(ctx)
	case TabAlumni:
		err = c.loadAlumni(ctx)
	case TabFreshers:
		err = c.loadFreshers(ctx)
	case TabMarketplace:
		err = c.loadMarketplace(ctx)
	case TabEvents:
		err = c.loadEvents(ctx)
	case TabMessages:
		err = c.loadPartners(ctx)
	}
	if err != nil {
		c.logger.Warn("tab load failed", zap.Stringer("tab", tab), zap.Error(err))
		if !api.IsUnauthorized(err) {
			c.notify.Error("Failed to load " + tab.String())
		}
	}
	return err
}

func (c *Controller) loadPosts(ctx context.Context, region string, typ model.PostType) error {
	tok := c.screen.Begin(region)
	posts, err := c.clients.Posts.Feed(ctx, client.FeedOptions{Type: typ})
	if err != nil {
		return err
	}
	c.screen.Commit(tok, view.Posts(c.Viewer(), region, posts))
	return nil
}

func (c *Controller) loadPYQs(ctx context.Context) error {
	tok := c.screen.Begin(view.RegionPYQ)
	pyqs, err := c.clients.PYQs.List(ctx, client.PYQFilter{})
	if err != nil {
		return err
	}
	c.screen.Commit(tok, view.PYQs(c.Viewer(), pyqs))
	return nil
}

func (c *Controller) loadAlumni(ctx context.Context) error {
	tok := c.screen.Begin(view.RegionAlumni)
	profiles, err := c.clients.Alumni.Profiles(ctx)
	if err != nil {
		return err
	}
	c.screen.Commit(tok, view.Alumni(profiles))
	return nil
}

func (c *Controller) loadMarketplace(ctx context.Context) error {
	tok := c.screen.Begin(view.RegionMarketplace)
	items, err := c.clients.Marketplace.Items(ctx, "")
	if err != nil {
		return err
	}
	c.screen.Commit(tok, view.MarketplaceItems(c.Viewer(), view.RegionMarketplace, items))
	return nil
}

func (c *Controller) loadEvents(ctx context.Context) error {
	tok := c.screen.Begin(view.RegionEvents)
	events, err := c.clients.Events.List(ctx)
	if err != nil {
		return err
	}
	c.screen.Commit(tok, view.Events(events))
	return nil
}

// loadFreshers fetches food courts, PGs and clubs together. Any failure
// fails the whole load and nothing is rendered.
func (c *Controller) loadFreshers(ctx context.Context) error {
	foodTok := c.screen.Begin(view.RegionFoodCourts)
	pgTok := c.screen.Begin(view.RegionPGs)
	clubTok := c.screen.Begin(view.RegionClubs)

	var (
		food  []model.FoodCourt
		pgs   []model.PG
		clubs []model.Club
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		food, err = c.clients.FoodCourts.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		pgs, err = c.clients.PGs.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		clubs, err = c.clients.Clubs.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	c.screen.CommitAll([]view.Update{
		{Token: foodTok, Node: view.FoodCourts(food)},
		{Token: pgTok, Node: view.PGs(pgs)},
		{Token: clubTok, Node: view.Clubs(c.Viewer(), clubs)},
	})
	return nil
}

// LoadTopContributors fills the contributors panel. Failures are logged
// only.
func (c *Controller) LoadTopContributors(ctx context.Context) {
	tok := c.screen.Begin(view.RegionContributors)
	list, err := c.clients.Posts.TopContributors(ctx)
	if err != nil {
		c.logger.Warn("load top contributors failed", zap.Error(err))
		return
	}
	c.screen.Commit(tok, view.Contributors(list))
}

// =============================================================================
// SEARCH
// =============================================================================

// NormalizeQuery trims and NFC-normalizes a search query.
func NormalizeQuery(q string) string {
	return norm.NFC.String(strings.TrimSpace(q))
}

// Search switches to the search results and fills both result regions from
// one request. An empty query does nothing.
func (c *Controller) Search(ctx context.Context, query string) error {
	q := NormalizeQuery(query)
	if q == "" {
		return nil
	}

	c.mu.Lock()
	c.state.Tab = TabSearchResults
	c.mu.Unlock()
	c.screen.SetVisible(TabSearchResults.Regions()...)

	postsTok := c.screen.Begin(view.RegionSearchPosts)
	marketTok := c.screen.Begin(view.RegionSearchMarketplace)
	c.screen.CommitAll([]view.Update{
		{Token: postsTok, Node: view.SearchingPosts()},
		{Token: marketTok, Node: view.SearchingMarketplace()},
	})

	res, err := c.clients.Search.Query(ctx, q)
	if err != nil {
		c.logger.Warn("search failed", zap.Error(err))
		if !api.IsUnauthorized(err) {
			c.notify.Error("Search failed")
		}
		return err
	}
	v := c.Viewer()
	c.screen.CommitAll([]view.Update{
		{Token: postsTok, Node: view.SearchPosts(v, q, res.Posts)},
		{Token: marketTok, Node: view.SearchMarketplace(v, q, res.Marketplace)},
	})
	return nil
}

// =============================================================================
// SESSION
// =============================================================================

// Logout clears the session and resets all dashboard state.
func (c *Controller) Logout() error {
	c.ResetState()
	return c.clients.Auth.Logout()
}

// ResetState drops the tab, conversation and every rendered region. It runs
// on logout and when the session expires.
func (c *Controller) ResetState() {
	c.mu.Lock()
	c.state.Reset()
	c.partners = nil
	c.mu.Unlock()
	c.screen.Reset()
}
