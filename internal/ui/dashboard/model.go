// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/client"
	"github.com/uniconnect/uniconnect-tui/internal/realtime"
	"github.com/uniconnect/uniconnect-tui/internal/session"
	"github.com/uniconnect/uniconnect-tui/internal/ui/components"
	"github.com/uniconnect/uniconnect-tui/internal/ui/styles"
	"github.com/uniconnect/uniconnect-tui/internal/view"
	"github.com/uniconnect/uniconnect-tui/internal/viewstate"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures the dashboard program. Toasts and Busy must be the
// Notifier and Loader the Controller was built with.
type Options struct {
	Context    context.Context
	Controller *viewstate.Controller
	Auth       *client.Auth
	Store      *session.Store
	Theme      *styles.Theme
	Toasts     *components.ToastManager
	Busy       *components.Busy
	Poller     *realtime.Poller
	Logger     *zap.Logger

	// Redirects receives a value whenever the gateway sends the user back
	// to login.
	Redirects <-chan struct{}

	// SessionChanges receives session file changes made by other processes.
	SessionChanges <-chan session.Snapshot

	InitialTab viewstate.Tab
}

// =============================================================================
// MODEL
// =============================================================================

type screenKind int

const (
	screenLogin screenKind = iota
	screenDashboard
)

type mode int

const (
	modeBrowse mode = iota
	modeHelp
	modeConfirm
	modeForm
)

// confirmation is a pending yes/no prompt.
type confirmation struct {
	prompt string
	run    func(ctx context.Context) error
	logout bool
}

const (
	expiredNotice   = "Your session has expired. Please log in again."
	signedOutNotice = "You were logged out in another window."
)

// Model is the Bubble Tea model of the whole client.
type Model struct {
	ctx    context.Context
	ctrl   *viewstate.Controller
	auth   *client.Auth
	store  *session.Store
	theme  *styles.Theme
	toasts *components.ToastManager
	busy   *components.Busy
	poller *realtime.Poller
	sub    realtime.Subscription
	logger *zap.Logger
	keys   KeyMap

	redirects  <-chan struct{}
	sessions   <-chan session.Snapshot
	changes    chan struct{}
	initialTab viewstate.Tab

	width  int
	height int
	screen screenKind
	mode   mode

	login       *form
	registering bool
	loginErr    string
	notice      string

	form         *form
	confirm      *confirmation
	expectLogout bool
	composeAfter bool
	helpText     string

	cursor   int
	actions  []view.Node
	viewport viewport.Model
	header   *components.Header
	tabs     *components.TabBar
	tree     *components.TreeRenderer
	spinner  components.Spinner

	pollSeq int
	// polling is set while a chat refresh is in flight.
	polling bool
}

// New builds the model. The dashboard opens directly when the store holds
// a token or a guest flag; otherwise the login screen is shown.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(false)
	}
	toasts := opts.Toasts
	if toasts == nil {
		toasts = components.NewToastManager()
	}
	busy := opts.Busy
	if busy == nil {
		busy = &components.Busy{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	poller := opts.Poller
	if poller == nil {
		poller = realtime.NewPoller(logger)
	}

	labels := make([]string, 0, len(viewstate.TabBar()))
	for _, t := range viewstate.TabBar() {
		labels = append(labels, t.Title())
	}

	m := Model{
		ctx:        ctx,
		ctrl:       opts.Controller,
		auth:       opts.Auth,
		store:      opts.Store,
		theme:      theme,
		toasts:     toasts,
		busy:       busy,
		poller:     poller,
		sub:        opts.Controller.ChatSubscription(),
		logger:     logger,
		keys:       DefaultKeyMap(),
		redirects:  opts.Redirects,
		sessions:   opts.SessionChanges,
		changes:    make(chan struct{}, 1),
		initialTab: opts.InitialTab,
		width:      80,
		height:     24,
		viewport:   viewport.New(80, 16),
		header:     components.NewHeader(theme),
		tabs:       components.NewTabBar(theme, labels),
		tree:       components.NewTreeRenderer(theme),
		spinner:    components.NewSpinner(busy),
	}

	changes := m.changes
	m.ctrl.Screen().OnChange(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	m.login = m.newLoginForm()
	if snap := m.store.Snapshot(); snap.Authenticated() || snap.Guest {
		m.screen = screenDashboard
		m.pollSeq = 1
	}
	return m
}

// Init starts the listeners and, for a stored session, the first load.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		components.ToastTickCmd(),
		m.spinner.Tick,
		waitSignal(m.changes, screenChangedMsg{}),
		waitSignal(m.redirects, redirectMsg{}),
		waitSession(m.sessions),
	}
	if m.screen == screenDashboard {
		cmds = append(cmds, m.initCmd(), pollAfter(m.sub.Interval(), m.pollSeq))
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.header.SetWidth(msg.Width)
		m.theme.SetSize(msg.Width, msg.Height)
		m.login.setWidth(msg.Width / 2)
		if m.form != nil {
			m.form.setWidth(msg.Width - 20)
		}
		return m.refresh(false), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case screenChangedMsg:
		return m.refresh(false), waitSignal(m.changes, screenChangedMsg{})

	case redirectMsg:
		return m.handleRedirect()

	case sessionChangedMsg:
		return m.handleSessionChange(msg.snap)

	case pollTickMsg:
		// Ticks run at a fixed rate. A tick that lands while the previous
		// refresh is still in flight is skipped.
		if msg.seq != m.pollSeq || m.screen != screenDashboard {
			return m, nil
		}
		next := pollAfter(m.sub.Interval(), msg.seq)
		if m.polling {
			return m, next
		}
		m.polling = true
		ctx, poller, sub := m.ctx, m.poller, m.sub
		return m, tea.Batch(func() tea.Msg {
			poller.Tick(ctx, sub)
			return pollDoneMsg{seq: msg.seq}
		}, next)

	case pollDoneMsg:
		m.polling = false
		return m, nil

	case authDoneMsg:
		return m.handleAuthDone(msg)

	case actionDoneMsg:
		if msg.err != nil {
			m.logger.Debug("dashboard action ended with error", zap.Error(msg.err))
		}
		m = m.refresh(false)
		if m.composeAfter {
			m.composeAfter = false
			if msg.err == nil {
				return m.openCompose()
			}
		}
		return m, nil

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blinks and other input messages go to the focused input.
	var cmd tea.Cmd
	switch {
	case m.screen == screenLogin:
		cmd, _ = m.login.update(msg, m.keys)
	case m.mode == modeForm && m.form != nil:
		cmd, _ = m.form.update(msg, m.keys)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.screen == screenLogin {
		return m.handleLoginKey(msg)
	}

	switch m.mode {
	case modeForm:
		cmd, done := m.form.update(msg, m.keys)
		if done {
			m.form = nil
			m.mode = modeBrowse
		}
		return m, cmd

	case modeConfirm:
		switch {
		case key.Matches(msg, m.keys.Yes):
			c := m.confirm
			m.confirm = nil
			m.mode = modeBrowse
			if c.logout {
				m.expectLogout = true
			}
			return m, m.run(c.run)
		case key.Matches(msg, m.keys.No):
			m.confirm = nil
			m.mode = modeBrowse
		}
		return m, nil

	case modeHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Cancel, m.keys.Quit) {
			m.mode = modeBrowse
		}
		return m, nil
	}

	return m.handleBrowseKey(msg)
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.ctrl.State()

	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		bar := viewstate.TabBar()
		if i := int(s[0] - '1'); i < len(bar) {
			return m.switchTab(bar[i])
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab(stepTab(st.Tab, 1))
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab(stepTab(st.Tab, -1))
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m.refresh(true), nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.actions)-1 {
			m.cursor++
		}
		return m.refresh(true), nil
	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Activate):
		if a := m.selected(); a != nil {
			return m.activate(*a)
		}
		return m, nil
	case key.Matches(msg, m.keys.Search):
		return m.openSearch()
	case key.Matches(msg, m.keys.New):
		return m.openNew(st.Tab)
	case key.Matches(msg, m.keys.Confession):
		return m.openPost(true)
	case key.Matches(msg, m.keys.Message):
		return m.openCompose()
	case key.Matches(msg, m.keys.Reload):
		return m, m.run(m.ctrl.Reload)
	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
		m.helpText = components.RenderHelp(m.width-4, m.theme.NoColor())
		return m, nil
	case key.Matches(msg, m.keys.Logout):
		return m.ask(&confirmation{
			prompt: "Are you sure you want to logout?",
			run:    func(context.Context) error { return m.ctrl.Logout() },
			logout: true,
		})
	}
	return m, nil
}

func (m Model) switchTab(tab viewstate.Tab) (tea.Model, tea.Cmd) {
	m.cursor = 0
	m.viewport.GotoTop()
	ctrl := m.ctrl
	return m, m.run(func(ctx context.Context) error { return ctrl.SwitchTab(ctx, tab) })
}

// stepTab moves through the tab bar. Search results continue from Feed.
func stepTab(cur viewstate.Tab, delta int) viewstate.Tab {
	bar := viewstate.TabBar()
	idx := tabIndex(cur)
	if idx < 0 {
		idx = 0
		if delta > 0 {
			delta--
		}
	}
	n := len(bar)
	return bar[((idx+delta)%n+n)%n]
}

func tabIndex(t viewstate.Tab) int {
	for i, b := range viewstate.TabBar() {
		if b == t {
			return i
		}
	}
	return -1
}

// run executes fn off the update loop and reports back with actionDoneMsg.
func (m Model) run(fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{err: fn(ctx)}
	}
}

func (m Model) initCmd() tea.Cmd {
	ctrl, tab := m.ctrl, m.initialTab
	return m.run(func(ctx context.Context) error { return ctrl.Init(ctx, tab) })
}

// startDashboard enters the dashboard and starts a fresh poll chain.
func (m Model) startDashboard() (tea.Model, tea.Cmd) {
	m.screen = screenDashboard
	m.mode = modeBrowse
	m.cursor = 0
	m.loginErr = ""
	m.notice = ""
	m.pollSeq++
	return m, tea.Batch(m.initCmd(), pollAfter(m.sub.Interval(), m.pollSeq))
}

// toLogin leaves the dashboard. The poll chain stops with the sequence bump.
func (m Model) toLogin(notice string) Model {
	m.ctrl.ResetState()
	m.screen = screenLogin
	m.mode = modeBrowse
	m.form = nil
	m.confirm = nil
	m.composeAfter = false
	m.cursor = 0
	m.actions = nil
	m.pollSeq++
	m.notice = notice
	m.loginErr = ""
	m.registering = false
	m.login = m.newLoginForm()
	m.login.setWidth(m.width / 2)
	return m
}

func (m Model) handleRedirect() (tea.Model, tea.Cmd) {
	rearm := waitSignal(m.redirects, redirectMsg{})
	if m.screen == screenLogin {
		return m, rearm
	}
	notice := expiredNotice
	if m.expectLogout {
		notice = ""
		m.expectLogout = false
	}
	m = m.toLogin(notice)
	return m, tea.Batch(rearm, textinput.Blink)
}

func (m Model) handleSessionChange(snap session.Snapshot) (tea.Model, tea.Cmd) {
	rearm := waitSession(m.sessions)
	switch {
	case m.screen == screenDashboard && !snap.Authenticated() && !snap.Guest:
		m = m.toLogin(signedOutNotice)
		return m, tea.Batch(rearm, textinput.Blink)
	case m.screen == screenLogin && snap.Authenticated():
		next, cmd := m.startDashboard()
		return next, tea.Batch(rearm, cmd)
	}
	return m.refresh(false), rearm
}

// =============================================================================
// RENDER STATE
// =============================================================================

// refresh re-renders the body from the screen. follow scrolls the
// viewport to the selected action.
func (m Model) refresh(follow bool) Model {
	if m.screen != screenDashboard {
		return m
	}
	st := m.ctrl.State()
	scr := m.ctrl.Screen()

	var main []view.Node
	for _, id := range st.Tab.Regions() {
		if !scr.IsVisible(id) {
			continue
		}
		if n, ok := scr.Region(id); ok {
			main = append(main, n)
		}
	}
	root := view.Section("body", main...)
	m.actions = view.Actions(root)
	if m.cursor >= len(m.actions) {
		m.cursor = len(m.actions) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	bodyWidth := m.width - 2
	wide := m.theme.GetLayoutMode() == styles.LayoutWide
	if wide {
		bodyWidth = m.width * 2 / 3
	}
	content := m.tree.Render(root, m.selected(), bodyWidth)

	if n, ok := scr.Region(view.RegionContributors); ok && scr.IsVisible(view.RegionContributors) {
		if wide {
			side := m.tree.Render(n, nil, m.width-bodyWidth-4)
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.theme.Sidebar.Render(side))
		} else {
			content += "\n\n" + m.tree.Render(n, nil, bodyWidth)
		}
	}

	m.viewport.Width = m.width
	m.viewport.Height = m.bodyHeight()
	m.viewport.SetContent(content)
	if follow {
		m.scrollToCursor(content)
	}
	return m
}

func (m *Model) scrollToCursor(content string) {
	marker := styles.StatusIndicators.Cursor + "["
	for i, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, marker) {
			continue
		}
		switch {
		case i < m.viewport.YOffset:
			m.viewport.SetYOffset(i)
		case i >= m.viewport.YOffset+m.viewport.Height:
			m.viewport.SetYOffset(i - m.viewport.Height + 1)
		}
		return
	}
}

// bodyHeight leaves room for header, tab bar, status line, footer and a
// panel for prompts and toasts.
func (m Model) bodyHeight() int {
	h := m.height - 4 - 6
	if h < 3 {
		h = 3
	}
	return h
}

func (m Model) selected() *view.Action {
	if m.cursor < 0 || m.cursor >= len(m.actions) {
		return nil
	}
	return m.actions[m.cursor].Action
}

// =============================================================================
// LOGIN SCREEN
// =============================================================================

func (m Model) newLoginForm() *form {
	specs := []fieldSpec{
		{Label: "Email", Placeholder: "you@university.edu"},
		{Label: "Password", Secret: true},
	}
	title := "Log in"
	if m.registering {
		specs = append([]fieldSpec{{Label: "Name", Placeholder: "Full name"}}, specs...)
		title = "Create account"
	}
	auth, registering := m.auth, m.registering
	ctx := m.ctx
	return newForm(title, specs, func(v []string) tea.Cmd {
		return func() tea.Msg {
			if registering {
				return authDoneMsg{err: register(ctx, auth, v[0], v[1], v[2])}
			}
			return authDoneMsg{err: login(ctx, auth, v[0], v[1])}
		}
	})
}

func login(ctx context.Context, auth *client.Auth, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return api.Validation("Please enter email and password")
	}
	_, err := auth.Login(ctx, email, password)
	return err
}

func register(ctx context.Context, auth *client.Auth, name, email, password string) error {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return api.Validation("Please fill all required fields")
	}
	_, err := auth.Register(ctx, registerRequest(name, email, password))
	return err
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Guest):
		if err := m.auth.EnterGuest(); err != nil {
			m.loginErr = api.Message(err, "Could not start a guest session")
			return m, nil
		}
		return m.startDashboard()
	case key.Matches(msg, m.keys.Register):
		m.registering = !m.registering
		m.loginErr = ""
		m.login = m.newLoginForm()
		m.login.setWidth(m.width / 2)
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Cancel):
		return m, nil
	}
	cmd, _ := m.login.update(msg, m.keys)
	return m, cmd
}

func (m Model) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		switch {
		case api.IsUnauthorized(msg.err):
			m.loginErr = "Invalid email or password"
		case m.registering:
			m.loginErr = api.Message(msg.err, "Registration failed")
		default:
			m.loginErr = api.Message(msg.err, "Login failed")
		}
		return m, nil
	}
	return m.startDashboard()
}
