// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dashboard

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uniconnect/uniconnect-tui/internal/api"
	"github.com/uniconnect/uniconnect-tui/internal/client"
	"github.com/uniconnect/uniconnect-tui/internal/model"
	"github.com/uniconnect/uniconnect-tui/internal/session"
	"github.com/uniconnect/uniconnect-tui/internal/testutil/fakeapi"
	"github.com/uniconnect/uniconnect-tui/internal/ui/components"
	"github.com/uniconnect/uniconnect-tui/internal/ui/styles"
	"github.com/uniconnect/uniconnect-tui/internal/view"
	"github.com/uniconnect/uniconnect-tui/internal/viewstate"
)

// =============================================================================
// HARNESS
// =============================================================================

type harness struct {
	srv       *fakeapi.Server
	store     *session.Store
	ctrl      *viewstate.Controller
	auth      *client.Auth
	toasts    *components.ToastManager
	redirects chan struct{}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		srv:       fakeapi.New(t),
		store:     session.NewMemoryStore(),
		toasts:    components.NewToastManager(),
		redirects: make(chan struct{}, 1),
	}
	nav := api.NavigatorFunc(func() {
		select {
		case h.redirects <- struct{}{}:
		default:
		}
	})
	gw := api.New(api.Config{BaseURL: h.srv.URL()}, h.store, nav, zap.NewNop())
	clients := client.New(gw, h.store, nav)
	h.auth = clients.Auth
	h.ctrl = viewstate.New(viewstate.Options{
		Clients:       clients,
		Store:         h.store,
		Notifier:      h.toasts,
		GuestReadOnly: true,
		PollInterval:  20 * time.Millisecond,
	})
	return h
}

func (h *harness) loginAs(t *testing.T, id int64, name string) {
	t.Helper()
	token := h.srv.AddUser(id, name, name+"@uni.edu", "pw", 1)
	require.NoError(t, h.store.SetSession(token, &session.User{UserID: id, Name: name, UniversityID: 1}))
}

func (h *harness) model() Model {
	return New(Options{
		Controller: h.ctrl,
		Auth:       h.auth,
		Store:      h.store,
		Theme:      styles.NewTheme(true),
		Toasts:     h.toasts,
		Redirects:  h.redirects,
	})
}

func (h *harness) toastMessages() []string {
	var out []string
	for _, t := range h.toasts.Toasts() {
		out = append(out, t.Message)
	}
	return out
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return send(t, m, tea.KeyMsg{Type: k})
}

// runAction executes a controller command and feeds its result back.
func runAction(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, actionDoneMsg{}, msg)
	return send(t, m, msg)
}

// selectAction moves the cursor onto the first action with the given name.
func selectAction(t *testing.T, m Model, name view.ActionName) Model {
	t.Helper()
	for i, n := range m.actions {
		if n.Action.Name == name {
			m.cursor = i
			return m
		}
	}
	t.Fatalf("no %s action on screen", name)
	return m
}

// =============================================================================
// LOGIN SCREEN
// =============================================================================

func TestNew_WithoutSessionShowsLogin(t *testing.T) {
	h := newHarness(t)
	m := h.model()
	assert.Equal(t, screenLogin, m.screen)
	assert.Contains(t, m.View(), "Log in")
}

func TestNew_StoredSessionOpensDashboard(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	m := h.model()
	assert.Equal(t, screenDashboard, m.screen)
	assert.Equal(t, 1, m.pollSeq)
}

func TestLogin_SubmitEntersDashboard(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser(7, "Asha", "asha@uni.edu", "secret", 1)
	m := h.model()

	m = typeText(t, m, "asha@uni.edu")
	m, cmd := press(t, m, tea.KeyEnter)
	assert.Nil(t, cmd)
	m = typeText(t, m, "secret")
	m, cmd = press(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, authDoneMsg{}, msg)
	assert.NoError(t, msg.(authDoneMsg).err)

	m, _ = send(t, m, msg)
	assert.Equal(t, screenDashboard, m.screen)
	assert.True(t, h.store.IsAuthenticated())
}

func TestLogin_ErrorsStayOnLogin(t *testing.T) {
	h := newHarness(t)
	h.srv.AddUser(7, "Asha", "asha@uni.edu", "secret", 1)

	tests := []struct {
		name     string
		email    string
		password string
		want     string
	}{
		{"empty fields", "", "", "Please enter email and password"},
		{"wrong password", "asha@uni.edu", "nope", "Invalid email or password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := h.model()
			m = typeText(t, m, tt.email)
			m, _ = press(t, m, tea.KeyEnter)
			m = typeText(t, m, tt.password)
			m, cmd := press(t, m, tea.KeyEnter)
			require.NotNil(t, cmd)

			m, _ = send(t, m, cmd())
			assert.Equal(t, screenLogin, m.screen)
			assert.Equal(t, tt.want, m.loginErr)
			assert.Contains(t, m.View(), tt.want)
		})
	}
}

func TestLogin_RegisterToggleAddsNameField(t *testing.T) {
	h := newHarness(t)
	m := h.model()
	require.Len(t, m.login.inputs, 2)

	m, _ = press(t, m, tea.KeyCtrlR)
	assert.True(t, m.registering)
	assert.Len(t, m.login.inputs, 3)
	assert.Contains(t, m.View(), "Create account")

	m, _ = press(t, m, tea.KeyCtrlR)
	assert.False(t, m.registering)
	assert.Len(t, m.login.inputs, 2)
}

func TestLogin_GuestEntry(t *testing.T) {
	h := newHarness(t)
	m := h.model()
	m, cmd := press(t, m, tea.KeyCtrlG)
	assert.NotNil(t, cmd)
	assert.Equal(t, screenDashboard, m.screen)
	assert.True(t, h.store.IsGuest())
	assert.Contains(t, m.View(), "GUEST")
}

// =============================================================================
// BROWSING
// =============================================================================

func TestNumberKeySwitchesTab(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	m := h.model()

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	_, _ = runAction(t, m, cmd)
	assert.Equal(t, viewstate.TabPYQ, h.ctrl.State().Tab)
	assert.Equal(t, 1, h.srv.CallCount("/pyqs"))
}

func TestStepTab(t *testing.T) {
	assert.Equal(t, viewstate.TabPYQ, stepTab(viewstate.TabFeed, 1))
	assert.Equal(t, viewstate.TabMessages, stepTab(viewstate.TabFeed, -1))
	assert.Equal(t, viewstate.TabFeed, stepTab(viewstate.TabMessages, 1))
	assert.Equal(t, viewstate.TabFeed, stepTab(viewstate.TabSearchResults, 1))
}

func TestDeletePostAsksFirst(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	h.srv.SetPosts(model.Post{ID: 1, User: &model.UserRef{ID: 7, Name: "Asha"}, Type: model.PostNormal, Content: "hello"})
	require.NoError(t, h.ctrl.SwitchTab(context.Background(), viewstate.TabFeed))

	m := h.model()
	m, _ = send(t, m, screenChangedMsg{})
	m = selectAction(t, m, view.ActDeletePost)

	m, cmd := press(t, m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, modeConfirm, m.mode)
	assert.Contains(t, m.View(), "Are you sure you want to delete this post?")

	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.Nil(t, cmd)
	assert.Equal(t, modeBrowse, m.mode)
	assert.Len(t, h.srv.Posts(), 1)

	m, _ = press(t, m, tea.KeyEnter)
	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	_, _ = runAction(t, m, cmd)
	assert.Empty(t, h.srv.Posts())
}

func TestCommentFormSubmits(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	h.srv.SetPosts(model.Post{ID: 1, User: &model.UserRef{ID: 8, Name: "Ben"}, Type: model.PostNormal, Content: "hello"})
	require.NoError(t, h.ctrl.SwitchTab(context.Background(), viewstate.TabFeed))

	m := h.model()
	m, _ = send(t, m, screenChangedMsg{})
	m = selectAction(t, m, view.ActComment)

	m, _ = press(t, m, tea.KeyEnter)
	require.Equal(t, modeForm, m.mode)
	m = typeText(t, m, "nice one")
	m, cmd := press(t, m, tea.KeyEnter)
	assert.Equal(t, modeBrowse, m.mode)

	_, _ = runAction(t, m, cmd)
	assert.Equal(t, 1, h.srv.CallCount("/posts/1/comment"))
}

func TestFormEscapeCancels(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	m := h.model()

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.Equal(t, modeForm, m.mode)
	m, cmd := press(t, m, tea.KeyEsc)
	assert.Nil(t, cmd)
	assert.Equal(t, modeBrowse, m.mode)
	assert.Nil(t, m.form)
}

func TestNewKeyOpensFormForTab(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	m := h.model()

	tests := []struct {
		tab   viewstate.Tab
		title string
	}{
		{viewstate.TabFeed, "New post"},
		{viewstate.TabConfessions, "New confession"},
		{viewstate.TabPYQ, "Upload PYQ"},
		{viewstate.TabMarketplace, "Sell an item"},
		{viewstate.TabAlumni, "Alumni profile"},
	}
	for _, tt := range tests {
		t.Run(tt.tab.String(), func(t *testing.T) {
			next, _ := m.openNew(tt.tab)
			got := next.(Model)
			require.NotNil(t, got.form)
			assert.Equal(t, tt.title, got.form.title)
		})
	}
}

func TestGuestCannotOpenPostForm(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.SetGuest(true))
	m := h.model()

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.Nil(t, cmd)
	assert.Equal(t, modeBrowse, m.mode)
	assert.Contains(t, h.toastMessages(), "Please log in to create a post.")
}

func TestUploadFile_MissingFileIsReported(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")

	err := uploadFile(context.Background(), h.ctrl, "Maths", "2024", "", "/does/not/exist.pdf")
	assert.Error(t, err)
	assert.Empty(t, h.srv.Uploads())
}

// =============================================================================
// CHAT
// =============================================================================

func TestContactSellerOpensComposeWithDraft(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	h.srv.AddUser(8, "Ben", "ben@uni.edu", "pw", 1)
	h.srv.SetItems(model.MarketplaceItem{ID: 42, Title: "Calculator", Price: 500, Seller: &model.UserRef{ID: 8, Name: "Ben"}})
	require.NoError(t, h.ctrl.SwitchTab(context.Background(), viewstate.TabMarketplace))

	m := h.model()
	m, _ = send(t, m, screenChangedMsg{})
	m = selectAction(t, m, view.ActContactSeller)

	m, cmd := press(t, m, tea.KeyEnter)
	m, _ = runAction(t, m, cmd)

	st := h.ctrl.State()
	assert.Equal(t, viewstate.TabMessages, st.Tab)
	assert.Equal(t, int64(8), st.PartnerID)
	require.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.form.values()[0], `interested in buying "Calculator"`)
}

func TestComposeNeedsOpenConversation(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	m := h.model()

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	assert.Nil(t, cmd)
	assert.Equal(t, modeBrowse, m.mode)
}

func TestPollTick_StaleSequenceIsDropped(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	m := h.model()

	_, cmd := send(t, m, pollTickMsg{seq: m.pollSeq - 1})
	assert.Nil(t, cmd)
	_, cmd = send(t, m, pollDoneMsg{seq: m.pollSeq + 1})
	assert.Nil(t, cmd)

	_, cmd = send(t, m, pollTickMsg{seq: m.pollSeq})
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)
	assert.Equal(t, pollDoneMsg{seq: m.pollSeq}, batch[0]())
}

func TestPollTick_FixedRateSkipsOverlap(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	m := h.model()
	seq := m.pollSeq

	// The next tick is scheduled together with the refresh, not after it.
	m, cmd := send(t, m, pollTickMsg{seq: seq})
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)
	assert.True(t, m.polling)
	assert.Equal(t, pollTickMsg{seq: seq}, batch[1]())

	// A tick during an unfinished refresh only schedules the following tick.
	m, cmd = send(t, m, pollTickMsg{seq: seq})
	require.NotNil(t, cmd)
	assert.Equal(t, pollTickMsg{seq: seq}, cmd())
	assert.True(t, m.polling)

	m, cmd = send(t, m, pollDoneMsg{seq: seq})
	assert.Nil(t, cmd)
	assert.False(t, m.polling)
}

// =============================================================================
// SESSION
// =============================================================================

func TestRedirectShowsExpiredNotice(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	m := h.model()
	seq := m.pollSeq

	m, _ = send(t, m, redirectMsg{})
	assert.Equal(t, screenLogin, m.screen)
	assert.Equal(t, seq+1, m.pollSeq)
	assert.Contains(t, m.View(), expiredNotice)
}

func TestLogoutConfirmReturnsToLoginQuietly(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	m := h.model()

	m, _ = press(t, m, tea.KeyCtrlL)
	require.Equal(t, modeConfirm, m.mode)
	assert.Contains(t, m.View(), "Are you sure you want to logout?")

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m, _ = runAction(t, m, cmd)
	assert.False(t, h.store.IsAuthenticated())

	select {
	case <-h.redirects:
	default:
		t.Fatal("logout did not redirect")
	}
	m, _ = send(t, m, redirectMsg{})
	assert.Equal(t, screenLogin, m.screen)
	assert.Empty(t, m.notice)
}

func TestSessionChangeFromOtherProcess(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, 7, "Asha")
	m := h.model()

	require.NoError(t, h.store.ClearAll())
	m, _ = send(t, m, sessionChangedMsg{snap: h.store.Snapshot()})
	assert.Equal(t, screenLogin, m.screen)
	assert.Equal(t, signedOutNotice, m.notice)

	m, cmd := send(t, m, sessionChangedMsg{snap: h.store.Snapshot()})
	assert.Equal(t, screenLogin, m.screen)
	assert.Nil(t, cmd)

	h.loginAs(t, 7, "Asha")
	m, _ = send(t, m, sessionChangedMsg{snap: h.store.Snapshot()})
	assert.Equal(t, screenDashboard, m.screen)
}
