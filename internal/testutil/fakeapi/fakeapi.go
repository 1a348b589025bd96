// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fakeapi is an in-memory UniConnect backend for tests.
//
// It serves the REST contract under /api with a chi router and records
// every request. Tests can seed data, force failures, expire sessions and
// hold individual responses back to create overlapping loads.
package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/uniconnect/uniconnect-tui/internal/model"
)

// Call is one recorded request.
type Call struct {
	Method string
	Path   string
	Query  string
	Auth   string
}

type account struct {
	password string
	user     model.UserRef
	uni      int64
}

type failure struct {
	status int
	body   string
}

// Server is the fake backend.
type Server struct {
	srv *httptest.Server

	mu           sync.Mutex
	calls        []Call
	failures     map[string]failure
	gates        map[string][]chan struct{}
	expired      bool
	nextID       int64
	accounts     map[string]*account
	users        map[int64]model.UserRef
	posts        []model.Post
	pyqs         []model.PYQ
	items        []model.MarketplaceItem
	alumni       []model.AlumniProfile
	events       []model.Event
	clubs        []model.Club
	pgs          []model.PG
	food         []model.FoodCourt
	messages     []model.ChatMessage
	contributors []model.Contributor
	uploads      []Upload
}

// Upload is a received PYQ upload.
type Upload struct {
	Subject, Year, ExamType, FileName string
	Content                           []byte
}

// New starts a server and stops it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		failures: make(map[string]failure),
		gates:    make(map[string][]chan struct{}),
		accounts: make(map[string]*account),
		users:    make(map[int64]model.UserRef),
		nextID:   1000,
	}
	s.srv = httptest.NewServer(s.routes())
	t.Cleanup(func() {
		s.releaseAll()
		s.srv.Close()
	})
	return s
}

// URL returns the REST root, including /api.
func (s *Server) URL() string {
	return s.srv.URL + "/api"
}

// =============================================================================
// SEEDING
// =============================================================================

// AddUser registers an account and returns its token.
func (s *Server) AddUser(id int64, name, email, password string, universityID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := model.UserRef{ID: id, Name: name, Email: email, Role: "STUDENT"}
	s.accounts[email] = &account{password: password, user: u, uni: universityID}
	s.users[id] = u
	return TokenFor(id)
}

// TokenFor returns the bearer token the fake issues for a user id.
func TokenFor(id int64) string {
	return "token-" + strconv.FormatInt(id, 10)
}

// SetPosts replaces the posts.
func (s *Server) SetPosts(posts ...model.Post) { s.mu.Lock(); s.posts = posts; s.mu.Unlock() }

// SetPYQs replaces the PYQs.
func (s *Server) SetPYQs(pyqs ...model.PYQ) { s.mu.Lock(); s.pyqs = pyqs; s.mu.Unlock() }

// SetItems replaces the marketplace listings.
func (s *Server) SetItems(items ...model.MarketplaceItem) { s.mu.Lock(); s.items = items; s.mu.Unlock() }

// SetAlumni replaces the alumni profiles.
func (s *Server) SetAlumni(p ...model.AlumniProfile) { s.mu.Lock(); s.alumni = p; s.mu.Unlock() }

// SetEvents replaces the events.
func (s *Server) SetEvents(e ...model.Event) { s.mu.Lock(); s.events = e; s.mu.Unlock() }

// SetClubs replaces the clubs.
func (s *Server) SetClubs(c ...model.Club) { s.mu.Lock(); s.clubs = c; s.mu.Unlock() }

// SetPGs replaces the PG listings.
func (s *Server) SetPGs(p ...model.PG) { s.mu.Lock(); s.pgs = p; s.mu.Unlock() }

// SetFoodCourts replaces the food courts.
func (s *Server) SetFoodCourts(f ...model.FoodCourt) { s.mu.Lock(); s.food = f; s.mu.Unlock() }

// SetContributors replaces the top-contributors ranking.
func (s *Server) SetContributors(c ...model.Contributor) {
	s.mu.Lock()
	s.contributors = c
	s.mu.Unlock()
}

// AddMessage appends a chat message between two users.
func (s *Server) AddMessage(from, to int64, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendMessageLocked(from, to, content, nil)
}

// SetMessages replaces every stored chat message.
func (s *Server) SetMessages(msgs ...model.ChatMessage) {
	s.mu.Lock()
	s.messages = msgs
	s.mu.Unlock()
}

// Uploads returns the PYQ uploads received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// Messages returns every stored chat message.
func (s *Server) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ChatMessage(nil), s.messages...)
}

// Posts returns the stored posts.
func (s *Server) Posts() []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Post(nil), s.posts...)
}

// =============================================================================
// FAULT INJECTION
// =============================================================================

// Fail makes every request to path (without query) answer status with a
// JSON {"error": msg} body. An empty msg sends an empty JSON object.
func (s *Server) Fail(path string, status int, msg string) {
	body := `{}`
	if msg != "" {
		b, _ := json.Marshal(map[string]string{"error": msg})
		body = string(b)
	}
	s.mu.Lock()
	s.failures["/api"+path] = failure{status: status, body: body}
	s.mu.Unlock()
}

// Recover removes a failure injected with Fail.
func (s *Server) Recover(path string) {
	s.mu.Lock()
	delete(s.failures, "/api"+path)
	s.mu.Unlock()
}

// ExpireSessions makes every authenticated endpoint answer 401.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	s.expired = true
	s.mu.Unlock()
}

// HoldNext holds back the response to the next request for path until the
// returned release function is called.
func (s *Server) HoldNext(path string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.gates["/api"+path] = append(s.gates["/api"+path], ch)
	s.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (s *Server) releaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chans := range s.gates {
		for _, ch := range chans {
			select {
			case <-ch:
			default:
				close(ch)
			}
		}
	}
	s.gates = map[string][]chan struct{}{}
}

// =============================================================================
// INSPECTION
// =============================================================================

// Calls returns every recorded request.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount returns how many requests hit path (without query).
func (s *Server) CallCount(path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Path == "/api"+path {
			n++
		}
	}
	return n
}

// WaitForCalls blocks until path has been hit n times or the timeout passes.
func (s *Server) WaitForCalls(path string, n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.CallCount(path) >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return s.CallCount(path) >= n
}

// =============================================================================
// ROUTER
// =============================================================================

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.login)
		r.Post("/auth/register", s.register)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticated)

			r.Get("/users/me", s.me)

			r.Get("/posts/feed", s.feed)
			r.Get("/posts/top-contributors", s.topContributors)
			r.Post("/posts", s.createPost)
			r.Delete("/posts/{id}", s.deletePost)
			r.Post("/posts/{id}/like", s.likePost)
			r.Post("/posts/{id}/comment", s.addComment)
			r.Delete("/posts/comments/{id}", s.deleteComment)

			r.Get("/pyqs", s.listPYQs)
			r.Post("/pyqs/upload", s.uploadPYQ)
			r.Delete("/pyqs/{id}", s.deletePYQ)

			r.Get("/alumni", list(s, func() any { return s.alumni }))
			r.Post("/alumni/profile", s.createAlumni)

			r.Get("/marketplace/items", s.listItems)
			r.Post("/marketplace/items", s.createItem)
			r.Delete("/marketplace/items/{id}", s.deleteItem)

			r.Get("/events", list(s, func() any { return s.events }))
			r.Get("/clubs", list(s, func() any { return s.clubs }))
			r.Get("/pg", list(s, func() any { return s.pgs }))
			r.Get("/food", list(s, func() any { return s.food }))

			r.Post("/chat/send", s.sendMessage)
			r.Get("/chat/conversation/{id}", s.conversation)
			r.Get("/chat/partners", s.partners)

			r.Get("/search", s.search)
		})
	})
	return r
}

// record logs the call, applies injected failures and holds gated requests.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
		})
		var gate chan struct{}
		if q := s.gates[r.URL.Path]; len(q) > 0 {
			gate, s.gates[r.URL.Path] = q[0], q[1:]
		}
		f, failing := s.failures[r.URL.Path]
		s.mu.Unlock()

		if gate != nil {
			<-gate
		}
		if failing {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = io.WriteString(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		expired := s.expired
		s.mu.Unlock()
		if expired {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token expired"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// caller resolves the bearer token to a user. Unknown tokens give nil.
func (s *Server) callerLocked(r *http.Request) *model.UserRef {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	id, err := strconv.ParseInt(strings.TrimPrefix(token, "token-"), 10, 64)
	if err != nil {
		return nil
	}
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return &u
}

func (s *Server) newIDLocked() int64 {
	s.nextID++
	return s.nextID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func list(s *Server, get func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		v := get()
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, v)
	}
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}
