// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fakeapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/uniconnect/uniconnect-tui/internal/model"
)

// =============================================================================
// AUTH
// =============================================================================

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad request"})
		return
	}
	s.mu.Lock()
	acct, ok := s.accounts[req.Email]
	s.mu.Unlock()
	if !ok || acct.password != req.Password {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid email or password"})
		return
	}
	writeJSON(w, http.StatusOK, authResponse(acct))
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad request"})
		return
	}
	s.mu.Lock()
	if _, exists := s.accounts[req.Email]; exists {
		s.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email already registered"})
		return
	}
	var uni int64
	if req.UniversityID != nil {
		uni = *req.UniversityID
	}
	u := model.UserRef{ID: s.newIDLocked(), Name: req.Name, Email: req.Email, Role: "STUDENT"}
	acct := &account{password: req.Password, user: u, uni: uni}
	s.accounts[req.Email] = acct
	s.users[u.ID] = u
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, authResponse(acct))
}

func authResponse(a *account) model.AuthResponse {
	return model.AuthResponse{
		Token:        TokenFor(a.user.ID),
		Email:        a.user.Email,
		Name:         a.user.Name,
		Role:         a.user.Role,
		UniversityID: a.uni,
		UserID:       a.user.ID,
	}
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u := s.callerLocked(r)
	s.mu.Unlock()
	if u == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// =============================================================================
// POSTS
// =============================================================================

func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	typ := model.PostType(r.URL.Query().Get("type"))
	s.mu.Lock()
	var out []model.Post
	for _, p := range s.posts {
		if typ == "" || p.Type == typ {
			out = append(out, p)
		}
	}
	s.mu.Unlock()
	if out == nil {
		out = []model.Post{}
	}
	// Spring answers the feed with a Page object.
	writeJSON(w, http.StatusOK, map[string]any{"content": out, "totalElements": len(out)})
}

func (s *Server) topContributors(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := append([]model.Contributor{}, s.contributors...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Content is required"})
		return
	}
	s.mu.Lock()
	p := model.Post{
		ID:        s.newIDLocked(),
		User:      s.callerLocked(r),
		Type:      req.Type,
		Content:   req.Content,
		Anonymous: req.IsAnonymous,
		CreatedAt: model.Timestamp{Time: time.Now()},
	}
	s.posts = append([]model.Post{p}, s.posts...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.posts {
		if p.ID == id {
			if caller := s.callerLocked(r); caller == nil || p.OwnerID() != caller.ID {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "You can only delete your own posts"})
				return
			}
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Post not found"})
}

func (s *Server) likePost(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].LikeCount++
			writeJSON(w, http.StatusOK, s.posts[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Post not found"})
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var req model.CommentRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			c := model.Comment{
				ID:        s.newIDLocked(),
				User:      s.callerLocked(r),
				Content:   req.Content,
				CreatedAt: model.Timestamp{Time: time.Now()},
			}
			s.posts[i].Comments = append(s.posts[i].Comments, c)
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Post not found"})
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		for j, c := range s.posts[i].Comments {
			if c.ID == id {
				s.posts[i].Comments = append(s.posts[i].Comments[:j], s.posts[i].Comments[j+1:]...)
				w.WriteHeader(http.StatusOK)
				return
			}
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Comment not found"})
}

// =============================================================================
// PYQS
// =============================================================================

func (s *Server) listPYQs(w http.ResponseWriter, r *http.Request) {
	subject := r.URL.Query().Get("subject")
	s.mu.Lock()
	out := []model.PYQ{}
	for _, q := range s.pyqs {
		if subject == "" || strings.EqualFold(q.Subject, subject) {
			out = append(out, q)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) uploadPYQ(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form"})
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	defer f.Close()
	data, _ := io.ReadAll(f)

	up := Upload{
		Subject:  r.FormValue("subject"),
		Year:     r.FormValue("year"),
		ExamType: r.FormValue("examType"),
		FileName: hdr.Filename,
		Content:  data,
	}
	s.mu.Lock()
	s.uploads = append(s.uploads, up)
	q := model.PYQ{
		ID:         s.newIDLocked(),
		Subject:    up.Subject,
		ExamType:   up.ExamType,
		FileURL:    "https://files.example/" + up.FileName,
		UploadedBy: s.callerLocked(r),
	}
	s.pyqs = append(s.pyqs, q)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) deletePYQ(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, q := range s.pyqs {
		if q.ID == id {
			s.pyqs = append(s.pyqs[:i], s.pyqs[i+1:]...)
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "PYQ not found"})
}

// =============================================================================
// ALUMNI AND MARKETPLACE
// =============================================================================

func (s *Server) createAlumni(w http.ResponseWriter, r *http.Request) {
	var req model.AlumniProfileRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	s.mu.Lock()
	u := s.callerLocked(r)
	p := model.AlumniProfile{
		User:              u,
		Company:           req.Company,
		JobRole:           req.JobRole,
		YearsOfExperience: req.YearsOfExperience,
		Review:            req.Review,
		LinkedInURL:       req.LinkedInURL,
	}
	if u != nil {
		p.UserID = u.ID
	}
	s.alumni = append(s.alumni, p)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	s.mu.Lock()
	out := []model.MarketplaceItem{}
	for _, it := range s.items {
		if category == "" || it.Category == category {
			out = append(out, it)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var req model.ListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad request"})
		return
	}
	s.mu.Lock()
	it := model.MarketplaceItem{
		ID:          s.newIDLocked(),
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Seller:      s.callerLocked(r),
	}
	s.items = append(s.items, it)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Item not found"})
}

// =============================================================================
// CHAT AND SEARCH
// =============================================================================

func (s *Server) appendMessageLocked(from, to int64, content string, itemID *int64) model.ChatMessage {
	sender := s.users[from]
	receiver := s.users[to]
	if sender.ID == 0 {
		sender.ID = from
	}
	if receiver.ID == 0 {
		receiver.ID = to
	}
	m := model.ChatMessage{
		ID:        s.newIDLocked(),
		Sender:    &sender,
		Receiver:  &receiver,
		Content:   content,
		ItemID:    itemID,
		CreatedAt: model.Timestamp{Time: time.Now()},
	}
	s.messages = append(s.messages, m)
	return m
}

func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ReceiverID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "receiverId is required"})
		return
	}
	s.mu.Lock()
	caller := s.callerLocked(r)
	if caller == nil {
		s.mu.Unlock()
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}
	m := s.appendMessageLocked(caller.ID, req.ReceiverID, req.Content, req.ItemID)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) conversation(w http.ResponseWriter, r *http.Request) {
	other := pathID(r)
	s.mu.Lock()
	caller := s.callerLocked(r)
	out := []model.ChatMessage{}
	if caller != nil {
		for _, m := range s.messages {
			a, b := m.Sender.ID, m.Receiver.ID
			if (a == caller.ID && b == other) || (a == other && b == caller.ID) {
				out = append(out, m)
			}
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) partners(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	caller := s.callerLocked(r)
	out := []model.UserRef{}
	seen := map[int64]bool{}
	if caller != nil {
		for _, m := range s.messages {
			var p *model.UserRef
			switch caller.ID {
			case m.Sender.ID:
				p = m.Receiver
			case m.Receiver.ID:
				p = m.Sender
			}
			if p != nil && !seen[p.ID] {
				seen[p.ID] = true
				out = append(out, *p)
			}
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("query"))
	s.mu.Lock()
	res := model.SearchResults{Posts: []model.Post{}, Marketplace: []model.MarketplaceItem{}}
	for _, p := range s.posts {
		if strings.Contains(strings.ToLower(p.Content), q) {
			res.Posts = append(res.Posts, p)
		}
	}
	for _, it := range s.items {
		if strings.Contains(strings.ToLower(it.Title), q) || strings.Contains(strings.ToLower(it.Description), q) {
			res.Marketplace = append(res.Marketplace, it)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, res)
}
