// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
)

// =============================================================================
// USERS
// =============================================================================

// UserRef is a user embedded in another record (author, seller, sender).
type UserRef struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	GraduationYear *int   `json:"graduationYear,omitempty"`
}

// UnmarshalJSON accepts "userId" as an alias for "id".
func (u *UserRef) UnmarshalJSON(data []byte) error {
	type plain UserRef
	var aux struct {
		plain
		UserID *int64 `json:"userId"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = UserRef(aux.plain)
	if u.ID == 0 && aux.UserID != nil {
		u.ID = *aux.UserID
	}
	return nil
}

// Initial returns the first letter of the name, or "?".
func (u *UserRef) Initial() string {
	if u == nil {
		return "?"
	}
	for _, r := range strings.TrimSpace(u.Name) {
		return strings.ToUpper(string(r))
	}
	return "?"
}

// DisplayName returns the name or fallback when the reference or name is
// missing.
func (u *UserRef) DisplayName(fallback string) string {
	if u == nil || u.Name == "" {
		return fallback
	}
	return u.Name
}

// refID returns the id of an optional reference, or 0.
func refID(u *UserRef) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}

// Owned is implemented by records with an owner reference.
type Owned interface {
	OwnerID() int64
}

// =============================================================================
// POSTS
// =============================================================================

// PostType is the feed a post belongs to.
type PostType string

const (
	PostNormal     PostType = "NORMAL"
	PostConfession PostType = "CONFESSION"
	PostFreshersQA PostType = "FRESHERS_QA"
)

// Post is a feed or confession entry.
type Post struct {
	ID        int64     `json:"id"`
	User      *UserRef  `json:"user,omitempty"`
	Type      PostType  `json:"type"`
	Content   string    `json:"content"`
	Anonymous bool      `json:"isAnonymous"`
	LikeCount int       `json:"likeCount"`
	Comments  []Comment `json:"comments"`
	CreatedAt Timestamp `json:"createdAt"`
}

// UnmarshalJSON accepts both "isAnonymous" and "anonymous".
func (p *Post) UnmarshalJSON(data []byte) error {
	type plain Post
	var aux struct {
		plain
		Alias bool `json:"anonymous"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = Post(aux.plain)
	p.Anonymous = p.Anonymous || aux.Alias
	return nil
}

// OwnerID returns the author's id, or 0.
func (p Post) OwnerID() int64 { return refID(p.User) }

// Comment is a reply on a post.
type Comment struct {
	ID        int64     `json:"id"`
	User      *UserRef  `json:"user,omitempty"`
	Content   string    `json:"content"`
	Anonymous bool      `json:"isAnonymous"`
	CreatedAt Timestamp `json:"createdAt"`
}

// UnmarshalJSON accepts both "isAnonymous" and "anonymous".
func (c *Comment) UnmarshalJSON(data []byte) error {
	type plain Comment
	var aux struct {
		plain
		Alias bool `json:"anonymous"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Comment(aux.plain)
	c.Anonymous = c.Anonymous || aux.Alias
	return nil
}

// OwnerID returns the commenter's id, or 0.
func (c Comment) OwnerID() int64 { return refID(c.User) }

// Feed is a list of posts decoded from either a bare array or a paged
// object with a "content" array.
type Feed []Post

// UnmarshalJSON implements json.Unmarshaler.
func (f *Feed) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var posts []Post
		if err := json.Unmarshal(data, &posts); err != nil {
			return err
		}
		*f = posts
		return nil
	}
	var page struct {
		Content []Post `json:"content"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return err
	}
	*f = page.Content
	return nil
}

// Contributor is an entry of the top-contributors ranking.
type Contributor struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	PostCount int    `json:"postCount"`
}

// =============================================================================
// PYQS
// =============================================================================

// Exam types accepted by the PYQ upload.
const (
	ExamMidSem = "MID_SEM"
	ExamEndSem = "END_SEM"
	ExamQuiz   = "QUIZ"
)

// PYQ is an uploaded past exam paper.
type PYQ struct {
	ID         int64     `json:"id"`
	Subject    string    `json:"subject"`
	Year       int       `json:"year"`
	ExamType   string    `json:"examType"`
	FileURL    string    `json:"fileUrl"`
	UploadedBy *UserRef  `json:"uploadedBy,omitempty"`
	CreatedAt  Timestamp `json:"createdAt"`
}

// OwnerID returns the uploader's id, or 0.
func (q PYQ) OwnerID() int64 { return refID(q.UploadedBy) }

// =============================================================================
// MARKETPLACE
// =============================================================================

// MarketplaceItem is a listing for sale.
type MarketplaceItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Seller      *UserRef  `json:"seller,omitempty"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// OwnerID returns the seller's id, or 0.
func (m MarketplaceItem) OwnerID() int64 { return refID(m.Seller) }

// =============================================================================
// CAMPUS DIRECTORY
// =============================================================================

// Event is an upcoming campus event.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   Timestamp `json:"eventDate"`
	Venue       string    `json:"venue"`
	PosterURL   string    `json:"posterUrl,omitempty"`
}

// AlumniProfile is an alumnus' public profile.
type AlumniProfile struct {
	UserID            int64    `json:"userId"`
	User              *UserRef `json:"user,omitempty"`
	Company           string   `json:"company"`
	JobRole           string   `json:"jobRole"`
	YearsOfExperience int      `json:"yearsOfExperience"`
	Review            string   `json:"review,omitempty"`
	LinkedInURL       string   `json:"linkedinUrl,omitempty"`
}

// FoodCourt is a place to eat near campus.
type FoodCourt struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Rating       *float64 `json:"rating"`
	AveragePrice *float64 `json:"averagePrice"`
	Location     string   `json:"location"`
}

// PG is a paying-guest accommodation listing.
type PG struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Rent               float64  `json:"rent"`
	DistanceFromCampus *float64 `json:"distanceFromCampus"`
	Amenities          string   `json:"amenities"`
	Contact            string   `json:"contact"`
	Address            string   `json:"address"`
}

// AmenityList splits the comma-separated amenities.
func (p PG) AmenityList() []string {
	var out []string
	for _, a := range strings.Split(p.Amenities, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Club is a student club.
type Club struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// =============================================================================
// CHAT
// =============================================================================

// ChatMessage is one message of a two-party conversation.
type ChatMessage struct {
	ID        int64     `json:"id"`
	Sender    *UserRef  `json:"sender,omitempty"`
	Receiver  *UserRef  `json:"receiver,omitempty"`
	Content   string    `json:"content"`
	ItemID    *int64    `json:"itemId,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
}

// SentBy reports whether userID authored the message.
func (m ChatMessage) SentBy(userID int64) bool {
	return userID != 0 && refID(m.Sender) == userID
}

// =============================================================================
// SEARCH
// =============================================================================

// SearchResults is the combined answer of the search endpoint.
type SearchResults struct {
	Posts       []Post            `json:"posts"`
	Marketplace []MarketplaceItem `json:"marketplace"`
}
