// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import (
	"fmt"
	"strconv"

	"github.com/uniconnect/uniconnect-tui/internal/model"
)

// Region ids. Each tab owns one or more regions; the contributors panel is
// always visible.
const (
	RegionFeed              = "feed"
	RegionPYQ               = "pyq"
	RegionConfessions       = "confessions"
	RegionAlumni            = "alumni"
	RegionFoodCourts        = "freshers.food"
	RegionPGs               = "freshers.pg"
	RegionClubs             = "freshers.clubs"
	RegionMarketplace       = "marketplace"
	RegionEvents            = "events"
	RegionPartners          = "messages.partners"
	RegionConversation      = "messages.conversation"
	RegionSearchPosts       = "search.posts"
	RegionSearchMarketplace = "search.marketplace"
	RegionContributors      = "sidebar.contributors"
)

// Empty-state texts.
const (
	EmptyPosts        = "No posts yet. Be the first to post!"
	EmptyComments     = "No comments yet"
	EmptyPYQs         = "No PYQs available yet"
	EmptyAlumni       = "No alumni profiles yet"
	EmptyMarketplace  = "No items for sale"
	EmptyEvents       = "No upcoming events"
	EmptyFoodCourts   = "No food courts listed"
	EmptyPGs          = "No PGs listed"
	EmptyClubs        = "No clubs found"
	EmptyPartners     = "No conversations yet"
	EmptyConversation = "No messages yet. Say hello!"
	EmptyContributors = "No contributors yet"
	AnonymousName     = "Anonymous"
	anonymousAvatar   = "🎭"
	unknownName       = "Unknown"
	searchingPosts    = "Searching posts..."
	searchingMarket   = "Searching marketplace..."
)

// Viewer is the identity a tree is built for. Ownership is computed from it
// on every build.
type Viewer struct {
	UserID   int64
	ReadOnly bool
}

// Owns reports whether the viewer owns the record.
func (v Viewer) Owns(o model.Owned) bool {
	return v.UserID != 0 && o.OwnerID() == v.UserID
}

func (v Viewer) canDelete(o model.Owned) bool {
	return !v.ReadOnly && v.Owns(o)
}

// =============================================================================
// POSTS AND COMMENTS
// =============================================================================

// Posts renders a feed region.
func Posts(v Viewer, region string, posts []model.Post) Node {
	if len(posts) == 0 {
		return Section(region, Empty(EmptyPosts))
	}
	cards := make([]Node, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, PostCard(v, p))
	}
	return Section(region, List(region+".list", cards...))
}

// PostCard renders one post with its comments.
func PostCard(v Viewer, p model.Post) Node {
	author := Heading(p.User.DisplayName(unknownName)).With(AttrAvatar, p.User.Initial())
	if p.Anonymous {
		author = Heading(AnonymousName).With(AttrAvatar, anonymousAvatar)
	}
	children := []Node{
		author,
		Muted(p.CreatedAt.Display()),
		Text(p.Content),
	}
	if v.canDelete(p) {
		children = append(children, Button("Delete", Action{Name: ActDeletePost, ID: p.ID}))
	}
	if v.ReadOnly {
		children = append(children, Badge(fmt.Sprintf("♥ %d", p.LikeCount)))
	} else {
		children = append(children, Button(fmt.Sprintf("♥ %d", p.LikeCount), Action{Name: ActLike, ID: p.ID}))
	}
	children = append(children,
		Badge(fmt.Sprintf("💬 %d", len(p.Comments))),
		Comments(v, p.ID, p.Comments, p.Anonymous),
	)
	if !v.ReadOnly {
		children = append(children, Button("Post comment", Action{Name: ActComment, ID: p.ID}))
	}
	return Card("post-"+itoa(p.ID), children...)
}

// Comments renders the comments of a post. forceAnonymous hides every
// commenter when the parent post is anonymous.
func Comments(v Viewer, postID int64, comments []model.Comment, forceAnonymous bool) Node {
	id := "comments-" + itoa(postID)
	if len(comments) == 0 {
		return List(id, Muted(EmptyComments))
	}
	out := make([]Node, 0, len(comments))
	for _, c := range comments {
		name := c.User.DisplayName(unknownName)
		if forceAnonymous || c.Anonymous {
			name = AnonymousName
		}
		children := []Node{
			Heading(name),
			Muted(c.CreatedAt.Display()),
			Text(c.Content),
		}
		if v.canDelete(c) {
			children = append(children, Button("Delete", Action{Name: ActDeleteComment, ID: c.ID}))
		}
		out = append(out, Card("comment-"+itoa(c.ID), children...).With(AttrClass, "comment"))
	}
	return List(id, out...)
}

// Contributors renders the top-contributors panel.
func Contributors(list []model.Contributor) Node {
	if len(list) == 0 {
		return Section(RegionContributors, Muted(EmptyContributors))
	}
	items := make([]Node, 0, len(list))
	for _, c := range list {
		ref := model.UserRef{Name: c.Name}
		items = append(items, Card("contributor-"+itoa(c.ID),
			Text(c.Name).With(AttrAvatar, ref.Initial()),
			Muted(fmt.Sprintf("%d posts", c.PostCount)),
		))
	}
	return Section(RegionContributors, Heading("Top Contributors"), List(RegionContributors+".list", items...))
}

// =============================================================================
// PYQS AND MARKETPLACE
// =============================================================================

// PYQs renders the past-paper list.
func PYQs(v Viewer, pyqs []model.PYQ) Node {
	if len(pyqs) == 0 {
		return Section(RegionPYQ, Empty(EmptyPYQs))
	}
	cards := make([]Node, 0, len(pyqs))
	for _, q := range pyqs {
		exam := q.ExamType
		if exam == "" {
			exam = "Exam"
		}
		children := []Node{Heading(q.Subject)}
		if v.canDelete(q) {
			children = append(children, Button("Delete", Action{Name: ActDeletePYQ, ID: q.ID}))
		}
		children = append(children,
			Muted(fmt.Sprintf("Year: %d | %s", q.Year, exam)),
			Text("Uploaded by: "+q.UploadedBy.DisplayName(unknownName)),
			Link("Download PDF", q.FileURL),
		)
		cards = append(cards, Card("pyq-"+itoa(q.ID), children...))
	}
	return Section(RegionPYQ, List(RegionPYQ+".list", cards...))
}

// MarketplaceItems renders the listings of a marketplace region.
func MarketplaceItems(v Viewer, region string, items []model.MarketplaceItem) Node {
	if len(items) == 0 {
		return Section(region, Empty(EmptyMarketplace))
	}
	return Section(region, itemList(v, region, items))
}

func itemList(v Viewer, region string, items []model.MarketplaceItem) Node {
	cards := make([]Node, 0, len(items))
	for _, it := range items {
		cards = append(cards, ItemCard(v, it))
	}
	return List(region+".list", cards...)
}

// ItemCard renders one listing. Sellers get delete and a shortcut to their
// chats; everyone else gets the contact action.
func ItemCard(v Viewer, it model.MarketplaceItem) Node {
	seller := v.Owns(it)
	children := []Node{Heading(it.Title)}
	if seller && !v.ReadOnly {
		children = append(children, Button("Delete", Action{Name: ActDeleteItem, ID: it.ID}))
	}
	if it.ImageURL != "" {
		children = append(children, Image("Item", it.ImageURL))
	}
	children = append(children,
		Text(FormatPrice(it.Price)),
		Text(it.Description),
		Muted("Category: "+it.Category),
		Text("Seller: "+it.Seller.DisplayName(unknownName)),
	)
	switch {
	case seller:
		children = append(children, Button("View Active Chats", Action{Name: ActViewChats, ID: it.ID}))
	case !v.ReadOnly && it.Seller != nil && it.Seller.ID != 0:
		children = append(children, Button("Buy / Contact Seller", Action{
			Name: ActContactSeller,
			ID:   it.ID,
			Ref:  it.Seller.ID,
			Arg:  it.Title,
		}))
	}
	return Card("item-"+itoa(it.ID), children...)
}

// FormatPrice renders a rupee amount without trailing zeros.
func FormatPrice(p float64) string {
	return "₹" + strconv.FormatFloat(p, 'f', -1, 64)
}

// =============================================================================
// DIRECTORY
// =============================================================================

// Alumni renders alumni profiles.
func Alumni(profiles []model.AlumniProfile) Node {
	if len(profiles) == 0 {
		return Section(RegionAlumni, Empty(EmptyAlumni))
	}
	cards := make([]Node, 0, len(profiles))
	for _, p := range profiles {
		children := []Node{
			Heading(p.User.DisplayName("Alumni")),
			Text(p.JobRole + " at " + p.Company),
			Muted(fmt.Sprintf("%d years experience", p.YearsOfExperience)),
		}
		if p.Review != "" {
			children = append(children, Text(`"`+p.Review+`"`))
		}
		if p.LinkedInURL != "" {
			children = append(children, Link("LinkedIn", p.LinkedInURL))
		}
		cards = append(cards, Card("alumni-"+itoa(p.UserID), children...))
	}
	return Section(RegionAlumni, List(RegionAlumni+".list", cards...))
}

// Events renders upcoming events.
func Events(events []model.Event) Node {
	if len(events) == 0 {
		return Section(RegionEvents, Empty(EmptyEvents))
	}
	cards := make([]Node, 0, len(events))
	for _, e := range events {
		var children []Node
		if e.PosterURL != "" {
			children = append(children, Image("Event poster", e.PosterURL))
		}
		venue := e.Venue
		if venue == "" {
			venue = "TBA"
		}
		children = append(children,
			Heading(e.Title),
			Muted("Date: "+e.EventDate.Display()),
			Muted("Venue: "+venue),
			Text(e.Description),
		)
		cards = append(cards, Card("event-"+itoa(e.ID), children...))
	}
	return Section(RegionEvents, List(RegionEvents+".list", cards...))
}

// FoodCourts renders the food court panel of the Freshers Hub.
func FoodCourts(courts []model.FoodCourt) Node {
	if len(courts) == 0 {
		return Section(RegionFoodCourts, Muted(EmptyFoodCourts))
	}
	cards := make([]Node, 0, len(courts))
	for _, c := range courts {
		rating := "N/A"
		if c.Rating != nil && *c.Rating != 0 {
			rating = strconv.FormatFloat(*c.Rating, 'f', -1, 64)
		}
		cards = append(cards, Card("food-"+itoa(c.ID),
			Heading(c.Name),
			Muted(c.Location),
			Text("Rating: "+rating),
		))
	}
	return Section(RegionFoodCourts, Heading("Food Courts"), List(RegionFoodCourts+".list", cards...))
}

// PGs renders the accommodation panel of the Freshers Hub.
func PGs(pgs []model.PG) Node {
	if len(pgs) == 0 {
		return Section(RegionPGs, Muted(EmptyPGs))
	}
	cards := make([]Node, 0, len(pgs))
	for _, p := range pgs {
		cards = append(cards, Card("pg-"+itoa(p.ID),
			Heading(p.Name),
			Text(FormatPrice(p.Rent)+"/mo"),
			Muted(p.Address),
		))
	}
	return Section(RegionPGs, Heading("PG Accommodation"), List(RegionPGs+".list", cards...))
}

// Clubs renders the clubs panel of the Freshers Hub.
func Clubs(v Viewer, clubs []model.Club) Node {
	if len(clubs) == 0 {
		return Section(RegionClubs, Muted(EmptyClubs))
	}
	cards := make([]Node, 0, len(clubs))
	for _, c := range clubs {
		ref := model.UserRef{Name: c.Name}
		children := []Node{Heading(c.Name).With(AttrAvatar, ref.Initial())}
		if !v.ReadOnly {
			children = append(children, Button("Join", Action{Name: ActJoinClub, ID: c.ID, Arg: c.Name}))
		}
		cards = append(cards, Card("club-"+itoa(c.ID), children...))
	}
	return Section(RegionClubs, Heading("Clubs"), List(RegionClubs+".list", cards...))
}

// =============================================================================
// CHAT
// =============================================================================

// Partners renders the chat partner list. activeID marks the open chat.
func Partners(partners []model.UserRef, activeID int64) Node {
	if len(partners) == 0 {
		return Section(RegionPartners, Muted(EmptyPartners))
	}
	items := make([]Node, 0, len(partners))
	for _, p := range partners {
		n := Button(p.DisplayName("User"), Action{Name: ActOpenChat, ID: p.ID, Arg: p.Name})
		if p.ID == activeID {
			n = n.With(AttrActive, "true")
		}
		items = append(items, n)
	}
	return Section(RegionPartners, List(RegionPartners+".list", items...))
}

// PartnerName looks up a partner's display name, falling back to "User".
func PartnerName(partners []model.UserRef, id int64) string {
	for _, p := range partners {
		if p.ID == id {
			return p.DisplayName("User")
		}
	}
	return "User"
}

// Conversation renders a chat history. Every message becomes exactly one
// KindMessage node, which the chat poller counts.
func Conversation(v Viewer, partnerName string, messages []model.ChatMessage) Node {
	header := Heading("Chat with " + partnerName)
	if len(messages) == 0 {
		return Section(RegionConversation, header, Empty(EmptyConversation))
	}
	nodes := make([]Node, 0, len(messages))
	for _, m := range messages {
		own := m.SentBy(v.UserID)
		from := m.Sender.DisplayName(partnerName)
		if own {
			from = "You"
		}
		nodes = append(nodes, Node{
			Kind: KindMessage,
			ID:   "msg-" + itoa(m.ID),
			Text: m.Content,
			Attrs: map[string]string{
				AttrOwn:  strconv.FormatBool(own),
				AttrFrom: from,
				AttrTime: m.CreatedAt.Display(),
			},
		})
	}
	return Section(RegionConversation, header, List(RegionConversation+".list", nodes...))
}

// =============================================================================
// SEARCH
// =============================================================================

// SearchingPosts is shown while a search is in flight.
func SearchingPosts() Node { return Section(RegionSearchPosts, Muted(searchingPosts)) }

// SearchingMarketplace is shown while a search is in flight.
func SearchingMarketplace() Node { return Section(RegionSearchMarketplace, Muted(searchingMarket)) }

// SearchPosts renders matched posts.
func SearchPosts(v Viewer, query string, posts []model.Post) Node {
	if len(posts) == 0 {
		return Section(RegionSearchPosts, Empty(`No posts found matching "`+query+`"`))
	}
	cards := make([]Node, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, PostCard(v, p))
	}
	return Section(RegionSearchPosts, Heading("Posts"), List(RegionSearchPosts+".list", cards...))
}

// SearchMarketplace renders matched listings.
func SearchMarketplace(v Viewer, query string, items []model.MarketplaceItem) Node {
	if len(items) == 0 {
		return Section(RegionSearchMarketplace, Empty(`No items found matching "`+query+`"`))
	}
	return Section(RegionSearchMarketplace, Heading("Marketplace Items"), itemList(v, RegionSearchMarketplace, items))
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
