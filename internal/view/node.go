// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

// =============================================================================
// NODE TREE
// =============================================================================

// Kind identifies what a node represents.
type Kind string

const (
	KindSection Kind = "section"
	KindHeading Kind = "heading"
	KindText    Kind = "text"
	KindMuted   Kind = "muted"
	KindCard    Kind = "card"
	KindMessage Kind = "message"
	KindAction  Kind = "action"
	KindLink    Kind = "link"
	KindImage   Kind = "image"
	KindEmpty   Kind = "empty"
	KindList    Kind = "list"
	KindBadge   Kind = "badge"
)

// Attribute keys used by builders and renderers.
const (
	AttrHref   = "href"
	AttrSrc    = "src"
	AttrAvatar = "avatar"
	AttrOwn    = "own"
	AttrFrom   = "from"
	AttrTime   = "time"
	AttrActive = "active"
	AttrClass  = "class"
)

// ActionName names something the user can trigger from a node.
type ActionName string

const (
	ActLike          ActionName = "like"
	ActComment       ActionName = "comment"
	ActDeletePost    ActionName = "delete-post"
	ActDeleteComment ActionName = "delete-comment"
	ActDeletePYQ     ActionName = "delete-pyq"
	ActDeleteItem    ActionName = "delete-item"
	ActContactSeller ActionName = "contact-seller"
	ActViewChats     ActionName = "view-chats"
	ActOpenChat      ActionName = "open-chat"
	ActJoinClub      ActionName = "join-club"
)

// Action is attached to KindAction nodes. ID is the record acted upon; Ref
// and Arg carry extra context such as the seller id and item title.
type Action struct {
	Name ActionName
	ID   int64
	Ref  int64
	Arg  string
}

// Node is one element of a view tree.
type Node struct {
	Kind     Kind
	ID       string
	Text     string
	Attrs    map[string]string
	Action   *Action
	Children []Node
}

// Attr returns an attribute value or "".
func (n Node) Attr(key string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// With returns a copy of n with the attribute set.
func (n Node) With(key, value string) Node {
	attrs := make(map[string]string, len(n.Attrs)+1)
	for k, v := range n.Attrs {
		attrs[k] = v
	}
	attrs[key] = value
	n.Attrs = attrs
	return n
}

// Walk calls fn for n and every descendant, depth first. Returning false
// from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// CountKind returns the number of nodes of kind k in the tree.
func CountKind(n Node, k Kind) int {
	count := 0
	Walk(n, func(c Node) bool {
		if c.Kind == k {
			count++
		}
		return true
	})
	return count
}

// Actions returns every action node in document order.
func Actions(n Node) []Node {
	var out []Node
	Walk(n, func(c Node) bool {
		if c.Kind == KindAction && c.Action != nil {
			out = append(out, c)
		}
		return true
	})
	return out
}

// FindAction returns the first action with the given name and record id.
func FindAction(n Node, name ActionName, id int64) (Node, bool) {
	for _, a := range Actions(n) {
		if a.Action.Name == name && a.Action.ID == id {
			return a, true
		}
	}
	return Node{}, false
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// Section groups children under an id.
func Section(id string, children ...Node) Node {
	return Node{Kind: KindSection, ID: id, Children: children}
}

// Heading is a title line.
func Heading(text string) Node { return Node{Kind: KindHeading, Text: text} }

// Text is a paragraph of user or server text.
func Text(text string) Node { return Node{Kind: KindText, Text: text} }

// Muted is secondary text.
func Muted(text string) Node { return Node{Kind: KindMuted, Text: text} }

// Empty is the placeholder shown for an empty collection.
func Empty(text string) Node { return Node{Kind: KindEmpty, Text: text} }

// Badge is a short label.
func Badge(text string) Node { return Node{Kind: KindBadge, Text: text} }

// Card is one record.
func Card(id string, children ...Node) Node {
	return Node{Kind: KindCard, ID: id, Children: children}
}

// List holds a sequence of cards or items.
func List(id string, children ...Node) Node {
	return Node{Kind: KindList, ID: id, Children: children}
}

// Link points at an external URL.
func Link(text, href string) Node {
	return Node{Kind: KindLink, Text: text, Attrs: map[string]string{AttrHref: href}}
}

// Image shows an external picture.
func Image(alt, src string) Node {
	return Node{Kind: KindImage, Text: alt, Attrs: map[string]string{AttrSrc: src}}
}

// Button is an action node.
func Button(text string, a Action) Node {
	return Node{Kind: KindAction, Text: text, Action: &a}
}
