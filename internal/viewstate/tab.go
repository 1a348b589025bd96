// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewstate

import (
	"fmt"
	"strings"

	"github.com/uniconnect/uniconnect-tui/internal/view"
)

// Tab is one of the mutually exclusive dashboard views.
type Tab int

const (
	TabFeed Tab = iota
	TabPYQ
	TabConfessions
	TabAlumni
	TabFreshers
	TabMarketplace
	TabEvents
	TabMessages
	TabSearchResults
)

var tabNames = [...]string{
	TabFeed:          "feed",
	TabPYQ:           "pyq",
	TabConfessions:   "confessions",
	TabAlumni:        "alumni",
	TabFreshers:      "freshers",
	TabMarketplace:   "marketplace",
	TabEvents:        "events",
	TabMessages:      "messages",
	TabSearchResults: "searchResults",
}

var tabTitles = [...]string{
	TabFeed:          "Feed",
	TabPYQ:           "PYQs",
	TabConfessions:   "Confessions",
	TabAlumni:        "Alumni",
	TabFreshers:      "Freshers Hub",
	TabMarketplace:   "Marketplace",
	TabEvents:        "Events",
	TabMessages:      "Messages",
	TabSearchResults: "Search Results",
}

// String returns the tab's name as used in config and on the command line.
func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return fmt.Sprintf("Tab(%d)", int(t))
	}
	return tabNames[t]
}

// Title returns the label shown in the tab bar.
func (t Tab) Title() string {
	if t < 0 || int(t) >= len(tabTitles) {
		return t.String()
	}
	return tabTitles[t]
}

// ParseTab resolves a tab name, ignoring case.
func ParseTab(name string) (Tab, error) {
	name = strings.TrimSpace(name)
	for i, n := range tabNames {
		if strings.EqualFold(n, name) {
			return Tab(i), nil
		}
	}
	return TabFeed, fmt.Errorf("unknown tab %q", name)
}

// TabBar returns the tabs reachable from the tab bar. Search results are
// only reached by searching.
func TabBar() []Tab {
	return []Tab{TabFeed, TabPYQ, TabConfessions, TabAlumni, TabFreshers, TabMarketplace, TabEvents, TabMessages}
}

// Regions returns the content regions a tab shows.
func (t Tab) Regions() []string {
	switch t {
	case TabFeed:
		return []string{view.RegionFeed}
	case TabPYQ:
		return []string{view.RegionPYQ}
	case TabConfessions:
		return []string{view.RegionConfessions}
	case TabAlumni:
		return []string{view.RegionAlumni}
	case TabFreshers:
		return []string{view.RegionFoodCourts, view.RegionPGs, view.RegionClubs}
	case TabMarketplace:
		return []string{view.RegionMarketplace}
	case TabEvents:
		return []string{view.RegionEvents}
	case TabMessages:
		return []string{view.RegionPartners, view.RegionConversation}
	case TabSearchResults:
		return []string{view.RegionSearchPosts, view.RegionSearchMarketplace}
	}
	return nil
}
