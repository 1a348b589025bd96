// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTab(t *testing.T) {
	for _, tab := range append(TabBar(), TabSearchResults) {
		got, err := ParseTab(tab.String())
		require.NoError(t, err)
		assert.Equal(t, tab, got)
	}

	got, err := ParseTab(" Marketplace ")
	require.NoError(t, err)
	assert.Equal(t, TabMarketplace, got)

	_, err = ParseTab("settings")
	assert.Error(t, err)
}

func TestTabBarExcludesSearchResults(t *testing.T) {
	bar := TabBar()
	assert.Len(t, bar, 8)
	assert.NotContains(t, bar, TabSearchResults)
	assert.Equal(t, TabFeed, bar[0])
}

func TestEveryTabHasRegions(t *testing.T) {
	seen := map[string]Tab{}
	for _, tab := range append(TabBar(), TabSearchResults) {
		regions := tab.Regions()
		assert.NotEmpty(t, regions, tab.String())
		for _, r := range regions {
			prev, dup := seen[r]
			assert.False(t, dup, "region %s shared by %s and %s", r, prev, tab)
			seen[r] = tab
		}
	}
	assert.Len(t, TabFreshers.Regions(), 3)
}

func TestTabStrings(t *testing.T) {
	assert.Equal(t, "searchResults", TabSearchResults.String())
	assert.Equal(t, "Freshers Hub", TabFreshers.Title())
	assert.Equal(t, "Tab(42)", Tab(42).String())
}
