package tripdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchTitleKinds(t *testing.T) {
	cases := []struct {
		title string
		kind  PatternKind
		base  string
		part  int
		total int
	}{
		{"Winter Trip - Part 2 of 5", PatternPartOf, "Winter Trip", 2, 5},
		{"Winter Trip (Part 1 of 5)", PatternPartOf, "Winter Trip", 1, 5},
		{"Unsuccessful Fishing Show Episode 12", PatternEpisode, "Unsuccessful Fishing Show", 12, 0},
		{"BWCA Solo - Day 3", PatternDay, "BWCA Solo", 3, 0},
		{"Winter Camping - Night 2", PatternNight, "Winter Camping", 2, 0},
		{"Hot Tent Trip [2 of 3]", PatternBracketPart, "Hot Tent Trip", 2, 3},
	}
	for _, tc := range cases {
		t.Run(tc.title, func(t *testing.T) {
			m, ok := MatchTitle(tc.title)
			require.True(t, ok)
			assert.Equal(t, tc.kind, m.Kind)
			assert.Equal(t, tc.base, m.BaseTitle)
			assert.Equal(t, tc.part, m.PartNumber)
			if tc.total == 0 {
				assert.Nil(t, m.TotalParts)
			} else {
				require.NotNil(t, m.TotalParts)
				assert.Equal(t, tc.total, *m.TotalParts)
			}
		})
	}
}

func TestMatchTitlePartOfWinsOverDay(t *testing.T) {
	m, ok := MatchTitle("Canoe Trip - Day 2 (Part 1 of 3)")
	require.True(t, ok)
	assert.Equal(t, PatternPartOf, m.Kind)
	assert.Equal(t, "Canoe Trip - Day 2", m.BaseTitle)
	assert.Equal(t, 1, m.PartNumber)
	require.NotNil(t, m.TotalParts)
	assert.Equal(t, 3, *m.TotalParts)
}

func TestMatchTitleNoMarker(t *testing.T) {
	_, ok := MatchTitle("My Favorite Knife")
	assert.False(t, ok)
}

func TestSeriesKey(t *testing.T) {
	m, _ := MatchTitle("Winter Trip - Part 2 of 5")
	assert.Equal(t, "Winter Trip___PARTS_5", m.SeriesKey())
	m, _ = MatchTitle("Unsuccessful Fishing Show Episode 4")
	assert.Equal(t, "Unsuccessful Fishing Show___TYPE_episode", m.SeriesKey())

	three, _ := MatchTitle("Hot Tent Trip [1 of 3]")
	five, _ := MatchTitle("Hot Tent Trip [2 of 5]")
	assert.Equal(t, "Hot Tent Trip___PARTS_3", three.SeriesKey())
	assert.NotEqual(t, three.SeriesKey(), five.SeriesKey())
}

func TestDeriveBaseTitle(t *testing.T) {
	cases := map[string]string{
		"Winter Camping in a Snowstorm with my Dog": "Winter Camping",
		"3 Day Canoe Trip (BWCA)":                   "3 Day Canoe Trip",
		"Hot Tent [Extended Version]":               "Hot Tent",
		"Wilderness Canoe Camping - Spring":         "Wilderness Canoe Camping",
		"Campfire Steak":                            "Campfire Steak",
		"Frozen   Lake  (Day 1)":                    "Frozen Lake",
	}
	for title, want := range cases {
		assert.Equal(t, want, DeriveBaseTitle(title), title)
	}
}

func TestTripScore(t *testing.T) {
	keywords := DefaultPolicy().Keywords
	assert.Equal(t, 3, TripScore("Wilderness Canoe Camping - Spring", keywords))
	assert.Equal(t, 1, TripScore("Winter Camping with Monty", keywords))
	assert.Equal(t, 0, TripScore("Knife Review", keywords))
}
