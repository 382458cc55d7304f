package tripdetect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleVideos() []Video {
	return []Video{
		{ID: "wt3", Title: "Winter Trip - Part 3 of 3", UploadDate: "2024-01-05T15:00:00Z"},
		{ID: "ct2", Title: "Canoe Trip - Night 2", UploadDate: "2023-08-02T12:00:00Z"},
		{ID: "wt1", Title: "Winter Trip - Part 1 of 3", UploadDate: "2024-01-01T15:00:00Z"},
		{ID: "wc2", Title: "Winter Camping with Monty", UploadDate: "2023-01-20T10:00:00Z"},
		{ID: "wcc1", Title: "Wilderness Canoe Camping - Spring", UploadDate: "2023-05-01T10:00:00Z"},
		{ID: "wt2", Title: "Winter Trip - Part 2 of 3", UploadDate: "2024-01-03T15:00:00Z"},
		{ID: "ct1", Title: "Canoe Trip - Night 1", UploadDate: "2023-08-01T12:00:00Z"},
		{ID: "wc1", Title: "Winter Camping in a Snowstorm with my Dog", UploadDate: "2023-01-10T10:00:00Z"},
		{ID: "wcc2", Title: "Wilderness Canoe Camping - Summer", UploadDate: "2023-06-01T10:00:00Z"},
		{ID: "cca2", Title: "Canoe Camping Adventure - Fall", UploadDate: "2023-02-05T10:00:00Z"},
		{ID: "cca1", Title: "Canoe Camping Adventure - Spring", UploadDate: "2022-01-01T10:00:00Z"},
		{ID: "solo", Title: "Lonely Show Episode 1", UploadDate: "2021-01-01T10:00:00Z"},
		{ID: "knife", Title: "Knife Review", UploadDate: "2021-02-01T10:00:00Z"},
	}
}

func memberIDs(g Group) []string {
	ids := make([]string, 0, len(g.Videos))
	for _, m := range g.Videos {
		ids = append(ids, m.VideoID)
	}
	return ids
}

func TestDetectGroups(t *testing.T) {
	report := NewDetector(DefaultPolicy(), nil).Detect(sampleVideos())

	require.Len(t, report.Groups, 4)

	winter := report.Groups[0]
	assert.Equal(t, "Winter Trip", winter.BaseTitle)
	assert.Equal(t, GroupExplicit, winter.Type)
	assert.Equal(t, ConfidenceHigh, winter.Confidence)
	assert.Equal(t, PatternPartOf, winter.Pattern)
	assert.Equal(t, []string{"wt1", "wt2", "wt3"}, memberIDs(winter))

	canoe := report.Groups[1]
	assert.Equal(t, "Canoe Trip", canoe.BaseTitle)
	assert.Equal(t, PatternNight, canoe.Pattern)
	assert.Equal(t, []string{"ct1", "ct2"}, memberIDs(canoe))

	camping := report.Groups[2]
	assert.Equal(t, "Winter Camping", camping.BaseTitle)
	assert.Equal(t, GroupPotential, camping.Type)
	assert.Equal(t, ConfidenceLow, camping.Confidence)
	assert.Equal(t, []string{"wc1", "wc2"}, memberIDs(camping))
	require.NotNil(t, camping.DateSpanDays)
	assert.Equal(t, 10, *camping.DateSpanDays)

	wilderness := report.Groups[3]
	assert.Equal(t, "Wilderness Canoe Camping", wilderness.BaseTitle)
	assert.Equal(t, ConfidenceMedium, wilderness.Confidence)
	require.NotNil(t, wilderness.DateSpanDays)
	assert.Equal(t, 31, *wilderness.DateSpanDays)

	assert.Equal(t, Summary{
		Scanned:         13,
		ExplicitSeries:  2,
		PotentialSeries: 2,
		VideosInSeries:  9,
		Rejected:        1,
	}, report.Summary)
}

func TestDetectRejectsWideSpan(t *testing.T) {
	report := NewDetector(DefaultPolicy(), nil).Detect([]Video{
		{ID: "a", Title: "Canoe Camping Adventure - Spring", UploadDate: "2022-01-01"},
		{ID: "b", Title: "Canoe Camping Adventure - Fall", UploadDate: "2023-02-05"},
	})
	assert.Empty(t, report.Groups)
	assert.Equal(t, 1, report.Summary.Rejected)
}

func TestDetectExplicitTitlesSkipHeuristics(t *testing.T) {
	report := NewDetector(DefaultPolicy(), nil).Detect([]Video{
		{ID: "a", Title: "Canoe Camping - Night 1", UploadDate: "2023-01-01"},
		{ID: "b", Title: "Canoe Camping - Spring", UploadDate: "2023-01-02"},
	})
	assert.Empty(t, report.Groups)
	assert.Equal(t, 0, report.Summary.Rejected)
}

func TestDetectHonoursPolicy(t *testing.T) {
	policy := DefaultPolicy()
	policy.MaxSpanDays = 5
	report := NewDetector(policy, nil).Detect([]Video{
		{ID: "wc1", Title: "Winter Camping in a Snowstorm with my Dog", UploadDate: "2023-01-10"},
		{ID: "wc2", Title: "Winter Camping with Monty", UploadDate: "2023-01-20"},
	})
	assert.Empty(t, report.Groups)
	assert.Equal(t, 1, report.Summary.Rejected)
}

func TestDetectKeepsBracketTotalsApart(t *testing.T) {
	report := NewDetector(DefaultPolicy(), nil).Detect([]Video{
		{ID: "a1", Title: "Hot Tent Trip [1 of 3]", UploadDate: "2023-01-01"},
		{ID: "b2", Title: "Hot Tent Trip [2 of 5]", UploadDate: "2023-01-02"},
		{ID: "a2", Title: "Hot Tent Trip [2 of 3]", UploadDate: "2023-01-03"},
	})
	require.Len(t, report.Groups, 1)
	assert.Equal(t, []string{"a1", "a2"}, memberIDs(report.Groups[0]))
	assert.Equal(t, PatternBracketPart, report.Groups[0].Pattern)
}

func TestDetectSkipsEmptyBaseTitles(t *testing.T) {
	report := NewDetector(DefaultPolicy(), nil).Detect([]Video{
		{ID: "a", Title: "[4K] - Night Camping Adventure", UploadDate: "2023-01-01"},
		{ID: "b", Title: "[4K] - Canoe Camping Day", UploadDate: "2023-01-02"},
	})
	assert.Empty(t, report.Groups)

	path := filepath.Join(t.TempDir(), "candidates.json")
	require.NoError(t, WriteGroups(path, report.Groups))
	_, err := LoadGroups(path)
	assert.NoError(t, err)
}

func TestWriteAndLoadGroups(t *testing.T) {
	report := NewDetector(DefaultPolicy(), nil).Detect(sampleVideos())
	path := filepath.Join(t.TempDir(), "candidates.json")
	require.NoError(t, WriteGroups(path, report.Groups))

	loaded, err := LoadGroups(path)
	require.NoError(t, err)
	assert.Equal(t, report.Groups, loaded)
}

func TestLoadGroupsFailsFast(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"confidence": `[{"base_title":"X","type":"explicit_series","confidence":"certain","videos":[{"video_id":"a","upload_date":"2023-01-01"}]}]`,
		"video id":   `[{"base_title":"X","type":"explicit_series","confidence":"high","videos":[{"upload_date":"2023-01-01"}]}]`,
		"no videos":  `[{"base_title":"X","type":"potential_series","confidence":"low","videos":[]}]`,
		"bad date":   `[{"base_title":"X","type":"potential_series","confidence":"low","videos":[{"video_id":"a","upload_date":"soon"}]}]`,
		"not json":   `{{{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := LoadGroups(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadGroups(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
