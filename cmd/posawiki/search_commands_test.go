package main

import (
	"encoding/json"
	"testing"

	"posawiki/internal/testsupport"
)

func TestSearchAfterImport(t *testing.T) {
	env := setupCLITestEnv(t)
	env.mustRun(t, "videos", "import", channelScrape(t, t.TempDir()))

	out := env.mustRun(t, "--json", "search", "query", "knife")
	var result struct {
		Total uint64 `json:"total"`
		Hits  []struct {
			VideoID string `json:"video_id"`
		} `json:"hits"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode search: %v (%q)", err, out)
	}
	if len(result.Hits) == 0 || result.Hits[0].VideoID != "knife" {
		t.Fatalf("expected knife video first, got %+v", result)
	}

	out = env.mustRun(t, "search", "rebuild")
	requireContains(t, out, "Indexed 6 videos")

	out = env.mustRun(t, "search", "query", "winter", "--tag", "Canoe Camping")
	requireContains(t, out, "wt2")
}

func TestSearchDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSearchDisabled())
	_, _, err := runCLI(t, []string{"search", "query", "anything"}, env.configPath)
	if err == nil {
		t.Fatal("expected disabled search to fail")
	}
	requireContains(t, err.Error(), "search is disabled")
}
