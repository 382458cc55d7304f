package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"posawiki/internal/testsupport"
)

func TestTagsStatsFromScrapeFile(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSearchDisabled())
	scrape := channelScrape(t, t.TempDir())

	out := env.mustRun(t, "tags", "stats", "--scrape", scrape)
	requireContains(t, out, "Videos: 6")
	requireContains(t, out, "Unique tags: 4 (7 uses)")
	requireContains(t, out, "Uploads by year")
	requireContains(t, out, "2024")
	requireContains(t, out, "Longest: 1:02:00")
}

func TestTagsCoverageAndReview(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSearchDisabled())
	env.mustRun(t, "videos", "import", channelScrape(t, t.TempDir()))

	out := env.mustRun(t, "tags", "coverage")
	requireContains(t, out, "Unique tags mapped: 3/4 (75.0%)")
	requireContains(t, out, "Tag uses mapped: 5/7")

	out = env.mustRun(t, "tags", "review")
	requireContains(t, out, "Unvalidated tags: 1 unique, 2 uses")

	out = env.mustRun(t, "tags", "stats")
	requireContains(t, out, "Source: catalog")
	requireContains(t, out, "Unique tags: 4 (7 uses)")
}

func TestTagsRevalidateAfterVocabularyChange(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSearchDisabled())
	env.mustRun(t, "videos", "import", channelScrape(t, t.TempDir()))

	out := env.mustRun(t, "--json", "tags", "revalidate")
	var stable struct {
		Processed int `json:"processed"`
		Updated   int `json:"updated"`
	}
	if err := json.Unmarshal([]byte(out), &stable); err != nil {
		t.Fatalf("decode revalidate: %v", err)
	}
	if stable.Processed != 6 || stable.Updated != 0 {
		t.Fatalf("expected a no-op pass, got %+v", stable)
	}

	authorityPath := testsupport.WriteJSON(t, filepath.Join(t.TempDir(), "authorities.json"), map[string]any{
		"authorities": []map[string]any{
			{"canonical_name": "Dogs", "category": "subject", "aliases": []string{"dog", "dogs"}},
			{"canonical_name": "Xyzzy", "category": "equipment", "aliases": []string{"xyzzy gear"}},
		},
	})
	env.cfg.Authority.Path = authorityPath
	writeTestConfig(t, env.configPath, env.cfg)

	out = env.mustRun(t, "tags", "revalidate")
	requireContains(t, out, "Processed: 6")
	requireContains(t, out, "Updated: 4")
	requireContains(t, out, "Newly validated")

	out = env.mustRun(t, "videos", "show", "knife")
	requireContains(t, out, "Validated: Xyzzy")
}
