package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"posawiki/internal/config"
	"posawiki/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("POSAWIKI_AUTHORITY_FILE", "")
	cfg.Logging.Level = "error"

	configPath := filepath.Join(base, "posawiki.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustRun runs the CLI against env and fails the test on error.
func (e *cliTestEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, args, e.configPath)
	if err != nil {
		t.Fatalf("posawiki %s: %v (stderr %q)", strings.Join(args, " "), err, stderr)
	}
	return out
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

type scrapeEntry struct {
	id, title, published, duration string
	tags                           []string
}

func writeScrape(t *testing.T, dir string, entries ...scrapeEntry) string {
	t.Helper()
	videos := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		videos = append(videos, map[string]any{
			"id": e.id,
			"snippet": map[string]any{
				"title":       e.title,
				"publishedAt": e.published,
				"description": fmt.Sprintf("Description of %s", e.title),
				"tags":        e.tags,
			},
			"contentDetails": map[string]any{"duration": e.duration},
			"statistics":     map[string]any{"viewCount": "100"},
		})
	}
	return testsupport.WriteJSON(t, filepath.Join(dir, "scrape.json"), map[string]any{
		"scrape_info": map[string]any{"timestamp": "2025-09-09T12:21:45"},
		"videos":      videos,
	})
}

func channelScrape(t *testing.T, dir string) string {
	t.Helper()
	return writeScrape(t, dir,
		scrapeEntry{"wt1", "Winter Trip - Part 1 of 3", "2024-01-01T15:00:00Z", "PT25M10S", []string{"dog", "Xyzzy Gear"}},
		scrapeEntry{"wt2", "Winter Trip - Part 2 of 3", "2024-01-03T15:00:00Z", "PT30M", []string{"Dog", "canoe"}},
		scrapeEntry{"wt3", "Winter Trip - Part 3 of 3", "2024-01-05T15:00:00Z", "PT1H2M", []string{"dogs"}},
		scrapeEntry{"fs1", "Fishing Show Episode 1", "2023-05-01T10:00:00Z", "PT12M", []string{"canoe"}},
		scrapeEntry{"fs2", "Fishing Show Episode 2", "2023-05-08T10:00:00Z", "PT14M", nil},
		scrapeEntry{"knife", "Knife Review", "2022-02-01T10:00:00Z", "PT8M5S", []string{"Xyzzy Gear"}},
	)
}
