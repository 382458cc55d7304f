package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"posawiki/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckAuthorities(t *testing.T) {
	result := CheckAuthorities("")
	if !result.Passed || !strings.Contains(result.Detail, "built-in") {
		t.Fatalf("expected built-in vocabulary to pass, got %+v", result)
	}

	bad := testsupport.WriteFile(t, filepath.Join(t.TempDir(), "authorities.json"), `{"authorities":[{"canonical_name":"Dogs"}]}`)
	result = CheckAuthorities(bad)
	if result.Passed {
		t.Fatal("expected invalid authority file to fail")
	}
}

func TestCheckWriteLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posawiki.db.lock")
	if result := CheckWriteLock(path); !result.Passed {
		t.Fatalf("expected free lock, got %+v", result)
	}

	held := flock.New(path)
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("take lock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	result := CheckWriteLock(path)
	if result.Passed {
		t.Fatal("expected held lock to fail")
	}
	if !strings.Contains(result.Detail, "held by another pass") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	if !Passed(results) {
		t.Fatalf("expected all checks to pass, got %+v", results)
	}

	if RunAll(context.Background(), nil) != nil {
		t.Fatal("expected nil config to produce no results")
	}
}

func TestRunAllSkipsSearchWhenDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSearchDisabled())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg)
	for _, r := range results {
		if r.Name == "Search index" {
			t.Fatal("search index checked while disabled")
		}
	}
}
