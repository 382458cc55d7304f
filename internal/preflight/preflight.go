package preflight

import (
	"context"

	"posawiki/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every applicable check for cfg. The search index directory
// is only checked when search is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Search.Enabled {
		results = append(results, CheckDirectoryAccess("Search index", cfg.Search.IndexDir))
	}
	results = append(results,
		CheckAuthorities(cfg.Authority.Path),
		CheckCatalog(ctx, cfg),
		CheckWriteLock(cfg.LockPath()),
	)
	return results
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
