package preflight

import (
	"context"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"posawiki/internal/authority"
	"posawiki/internal/catalog"
	"posawiki/internal/config"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckAuthorities loads the vocabulary the resolver would use.
func CheckAuthorities(path string) Result {
	const name = "Authorities"

	snap, err := authority.LoadOrSeed(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	source := path
	if source == "" {
		source = "built-in"
	}
	shared := len(authority.BuildIndex(snap).MultiMapped())
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%d authorities, %d aliases (%d shared) from %s", snap.Len(), snap.AliasCount(), shared, source),
	}
}

// CheckCatalog opens the catalog and runs its schema and integrity checks.
func CheckCatalog(ctx context.Context, cfg *config.Config) Result {
	const name = "Catalog"

	store, err := catalog.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()

	health, err := store.CheckHealth(ctx)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	switch {
	case health.Error != "":
		return Result{Name: name, Detail: health.Error}
	case len(health.MissingTables) > 0 || len(health.MissingColumns) > 0:
		return Result{Name: name, Detail: fmt.Sprintf("schema incomplete (tables %v, columns %v)", health.MissingTables, health.MissingColumns)}
	case !health.IntegrityCheck:
		return Result{Name: name, Detail: "integrity check failed"}
	}
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("%d videos, %d trips, %d parts", health.TotalVideos, health.TotalTrips, health.TotalParts),
	}
}

// CheckWriteLock reports whether a mutating pass could start now.
func CheckWriteLock(path string) Result {
	const name = "Write lock"

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if !ok {
		return Result{Name: name, Detail: fmt.Sprintf("%s (held by another pass)", path)}
	}
	if err := lock.Unlock(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: release: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: "free"}
}
