package testsupport

import (
	"context"
	"testing"

	"posawiki/internal/catalog"
	"posawiki/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedVideo inserts a video with the given title and upload date. Tags, when
// present, are stored as the original list and left unvalidated.
func SeedVideo(t testing.TB, store *catalog.Store, id, title, uploadDate string, tags ...string) *catalog.Video {
	t.Helper()

	video := &catalog.Video{
		ID:              id,
		Title:           title,
		UploadDate:      uploadDate,
		OriginalTags:    append([]string{}, tags...),
		ValidatedTags:   []string{},
		UnvalidatedTags: append([]string{}, tags...),
	}
	if err := store.UpsertVideo(context.Background(), video); err != nil {
		t.Fatalf("store.UpsertVideo: %v", err)
	}
	return video
}
