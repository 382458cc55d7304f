package search

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"posawiki/internal/logging"
)

// mappingVersion is bumped whenever buildIndexMapping changes.
const mappingVersion = "1"

const batchSize = 500

// Index wraps a bleve index of video documents. Methods are safe for
// concurrent use; Rebuild takes the write lock.
type Index struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Open creates or opens the index stored under dir. An index written with a
// different mapping version, or one that fails to open, is recreated empty.
func Open(dir string, logger *slog.Logger) (*Index, error) {
	logger = logging.NewComponentLogger(logger, "search")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create search dir: %w", err)
	}

	indexPath := filepath.Join(dir, "videos.bleve")
	versionPath := filepath.Join(dir, "videos.version")

	needsRebuild := false
	indexExists := false
	if _, err := os.Stat(indexPath); err == nil {
		indexExists = true
	}
	if indexExists {
		existing, err := os.ReadFile(versionPath)
		switch {
		case err != nil:
			logger.Info("search index has no version file, will rebuild", logging.String("new_version", mappingVersion))
			needsRebuild = true
		case string(existing) != mappingVersion:
			logger.Info("search index mapping version changed, will rebuild",
				logging.String("old_version", string(existing)),
				logging.String("new_version", mappingVersion),
			)
			needsRebuild = true
		}
	}

	var idx bleve.Index
	if indexExists && !needsRebuild {
		opened, err := bleve.Open(indexPath)
		if err != nil {
			logging.WarnWithContext(logger, "failed to open existing index, will recreate", "search_index_corrupt",
				logging.String("path", indexPath),
				logging.Error(err),
				logging.String(logging.FieldImpact, "search results empty until 'posawiki search rebuild'"),
			)
			needsRebuild = true
		} else {
			idx = opened
		}
	}
	if needsRebuild {
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("remove old index: %w", err)
		}
	}
	if idx == nil {
		created, err := bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); err != nil {
			logging.WarnWithContext(logger, "failed to write search version file", "search_version_write",
				logging.Error(err),
			)
		}
		logger.Debug("created search index", logging.String("path", indexPath))
		idx = created
	}

	return &Index{index: idx, path: indexPath, logger: logger}, nil
}

// Close releases the index.
func (s *Index) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexDocuments adds or replaces docs in batches.
func (s *Index) IndexDocuments(docs []*Document) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := 0; i < len(docs); i += batchSize {
		end := i + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := s.index.NewBatch()
		for _, doc := range docs[i:end] {
			if err := batch.Index(doc.ID, doc.toMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// Count returns the number of indexed documents.
func (s *Index) Count() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild drops every document and indexes docs from scratch.
func (s *Index) Rebuild(docs []*Document) error {
	s.mu.Lock()
	if err := s.index.Close(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.RemoveAll(s.path); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("remove index: %w", err)
	}
	idx, err := bleve.New(s.path, buildIndexMapping())
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("create index: %w", err)
	}
	s.index = idx
	s.mu.Unlock()

	if err := s.IndexDocuments(docs); err != nil {
		return err
	}
	s.logger.Info("rebuilt search index", logging.String("path", s.path), logging.Int("documents", len(docs)))
	return nil
}
