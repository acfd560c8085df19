package search

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// mappingVersion is bumped whenever the mapping changes; a mismatch on open
// drops the index so it is rebuilt from the store.
const mappingVersion = "1"

const batchSize = 500

// PostIndex wraps a Bleve index of posts. All methods are safe for
// concurrent use; Rebuild takes the write lock.
type PostIndex struct {
	index    bleve.Index
	path     string // empty for in-memory indexes
	inMemory bool
	logger   *slog.Logger
	mu       sync.RWMutex
}

// Options configures the post index.
type Options struct {
	DataPath string       // directory holding posts.bleve
	InMemory bool         // keep the index in memory only (tests, ephemeral runs)
	Logger   *slog.Logger // discard if nil
}

// NewPostIndex opens the index under DataPath, creating it if needed. An index
// with a missing or outdated version file, or one that fails to open, is
// removed and recreated empty.
func NewPostIndex(opts Options) (*PostIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if opts.InMemory {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &PostIndex{index: index, inMemory: true, logger: logger}, nil
	}

	indexPath := filepath.Join(opts.DataPath, "posts.bleve")
	versionPath := filepath.Join(opts.DataPath, "posts.version")

	var index bleve.Index
	if _, err := os.Stat(indexPath); err == nil {
		existing, readErr := os.ReadFile(versionPath) //#nosec G304 -- path under the data directory
		switch {
		case readErr != nil:
			logger.Info("post index has no version file, rebuilding", "new_version", mappingVersion)
		case string(existing) != mappingVersion:
			logger.Info("post index mapping version changed, rebuilding",
				"old_version", string(existing),
				"new_version", mappingVersion,
			)
		default:
			index, err = bleve.Open(indexPath)
			if err != nil {
				logger.Warn("failed to open post index, recreating", "path", indexPath, "error", err)
				index = nil
			}
		}

		if index == nil {
			if err := os.RemoveAll(indexPath); err != nil {
				return nil, fmt.Errorf("remove old index: %w", err)
			}
		}
	}

	if index == nil {
		var err error
		index, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o600); err != nil {
			logger.Warn("failed to write post index version file", "error", err)
		}
		logger.Info("created post index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened post index", "path", indexPath)
	}

	return &PostIndex{index: index, path: indexPath, logger: logger}, nil
}

// Close closes the index.
func (s *PostIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexPost adds or replaces one document.
func (s *PostIndex) IndexPost(doc *PostDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(doc.ID, doc.ToMap())
}

// IndexPosts indexes docs in batches of batchSize.
func (s *PostIndex) IndexPosts(docs []*PostDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for start := 0; start < len(docs); start += batchSize {
		end := min(start+batchSize, len(docs))

		batch := s.index.NewBatch()
		for _, doc := range docs[start:end] {
			if err := batch.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}
		if err := s.index.Batch(batch); err != nil {
			return fmt.Errorf("commit batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// DocumentCount returns the number of indexed posts.
func (s *PostIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild drops every document by recreating the index. Callers reindex
// afterwards; searches block until Rebuild returns.
func (s *PostIndex) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	var (
		index bleve.Index
		err   error
	)
	if s.inMemory {
		index, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		if err := os.RemoveAll(s.path); err != nil {
			return fmt.Errorf("remove index: %w", err)
		}
		index, err = bleve.New(s.path, buildIndexMapping())
	}
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	s.index = index
	s.logger.Info("rebuilt post index", "path", s.path)
	return nil
}
