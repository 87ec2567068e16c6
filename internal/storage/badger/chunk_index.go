package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scindo/internal/interfaces"
	"github.com/timshannon/badgerhold/v4"
)

// ChunkIndexStorage implements the ChunkIndex interface on Badger. Entries
// are keyed by content hash, so lookups and upserts are single-key reads.
type ChunkIndexStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewChunkIndexStorage creates a new ChunkIndexStorage instance
func NewChunkIndexStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ChunkIndex {
	return &ChunkIndexStorage{
		db:     db,
		logger: logger,
	}
}

// Has reports whether hash is already recorded
func (s *ChunkIndexStorage) Has(ctx context.Context, hash string) (bool, error) {
	var entry interfaces.ChunkIndexEntry
	err := s.db.Store().Get(hash, &entry)
	if err == badgerhold.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check content hash: %w", err)
	}
	return true, nil
}

// Get retrieves the entry for hash
func (s *ChunkIndexStorage) Get(ctx context.Context, hash string) (*interfaces.ChunkIndexEntry, error) {
	var entry interfaces.ChunkIndexEntry
	err := s.db.Store().Get(hash, &entry)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrHashNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get index entry: %w", err)
	}
	return &entry, nil
}

// Record stores an entry. A hash recorded in an earlier run keeps its
// original FirstSeen and provenance.
func (s *ChunkIndexStorage) Record(ctx context.Context, entry *interfaces.ChunkIndexEntry) error {
	record := *entry

	var existing interfaces.ChunkIndexEntry
	err := s.db.Store().Get(record.ContentHash, &existing)
	if err == nil && !existing.FirstSeen.After(record.FirstSeen) {
		record = existing
	} else if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to check index entry: %w", err)
	}

	if err := s.db.Store().Upsert(record.ContentHash, &record); err != nil {
		return fmt.Errorf("failed to record index entry: %w", err)
	}
	return nil
}

// Count returns the number of recorded hashes
func (s *ChunkIndexStorage) Count(ctx context.Context) (int, error) {
	var entries []interfaces.ChunkIndexEntry
	if err := s.db.Store().Find(&entries, nil); err != nil {
		return 0, fmt.Errorf("failed to count index entries: %w", err)
	}
	return len(entries), nil
}

// Close closes the underlying database
func (s *ChunkIndexStorage) Close() error {
	return s.db.Close()
}
