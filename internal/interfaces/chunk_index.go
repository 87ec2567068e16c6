// -----------------------------------------------------------------------
// Chunk Index Interface - Cross-run content-hash deduplication store
// -----------------------------------------------------------------------

package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrHashNotFound is returned when a content hash has no index entry
var ErrHashNotFound = errors.New("content hash not found")

// ChunkIndexEntry records the first sighting of a chunk's content hash
type ChunkIndexEntry struct {
	ContentHash string    `json:"content_hash"`
	ChunkID     string    `json:"chunk_id"`
	Source      string    `json:"source"`
	FirstSeen   time.Time `json:"first_seen"`
}

// ChunkIndex defines operations for the persistent content-hash index
// used to drop chunks whose exact text was already emitted by an earlier
// run. Keyed by the chunk's sha256 content hash.
type ChunkIndex interface {
	// Has reports whether hash is already recorded
	Has(ctx context.Context, hash string) (bool, error)

	// Get retrieves the entry for hash, returns ErrHashNotFound if absent
	Get(ctx context.Context, hash string) (*ChunkIndexEntry, error)

	// Record stores an entry, keeping the earliest FirstSeen on conflict
	Record(ctx context.Context, entry *ChunkIndexEntry) error

	// Count returns the number of recorded hashes
	Count(ctx context.Context) (int, error)

	// Close releases the underlying store
	Close() error
}
