package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scindo/internal/interfaces"
	"github.com/timshannon/badgerhold/v4"
)

func newTestIndex(t *testing.T) interfaces.ChunkIndex {
	t.Helper()
	tmpDir := t.TempDir()

	options := badgerhold.DefaultOptions
	options.Dir = tmpDir
	options.ValueDir = tmpDir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	db := &BadgerDB{store: store}
	return NewChunkIndexStorage(db, arbor.NewLogger())
}

func TestChunkIndexRecordAndGet(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	hash := "c7be1ed902fb8dd4d48997c6452f5d7e509fbcdbe2808b16bcf4edce4c07d14e"

	seen, err := index.Has(ctx, hash)
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if seen {
		t.Error("Expected hash to be absent before recording")
	}

	if _, err := index.Get(ctx, hash); !errors.Is(err, interfaces.ErrHashNotFound) {
		t.Errorf("Expected ErrHashNotFound, got %v", err)
	}

	entry := &interfaces.ChunkIndexEntry{
		ContentHash: hash,
		ChunkID:     "report_p1_c0",
		Source:      "/docs/report.pdf",
		FirstSeen:   time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC),
	}
	if err := index.Record(ctx, entry); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	seen, err = index.Has(ctx, hash)
	if err != nil {
		t.Fatalf("Has failed after record: %v", err)
	}
	if !seen {
		t.Error("Expected hash to be present after recording")
	}

	got, err := index.Get(ctx, hash)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ChunkID != entry.ChunkID {
		t.Errorf("Expected chunk ID %s, got %s", entry.ChunkID, got.ChunkID)
	}
	if got.Source != entry.Source {
		t.Errorf("Expected source %s, got %s", entry.Source, got.Source)
	}
	if !got.FirstSeen.Equal(entry.FirstSeen) {
		t.Errorf("Expected first seen %v, got %v", entry.FirstSeen, got.FirstSeen)
	}
}

func TestChunkIndexKeepsEarliestSighting(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	hash := "2c26b46b68ffc68ff99b453c1d30413413422d706483bfa0f98a5e886266e7ae"
	first := &interfaces.ChunkIndexEntry{
		ContentHash: hash,
		ChunkID:     "alpha_p1_c0",
		Source:      "/docs/alpha.pdf",
		FirstSeen:   time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC),
	}
	if err := index.Record(ctx, first); err != nil {
		t.Fatalf("First record failed: %v", err)
	}

	later := &interfaces.ChunkIndexEntry{
		ContentHash: hash,
		ChunkID:     "beta_p3_c2",
		Source:      "/docs/beta.pdf",
		FirstSeen:   time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := index.Record(ctx, later); err != nil {
		t.Fatalf("Second record failed: %v", err)
	}

	got, err := index.Get(ctx, hash)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.FirstSeen.Equal(first.FirstSeen) {
		t.Errorf("Expected original first seen %v, got %v", first.FirstSeen, got.FirstSeen)
	}
	if got.ChunkID != first.ChunkID {
		t.Errorf("Expected original chunk ID %s, got %s", first.ChunkID, got.ChunkID)
	}

	count, err := index.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 entry, got %d", count)
	}
}

func TestChunkIndexCount(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	hashes := []string{
		"fcde2b2edba56bf408601fb721fe9b5c338d10ee429ea04fae5511b68fbf8fb9",
		"a665a45920422f9d417e4867efdc4fb8a04a1f3fff1fa07e998e86f7f7a27ae3",
		"2e7d2c03a9507ae265ecf5b5356885a53393a2029d241394997265a1a25aefc6",
	}
	for i, hash := range hashes {
		entry := &interfaces.ChunkIndexEntry{
			ContentHash: hash,
			ChunkID:     "doc_p1_c" + string(rune('0'+i)),
			Source:      "/docs/doc.pdf",
			FirstSeen:   time.Date(2026, time.March, 1+i, 0, 0, 0, 0, time.UTC),
		}
		if err := index.Record(ctx, entry); err != nil {
			t.Fatalf("Record %d failed: %v", i, err)
		}
	}

	count, err := index.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != len(hashes) {
		t.Errorf("Expected %d entries, got %d", len(hashes), count)
	}
}
