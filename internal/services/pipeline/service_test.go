package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scindo/internal/interfaces"
	"github.com/ternarybob/scindo/internal/models"
	"github.com/ternarybob/scindo/internal/services/chunker"
	"github.com/ternarybob/scindo/internal/services/tokenizer"
)

// fakeIndex is an in-memory ChunkIndex for dedup tests.
type fakeIndex struct {
	entries map[string]*interfaces.ChunkIndexEntry
}

var _ interfaces.ChunkIndex = (*fakeIndex)(nil)

func newFakeIndex() *fakeIndex {
	return &fakeIndex{entries: make(map[string]*interfaces.ChunkIndexEntry)}
}

func (f *fakeIndex) Has(_ context.Context, hash string) (bool, error) {
	_, ok := f.entries[hash]
	return ok, nil
}

func (f *fakeIndex) Get(_ context.Context, hash string) (*interfaces.ChunkIndexEntry, error) {
	entry, ok := f.entries[hash]
	if !ok {
		return nil, interfaces.ErrHashNotFound
	}
	return entry, nil
}

func (f *fakeIndex) Record(_ context.Context, entry *interfaces.ChunkIndexEntry) error {
	if existing, ok := f.entries[entry.ContentHash]; ok && existing.FirstSeen.Before(entry.FirstSeen) {
		return nil
	}
	f.entries[entry.ContentHash] = entry
	return nil
}

func (f *fakeIndex) Count(_ context.Context) (int, error) { return len(f.entries), nil }

func (f *fakeIndex) Close() error { return nil }

func newPipeline(t *testing.T, index interfaces.ChunkIndex, mutate func(*chunker.Config, *Options)) *Service {
	t.Helper()
	config := chunker.NewDefaultConfig()
	config.Encoding = tokenizer.ApproxName
	options := Options{}
	if mutate != nil {
		mutate(config, &options)
	}
	svc, err := NewService(config, options, index, arbor.NewLogger())
	require.NoError(t, err)
	return svc
}

// approxSentence builds a 40-rune sentence that the approximate counter
// scores at exactly 10 tokens.
func approxSentence(i int) string {
	return fmt.Sprintf("Sentence %02d %s.", i, strings.Repeat("a", 27))
}

func writeTextFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestService_ProcessFile_TextDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeTextFixture(t, dir, "notes.txt",
		"The quick brown fox jumps over the lazy dog near the river bank. "+
			"It pauses to watch the water flow past the old stone bridge. "+
			"Then it trots away into the quiet evening woods.")

	svc := newPipeline(t, nil, nil)
	result, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 1, result.PageCount)
	require.Equal(t, 1, result.ChunkCount)
	require.Len(t, result.Chunks, 1)

	chunk := result.Chunks[0]
	assert.Equal(t, "notes_p1_c0", chunk.ChunkID)
	assert.Equal(t, models.ContentHash(chunk.Text), chunk.ContentHash)
	assert.Equal(t, 0, chunk.ChunkIndex)
	assert.Equal(t, 1, chunk.PageNumber)
	assert.Equal(t, 1, chunk.TotalPages)
	assert.Equal(t, "notes", chunk.SourceName)
	assert.Equal(t, "notes.txt", chunk.FileName)
	assert.Equal(t, ".txt", chunk.FileExtension)
	assert.Equal(t, path, chunk.Source)
	assert.True(t, filepath.IsAbs(chunk.SourcePath))
	assert.Greater(t, chunk.FileSizeBytes, int64(0))
	assert.Equal(t, 3, chunk.SentenceCount)
	assert.Greater(t, chunk.TokenCount, 0)
	assert.Greater(t, chunk.WordCount, 0)
	assert.Equal(t, float64(0), chunk.PositionInDocPercent)
	assert.False(t, chunk.CreatedAt.IsZero())
	assert.False(t, chunk.ProcessingTimestamp.IsZero())

	assert.Equal(t, chunk.TokenCount, result.TokenTotal)
	assert.Equal(t, chunk.TokenCount, result.MaxTokens)
	assert.Equal(t, float64(chunk.TokenCount), result.MeanTokens)

	require.NotEmpty(t, result.OutputPath)
	assert.Equal(t, filepath.Join(dir, "notes_chunks.json"), result.OutputPath)
	_, statErr := os.Stat(result.OutputPath)
	assert.NoError(t, statErr)
}

func TestService_ProcessFile_TinyLastPageKept(t *testing.T) {
	dir := t.TempDir()
	content := "# Report\n\n" +
		"The first section carries enough text to clear the minimum chunk size " +
		"without any trouble at all, sentence after sentence of it.\n\n" +
		"# Appendix\n\nTiny note.\n"
	path := writeTextFixture(t, dir, "report.md", content)

	svc := newPipeline(t, nil, func(_ *chunker.Config, o *Options) {
		o.NoSave = true
	})
	result, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, result.PageCount)
	require.Equal(t, 2, result.ChunkCount)
	assert.Equal(t, 0, result.Dropped)

	last := result.Chunks[1]
	assert.Equal(t, 2, last.PageNumber)
	assert.Contains(t, last.Text, "Tiny note")
	assert.Less(t, last.TokenCount, chunker.DefaultMinChunkSize)
}

func TestService_ProcessFile_Positions(t *testing.T) {
	dir := t.TempDir()
	sentences := make([]string, 8)
	for i := range sentences {
		sentences[i] = approxSentence(i)
	}
	path := writeTextFixture(t, dir, "long.txt", strings.Join(sentences, " "))

	svc := newPipeline(t, nil, func(c *chunker.Config, o *Options) {
		c.ChunkSize = 25
		c.ChunkOverlap = 0
		c.MinChunkSize = 0
		o.NoSave = true
	})
	result, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, 4, result.ChunkCount)

	var positions []float64
	for i, chunk := range result.Chunks {
		positions = append(positions, chunk.PositionInDocPercent)
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, result.Chunks[0].ProcessingTimestamp, chunk.ProcessingTimestamp)
	}
	assert.Equal(t, []float64{0, 25, 50, 75}, positions)
	for i := 1; i < len(positions); i++ {
		assert.GreaterOrEqual(t, positions[i], positions[i-1])
	}
	for _, p := range positions {
		assert.Less(t, p, float64(100))
	}
}

func TestService_ProcessFile_Dedupe(t *testing.T) {
	dir := t.TempDir()
	path := writeTextFixture(t, dir, "dup.txt",
		"Identical content shows up once per index lifetime. "+
			"Any repeat run finds every hash already recorded.")

	index := newFakeIndex()
	svc := newPipeline(t, index, func(_ *chunker.Config, o *Options) {
		o.NoSave = true
		o.Dedupe = true
	})

	first, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.Greater(t, first.ChunkCount, 0)
	assert.Equal(t, 0, first.Deduplicated)

	second, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, second.ChunkCount)
	assert.Equal(t, first.ChunkCount, second.Deduplicated)

	count, err := index.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.ChunkCount, count)
}

func TestService_ProcessFile_JSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	path := writeTextFixture(t, dir, "trip.txt",
		"Round trips must preserve every field exactly. "+
			"The file on disk mirrors the records in memory.")

	svc := newPipeline(t, nil, func(_ *chunker.Config, o *Options) {
		o.OutputDir = outDir
	})
	result, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.NotEmpty(t, result.OutputPath)

	data, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)

	var parsed []models.Chunk
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Len(t, parsed, result.ChunkCount)

	want, err := json.MarshalIndent(result.Chunks, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, string(want)+"\n", string(data))
}

func TestService_ProcessFile_NoSave(t *testing.T) {
	dir := t.TempDir()
	path := writeTextFixture(t, dir, "memo.txt", "A single short memo sentence for the run.")

	svc := newPipeline(t, nil, func(_ *chunker.Config, o *Options) {
		o.NoSave = true
	})
	result, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)

	assert.Empty(t, result.OutputPath)
	_, statErr := os.Stat(filepath.Join(dir, "memo_chunks.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestService_ProcessFile_UnsupportedType(t *testing.T) {
	svc := newPipeline(t, nil, nil)
	_, err := svc.ProcessFile(context.Background(), "sheet.docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestService_ProcessFiles_BatchIsolation(t *testing.T) {
	dir := t.TempDir()
	good := writeTextFixture(t, dir, "good.txt", "One good document with a plain sentence inside.")
	missing := filepath.Join(dir, "missing.pdf")

	svc := newPipeline(t, nil, func(_ *chunker.Config, o *Options) {
		o.NoSave = true
	})
	batch := svc.ProcessFiles(context.Background(), []string{good, missing})

	assert.True(t, strings.HasPrefix(batch.RunID, "run_"))
	assert.Equal(t, 1, batch.Documents)
	assert.Equal(t, 1, batch.Failed)
	require.Len(t, batch.Results, 1)
	assert.Equal(t, batch.Results[0].ChunkCount, batch.Chunks)
	assert.NotEmpty(t, batch.Errors[missing])
}

func TestService_ProcessFiles_Concurrent(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 4; i++ {
		name := fmt.Sprintf("doc%d.txt", i)
		paths = append(paths, writeTextFixture(t, dir, name,
			fmt.Sprintf("Document number %d holds a single plain sentence.", i)))
	}

	svc := newPipeline(t, nil, func(_ *chunker.Config, o *Options) {
		o.NoSave = true
		o.Concurrency = 3
	})
	batch := svc.ProcessFiles(context.Background(), paths)

	assert.Equal(t, 4, batch.Documents)
	assert.Equal(t, 0, batch.Failed)
	require.Len(t, batch.Results, 4)
	for i, res := range batch.Results {
		assert.Contains(t, res.Source, fmt.Sprintf("doc%d", i))
	}
}

func TestService_OutputPathFor(t *testing.T) {
	tests := []struct {
		name    string
		options Options
		source  string
		want    string
	}{
		{
			name:    "default beside source",
			source:  filepath.Join("docs", "paper.pdf"),
			want:    filepath.Join("docs", "paper_chunks.json"),
		},
		{
			name:    "output dir",
			options: Options{OutputDir: "out"},
			source:  filepath.Join("docs", "paper.pdf"),
			want:    filepath.Join("out", "paper_chunks.json"),
		},
		{
			name:    "explicit path wins",
			options: Options{OutputPath: filepath.Join("exact", "chunks.json"), OutputDir: "out"},
			source:  filepath.Join("docs", "paper.pdf"),
			want:    filepath.Join("exact", "chunks.json"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Service{options: tt.options}
			assert.Equal(t, tt.want, s.outputPathFor(tt.source))
		})
	}
}
