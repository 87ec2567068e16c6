// -----------------------------------------------------------------------
// Chunk Enricher - Turns packed windows into positioned chunk records
// -----------------------------------------------------------------------

package pipeline

import (
	"math"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ternarybob/scindo/internal/models"
	"github.com/ternarybob/scindo/internal/services/chunker"
)

// draft is a packed window waiting for document-level position data.
// Position percentages need the final chunk total, so windows collect
// here first and become chunks in a second pass.
type draft struct {
	window     chunker.Window
	pageNumber int
	chunkIndex int
	hash       string
}

// sourceFacts carries the per-document provenance stamped on every chunk.
type sourceFacts struct {
	source     string // path as given on the command line
	sourcePath string // absolute path
	sourceName string // file name without extension
	fileName   string
	extension  string
	sizeBytes  int64
	sizeMB     float64
	modifiedAt time.Time
}

func factsFor(given string, doc *models.ExtractedDocument) sourceFacts {
	base := filepath.Base(doc.Source)
	ext := filepath.Ext(base)
	return sourceFacts{
		source:     given,
		sourcePath: doc.Source,
		sourceName: strings.TrimSuffix(base, ext),
		fileName:   base,
		extension:  ext,
		sizeBytes:  doc.SizeBytes,
		sizeMB:     round2(float64(doc.SizeBytes) / (1024 * 1024)),
		modifiedAt: doc.ModifiedAt,
	}
}

// finalize is the second pass: with the document's chunk total known it
// assigns position percentages and stamps provenance onto each chunk.
// Percentages stay in [0, 100) and never decrease in document order.
func finalize(drafts []draft, facts sourceFacts, totalPages int, processedAt time.Time) []models.Chunk {
	total := len(drafts)
	chunks := make([]models.Chunk, 0, total)
	for i, d := range drafts {
		chunks = append(chunks, models.Chunk{
			Text:                 d.window.Text,
			ChunkID:              models.ChunkID(facts.sourceName, d.pageNumber, d.chunkIndex),
			ContentHash:          d.hash,
			ChunkIndex:           d.chunkIndex,
			TokenCount:           d.window.TokenCount,
			CharCount:            utf8.RuneCountInString(d.window.Text),
			WordCount:            len(strings.Fields(d.window.Text)),
			SentenceCount:        d.window.SentenceCount,
			PositionInDocPercent: round2(100 * float64(i) / float64(total)),
			PageNumber:           d.pageNumber,
			TotalPages:           totalPages,
			Source:               facts.source,
			SourceName:           facts.sourceName,
			SourcePath:           facts.sourcePath,
			FileName:             facts.fileName,
			FileExtension:        facts.extension,
			FileSizeBytes:        facts.sizeBytes,
			FileSizeMB:           facts.sizeMB,
			FileModifiedAt:       facts.modifiedAt,
			ProcessingTimestamp:  processedAt,
			CreatedAt:            time.Now().UTC(),
		})
	}
	return chunks
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
