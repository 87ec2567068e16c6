package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Chunk is a single retrieval unit produced from one page of a source
// document. Field names match the JSON records consumed by downstream
// ingestion pipelines, so renaming a field here is a breaking change.
type Chunk struct {
	// Content
	Text        string `json:"text"`
	ChunkID     string `json:"chunk_id"`     // {source_name}_p{page}_c{index}
	ContentHash string `json:"content_hash"` // sha256 hex of Text

	// Statistics
	ChunkIndex           int     `json:"chunk_index"` // 0-based within the page
	TokenCount           int     `json:"token_count"`
	CharCount            int     `json:"char_count"`
	WordCount            int     `json:"word_count"`
	SentenceCount        int     `json:"sentence_count"`
	PositionInDocPercent float64 `json:"position_in_doc_percent"` // [0,100), 2 decimals

	// Page context
	PageNumber int `json:"page_number"` // 1-based
	TotalPages int `json:"total_pages"`

	// Source provenance
	Source         string    `json:"source"`
	SourceName     string    `json:"source_name"` // file name without extension
	SourcePath     string    `json:"source_path"`
	FileName       string    `json:"file_name"`
	FileExtension  string    `json:"file_extension"`
	FileSizeBytes  int64     `json:"file_size_bytes"`
	FileSizeMB     float64   `json:"file_size_mb"`
	FileModifiedAt time.Time `json:"file_modified_at"`

	// Timestamps
	ProcessingTimestamp time.Time `json:"processing_timestamp"` // one per document run
	CreatedAt           time.Time `json:"created_at"`           // per chunk
}

// ChunkID builds the deterministic chunk identifier from its coordinates.
// Reprocessing the same document yields the same IDs.
func ChunkID(sourceName string, pageNumber, chunkIndex int) string {
	return fmt.Sprintf("%s_p%d_c%d", sourceName, pageNumber, chunkIndex)
}

// ContentHash returns the hex-encoded SHA-256 digest of text. Two chunks
// with identical text always hash identically, which is what cross-run
// deduplication keys on.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
