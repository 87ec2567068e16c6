package models

import "time"

// DocumentResult summarizes chunking one document.
type DocumentResult struct {
	Source       string    `json:"source"`
	OutputPath   string    `json:"output_path,omitempty"`
	PageCount    int       `json:"page_count"`
	ChunkCount   int       `json:"chunk_count"`
	TokenTotal   int       `json:"token_total"`
	MeanTokens   float64   `json:"mean_tokens"`
	MaxTokens    int       `json:"max_tokens"`
	Dropped      int       `json:"dropped"` // chunks removed by the min-size filter
	Deduplicated int       `json:"deduplicated,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	TotalMs      int64     `json:"total_ms"`

	Chunks []Chunk `json:"-"`
}

// BatchResult aggregates a multi-document run. A failed document is
// recorded in Errors and does not abort the remaining documents.
type BatchResult struct {
	RunID     string            `json:"run_id"` // run_{uuid}
	Results   []DocumentResult  `json:"results"`
	Errors    map[string]string `json:"errors,omitempty"` // source path -> error
	Documents int               `json:"documents"`
	Failed    int               `json:"failed"`
	Chunks    int               `json:"chunks"`
}
