package models

import "time"

// PageContent holds the raw extracted text of a single page or section.
// Page numbers are 1-based and preserve reading order.
type PageContent struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// ExtractedDocument is the extractor output handed to the chunking
// pipeline: ordered pages plus the file facts every chunk inherits.
type ExtractedDocument struct {
	Source     string        `json:"source"` // absolute path
	Pages      []PageContent `json:"pages"`
	PageCount  int           `json:"page_count"`
	SizeBytes  int64         `json:"size_bytes"`
	ModifiedAt time.Time     `json:"modified_at"`
}
