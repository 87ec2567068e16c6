// -----------------------------------------------------------------------
// Document Extractor Interface - Extract page-structured text from source files
// -----------------------------------------------------------------------

package interfaces

import (
	"context"

	"github.com/ternarybob/scindo/internal/models"
)

// DocumentExtractor defines the interface for pulling page-ordered text
// out of a source document. Implementations exist per format (PDF,
// markdown, HTML, plain text) and are selected by file extension, so the
// chunking pipeline never needs to know which backend produced the pages.
type DocumentExtractor interface {
	// Extract reads the document at path and returns its pages in reading
	// order with 1-based page numbers, plus the file facts (size, mtime)
	// that every chunk of the document inherits. An unreadable, corrupt or
	// encrypted source returns *models.ExtractionError.
	Extract(ctx context.Context, path string) (*models.ExtractedDocument, error)

	// Extensions lists the lower-case file extensions (with leading dot)
	// this extractor handles.
	Extensions() []string
}
