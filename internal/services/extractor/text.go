// -----------------------------------------------------------------------
// Text Extractor - Plain text files as single-page documents
// -----------------------------------------------------------------------

package extractor

import (
	"context"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scindo/internal/interfaces"
	"github.com/ternarybob/scindo/internal/models"
)

// TextExtractor treats a plain text file as a document with one page.
type TextExtractor struct {
	logger arbor.ILogger
}

var _ interfaces.DocumentExtractor = (*TextExtractor)(nil)

// NewTextExtractor creates a new plain text extractor
func NewTextExtractor(logger arbor.ILogger) *TextExtractor {
	return &TextExtractor{logger: logger}
}

// Extensions lists the file extensions this extractor handles
func (e *TextExtractor) Extensions() []string {
	return []string{".txt", ".text", ".log"}
}

// Extract reads the whole file as a single page
func (e *TextExtractor) Extract(ctx context.Context, path string) (*models.ExtractedDocument, error) {
	absPath, info, err := statSource(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, models.NewExtractionError(absPath, "failed to read file", err)
	}

	e.logger.Debug().Str("path", absPath).Int("bytes", len(data)).Msg("Extracted text document")

	return &models.ExtractedDocument{
		Source:     absPath,
		Pages:      []models.PageContent{{PageNumber: 1, Text: string(data)}},
		PageCount:  1,
		SizeBytes:  info.Size(),
		ModifiedAt: info.ModTime(),
	}, nil
}
