// -----------------------------------------------------------------------
// PDF Extractor - Per-page text extraction from PDF documents
// Uses pdfcpu for validation and ledongthuc/pdf for text content
// -----------------------------------------------------------------------

package extractor

import (
	"bytes"
	"context"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scindo/internal/interfaces"
	"github.com/ternarybob/scindo/internal/models"
)

// PDFExtractor reads PDF documents page by page. pdfcpu validates the
// file and reports page count and encryption before ledongthuc/pdf pulls
// the plain text, so corrupt or locked documents fail with a clear
// ExtractionError instead of garbled output.
type PDFExtractor struct {
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.DocumentExtractor = (*PDFExtractor)(nil)

// NewPDFExtractor creates a new PDF document extractor
func NewPDFExtractor(logger arbor.ILogger) *PDFExtractor {
	return &PDFExtractor{logger: logger}
}

// Extensions lists the file extensions this extractor handles
func (e *PDFExtractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract reads the PDF at path and returns its pages in order. Pages
// with no extractable text keep their slot with empty text so page
// numbering and the document page count stay intact.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (*models.ExtractedDocument, error) {
	absPath, info, err := statSource(path)
	if err != nil {
		return nil, err
	}

	pdfCtx, err := api.ReadContextFile(absPath)
	if err != nil {
		return nil, models.NewExtractionError(absPath, "not a readable PDF", err)
	}
	if pdfCtx.Encrypt != nil {
		return nil, models.NewExtractionError(absPath, "PDF is encrypted", nil)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, models.NewExtractionError(absPath, "failed to read file", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, models.NewExtractionError(absPath, "failed to parse PDF", err)
	}

	if reader.NumPage() != pdfCtx.PageCount {
		e.logger.Warn().
			Int("pdfcpu_pages", pdfCtx.PageCount).
			Int("reader_pages", reader.NumPage()).
			Str("path", absPath).
			Msg("Page count mismatch between PDF parsers")
	}

	pages := make([]models.PageContent, 0, reader.NumPage())
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		text := ""
		if !page.V.IsNull() {
			plain, err := page.GetPlainText(nil)
			if err != nil {
				e.logger.Warn().Int("page", pageNum).Err(err).Msg("Failed to extract page text")
			} else {
				text = plain
			}
		}
		pages = append(pages, models.PageContent{PageNumber: pageNum, Text: text})
	}

	e.logger.Debug().Str("path", absPath).Int("pages", len(pages)).Msg("Extracted PDF document")

	return &models.ExtractedDocument{
		Source:     absPath,
		Pages:      pages,
		PageCount:  len(pages),
		SizeBytes:  info.Size(),
		ModifiedAt: info.ModTime(),
	}, nil
}
