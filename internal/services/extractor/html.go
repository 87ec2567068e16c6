// -----------------------------------------------------------------------
// HTML Extractor - HTML files converted to markdown, then sectioned
// -----------------------------------------------------------------------

package extractor

import (
	"context"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scindo/internal/interfaces"
	"github.com/ternarybob/scindo/internal/models"
	"github.com/ternarybob/scindo/internal/services/transform"
)

// HTMLExtractor converts HTML to markdown and reuses the markdown
// sectioning so headings become page boundaries. Script, style and
// noscript elements are removed before conversion.
type HTMLExtractor struct {
	transform *transform.Service
	markdown  *MarkdownExtractor
	logger    arbor.ILogger
}

var _ interfaces.DocumentExtractor = (*HTMLExtractor)(nil)

// NewHTMLExtractor creates a new HTML extractor
func NewHTMLExtractor(transformSvc *transform.Service, logger arbor.ILogger) *HTMLExtractor {
	return &HTMLExtractor{
		transform: transformSvc,
		markdown:  NewMarkdownExtractor(logger),
		logger:    logger,
	}
}

// Extensions lists the file extensions this extractor handles
func (e *HTMLExtractor) Extensions() []string {
	return []string{".html", ".htm"}
}

// Extract reads the HTML file, converts it to markdown and returns the
// heading sections as pages
func (e *HTMLExtractor) Extract(ctx context.Context, path string) (*models.ExtractedDocument, error) {
	absPath, info, err := statSource(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, models.NewExtractionError(absPath, "failed to read file", err)
	}

	html := string(data)
	if doc, qErr := goquery.NewDocumentFromReader(strings.NewReader(html)); qErr == nil {
		if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
			e.logger.Debug().Str("title", title).Str("path", absPath).Msg("Parsed HTML document")
		}
		doc.Find("script, style, noscript").Remove()
		if cleaned, hErr := doc.Html(); hErr == nil {
			html = cleaned
		}
	}

	markdown, err := e.transform.HTMLToMarkdown(html, "")
	if err != nil {
		return nil, models.NewExtractionError(absPath, "failed to convert HTML", err)
	}

	sections := e.markdown.sections([]byte(markdown))
	if len(sections) == 0 {
		sections = []string{""}
	}

	pages := make([]models.PageContent, 0, len(sections))
	for i, section := range sections {
		pages = append(pages, models.PageContent{PageNumber: i + 1, Text: section})
	}

	return &models.ExtractedDocument{
		Source:     absPath,
		Pages:      pages,
		PageCount:  len(pages),
		SizeBytes:  info.Size(),
		ModifiedAt: info.ModTime(),
	}, nil
}
