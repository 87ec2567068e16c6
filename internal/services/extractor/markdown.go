// -----------------------------------------------------------------------
// Markdown Extractor - Markdown files sectioned into pages by heading
// -----------------------------------------------------------------------

package extractor

import (
	"context"
	"os"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scindo/internal/interfaces"
	"github.com/ternarybob/scindo/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor parses markdown and emits one page per top-level
// heading section. A document without level-1 headings becomes a single
// page. Formatting markers are dropped so pages carry plain text only.
type MarkdownExtractor struct {
	logger arbor.ILogger
}

var _ interfaces.DocumentExtractor = (*MarkdownExtractor)(nil)

// NewMarkdownExtractor creates a new markdown extractor
func NewMarkdownExtractor(logger arbor.ILogger) *MarkdownExtractor {
	return &MarkdownExtractor{logger: logger}
}

// Extensions lists the file extensions this extractor handles
func (e *MarkdownExtractor) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Extract reads the markdown file and returns its heading sections as pages
func (e *MarkdownExtractor) Extract(ctx context.Context, path string) (*models.ExtractedDocument, error) {
	absPath, info, err := statSource(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, models.NewExtractionError(absPath, "failed to read file", err)
	}

	sections := e.sections(data)
	if len(sections) == 0 {
		sections = []string{""}
	}

	pages := make([]models.PageContent, 0, len(sections))
	for i, section := range sections {
		pages = append(pages, models.PageContent{PageNumber: i + 1, Text: section})
	}

	e.logger.Debug().Str("path", absPath).Int("sections", len(pages)).Msg("Extracted markdown document")

	return &models.ExtractedDocument{
		Source:     absPath,
		Pages:      pages,
		PageCount:  len(pages),
		SizeBytes:  info.Size(),
		ModifiedAt: info.ModTime(),
	}, nil
}

// sections walks the markdown AST and collects plain text, starting a
// new section at every level-1 heading.
func (e *MarkdownExtractor) sections(source []byte) []string {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.Linkify,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	doc := md.Parser().Parse(text.NewReader(source))

	var sections []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			sections = append(sections, s)
		}
		current.Reset()
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 {
				flush()
			}
			current.Write(node.Text(source))
			current.WriteString("\n")
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			current.Write(node.Segment.Value(source))
			current.WriteString(" ")
		case *ast.FencedCodeBlock:
			writeCodeLines(&current, node.Lines(), source)
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			writeCodeLines(&current, node.Lines(), source)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	flush()

	return sections
}

func writeCodeLines(b *strings.Builder, lines *text.Segments, source []byte) {
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(source))
	}
	b.WriteString("\n")
}
