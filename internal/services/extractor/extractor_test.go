package extractor

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scindo/internal/models"
	"github.com/ternarybob/scindo/internal/services/transform"
)

// writePDFFixture renders one page per text into a PDF at path.
func writePDFFixture(t *testing.T, path string, pages ...string) {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Arial", "", 12)
	for _, page := range pages {
		doc.AddPage()
		doc.MultiCell(0, 10, page, "", "L", false)
	}
	require.NoError(t, doc.OutputFileAndClose(path))
}

func TestPDFExtractor_Extract(t *testing.T) {
	logger := arbor.NewLogger()
	path := filepath.Join(t.TempDir(), "sample.pdf")
	writePDFFixture(t, path,
		"alpha bravo charlie on the first page",
		"delta echo foxtrot on the second page")

	doc, err := NewPDFExtractor(logger).Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, doc.PageCount)
	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 1, doc.Pages[0].PageNumber)
	assert.Equal(t, 2, doc.Pages[1].PageNumber)
	assert.Contains(t, doc.Pages[0].Text, "alpha")
	assert.Contains(t, doc.Pages[1].Text, "foxtrot")
	assert.True(t, filepath.IsAbs(doc.Source))
	assert.Greater(t, doc.SizeBytes, int64(0))
	assert.False(t, doc.ModifiedAt.IsZero())
}

func TestPDFExtractor_Extract_MissingFile(t *testing.T) {
	logger := arbor.NewLogger()
	path := filepath.Join(t.TempDir(), "missing.pdf")

	_, err := NewPDFExtractor(logger).Extract(context.Background(), path)
	require.Error(t, err)

	var extErr *models.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "file not accessible", extErr.Reason)
}

func TestPDFExtractor_Extract_NotAPDF(t *testing.T) {
	logger := arbor.NewLogger()
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf at all"), 0644))

	_, err := NewPDFExtractor(logger).Extract(context.Background(), path)
	require.Error(t, err)

	var extErr *models.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "not a readable PDF", extErr.Reason)
}

func TestPDFExtractor_Extract_Encrypted(t *testing.T) {
	logger := arbor.NewLogger()
	path := filepath.Join(t.TempDir(), "locked.pdf")

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetProtection(fpdf.CnProtectPrint, "", "owner-secret")
	doc.SetFont("Arial", "", 12)
	doc.AddPage()
	doc.MultiCell(0, 10, "protected content", "", "L", false)
	require.NoError(t, doc.OutputFileAndClose(path))

	_, err := NewPDFExtractor(logger).Extract(context.Background(), path)
	require.Error(t, err)

	var extErr *models.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "PDF is encrypted", extErr.Reason)
}

func TestTextExtractor_Extract(t *testing.T) {
	logger := arbor.NewLogger()
	path := filepath.Join(t.TempDir(), "notes.txt")
	content := "First line of notes.\nSecond line of notes.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	doc, err := NewTextExtractor(logger).Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 1, doc.PageCount)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, 1, doc.Pages[0].PageNumber)
	assert.Equal(t, content, doc.Pages[0].Text)
	assert.Equal(t, int64(len(content)), doc.SizeBytes)
}

func TestMarkdownExtractor_Extract(t *testing.T) {
	logger := arbor.NewLogger()
	path := filepath.Join(t.TempDir(), "guide.md")
	content := `# Installation

Run the **installer** and follow the prompts.

# Configuration

Edit the settings file before the first launch.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	doc, err := NewMarkdownExtractor(logger).Extract(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, 2, doc.PageCount)
	assert.Contains(t, doc.Pages[0].Text, "Installation")
	assert.Contains(t, doc.Pages[0].Text, "installer")
	assert.Contains(t, doc.Pages[1].Text, "settings file")
	assert.NotContains(t, doc.Pages[0].Text, "#")
	assert.NotContains(t, doc.Pages[0].Text, "*")
}

func TestMarkdownExtractor_Extract_NoHeadings(t *testing.T) {
	logger := arbor.NewLogger()
	path := filepath.Join(t.TempDir(), "plain.md")
	content := "Just a paragraph without any headings. Nothing more to it.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	doc, err := NewMarkdownExtractor(logger).Extract(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, 1, doc.PageCount)
	assert.Contains(t, doc.Pages[0].Text, "without any headings")
}

func TestHTMLExtractor_Extract(t *testing.T) {
	logger := arbor.NewLogger()
	path := filepath.Join(t.TempDir(), "page.html")
	content := `<!DOCTYPE html>
<html>
<head><title>Release Notes</title><script>var hidden = "secret123";</script></head>
<body>
<h1>First Part</h1><p>Alpha paragraph text.</p>
<h1>Second Part</h1><p>Bravo paragraph text.</p>
</body>
</html>`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	extractor := NewHTMLExtractor(transform.NewService(logger), logger)
	doc, err := extractor.Extract(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, 2, doc.PageCount)
	assert.Contains(t, doc.Pages[0].Text, "Alpha paragraph")
	assert.Contains(t, doc.Pages[1].Text, "Bravo paragraph")
	for _, page := range doc.Pages {
		assert.NotContains(t, page.Text, "secret123")
	}
}

func TestFactory_ForFile(t *testing.T) {
	logger := arbor.NewLogger()
	factory := NewFactory(transform.NewService(logger), logger)

	tests := []struct {
		name    string
		path    string
		want    interface{}
		wantErr bool
	}{
		{name: "pdf", path: "report.pdf", want: &PDFExtractor{}},
		{name: "pdf uppercase", path: "REPORT.PDF", want: &PDFExtractor{}},
		{name: "markdown", path: "readme.md", want: &MarkdownExtractor{}},
		{name: "text", path: "notes.txt", want: &TextExtractor{}},
		{name: "html", path: "index.html", want: &HTMLExtractor{}},
		{name: "unsupported", path: "sheet.docx", wantErr: true},
		{name: "no extension", path: "Makefile", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := factory.ForFile(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestFactory_Extensions(t *testing.T) {
	logger := arbor.NewLogger()
	factory := NewFactory(transform.NewService(logger), logger)

	exts := factory.Extensions()
	assert.Contains(t, exts, ".pdf")
	assert.Contains(t, exts, ".md")
	assert.Contains(t, exts, ".txt")
	assert.Contains(t, exts, ".html")
	assert.True(t, sort.StringsAreSorted(exts))
}
