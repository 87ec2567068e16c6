// -----------------------------------------------------------------------
// Extractor Factory - Selects a document extractor by file extension
// -----------------------------------------------------------------------

package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scindo/internal/interfaces"
	"github.com/ternarybob/scindo/internal/models"
	"github.com/ternarybob/scindo/internal/services/transform"
)

// Factory routes files to the extractor registered for their extension.
type Factory struct {
	extractors map[string]interfaces.DocumentExtractor
	logger     arbor.ILogger
}

// NewFactory creates a factory with all built-in extractors registered
func NewFactory(transformSvc *transform.Service, logger arbor.ILogger) *Factory {
	f := &Factory{
		extractors: make(map[string]interfaces.DocumentExtractor),
		logger:     logger,
	}
	f.Register(NewPDFExtractor(logger))
	f.Register(NewMarkdownExtractor(logger))
	f.Register(NewHTMLExtractor(transformSvc, logger))
	f.Register(NewTextExtractor(logger))
	return f
}

// Register adds an extractor under each of its extensions
func (f *Factory) Register(e interfaces.DocumentExtractor) {
	for _, ext := range e.Extensions() {
		f.extractors[strings.ToLower(ext)] = e
	}
}

// ForFile returns the extractor matching the file's extension
func (f *Factory) ForFile(path string) (interfaces.DocumentExtractor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if e, ok := f.extractors[ext]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("unsupported file type: %q", ext)
}

// Extensions returns the sorted list of registered extensions
func (f *Factory) Extensions() []string {
	exts := make([]string, 0, len(f.extractors))
	for ext := range f.extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// statSource resolves path to an absolute path and stats it. Missing or
// unreadable files surface as ExtractionError.
func statSource(path string) (string, os.FileInfo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return "", nil, models.NewExtractionError(absPath, "file not accessible", err)
	}
	if info.IsDir() {
		return "", nil, models.NewExtractionError(absPath, "path is a directory", nil)
	}
	return absPath, info, nil
}
