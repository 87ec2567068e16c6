// -----------------------------------------------------------------------
// Chunk Writer - Persists chunk records as an indented JSON array
// -----------------------------------------------------------------------

package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/scindo/internal/models"
)

// writeChunks writes chunks to path as a human-readable JSON array,
// overwriting any existing file. A document that produced zero chunks
// still writes a valid empty array.
func writeChunks(path string, chunks []models.Chunk) error {
	if chunks == nil {
		chunks = []models.Chunk{}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(chunks); err != nil {
		return fmt.Errorf("failed to write chunks: %w", err)
	}

	return nil
}
