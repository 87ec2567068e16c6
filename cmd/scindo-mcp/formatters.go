package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/scindo/internal/models"
)

// formatChunkResult formats a chunking result as markdown, limiting the
// number of chunk bodies included in the response
func formatChunkResult(result *models.DocumentResult, maxChunks int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Chunked %s\n\n", filepath.Base(result.Source)))
	sb.WriteString(fmt.Sprintf("**Pages:** %d\n", result.PageCount))
	sb.WriteString(fmt.Sprintf("**Chunks:** %d\n", result.ChunkCount))
	sb.WriteString(fmt.Sprintf("**Tokens:** %d total, max %d, mean %.1f\n", result.TokenTotal, result.MaxTokens, result.MeanTokens))
	if result.Dropped > 0 {
		sb.WriteString(fmt.Sprintf("**Dropped:** %d below minimum size\n", result.Dropped))
	}
	if result.Deduplicated > 0 {
		sb.WriteString(fmt.Sprintf("**Deduplicated:** %d already indexed\n", result.Deduplicated))
	}
	sb.WriteString("\n")

	if len(result.Chunks) == 0 {
		sb.WriteString("No chunks produced.\n")
		return sb.String()
	}

	shown := len(result.Chunks)
	if maxChunks > 0 && shown > maxChunks {
		shown = maxChunks
	}

	for i := 0; i < shown; i++ {
		chunk := result.Chunks[i]
		sb.WriteString(fmt.Sprintf("### %s (page %d, %d tokens)\n\n", chunk.ChunkID, chunk.PageNumber, chunk.TokenCount))
		sb.WriteString(chunk.Text)
		sb.WriteString("\n\n")
	}

	if shown < len(result.Chunks) {
		sb.WriteString(fmt.Sprintf("*... %d more chunks not shown*\n", len(result.Chunks)-shown))
	}

	return sb.String()
}

// formatTokenCount formats a token count result
func formatTokenCount(count int, encoding string) string {
	return fmt.Sprintf("%d tokens (%s)", count, encoding)
}

// formatExtractedDocument formats per-page extracted text as markdown.
// A page of 0 includes every page.
func formatExtractedDocument(doc *models.ExtractedDocument, page int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", filepath.Base(doc.Source)))
	sb.WriteString(fmt.Sprintf("**Pages:** %d | **Size:** %d bytes | **Modified:** %s\n\n",
		doc.PageCount, doc.SizeBytes, doc.ModifiedAt.Format(time.RFC3339)))

	for _, p := range doc.Pages {
		if page > 0 && p.PageNumber != page {
			continue
		}
		sb.WriteString(fmt.Sprintf("## Page %d\n\n", p.PageNumber))
		if strings.TrimSpace(p.Text) == "" {
			sb.WriteString("*(no extractable text)*\n\n")
			continue
		}
		sb.WriteString(p.Text)
		sb.WriteString("\n\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}
