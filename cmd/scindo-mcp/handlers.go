package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scindo/internal/common"
	"github.com/ternarybob/scindo/internal/services/extractor"
	"github.com/ternarybob/scindo/internal/services/pipeline"
	"github.com/ternarybob/scindo/internal/services/tokenizer"
	"github.com/ternarybob/scindo/internal/services/transform"
)

// handleChunkFile chunks a single document and returns the chunks inline.
// Per-call parameters override the loaded configuration; nothing is written
// to disk and the deduplication index is never consulted.
func handleChunkFile(config *common.Config, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil || path == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{mcp.NewTextContent("Error: path parameter is required")},
			}, nil
		}

		chunkerConfig := config.Chunker
		if size := request.GetInt("chunk_size", 0); size > 0 {
			chunkerConfig.ChunkSize = size
		}
		if overlap := request.GetInt("chunk_overlap", -1); overlap >= 0 {
			chunkerConfig.ChunkOverlap = overlap
		}
		if minSize := request.GetInt("min_chunk_size", -1); minSize >= 0 {
			chunkerConfig.MinChunkSize = minSize
		}
		if encoding := request.GetString("encoding", ""); encoding != "" {
			chunkerConfig.Encoding = encoding
		}
		if err := chunkerConfig.Validate(); err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{mcp.NewTextContent(fmt.Sprintf("Invalid parameters: %v", err))},
			}, nil
		}

		svc, err := pipeline.NewService(&chunkerConfig, pipeline.Options{NoSave: true}, nil, logger)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to build pipeline")
			return &mcp.CallToolResult{
				Content: []mcp.Content{mcp.NewTextContent(fmt.Sprintf("Error: %v", err))},
			}, nil
		}

		result, err := svc.ProcessFile(ctx, path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Chunking failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{mcp.NewTextContent(fmt.Sprintf("Error chunking %s: %v", path, err))},
			}, nil
		}

		maxChunks := request.GetInt("max_chunks", 20)
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(formatChunkResult(result, maxChunks))},
		}, nil
	}
}

// handleCountTokens counts tokens in a piece of text
func handleCountTokens(config *common.Config, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := request.RequireString("text")
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{mcp.NewTextContent("Error: text parameter is required")},
			}, nil
		}

		encoding := request.GetString("encoding", config.Chunker.Encoding)
		counter, err := tokenizer.NewService(encoding, logger)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{mcp.NewTextContent(fmt.Sprintf("Error: %v", err))},
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(formatTokenCount(counter.Count(text), counter.Name()))},
		}, nil
	}
}

// handleExtractText extracts per-page text from a document without chunking
func handleExtractText(logger arbor.ILogger) server.ToolHandlerFunc {
	factory := extractor.NewFactory(transform.NewService(logger), logger)
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil || path == "" {
			return &mcp.CallToolResult{
				Content: []mcp.Content{mcp.NewTextContent("Error: path parameter is required")},
			}, nil
		}

		docExtractor, err := factory.ForFile(path)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{mcp.NewTextContent(fmt.Sprintf("Error: %v", err))},
			}, nil
		}

		doc, err := docExtractor.Extract(ctx, path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Extraction failed")
			return &mcp.CallToolResult{
				Content: []mcp.Content{mcp.NewTextContent(fmt.Sprintf("Error extracting %s: %v", path, err))},
			}, nil
		}

		page := request.GetInt("page", 0)
		if page > doc.PageCount {
			return &mcp.CallToolResult{
				Content: []mcp.Content{mcp.NewTextContent(fmt.Sprintf("Error: page %d out of range (document has %d pages)", page, doc.PageCount))},
			}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(formatExtractedDocument(doc, page))},
		}, nil
	}
}
