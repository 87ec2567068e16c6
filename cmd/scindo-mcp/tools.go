package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createChunkFileTool creates the chunk_file tool definition
func createChunkFileTool() mcp.Tool {
	return mcp.NewTool("chunk_file",
		mcp.WithDescription("Chunk a document (PDF, markdown, HTML or plain text) into token-bounded chunks suitable for embedding. Returns a summary and the chunk texts with their metadata."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the document file"),
		),
		mcp.WithNumber("chunk_size",
			mcp.Description("Target chunk size in tokens (default: 300)"),
		),
		mcp.WithNumber("chunk_overlap",
			mcp.Description("Overlap between consecutive chunks in tokens (default: 10% of chunk size)"),
		),
		mcp.WithNumber("min_chunk_size",
			mcp.Description("Minimum chunk size in tokens; smaller trailing chunks are dropped (default: 20)"),
		),
		mcp.WithString("encoding",
			mcp.Description("Tokenizer encoding name: cl100k_base, o200k_base or approx (default: cl100k_base)"),
		),
		mcp.WithNumber("max_chunks",
			mcp.Description("Maximum number of chunk bodies to include in the response (default: 20)"),
		),
	)
}

// createCountTokensTool creates the count_tokens tool definition
func createCountTokensTool() mcp.Tool {
	return mcp.NewTool("count_tokens",
		mcp.WithDescription("Count the tokens in a piece of text using the configured tokenizer encoding"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to count tokens for"),
		),
		mcp.WithString("encoding",
			mcp.Description("Tokenizer encoding name: cl100k_base, o200k_base or approx (default: cl100k_base)"),
		),
	)
}

// createExtractTextTool creates the extract_text tool definition
func createExtractTextTool() mcp.Tool {
	return mcp.NewTool("extract_text",
		mcp.WithDescription("Extract per-page plain text from a document (PDF, markdown, HTML or plain text) without chunking it"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the document file"),
		),
		mcp.WithNumber("page",
			mcp.Description("Single page number to return (default: all pages)"),
		),
	)
}
