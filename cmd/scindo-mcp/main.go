package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"
	"github.com/ternarybob/scindo/internal/common"
)

func main() {
	// Load .env file if present (feeds SCINDO_* environment overrides)
	_ = godotenv.Load()

	// Load configuration; missing config file falls back to defaults
	configPath := os.Getenv("SCINDO_CONFIG")
	if configPath == "" {
		if _, err := os.Stat("scindo.toml"); err == nil {
			configPath = "scindo.toml"
		}
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize minimal logger for MCP server (console only, no file output)
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn") // Minimal logging to avoid cluttering MCP stdio

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"scindo",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Register chunking tools
	mcpServer.AddTool(createChunkFileTool(), handleChunkFile(config, logger))
	mcpServer.AddTool(createCountTokensTool(), handleCountTokens(config, logger))
	mcpServer.AddTool(createExtractTextTool(), handleExtractText(logger))

	// Start server (blocks on stdio)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
