// -----------------------------------------------------------------------
// Scindo CLI - Chunks documents into token-bounded JSON records
// -----------------------------------------------------------------------

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scindo/internal/common"
	"github.com/ternarybob/scindo/internal/interfaces"
	"github.com/ternarybob/scindo/internal/models"
	"github.com/ternarybob/scindo/internal/services/pipeline"
	"github.com/ternarybob/scindo/internal/storage/badger"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles   configPaths // Multiple -config flags supported
	chunkSize     = flag.Int("chunk-size", 0, "Target chunk size in tokens (overrides config)")
	chunkOverlap  = flag.Int("chunk-overlap", -1, "Overlap between chunks in tokens (overrides percent)")
	overlapPct    = flag.Float64("chunk-overlap-percent", -1, "Overlap as a fraction of chunk size (overrides config)")
	minChunkSize  = flag.Int("min-chunk-size", -1, "Minimum chunk size in tokens (overrides config)")
	encodingName  = flag.String("encoding", "", "Tokenizer encoding name (overrides config)")
	outputTarget  = flag.String("output", "", "Output file (single input, .json) or directory")
	outputTargetO = flag.String("o", "", "Output file or directory (shorthand)")
	noSave        = flag.Bool("no-save", false, "Skip writing chunk files, print the summary only")
	dedupe        = flag.Bool("dedupe", false, "Drop chunks already recorded in the dedup index")
	concurrency   = flag.Int("concurrency", 1, "Documents to process in parallel")
	showVersion   = flag.Bool("version", false, "Print version information")
	showVersionV  = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: scindo [flags] <file> [file...]\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "Chunks PDF, markdown, HTML and text documents into token-bounded\nJSON records for retrieval pipelines.\n\nFlags:\n")
		flag.PrintDefaults()
	}
}

func main() {
	common.InstallCrashHandler("")
	defer common.RecoverWithCrashFile()

	// Parse command-line flags
	flag.Parse()

	// Handle version flag
	if *showVersion || *showVersionV {
		fmt.Printf("Scindo version %s\n", common.GetVersion())
		os.Exit(0)
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	var err error

	// Load .env file if present (feeds SCINDO_* environment overrides)
	_ = godotenv.Load()

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("scindo.toml"); err == nil {
			configFiles = append(configFiles, "scindo.toml")
		}
	}

	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		// Use temporary logger for startup errors
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	// Apply command-line flag overrides (highest priority)
	applyFlagOverrides(config)

	if err := config.Validate(); err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Debug().
		Int("chunk_size", config.Chunker.ChunkSize).
		Int("chunk_overlap", config.Chunker.EffectiveOverlap()).
		Int("min_chunk_size", config.Chunker.MinChunkSize).
		Str("encoding", config.Chunker.Encoding).
		Bool("dedupe", config.Index.Enabled).
		Msg("Resolved configuration")

	// Open the dedup index only when enabled
	var index interfaces.ChunkIndex
	if config.Index.Enabled {
		db, err := badger.NewBadgerDB(logger, &config.Index)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to open dedup index")
			os.Exit(1)
		}
		index = badger.NewChunkIndexStorage(db, logger)
		defer index.Close()
	}

	options := pipeline.Options{
		OutputDir:   config.Output.Dir,
		NoSave:      *noSave,
		Dedupe:      config.Index.Enabled,
		Concurrency: *concurrency,
	}
	applyOutputTarget(&options, len(inputs))

	svc, err := pipeline.NewService(&config.Chunker, options, index, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize pipeline")
		os.Exit(1)
	}

	// Cancel in-flight work on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	batch := svc.ProcessFiles(ctx, inputs)
	printSummary(batch)

	if batch.Failed > 0 {
		os.Exit(1)
	}
}

// applyFlagOverrides copies explicitly set flags onto the loaded config
func applyFlagOverrides(config *common.Config) {
	if *chunkSize > 0 {
		config.Chunker.ChunkSize = *chunkSize
	}
	if *chunkOverlap >= 0 {
		config.Chunker.ChunkOverlap = *chunkOverlap
	}
	if *overlapPct >= 0 {
		config.Chunker.ChunkOverlapPercent = *overlapPct
	}
	if *minChunkSize >= 0 {
		config.Chunker.MinChunkSize = *minChunkSize
	}
	if *encodingName != "" {
		config.Chunker.Encoding = *encodingName
	}
	if *dedupe {
		config.Index.Enabled = true
	}
}

// applyOutputTarget routes --output to an exact file path or a directory.
// A .json path with a single input selects the exact file; anything else
// is treated as a directory.
func applyOutputTarget(options *pipeline.Options, inputCount int) {
	target := *outputTarget
	if *outputTargetO != "" {
		target = *outputTargetO
	}
	if target == "" {
		return
	}
	if inputCount == 1 && strings.HasSuffix(strings.ToLower(target), ".json") {
		options.OutputPath = target
		return
	}
	options.OutputDir = target
}

const (
	maxPreviewChunks = 3
	previewChars     = 200
)

// printSummary writes per-document lines and batch totals to stdout
func printSummary(batch *models.BatchResult) {
	for _, result := range batch.Results {
		line := fmt.Sprintf("%s: %d pages, %d chunks, %d tokens (max %d, mean %.1f)",
			result.Source, result.PageCount, result.ChunkCount,
			result.TokenTotal, result.MaxTokens, result.MeanTokens)
		if result.Dropped > 0 {
			line += fmt.Sprintf(", %d dropped", result.Dropped)
		}
		if result.Deduplicated > 0 {
			line += fmt.Sprintf(", %d deduplicated", result.Deduplicated)
		}
		if result.OutputPath != "" {
			line += " -> " + result.OutputPath
		}
		fmt.Println(line)
		if *noSave {
			printChunkPreviews(result.Chunks)
		}
	}

	for source, msg := range batch.Errors {
		fmt.Fprintf(os.Stderr, "error: %s: %s\n", source, msg)
	}

	fmt.Printf("%d documents, %d chunks, %d failed\n",
		batch.Documents, batch.Chunks, batch.Failed)
}

// printChunkPreviews shows the first chunks of a document so --no-save
// runs still surface what would have been written.
func printChunkPreviews(chunks []models.Chunk) {
	for i, chunk := range chunks {
		if i == maxPreviewChunks {
			fmt.Printf("  ... %d more chunks\n", len(chunks)-maxPreviewChunks)
			break
		}
		fmt.Printf("  [%s] page %d, %d tokens: %s\n",
			chunk.ChunkID, chunk.PageNumber, chunk.TokenCount, previewText(chunk.Text))
	}
}

// previewText truncates chunk text to a rune-safe preview length.
func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= previewChars {
		return text
	}
	return string(runes[:previewChars]) + "..."
}
