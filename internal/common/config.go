package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/scindo/internal/services/chunker"
)

// Config represents the application configuration
type Config struct {
	Logging LoggingConfig  `toml:"logging"`
	Chunker chunker.Config `toml:"chunker"`
	Output  OutputConfig   `toml:"output"`
	Index   IndexConfig    `toml:"index"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05.000")
}

// OutputConfig controls where chunk files are written
type OutputConfig struct {
	Dir string `toml:"dir"` // Output directory; empty writes beside each source file
}

// IndexConfig controls the cross-run deduplication index
type IndexConfig struct {
	Enabled bool   `toml:"enabled"` // Enable content-hash deduplication
	Path    string `toml:"path"`    // Index database directory path
	Reset   bool   `toml:"reset"`   // Delete index on startup for clean runs
}

// NewDefaultConfig creates a configuration with default values
// Only user-facing settings are exposed in scindo.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05.000",
		},
		Chunker: *chunker.NewDefaultConfig(),
		Index: IndexConfig{
			Enabled: false,
			Path:    "./data/index",
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier
// files; environment variables override every file.
func LoadFromFiles(paths ...string) (*Config, error) {
	// Start with defaults
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier files)
	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// Apply environment variables (overrides all file configs)
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Logging configuration
	if level := os.Getenv("SCINDO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("SCINDO_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("SCINDO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Chunker configuration
	if size := os.Getenv("SCINDO_CHUNK_SIZE"); size != "" {
		if s, err := strconv.Atoi(size); err == nil {
			config.Chunker.ChunkSize = s
		}
	}
	if overlap := os.Getenv("SCINDO_CHUNK_OVERLAP"); overlap != "" {
		if o, err := strconv.Atoi(overlap); err == nil {
			config.Chunker.ChunkOverlap = o
		}
	}
	if percent := os.Getenv("SCINDO_CHUNK_OVERLAP_PERCENT"); percent != "" {
		if p, err := strconv.ParseFloat(percent, 64); err == nil {
			config.Chunker.ChunkOverlapPercent = p
		}
	}
	if minSize := os.Getenv("SCINDO_MIN_CHUNK_SIZE"); minSize != "" {
		if m, err := strconv.Atoi(minSize); err == nil {
			config.Chunker.MinChunkSize = m
		}
	}
	if encoding := os.Getenv("SCINDO_ENCODING"); encoding != "" {
		config.Chunker.Encoding = encoding
	}

	// Output configuration
	if dir := os.Getenv("SCINDO_OUTPUT_DIR"); dir != "" {
		config.Output.Dir = dir
	}

	// Index configuration
	if enabled := os.Getenv("SCINDO_INDEX_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Index.Enabled = e
		}
	}
	if path := os.Getenv("SCINDO_INDEX_PATH"); path != "" {
		config.Index.Path = path
	}
	if reset := os.Getenv("SCINDO_INDEX_RESET"); reset != "" {
		if r, err := strconv.ParseBool(reset); err == nil {
			config.Index.Reset = r
		}
	}
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	return c.Chunker.Validate()
}
