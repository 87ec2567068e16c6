// -----------------------------------------------------------------------
// Chunker Config - Token budgets and overlap settings for the packer
// -----------------------------------------------------------------------

package chunker

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/scindo/internal/models"
	"github.com/ternarybob/scindo/internal/services/tokenizer"
)

const (
	// DefaultChunkSize is the token budget per chunk
	DefaultChunkSize = 300

	// DefaultOverlapPercent derives the overlap when none is given
	DefaultOverlapPercent = 0.10

	// DefaultMinChunkSize drops trailing fragments below this many tokens
	DefaultMinChunkSize = 20
)

// Config holds the packing parameters. All fields are validated using
// go-playground/validator tags; a ChunkOverlap below zero means "derive
// from ChunkOverlapPercent".
type Config struct {
	ChunkSize           int     `json:"chunk_size" toml:"chunk_size" validate:"gt=0"`
	ChunkOverlap        int     `json:"chunk_overlap" toml:"chunk_overlap"`
	ChunkOverlapPercent float64 `json:"chunk_overlap_percent" toml:"chunk_overlap_percent" validate:"gte=0,lt=1"`
	MinChunkSize        int     `json:"min_chunk_size" toml:"min_chunk_size" validate:"gte=0"`
	Encoding            string  `json:"encoding" toml:"encoding" validate:"required"`
}

// NewDefaultConfig returns the standard packing parameters
func NewDefaultConfig() *Config {
	return &Config{
		ChunkSize:           DefaultChunkSize,
		ChunkOverlap:        -1,
		ChunkOverlapPercent: DefaultOverlapPercent,
		MinChunkSize:        DefaultMinChunkSize,
		Encoding:            tokenizer.DefaultEncoding,
	}
}

// Validate checks the config, wrapping failures in models.ErrInvalidConfig
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidConfig, err)
	}
	return nil
}

// EffectiveOverlap resolves the overlap budget in tokens: the explicit
// ChunkOverlap when set, otherwise round(ChunkSize*ChunkOverlapPercent).
// An overlap at or above ChunkSize is clamped to ChunkSize-1 so every
// window always admits at least one new token.
func (c *Config) EffectiveOverlap() int {
	overlap := c.ChunkOverlap
	if overlap < 0 {
		overlap = int(math.Round(float64(c.ChunkSize) * c.ChunkOverlapPercent))
	}
	if overlap >= c.ChunkSize {
		overlap = c.ChunkSize - 1
	}
	return overlap
}
