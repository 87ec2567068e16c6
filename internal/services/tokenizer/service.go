// -----------------------------------------------------------------------
// Tokenizer Service - Exact BPE token counting via tiktoken encodings
// -----------------------------------------------------------------------

package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scindo/internal/interfaces"
	"github.com/ternarybob/scindo/internal/models"
)

const (
	// DefaultEncoding is the BPE encoding used when none is configured
	DefaultEncoding = "cl100k_base"

	// ApproxName selects the character-ratio estimator instead of a BPE encoding
	ApproxName = "approx"
)

// Service counts tokens with a tiktoken BPE encoding. Counts and splits
// operate on the real token stream, so chunk budgets measured through
// this service match what downstream embedding models will see.
type Service struct {
	encoding *tiktoken.Tiktoken
	name     string
	logger   arbor.ILogger
}

var _ interfaces.TokenCounter = (*Service)(nil)

// NewService loads the named BPE encoding. An empty name or ApproxName
// deliberately selects the approximate counter; any other name that fails
// to load is a hard error wrapping models.ErrTokenizerUnavailable rather
// than a silent fallback, since the caller asked for exact counts.
func NewService(name string, logger arbor.ILogger) (interfaces.TokenCounter, error) {
	if name == "" || name == ApproxName {
		return NewApproxService(logger), nil
	}

	encoding, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrTokenizerUnavailable, name, err)
	}

	logger.Debug().Str("encoding", name).Msg("Loaded BPE token encoding")

	return &Service{
		encoding: encoding,
		name:     name,
		logger:   logger,
	}, nil
}

// Count returns the number of BPE tokens in text
func (s *Service) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(s.encoding.Encode(text, nil, nil))
}

// Split divides text into pieces of at most maxTokens tokens by slicing
// the encoded token stream and decoding each slice. Concatenating the
// pieces reproduces the original text.
func (s *Service) Split(text string, maxTokens int) []string {
	if text == "" {
		return nil
	}
	if maxTokens <= 0 {
		return []string{text}
	}

	tokens := s.encoding.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return []string{text}
	}

	pieces := make([]string, 0, len(tokens)/maxTokens+1)
	for start := 0; start < len(tokens); start += maxTokens {
		end := start + maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		pieces = append(pieces, s.encoding.Decode(tokens[start:end]))
	}
	return pieces
}

// Tail returns the trailing slice of text holding at most maxTokens
// tokens, decoded from the end of the token stream
func (s *Service) Tail(text string, maxTokens int) string {
	if text == "" || maxTokens <= 0 {
		return ""
	}

	tokens := s.encoding.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return s.encoding.Decode(tokens[len(tokens)-maxTokens:])
}

// Name reports the loaded encoding name
func (s *Service) Name() string {
	return s.name
}
