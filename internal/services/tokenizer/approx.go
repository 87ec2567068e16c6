// -----------------------------------------------------------------------
// Approximate Tokenizer - Character-ratio token estimation
// -----------------------------------------------------------------------

package tokenizer

import (
	"unicode/utf8"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scindo/internal/interfaces"
)

// charsPerToken is the character-to-token ratio of the estimator. Four
// characters per token tracks English prose closely enough for sizing.
const charsPerToken = 4

// ApproxService estimates token counts from character length. Selected
// explicitly via the "approx" encoding name; never used as a silent
// substitute for a BPE encoding that failed to load.
type ApproxService struct {
	logger arbor.ILogger
}

var _ interfaces.TokenCounter = (*ApproxService)(nil)

// NewApproxService creates the character-ratio token counter
func NewApproxService(logger arbor.ILogger) *ApproxService {
	logger.Debug().Int("chars_per_token", charsPerToken).Msg("Using approximate token counting")
	return &ApproxService{logger: logger}
}

// Count returns ceil(chars/4), so non-empty text never counts zero
func (s *ApproxService) Count(text string) int {
	if text == "" {
		return 0
	}
	return (utf8.RuneCountInString(text) + charsPerToken - 1) / charsPerToken
}

// Split cuts text into rune windows of maxTokens*4 characters. Each
// window counts at most maxTokens under this estimator.
func (s *ApproxService) Split(text string, maxTokens int) []string {
	if text == "" {
		return nil
	}
	if maxTokens <= 0 {
		return []string{text}
	}

	maxChars := maxTokens * charsPerToken
	runes := []rune(text)
	if len(runes) <= maxChars {
		return []string{text}
	}

	pieces := make([]string, 0, len(runes)/maxChars+1)
	for start := 0; start < len(runes); start += maxChars {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}

// Tail returns the last maxTokens*4 characters of text
func (s *ApproxService) Tail(text string, maxTokens int) string {
	if text == "" || maxTokens <= 0 {
		return ""
	}

	maxChars := maxTokens * charsPerToken
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[len(runes)-maxChars:])
}

// Name reports the estimator's encoding name
func (s *ApproxService) Name() string {
	return ApproxName
}
