// -----------------------------------------------------------------------
// Sentence Splitter - Heuristic sentence boundary detection
// -----------------------------------------------------------------------

package splitter

import (
	"strings"
	"unicode"

	"github.com/ternarybob/arbor"
)

// abbreviations whose trailing period does not end a sentence. Lower-case
// forms; matching is case-insensitive. Best effort: a missed abbreviation
// splits early, an overzealous one merges two sentences, neither corrupts
// text.
var abbreviations = map[string]struct{}{
	"dr":   {},
	"mr":   {},
	"mrs":  {},
	"ms":   {},
	"prof": {},
	"sr":   {},
	"jr":   {},
	"st":   {},
	"vs":   {},
	"etc":  {},
	"fig":  {},
	"no":   {},
	"al":   {},
	"e.g":  {},
	"i.e":  {},
}

// Service splits cleaned text into sentences. A boundary is terminal
// punctuation (. ! ?) followed by whitespace and an upper-case letter;
// abbreviation periods and decimal points are kept inside their sentence.
type Service struct {
	logger arbor.ILogger
}

// NewService creates a new splitter service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
	}
}

// Split returns the sentences of text in order. Text without any terminal
// punctuation comes back as a single sentence. Whitespace between
// sentences is consumed; each sentence is trimmed.
func (s *Service) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	var sentences []string
	start := 0

	i := 0
	for i < len(runes) {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			i++
			continue
		}
		if r == '.' && isAbbreviationAt(runes, i) {
			i++
			continue
		}

		// Consume the whitespace run after the punctuation, then require
		// an upper-case letter to call it a boundary.
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) || !unicode.IsUpper(runes[j]) {
			i++
			continue
		}

		sentence := strings.TrimSpace(string(runes[start : i+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = j
		i = j
	}

	tail := strings.TrimSpace(string(runes[start:]))
	if tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// isAbbreviationAt reports whether the period at index i terminates a
// known abbreviation. The token is the run of letters and interior
// periods immediately before i, e.g. "Dr" in "Dr. Smith" or "e.g" in
// "e.g. pears".
func isAbbreviationAt(runes []rune, i int) bool {
	end := i
	begin := end
	for begin > 0 {
		prev := runes[begin-1]
		if unicode.IsLetter(prev) || prev == '.' {
			begin--
			continue
		}
		break
	}
	if begin == end {
		return false
	}
	token := strings.ToLower(strings.Trim(string(runes[begin:end]), "."))
	_, ok := abbreviations[token]
	return ok
}
