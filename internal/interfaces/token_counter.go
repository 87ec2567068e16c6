// -----------------------------------------------------------------------
// Token Counter Interface - Token counting and token-budget splitting
// -----------------------------------------------------------------------

package interfaces

// TokenCounter measures text against a token budget. The chunker depends
// only on this interface; whether counts are exact BPE token counts or a
// character-ratio estimate is decided once at construction time, never
// inspected at runtime.
type TokenCounter interface {
	// Count returns the number of tokens in text. Empty text counts zero.
	Count(text string) int

	// Split divides text into ordered pieces of at most maxTokens tokens
	// each. Concatenating the pieces reproduces the original text for
	// exact counters; approximate counters split on rune boundaries.
	Split(text string, maxTokens int) []string

	// Tail returns the trailing piece of text holding at most maxTokens
	// tokens. Used for token-granularity overlap carry.
	Tail(text string, maxTokens int) string

	// Name reports the encoding in use, e.g. "cl100k_base" or "approx".
	Name() string
}
