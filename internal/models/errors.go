package models

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by configuration validation failures.
var ErrInvalidConfig = errors.New("invalid chunker configuration")

// ErrTokenizerUnavailable is returned when an exact token encoding was
// requested by name and could not be loaded. The caller asked for exact
// counts, so the failure is loud rather than silently approximated.
var ErrTokenizerUnavailable = errors.New("tokenizer encoding unavailable")

// ExtractionError reports a source document that could not be opened or
// parsed. It is fatal for that document; batch runs record it and move on.
type ExtractionError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed for %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed for %s: %s", e.Path, e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError builds an ExtractionError for path. err may be nil
// when the reason alone describes the failure (e.g. an encrypted PDF).
func NewExtractionError(path, reason string, err error) *ExtractionError {
	return &ExtractionError{Path: path, Reason: reason, Err: err}
}
