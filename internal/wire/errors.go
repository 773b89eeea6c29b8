package wire

import (
	"errors"
	"fmt"
)

// Sentinel causes for decode failures, matchable with errors.Is.
var (
	// ErrAmbiguous marks a line that matched no grammar pattern, or
	// more than one. Such lines are never turned into a best-guess
	// event.
	ErrAmbiguous = errors.New("line does not match exactly one event pattern")

	// ErrFieldConversion marks a captured field that failed type
	// conversion. The grammar makes this structurally unlikely, but it
	// is checked rather than assumed.
	ErrFieldConversion = errors.New("event field conversion failed")

	// ErrEncoding marks a line that is not valid UTF-8.
	ErrEncoding = errors.New("line is not valid UTF-8")
)

// DecodeError reports a protocol line the grammar rejected. The listener
// treats every DecodeError as fatal protocol corruption: skipping a line
// would silently desynchronize caller-visible state from the compositor.
type DecodeError struct {
	Line    string
	Matches int // number of patterns matched; meaningful with ErrAmbiguous
	cause   error
}

func (e *DecodeError) Error() string {
	if errors.Is(e.cause, ErrAmbiguous) {
		return fmt.Sprintf("decode %q: %v (%d matches)", e.Line, e.cause, e.Matches)
	}
	return fmt.Sprintf("decode %q: %v", e.Line, e.cause)
}

func (e *DecodeError) Unwrap() error { return e.cause }
