// Package stream reassembles the raw socket byte stream into protocol
// lines. Reads arrive in arbitrary chunk sizes: one chunk may carry
// several events, or a single event may span several chunks. The
// Splitter owns the only buffering between the transport and the
// decoder.
package stream

import (
	"bytes"
	"strings"
)

// Splitter accumulates raw reads and yields complete newline-terminated
// lines. The trailing unterminated remainder is retained privately
// across calls and never exposed except through Discard.
type Splitter struct {
	buf []byte
}

// Feed appends p to the internal buffer and returns every complete line
// now available, in arrival order. Each returned line has its
// terminator and surrounding whitespace (including "\r") removed. Blank
// lines are returned as empty strings: whether they are acceptable
// input is the decoder's call, and it rejects them, so a blank line on
// the wire never passes silently.
func (s *Splitter) Feed(p []byte) []string {
	s.buf = append(s.buf, p...)

	var lines []string
	for {
		i := bytes.IndexByte(s.buf, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, strings.TrimSpace(string(s.buf[:i])))
		s.buf = s.buf[i+1:]
	}

	// Re-home the remainder so emitted chunks don't pin the old array.
	if len(lines) > 0 && len(s.buf) > 0 {
		s.buf = append([]byte(nil), s.buf...)
	} else if len(s.buf) == 0 {
		s.buf = nil
	}
	return lines
}

// Pending reports the number of buffered bytes awaiting a terminator.
func (s *Splitter) Pending() int { return len(s.buf) }

// Discard drops the retained partial line and returns what was dropped,
// trimmed. Called at end-of-stream: an unterminated trailer cannot be
// validated against the grammar, so it is never decoded.
func (s *Splitter) Discard() string {
	rest := strings.TrimSpace(string(s.buf))
	s.buf = nil
	return rest
}
