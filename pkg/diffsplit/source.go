package diffsplit

import (
	"bufio"
	"io"
)

// maxLineBytes bounds a single input line so pathological inputs cannot grow
// the scanner buffer without limit.
const maxLineBytes = 1024 * 1024

// LineSource is a buffered cursor over a byte stream that yields text lines
// with their line endings stripped and supports one line of lookahead.
//
// A LineSource is shared between a Parser and whichever Patch is currently
// streaming its body. The sharing discipline is strictly sequential: at most
// one consumer may advance the cursor at any instant, and nothing here is safe
// for concurrent use.
type LineSource struct {
	scanner *bufio.Scanner
	peeked  string
	hasPeek bool
	done    bool
}

// NewLineSource wraps the reader in a buffered, peekable line cursor.
func NewLineSource(r io.Reader) *LineSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &LineSource{scanner: scanner}
}

// Peek returns the next line without consuming it. The second return value is
// false once the input is exhausted. Read errors are indistinguishable from a
// clean end of input at this boundary: truncated input simply means "no more
// lines", never a fault the parsing layer has to handle.
func (s *LineSource) Peek() (string, bool) {
	if s.hasPeek {
		return s.peeked, true
	}
	if s.done {
		return "", false
	}
	if !s.scanner.Scan() {
		s.done = true
		return "", false
	}
	s.peeked = s.scanner.Text()
	s.hasPeek = true
	return s.peeked, true
}

// Next consumes and returns the next line.
func (s *LineSource) Next() (string, bool) {
	if line, ok := s.Peek(); ok {
		s.hasPeek = false
		return line, true
	}
	return "", false
}
