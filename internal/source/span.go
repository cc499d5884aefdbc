package source

import "fmt"

// Span identifies a half-open byte range [Lo, Hi) in a named input.
type Span struct {
	File string
	Lo   int
	Hi   int
}

// New creates a span covering [lo, hi) in file.
func New(file string, lo, hi int) Span {
	return Span{File: file, Lo: lo, Hi: hi}
}

// WithHi returns a copy of the span truncated (or extended) to end at hi.
func (s Span) WithHi(hi int) Span {
	s.Hi = hi
	return s
}

// Contains reports whether other lies entirely within s.
// Both spans must refer to the same file.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Lo <= other.Lo && other.Hi <= s.Hi
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d..%d", s.Lo, s.Hi)
	}
	return fmt.Sprintf("%s:%d..%d", s.File, s.Lo, s.Hi)
}
