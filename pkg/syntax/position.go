package syntax

import (
	"bytes"
	"fmt"
)

// Span is a half-open byte range plus 1-based line/column positions.
type Span struct {
	Start int
	End   int

	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the span has zero length.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains reports whether other lies within s.
func (s Span) Contains(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// String renders the span as line:column.
func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.StartLine, s.StartColumn)
}

// PositionAt converts a byte offset into a 1-based line and column.
func PositionAt(source []byte, offset int) (int, int) {
	line, col := 1, 1
	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// LineText returns the 1-based line of source without its terminator, or
// "" when the line does not exist.
func LineText(source []byte, line int) string {
	if line < 1 {
		return ""
	}
	start := 0
	for n := 1; n < line; n++ {
		i := bytes.IndexByte(source[start:], '\n')
		if i < 0 {
			return ""
		}
		start += i + 1
	}
	rest := source[start:]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return string(bytes.TrimRight(rest, "\r"))
}
