package lang

import (
	"fmt"
	"strings"
)

// ParseError carries enough to render the caret diagram spec.md §6
// requires: the full source text, the byte offset of the failing
// position, and a human-readable "expected" phrase. It is returned
// instead of a plain error so cmd/root.go can detect it with errors.As
// and render it specially rather than through the zap logger.
type ParseError struct {
	Source   string
	Offset   int
	Expected string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: expecting %s", e.Offset, e.Expected)
}

// Render produces the three-line diagram spec.md §6 describes: the
// source, a caret line pointing at Offset, and the "Expecting ..."
// message.
func (e *ParseError) Render() string {
	var b strings.Builder
	b.WriteString(e.Source)
	if !strings.HasSuffix(e.Source, "\n") {
		b.WriteByte('\n')
	}
	col := e.Offset
	if col > len(e.Source) {
		col = len(e.Source)
	}
	b.WriteString(strings.Repeat(" ", col))
	b.WriteString("^\n")
	fmt.Fprintf(&b, "Expecting %s\n", e.Expected)
	return b.String()
}

// unexpectedToken builds a ParseError naming what was expected at the
// position of the token actually found.
func unexpectedToken(src string, got Token, expected string) *ParseError {
	return &ParseError{Source: src, Offset: got.Offset, Expected: expected}
}
