package parser

import "fmt"

// SyntaxError is raised on an unexpected token, a missing closer, or a
// rule-table miss. Position is the previous token's position, since
// the parser has always consumed-then-inspected by the time it knows
// something is wrong.
type SyntaxError struct {
	Line    int32
	Column  int32
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("💥 Syntax error:\nline:%d, column:%d - %s", e.Line, e.Column, e.Message)
}
