package compiler

import "fmt"

// LoweringError is raised when an AST cannot be lowered: an assignment
// target that isn't a variable, a non-terminal block item carrying a
// value, or a node kind the lowerer has no emission rule for.
type LoweringError struct {
	Message string
}

func (e LoweringError) Error() string {
	return fmt.Sprintf("💥 LoweringError: %s", e.Message)
}
