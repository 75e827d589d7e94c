package query

import (
	"fmt"
)

// SyntaxError reports a structurally invalid query: unmatched parenthesis,
// dangling prefix, misplaced range operator, empty input. Position is the
// zero-based offset of the offending token.
type SyntaxError struct {
	Message  string
	Position int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Position, e.Message)
}

// EvaluationError reports a structurally valid query that cannot be applied
// to a record: an unknown filter field. Under the default lenient policy the
// evaluator converts it into "does not match"; Settings.StrictFields
// surfaces it instead.
type EvaluationError struct {
	Field    string
	Position int
	Message  string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("cannot evaluate filter at position %d: %s", e.Position, e.Message)
}
