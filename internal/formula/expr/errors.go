package expr

import (
	"errors"
	"fmt"
)

// ErrEvaluation is matched by every *EvaluationError via errors.Is.
var ErrEvaluation = errors.New("formula evaluation failed")

// EvaluationError reports a malformed expression, a missing binding or an
// arithmetic fault. Pos is the byte offset in Expression, or -1 when the
// failure is not tied to a position.
type EvaluationError struct {
	Expression string
	Identifier string
	Pos        int
	Reason     string
}

func (e *EvaluationError) Error() string {
	msg := e.Reason
	if e.Identifier != "" {
		msg = fmt.Sprintf("%s: %s", e.Reason, e.Identifier)
	}
	if e.Pos >= 0 {
		return fmt.Sprintf("evaluate %q: %s (at %d)", e.Expression, msg, e.Pos)
	}
	return fmt.Sprintf("evaluate %q: %s", e.Expression, msg)
}

func (e *EvaluationError) Unwrap() error {
	return ErrEvaluation
}

func newError(expression string, pos int, reason string) *EvaluationError {
	return &EvaluationError{Expression: expression, Pos: pos, Reason: reason}
}
