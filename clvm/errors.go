package clvm

import (
	"errors"
	"fmt"
)

var (
	ErrBadEncoding  = errors.New("clvm: bad encoding")
	ErrCostExceeded = errors.New("clvm: cost exceeded")
)

// EvalError reports a failed evaluation together with the node that caused it.
type EvalError struct {
	Message string
	Node    *Program
}

func (e *EvalError) Error() string {
	if e.Node == nil {
		return "clvm: " + e.Message
	}
	return fmt.Sprintf("clvm: %s: %s", e.Message, Hex(e.Node))
}

func evalErr(msg string, node *Program) error {
	return &EvalError{Message: msg, Node: node}
}

// IsEvalError reports whether err carries an *EvalError.
func IsEvalError(err error) bool {
	var e *EvalError
	return errors.As(err, &e)
}
