package parser

import (
	"fmt"

	"github.com/perbu/scpl/pkg/token"
)

// Error is a structural parse error: missing operand, unmatched scope,
// unknown variable, invalid operator in the current position (spec.md
// §4.D, §7).
type Error struct {
	Token   token.Token
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Token.Index, e.Message)
}

// TypeError is raised when operand types fail to match any operator
// specialization, or a set literal is heterogeneous (spec.md §4.E, §7).
type TypeError struct {
	Token   token.Token
	Message string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("parse type error at %d: %s", e.Token.Index, e.Message)
}
