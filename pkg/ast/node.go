// Package ast defines the typed expression tree the parser builds and the
// operator resolver specializes: every node carries a statically known
// result Kind and a single Eval entry point. There is no untyped "Value"
// box at the root — dispatch is by a Kind tag on the node plus a type
// switch on its evaluated operand, following the closed sum in pkg/operand,
// rather than by node-type inheritance.
package ast

import "github.com/perbu/scpl/pkg/operand"

// Node is the interface every expression-tree element implements.
type Node interface {
	// Start is the rune offset of the node's leftmost source token.
	Start() int
	// End is the rune offset just past the node's rightmost source token.
	End() int
	// StaticKind is the operand kind this node's Eval always returns,
	// fixed by the operator resolver at parse time.
	StaticKind() operand.Kind
	// Eval computes the node's value against a variable bag.
	Eval(vars map[string]operand.Operand) (operand.Operand, error)
}

// BaseNode carries the source span every concrete node embeds, mirroring
// the teacher's AST base-node-plus-span convention.
type BaseNode struct {
	StartPos int
	EndPos   int
}

func (b BaseNode) Start() int { return b.StartPos }
func (b BaseNode) End() int   { return b.EndPos }

// Span constructs a BaseNode from two token (rune) offsets.
func Span(start, end int) BaseNode { return BaseNode{StartPos: start, EndPos: end} }

// NameError is returned by Eval when a Variable node's name is absent from
// the variable bag passed in (spec.md §7: "name not found"). Unlike the
// parser's unknown-variable check (which runs against the declared type
// environment), this is purely an evaluation-time lookup failure.
type NameError struct {
	Name string
}

func (e *NameError) Error() string { return "name not found: " + e.Name }
