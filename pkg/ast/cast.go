package ast

import (
	"fmt"
	"regexp"

	"github.com/perbu/scpl/pkg/operand"
)

// CastKind names one of the implicit conversions the operator resolver may
// insert around an operand so two differently-typed children can feed a
// single operator specialization (spec.md §4.E).
type CastKind int

const (
	CastIntegerFloat CastKind = iota
	CastStringRegex
	CastStringBool
	CastIntegerBool
	CastFloatBool
	CastRegexBool
	// CastHash marks a child about to be used as a Set membership probe.
	// Membership itself is decided by the operand's own Hash/Equal (see
	// pkg/operand.Set.Contains), so this cast's Eval is an identity
	// pass-through; it exists as an explicit node purely so the tree shows
	// where a hash-based comparison happens, matching spec.md §4.E's
	// "CastHash<T> (hashes an operand into an Integer for Set membership
	// lookups)".
	CastHash
)

// CastNode wraps Child with an implicit conversion to ResultKind.
type CastNode struct {
	BaseNode
	Cast       CastKind
	Child      Node
	ResultKind operand.Kind
}

func NewCast(span BaseNode, cast CastKind, child Node, result operand.Kind) *CastNode {
	return &CastNode{BaseNode: span, Cast: cast, Child: child, ResultKind: result}
}

func (n *CastNode) StaticKind() operand.Kind { return n.ResultKind }

func (n *CastNode) Eval(vars map[string]operand.Operand) (operand.Operand, error) {
	v, err := n.Child.Eval(vars)
	if err != nil {
		return nil, err
	}
	switch n.Cast {
	case CastIntegerFloat:
		i, ok := v.(operand.Integer)
		if !ok {
			return nil, fmt.Errorf("CastIntegerFloat: expected Integer, got %s", v.Kind())
		}
		return operand.Float(i), nil

	case CastStringRegex:
		s, ok := v.(operand.String)
		if !ok {
			return nil, fmt.Errorf("CastStringRegex: expected String, got %s", v.Kind())
		}
		return operand.NewRegexFromSource(regexp.QuoteMeta(s.Value), true)

	case CastStringBool:
		s, ok := v.(operand.String)
		if !ok {
			return nil, fmt.Errorf("CastStringBool: expected String, got %s", v.Kind())
		}
		return operand.Bool(s.Value != ""), nil

	case CastIntegerBool:
		i, ok := v.(operand.Integer)
		if !ok {
			return nil, fmt.Errorf("CastIntegerBool: expected Integer, got %s", v.Kind())
		}
		return operand.Bool(i != 0), nil

	case CastFloatBool:
		f, ok := v.(operand.Float)
		if !ok {
			return nil, fmt.Errorf("CastFloatBool: expected Float, got %s", v.Kind())
		}
		return operand.Bool(f != 0), nil

	case CastRegexBool:
		r, ok := v.(operand.Regex)
		if !ok {
			return nil, fmt.Errorf("CastRegexBool: expected Regex, got %s", v.Kind())
		}
		return operand.Bool(len(r.Pattern) > 0), nil

	case CastHash:
		return v, nil

	default:
		return nil, fmt.Errorf("unknown cast kind %d", n.Cast)
	}
}
