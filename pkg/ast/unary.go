package ast

import (
	"fmt"

	"github.com/perbu/scpl/pkg/operand"
	"github.com/perbu/scpl/pkg/operators"
)

// UnaryNode is a single-operand operator application (!, unary +/-, ~).
type UnaryNode struct {
	BaseNode
	Op         operators.Identity
	Child      Node
	ResultKind operand.Kind
}

func NewUnary(span BaseNode, op operators.Identity, child Node, result operand.Kind) *UnaryNode {
	return &UnaryNode{BaseNode: span, Op: op, Child: child, ResultKind: result}
}

func (n *UnaryNode) StaticKind() operand.Kind { return n.ResultKind }

func (n *UnaryNode) Eval(vars map[string]operand.Operand) (operand.Operand, error) {
	v, err := n.Child.Eval(vars)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case operators.Not:
		b, ok := v.(operand.Bool)
		if !ok {
			return nil, fmt.Errorf("!: expected Bool, got %s", v.Kind())
		}
		return !b, nil
	case operators.Pos:
		return v, nil
	case operators.Neg:
		switch x := v.(type) {
		case operand.Integer:
			return -x, nil
		case operand.Float:
			return -x, nil
		default:
			return nil, fmt.Errorf("unary -: expected numeric operand, got %s", v.Kind())
		}
	case operators.Complement:
		switch x := v.(type) {
		case operand.Integer:
			return ^x, nil
		case operand.Regex:
			return x.Complemented(), nil
		default:
			return nil, fmt.Errorf("unary ~: expected Integer or Regex, got %s", v.Kind())
		}
	default:
		return nil, fmt.Errorf("unary op %s has no evaluator", n.Op)
	}
}
