package ast

import "github.com/perbu/scpl/pkg/operand"

// ConstNode wraps a fully-known operand.Operand: a literal parsed straight
// from source, or a subtree replaced by Precompile once every child folded
// to a constant.
type ConstNode struct {
	BaseNode
	Value operand.Operand
}

// NewConst builds a constant leaf from an already-constructed operand.
func NewConst(span BaseNode, value operand.Operand) *ConstNode {
	return &ConstNode{BaseNode: span, Value: value}
}

func (n *ConstNode) StaticKind() operand.Kind { return n.Value.Kind() }

func (n *ConstNode) Eval(map[string]operand.Operand) (operand.Operand, error) {
	return n.Value, nil
}

// IsConst reports whether n is a ConstNode. Used by Precompile, which folds
// bottom-up, so a subtree without Variable descendants has already become a
// ConstNode by the time its parent asks.
func IsConst(n Node) bool {
	_, ok := n.(*ConstNode)
	return ok
}

// VariableNode is a reference resolved against the variable bag at Eval
// time rather than carrying its own value (spec.md §3, §6).
type VariableNode struct {
	BaseNode
	Name    string
	VarKind operand.Kind
}

func NewVariable(span BaseNode, name string, kind operand.Kind) *VariableNode {
	return &VariableNode{BaseNode: span, Name: name, VarKind: kind}
}

func (n *VariableNode) StaticKind() operand.Kind { return n.VarKind }

func (n *VariableNode) Eval(vars map[string]operand.Operand) (operand.Operand, error) {
	v, ok := vars[n.Name]
	if !ok {
		return nil, &NameError{Name: n.Name}
	}
	return v, nil
}
