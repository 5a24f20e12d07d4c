package ast

// Precompile walks n bottom-up and replaces any subtree whose children are
// all constants with a single ConstNode holding the evaluated value
// (spec.md §4.F). Variable nodes, and anything with a Variable descendant,
// are left untouched since their value isn't known until Eval is called
// with a variable bag.
func Precompile(n Node) Node {
	switch v := n.(type) {
	case *ConstNode:
		return v
	case *VariableNode:
		return v
	case *UnaryNode:
		v.Child = Precompile(v.Child)
		if IsConst(v.Child) {
			if val, err := v.Eval(nil); err == nil {
				return NewConst(Span(v.Start(), v.End()), val)
			}
		}
		return v
	case *BinaryNode:
		v.Left = Precompile(v.Left)
		v.Right = Precompile(v.Right)
		if IsConst(v.Left) && IsConst(v.Right) {
			if val, err := v.Eval(nil); err == nil {
				return NewConst(Span(v.Start(), v.End()), val)
			}
		}
		return v
	case *CastNode:
		v.Child = Precompile(v.Child)
		if IsConst(v.Child) {
			if val, err := v.Eval(nil); err == nil {
				return NewConst(Span(v.Start(), v.End()), val)
			}
		}
		return v
	default:
		return n
	}
}
