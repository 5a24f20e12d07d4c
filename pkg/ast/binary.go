package ast

import (
	"fmt"
	"math"

	"github.com/perbu/scpl/pkg/operand"
	"github.com/perbu/scpl/pkg/operators"
)

// BinaryNode is a two-operand operator application. By the time one is
// constructed, the resolver has already inserted whatever CastNodes make
// Left and Right's static kinds exactly what Op expects — Eval never needs
// to branch on which concrete combination of types it got.
type BinaryNode struct {
	BaseNode
	Op         operators.Identity
	Left       Node
	Right      Node
	ResultKind operand.Kind
}

func NewBinary(span BaseNode, op operators.Identity, left, right Node, result operand.Kind) *BinaryNode {
	return &BinaryNode{BaseNode: span, Op: op, Left: left, Right: right, ResultKind: result}
}

func (n *BinaryNode) StaticKind() operand.Kind { return n.ResultKind }

func (n *BinaryNode) Eval(vars map[string]operand.Operand) (operand.Operand, error) {
	l, err := n.Left.Eval(vars)
	if err != nil {
		return nil, err
	}
	r, err := n.Right.Eval(vars)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case operators.Or:
		lb, rb := l.(operand.Bool), r.(operand.Bool)
		return operand.Bool(lb || rb), nil
	case operators.And:
		lb, rb := l.(operand.Bool), r.(operand.Bool)
		return operand.Bool(lb && rb), nil
	case operators.Eq:
		return operand.Bool(l.Equal(r)), nil
	case operators.Neq:
		return operand.Bool(!l.Equal(r)), nil
	case operators.Lt:
		return numericCompare(l, r, func(a, b float64) bool { return a < b })
	case operators.Gt:
		return numericCompare(l, r, func(a, b float64) bool { return a > b })
	case operators.In:
		return evalIn(l, r)
	case operators.Match:
		return evalMatch(l, r)
	case operators.BitOr:
		return operand.Integer(int64(l.(operand.Integer)) | int64(r.(operand.Integer))), nil
	case operators.BitXor:
		return operand.Integer(int64(l.(operand.Integer)) ^ int64(r.(operand.Integer))), nil
	case operators.BitAnd:
		return operand.Integer(int64(l.(operand.Integer)) & int64(r.(operand.Integer))), nil
	case operators.Shl:
		return operand.Integer(int64(l.(operand.Integer)) << uint(r.(operand.Integer))), nil
	case operators.Shr:
		return operand.Integer(int64(l.(operand.Integer)) >> uint(r.(operand.Integer))), nil
	case operators.Add:
		return evalAdd(l, r)
	case operators.Sub:
		return numericArith(l, r, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case operators.Mul:
		return numericArith(l, r, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	case operators.Div:
		lf, ok1 := l.(operand.Float)
		rf, ok2 := r.(operand.Float)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("Div: expected Float operands, got %s/%s", l.Kind(), r.Kind())
		}
		return lf / rf, nil
	case operators.Mod:
		lf, ok1 := l.(operand.Float)
		rf, ok2 := r.(operand.Float)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("Mod: expected Float operands, got %s/%s", l.Kind(), r.Kind())
		}
		return operand.Float(math.Mod(float64(lf), float64(rf))), nil
	case operators.Pow:
		return evalPow(l, r)
	default:
		return nil, fmt.Errorf("binary op %s has no evaluator", n.Op)
	}
}

func numericArith(l, r operand.Operand, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) (operand.Operand, error) {
	if li, ok := l.(operand.Integer); ok {
		ri, ok := r.(operand.Integer)
		if !ok {
			return nil, fmt.Errorf("mixed operand kinds %s/%s", l.Kind(), r.Kind())
		}
		return operand.Integer(intOp(int64(li), int64(ri))), nil
	}
	lf, ok := l.(operand.Float)
	if !ok {
		return nil, fmt.Errorf("unsupported operand kind %s", l.Kind())
	}
	rf, ok := r.(operand.Float)
	if !ok {
		return nil, fmt.Errorf("mixed operand kinds %s/%s", l.Kind(), r.Kind())
	}
	return operand.Float(floatOp(float64(lf), float64(rf))), nil
}

func numericCompare(l, r operand.Operand, cmp func(a, b float64) bool) (operand.Operand, error) {
	lf, err := asFloat(l)
	if err != nil {
		return nil, err
	}
	rf, err := asFloat(r)
	if err != nil {
		return nil, err
	}
	return operand.Bool(cmp(lf, rf)), nil
}

func asFloat(v operand.Operand) (float64, error) {
	switch x := v.(type) {
	case operand.Integer:
		return float64(x), nil
	case operand.Float:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("expected a numeric operand, got %s", v.Kind())
	}
}

func evalAdd(l, r operand.Operand) (operand.Operand, error) {
	if li, ok := l.(operand.Integer); ok {
		ri, ok := r.(operand.Integer)
		if !ok {
			return nil, fmt.Errorf("mixed operand kinds %s/%s", l.Kind(), r.Kind())
		}
		return li + ri, nil
	}
	if lf, ok := l.(operand.Float); ok {
		rf, ok := r.(operand.Float)
		if !ok {
			return nil, fmt.Errorf("mixed operand kinds %s/%s", l.Kind(), r.Kind())
		}
		return lf + rf, nil
	}
	if ls, ok := l.(operand.String); ok {
		rs, ok := r.(operand.String)
		if !ok {
			return nil, fmt.Errorf("mixed operand kinds %s/%s", l.Kind(), r.Kind())
		}
		return operand.NewComputedString(ls.Value + rs.Value), nil
	}
	if lre, ok := l.(operand.Regex); ok {
		rre, ok := r.(operand.Regex)
		if !ok {
			return nil, fmt.Errorf("mixed operand kinds %s/%s", l.Kind(), r.Kind())
		}
		return operand.NewRegexFromSource(lre.CompiledSource()+rre.CompiledSource(), lre.Expected && rre.Expected)
	}
	return nil, fmt.Errorf("unsupported operand kind %s for +", l.Kind())
}

func evalPow(l, r operand.Operand) (operand.Operand, error) {
	if li, ok := l.(operand.Integer); ok {
		ri, ok := r.(operand.Integer)
		if !ok {
			return nil, fmt.Errorf("mixed operand kinds %s/%s", l.Kind(), r.Kind())
		}
		var acc int64 = 1
		for i := int64(0); i < int64(ri); i++ {
			acc *= int64(li)
		}
		return operand.Integer(acc), nil
	}
	lf, ok := l.(operand.Float)
	if !ok {
		return nil, fmt.Errorf("unsupported operand kind %s for **", l.Kind())
	}
	rf, ok := r.(operand.Float)
	if !ok {
		return nil, fmt.Errorf("mixed operand kinds %s/%s", l.Kind(), r.Kind())
	}
	return operand.Float(math.Pow(float64(lf), float64(rf))), nil
}

func evalIn(l, r operand.Operand) (operand.Operand, error) {
	switch right := r.(type) {
	case operand.CIDRv4:
		left, ok := l.(operand.IPv4)
		if !ok {
			return nil, fmt.Errorf("in: left operand must be IPv4, got %s", l.Kind())
		}
		return operand.Bool(right.Contains(left.Addr)), nil
	case operand.CIDRv6:
		left, ok := l.(operand.IPv6)
		if !ok {
			return nil, fmt.Errorf("in: left operand must be IPv6, got %s", l.Kind())
		}
		return operand.Bool(right.Contains(left.Addr)), nil
	case operand.Set:
		left, ok := l.(operand.HashableElem)
		if !ok {
			return nil, fmt.Errorf("in: %s cannot be a set element", l.Kind())
		}
		return operand.Bool(right.Contains(left)), nil
	case operand.String:
		left, ok := l.(operand.String)
		if !ok {
			return nil, fmt.Errorf("in: left operand must be String, got %s", l.Kind())
		}
		return operand.Bool(containsSubstring(right.Value, left.Value)), nil
	default:
		return nil, fmt.Errorf("in: unsupported right operand kind %s", r.Kind())
	}
}

func containsSubstring(haystack, needle string) bool {
	return len(needle) == 0 || indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	n, m := len(haystack), len(needle)
	for i := 0; i+m <= n; i++ {
		if haystack[i:i+m] == needle {
			return i
		}
	}
	return -1
}

func evalMatch(l, r operand.Operand) (operand.Operand, error) {
	left, ok := l.(operand.String)
	if !ok {
		return nil, fmt.Errorf("=~: left operand must be String, got %s", l.Kind())
	}
	right, ok := r.(operand.Regex)
	if !ok {
		return nil, fmt.Errorf("=~: right operand must be Regex, got %s", r.Kind())
	}
	if right.Expected {
		return operand.NewComputedString(right.Compiled().FindString(left.Value)), nil
	}
	return operand.Bool(!right.Compiled().MatchString(left.Value)), nil
}
