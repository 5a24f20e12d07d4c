package parser

import (
	"fmt"

	"github.com/perbu/scpl/pkg/ast"
	"github.com/perbu/scpl/pkg/operand"
	"github.com/perbu/scpl/pkg/operators"
	"github.com/perbu/scpl/pkg/token"
)

// resolveBinary receives the operator popped by the shunting yard and its
// two operand nodes, and returns a specialized, fully cast AST node, or a
// *TypeError if no specialization in spec.md §4.E's compatibility matrix
// accepts this pair of static kinds.
func resolveBinary(op operators.Identity, opTok token.Token, left, right ast.Node) (ast.Node, error) {
	span := ast.Span(left.Start(), right.End())

	switch op {
	case operators.Or, operators.And:
		l, err := castToBool(left)
		if err != nil {
			return nil, &TypeError{Token: opTok, Message: err.Error()}
		}
		r, err := castToBool(right)
		if err != nil {
			return nil, &TypeError{Token: opTok, Message: err.Error()}
		}
		return ast.NewBinary(span, op, l, r, operand.KindBool), nil

	case operators.Eq:
		if !isEqualityComparable(left.StaticKind()) {
			return nil, &TypeError{Token: opTok, Message: fmt.Sprintf(
				"==: unsupported operand kind %s (only Bool, Integer, String)", left.StaticKind())}
		}
		if left.StaticKind() != right.StaticKind() {
			return nil, &TypeError{Token: opTok, Message: fmt.Sprintf(
				"==: mismatched operand kinds %s/%s", left.StaticKind(), right.StaticKind())}
		}
		return ast.NewBinary(span, operators.Eq, left, right, operand.KindBool), nil

	case operators.Neq:
		// != is synthesized as !(==) (spec.md §4.E).
		eq, err := resolveBinary(operators.Eq, opTok, left, right)
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(span, operators.Not, eq, operand.KindBool), nil

	case operators.Lt, operators.Gt:
		l, r, _, err := promoteNumeric(left, right)
		if err != nil {
			return nil, &TypeError{Token: opTok, Message: err.Error()}
		}
		return ast.NewBinary(span, op, l, r, operand.KindBool), nil

	case operators.In:
		return resolveIn(opTok, left, right)

	case operators.Match:
		return resolveMatch(opTok, left, right)

	case operators.BitOr, operators.BitXor, operators.BitAnd, operators.Shl, operators.Shr:
		if left.StaticKind() != operand.KindInteger || right.StaticKind() != operand.KindInteger {
			return nil, &TypeError{Token: opTok, Message: fmt.Sprintf(
				"%s: expected Integer operands, got %s/%s", op, left.StaticKind(), right.StaticKind())}
		}
		return ast.NewBinary(span, op, left, right, operand.KindInteger), nil

	case operators.Add:
		return resolveAdd(opTok, left, right)

	case operators.Sub, operators.Mul:
		l, r, kind, err := promoteNumeric(left, right)
		if err != nil {
			return nil, &TypeError{Token: opTok, Message: err.Error()}
		}
		return ast.NewBinary(span, op, l, r, kind), nil

	case operators.Div, operators.Mod:
		// / and % always yield Float, even for (Int, Int) (spec.md §4.E).
		l, r, err := forceFloat(left, right)
		if err != nil {
			return nil, &TypeError{Token: opTok, Message: err.Error()}
		}
		return ast.NewBinary(span, op, l, r, operand.KindFloat), nil

	case operators.Pow:
		return resolvePow(opTok, left, right)

	default:
		return nil, &TypeError{Token: opTok, Message: "invalid operands for operator"}
	}
}

// resolveUnary is the unary counterpart of resolveBinary.
func resolveUnary(op operators.Identity, opTok token.Token, child ast.Node) (ast.Node, error) {
	span := ast.Span(opTok.Index, child.End())

	switch op {
	case operators.Not:
		c, err := castToBool(child)
		if err != nil {
			return nil, &TypeError{Token: opTok, Message: err.Error()}
		}
		return ast.NewUnary(span, operators.Not, c, operand.KindBool), nil

	case operators.Pos:
		switch child.StaticKind() {
		case operand.KindInteger, operand.KindFloat:
			return ast.NewUnary(span, operators.Pos, child, child.StaticKind()), nil
		default:
			return nil, &TypeError{Token: opTok, Message: fmt.Sprintf(
				"unary +: expected numeric operand, got %s", child.StaticKind())}
		}

	case operators.Neg:
		switch child.StaticKind() {
		case operand.KindInteger, operand.KindFloat:
			// Double negation collapses to the original node (spec.md §8).
			if u, ok := child.(*ast.UnaryNode); ok && u.Op == operators.Neg {
				return u.Child, nil
			}
			return ast.NewUnary(span, operators.Neg, child, child.StaticKind()), nil
		default:
			return nil, &TypeError{Token: opTok, Message: fmt.Sprintf(
				"unary -: expected numeric operand, got %s", child.StaticKind())}
		}

	case operators.Complement:
		switch child.StaticKind() {
		case operand.KindInteger, operand.KindRegex:
			// Double complement folds back to the original (spec.md §8).
			if u, ok := child.(*ast.UnaryNode); ok && u.Op == operators.Complement {
				return u.Child, nil
			}
			return ast.NewUnary(span, operators.Complement, child, child.StaticKind()), nil
		default:
			return nil, &TypeError{Token: opTok, Message: fmt.Sprintf(
				"unary ~: expected Integer or Regex, got %s", child.StaticKind())}
		}

	default:
		return nil, &TypeError{Token: opTok, Message: "invalid operands for operator"}
	}
}

func castIntToFloat(n ast.Node) ast.Node {
	return ast.NewCast(ast.Span(n.Start(), n.End()), ast.CastIntegerFloat, n, operand.KindFloat)
}

func castStringToRegex(n ast.Node) ast.Node {
	return ast.NewCast(ast.Span(n.Start(), n.End()), ast.CastStringRegex, n, operand.KindRegex)
}

// castToBool wraps n in whichever CastKind converts its static kind to
// Bool, or returns n unchanged if it already is one.
func castToBool(n ast.Node) (ast.Node, error) {
	switch n.StaticKind() {
	case operand.KindBool:
		return n, nil
	case operand.KindString:
		return ast.NewCast(ast.Span(n.Start(), n.End()), ast.CastStringBool, n, operand.KindBool), nil
	case operand.KindInteger:
		return ast.NewCast(ast.Span(n.Start(), n.End()), ast.CastIntegerBool, n, operand.KindBool), nil
	case operand.KindFloat:
		return ast.NewCast(ast.Span(n.Start(), n.End()), ast.CastFloatBool, n, operand.KindBool), nil
	case operand.KindRegex:
		return ast.NewCast(ast.Span(n.Start(), n.End()), ast.CastRegexBool, n, operand.KindBool), nil
	default:
		return nil, fmt.Errorf("cannot cast %s to Bool", n.StaticKind())
	}
}

// promoteNumeric widens Int/Float mismatches to Float, leaving a same-kind
// pair untouched. Returns the (possibly cast) pair and their common kind.
func promoteNumeric(left, right ast.Node) (ast.Node, ast.Node, operand.Kind, error) {
	lk, rk := left.StaticKind(), right.StaticKind()
	switch {
	case lk == operand.KindInteger && rk == operand.KindInteger:
		return left, right, operand.KindInteger, nil
	case lk == operand.KindFloat && rk == operand.KindFloat:
		return left, right, operand.KindFloat, nil
	case lk == operand.KindInteger && rk == operand.KindFloat:
		return castIntToFloat(left), right, operand.KindFloat, nil
	case lk == operand.KindFloat && rk == operand.KindInteger:
		return left, castIntToFloat(right), operand.KindFloat, nil
	default:
		return nil, nil, 0, fmt.Errorf("expected numeric operands, got %s/%s", lk, rk)
	}
}

// forceFloat casts both sides to Float unconditionally (used by / and %).
func forceFloat(left, right ast.Node) (ast.Node, ast.Node, error) {
	l, err := toFloat(left)
	if err != nil {
		return nil, nil, err
	}
	r, err := toFloat(right)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func toFloat(n ast.Node) (ast.Node, error) {
	switch n.StaticKind() {
	case operand.KindFloat:
		return n, nil
	case operand.KindInteger:
		return castIntToFloat(n), nil
	default:
		return nil, fmt.Errorf("expected a numeric operand, got %s", n.StaticKind())
	}
}

func resolveAdd(opTok token.Token, left, right ast.Node) (ast.Node, error) {
	span := ast.Span(left.Start(), right.End())
	lk, rk := left.StaticKind(), right.StaticKind()
	switch {
	case lk == operand.KindInteger && rk == operand.KindInteger:
		return ast.NewBinary(span, operators.Add, left, right, operand.KindInteger), nil
	case lk == operand.KindFloat && rk == operand.KindFloat:
		return ast.NewBinary(span, operators.Add, left, right, operand.KindFloat), nil
	case (lk == operand.KindInteger && rk == operand.KindFloat) || (lk == operand.KindFloat && rk == operand.KindInteger):
		l, r, _, err := promoteNumeric(left, right)
		if err != nil {
			return nil, &TypeError{Token: opTok, Message: err.Error()}
		}
		return ast.NewBinary(span, operators.Add, l, r, operand.KindFloat), nil
	case lk == operand.KindString && rk == operand.KindString:
		return ast.NewBinary(span, operators.Add, left, right, operand.KindString), nil
	case lk == operand.KindString && rk == operand.KindRegex:
		return ast.NewBinary(span, operators.Add, castStringToRegex(left), right, operand.KindRegex), nil
	case lk == operand.KindRegex && rk == operand.KindString:
		return ast.NewBinary(span, operators.Add, left, castStringToRegex(right), operand.KindRegex), nil
	case lk == operand.KindRegex && rk == operand.KindRegex:
		if !regexConcatenable(left) || !regexConcatenable(right) {
			return nil, &TypeError{Token: opTok, Message: "+: a complement regex cannot be concatenated"}
		}
		return ast.NewBinary(span, operators.Add, left, right, operand.KindRegex), nil
	default:
		return nil, &TypeError{Token: opTok, Message: fmt.Sprintf(
			"+: unsupported operand kinds %s/%s", lk, rk)}
	}
}

// regexConcatenable reports whether n is known, at parse time, not to be a
// complement regex. A ~ application is a complement regex. Any other
// non-literal node (e.g. a Variable) can't be checked statically, so it is
// assumed concatenable and left to eval-time failure.
func regexConcatenable(n ast.Node) bool {
	if u, ok := n.(*ast.UnaryNode); ok && u.Op == operators.Complement {
		return false
	}
	c, ok := n.(*ast.ConstNode)
	if !ok {
		return true
	}
	r, ok := c.Value.(operand.Regex)
	return !ok || r.Expected
}

func resolvePow(opTok token.Token, left, right ast.Node) (ast.Node, error) {
	span := ast.Span(left.Start(), right.End())
	lk, rk := left.StaticKind(), right.StaticKind()
	if lk != operand.KindInteger && lk != operand.KindFloat {
		return nil, &TypeError{Token: opTok, Message: fmt.Sprintf("**: expected numeric left operand, got %s", lk)}
	}
	if rk != operand.KindInteger && rk != operand.KindFloat {
		return nil, &TypeError{Token: opTok, Message: fmt.Sprintf("**: expected numeric right operand, got %s", rk)}
	}
	if lk == operand.KindInteger && rk == operand.KindInteger {
		if isSyntacticNegation(right) {
			// (Int, Negative(Int)) -> Float (spec.md §4.E).
			return ast.NewBinary(span, operators.Pow, castIntToFloat(left), castIntToFloat(right), operand.KindFloat), nil
		}
		return ast.NewBinary(span, operators.Pow, left, right, operand.KindInteger), nil
	}
	l, r, _, err := promoteNumeric(left, right)
	if err != nil {
		return nil, &TypeError{Token: opTok, Message: err.Error()}
	}
	return ast.NewBinary(span, operators.Pow, l, r, operand.KindFloat), nil
}

func isSyntacticNegation(n ast.Node) bool {
	u, ok := n.(*ast.UnaryNode)
	return ok && u.Op == operators.Neg
}

func resolveIn(opTok token.Token, left, right ast.Node) (ast.Node, error) {
	span := ast.Span(left.Start(), right.End())
	switch right.StaticKind() {
	case operand.KindCIDRv4:
		if left.StaticKind() != operand.KindIPv4 {
			return nil, &TypeError{Token: opTok, Message: fmt.Sprintf(
				"in: expected IPv4 left operand, got %s", left.StaticKind())}
		}
		return ast.NewBinary(span, operators.In, left, right, operand.KindBool), nil
	case operand.KindCIDRv6:
		if left.StaticKind() != operand.KindIPv6 {
			return nil, &TypeError{Token: opTok, Message: fmt.Sprintf(
				"in: expected IPv6 left operand, got %s", left.StaticKind())}
		}
		return ast.NewBinary(span, operators.In, left, right, operand.KindBool), nil
	case operand.KindString:
		if left.StaticKind() != operand.KindString {
			return nil, &TypeError{Token: opTok, Message: fmt.Sprintf(
				"in: expected String left operand, got %s", left.StaticKind())}
		}
		return ast.NewBinary(span, operators.In, left, right, operand.KindBool), nil
	case operand.KindSet:
		if !hashableKind(left.StaticKind()) {
			return nil, &TypeError{Token: opTok, Message: fmt.Sprintf(
				"in: %s cannot be a set element", left.StaticKind())}
		}
		hashed := ast.NewCast(ast.Span(left.Start(), left.End()), ast.CastHash, left, left.StaticKind())
		return ast.NewBinary(span, operators.In, hashed, right, operand.KindBool), nil
	default:
		return nil, &TypeError{Token: opTok, Message: fmt.Sprintf(
			"in: unsupported right operand kind %s", right.StaticKind())}
	}
}

func hashableKind(k operand.Kind) bool {
	switch k {
	case operand.KindInteger, operand.KindFloat, operand.KindString, operand.KindIPv4, operand.KindIPv6:
		return true
	default:
		return false
	}
}

// isEqualityComparable reports whether k is one of the three kinds spec.md
// restricts == and != to (Bool, Integer, String) — unlike In's broader
// hashableKind, which also admits Float, IPv4 and IPv6.
func isEqualityComparable(k operand.Kind) bool {
	switch k {
	case operand.KindBool, operand.KindInteger, operand.KindString:
		return true
	default:
		return false
	}
}

func resolveMatch(opTok token.Token, left, right ast.Node) (ast.Node, error) {
	span := ast.Span(left.Start(), right.End())
	if left.StaticKind() != operand.KindString {
		return nil, &TypeError{Token: opTok, Message: fmt.Sprintf(
			"=~: expected String left operand, got %s", left.StaticKind())}
	}
	if right.StaticKind() != operand.KindRegex {
		return nil, &TypeError{Token: opTok, Message: fmt.Sprintf(
			"=~: expected Regex right operand, got %s", right.StaticKind())}
	}
	// The result kind depends on whether the regex is a complement; only
	// knowable statically when the right side is a literal or a ~
	// application (spec.md §4.E).
	result := operand.KindString
	if c, ok := right.(*ast.ConstNode); ok {
		if re, ok := c.Value.(operand.Regex); ok && !re.Expected {
			result = operand.KindBool
		}
	}
	if u, ok := right.(*ast.UnaryNode); ok && u.Op == operators.Complement {
		result = operand.KindBool
	}
	return ast.NewBinary(span, operators.Match, left, right, result), nil
}
