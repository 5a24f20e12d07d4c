package parser_test

import (
	"testing"

	"github.com/perbu/scpl/pkg/ast"
	"github.com/perbu/scpl/pkg/lexer"
	"github.com/perbu/scpl/pkg/operand"
	"github.com/perbu/scpl/pkg/parser"
)

func parseOne(t *testing.T, expr string, env operand.Env) ast.Node {
	t.Helper()
	tokens, err := lexer.Tokenise(expr)
	if err != nil {
		t.Fatalf("Tokenise(%q): %v", expr, err)
	}
	atoms, _, err := parser.Parse(tokens, env)
	if err != nil {
		t.Fatalf("Parse(%q): %v", expr, err)
	}
	if len(atoms) != 1 {
		t.Fatalf("Parse(%q): want 1 atom, got %d", expr, len(atoms))
	}
	return atoms[0]
}

func evalBool(t *testing.T, expr string, env operand.Env, vars map[string]operand.Operand) bool {
	t.Helper()
	node := parseOne(t, expr, env)
	result, err := node.Eval(vars)
	if err != nil {
		t.Fatalf("Eval(%q): %v", expr, err)
	}
	b, ok := result.(operand.Bool)
	if !ok {
		t.Fatalf("Eval(%q) = %T, want Bool", expr, result)
	}
	return bool(b)
}

func TestOperatorPrecedenceAdjacentPairs(t *testing.T) {
	// Adjacent pairs from the low end of the ladder (|| up to ^): the
	// tighter-binding operator must win when sandwiched between two operands
	// of the looser one.
	cases := []struct {
		expr string
		want bool
	}{
		{"false || true && false", false},           // && binds tighter than ||
		{"1 == 1 && 2 == 2", true},                   // compare tighter than &&
		{"1 | 2 == 3", true},                         // | binds tighter than ==: (1 | 2) == 3
		{"1 ^ 1 | 1 == 1", true},                     // ^ binds tighter than |: ((1 ^ 1) | 1) == 1
	}
	for _, c := range cases {
		if got := evalBool(t, c.expr, nil, nil); got != c.want {
			t.Errorf("%s = %v, want %v", c.expr, got, c.want)
		}
	}
}

func TestPowRightAssociative(t *testing.T) {
	node := parseOne(t, "2 ** 3 ** 2", nil)
	result, err := node.Eval(nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	// Right-assoc: 2 ** (3 ** 2) = 2 ** 9 = 512, not (2**3)**2 = 64.
	if result.(operand.Integer) != 512 {
		t.Errorf("2 ** 3 ** 2 = %v, want 512", result)
	}
}

func TestUnaryVsBinaryMinusDisambiguation(t *testing.T) {
	node := parseOne(t, "1 - -2", nil)
	result, err := node.Eval(nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result.(operand.Integer) != 3 {
		t.Errorf("1 - -2 = %v, want 3", result)
	}
}

func TestDoubleNegationCollapses(t *testing.T) {
	node := parseOne(t, "- -5", nil)
	c, ok := node.(*ast.ConstNode)
	if !ok {
		t.Fatalf("got %T, want *ast.ConstNode (double negation should fold away)", node)
	}
	if c.Value.(operand.Integer) != 5 {
		t.Errorf("got %v, want 5", c.Value)
	}
}

func TestDoubleComplementCollapses(t *testing.T) {
	node := parseOne(t, "~~5", nil)
	c, ok := node.(*ast.ConstNode)
	if !ok {
		t.Fatalf("got %T, want *ast.ConstNode", node)
	}
	if c.Value.(operand.Integer) != 5 {
		t.Errorf("got %v, want 5", c.Value)
	}
}

func TestInAsVariableName(t *testing.T) {
	env := operand.Env{"in": operand.KindInteger}
	node := parseOne(t, "in + 1", env)
	result, err := node.Eval(map[string]operand.Operand{"in": operand.Integer(41)})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result.(operand.Integer) != 42 {
		t.Errorf("got %v, want 42 (\"in\" should resolve as a variable, not an operator, in operand position)", result)
	}
}

func TestInAsOperator(t *testing.T) {
	if !evalBool(t, `"ab" in "abc"`, nil, nil) {
		t.Error(`"ab" in "abc" should be true`)
	}
}

func TestSetLiteralParsing(t *testing.T) {
	node := parseOne(t, "{1, 2, 3}", nil)
	c, ok := node.(*ast.ConstNode)
	if !ok {
		t.Fatalf("got %T, want *ast.ConstNode", node)
	}
	set, ok := c.Value.(operand.Set)
	if !ok {
		t.Fatalf("got %T, want operand.Set", c.Value)
	}
	if set.Len() != 3 {
		t.Errorf("set length = %d, want 3", set.Len())
	}
}

func TestSetHeterogeneityParseError(t *testing.T) {
	tokens, err := lexer.Tokenise("{1, 1.0}")
	if err != nil {
		t.Fatalf("Tokenise: %v", err)
	}
	_, _, err = parser.Parse(tokens, nil)
	if err == nil {
		t.Fatal("expected a type error for a heterogeneous set")
	}
	if _, ok := err.(*parser.TypeError); !ok {
		t.Errorf("got %T, want *parser.TypeError", err)
	}
}

func TestSetRejectsBoolElements(t *testing.T) {
	tokens, err := lexer.Tokenise("{true, false}")
	if err != nil {
		t.Fatalf("Tokenise: %v", err)
	}
	_, _, err = parser.Parse(tokens, nil)
	if err == nil {
		t.Fatal("expected an error: Bool cannot be a set element")
	}
}

func TestInAgainstSetRejectsBoolLeftOperand(t *testing.T) {
	env := operand.Env{"b": operand.KindBool}
	tokens, err := lexer.Tokenise("b in {1, 2}")
	if err != nil {
		t.Fatalf("Tokenise: %v", err)
	}
	_, _, err = parser.Parse(tokens, env)
	if err == nil {
		t.Fatal("expected an error: Bool cannot be tested against a Set")
	}
}

func TestSetWithVariableElementIsRejected(t *testing.T) {
	env := operand.Env{"a": operand.KindInteger}
	tokens, err := lexer.Tokenise("{a, 2}")
	if err != nil {
		t.Fatalf("Tokenise: %v", err)
	}
	_, _, err = parser.Parse(tokens, env)
	if err == nil {
		t.Fatal("expected an error: set elements must be constant")
	}
}

func TestGroupingParentheses(t *testing.T) {
	node := parseOne(t, "(1 + 2) * 3", nil)
	result, err := node.Eval(nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result.(operand.Integer) != 9 {
		t.Errorf("got %v, want 9", result)
	}
}

func TestMismatchedScopeTerminator(t *testing.T) {
	tokens, err := lexer.Tokenise("(1 + 2}")
	if err != nil {
		t.Fatalf("Tokenise: %v", err)
	}
	_, _, err = parser.Parse(tokens, nil)
	if err == nil {
		t.Fatal("expected a parse error for a mismatched scope terminator")
	}
	if _, ok := err.(*parser.Error); !ok {
		t.Errorf("got %T, want *parser.Error", err)
	}
}

func TestUnclosedScope(t *testing.T) {
	tokens, err := lexer.Tokenise("(1 + 2")
	if err != nil {
		t.Fatalf("Tokenise: %v", err)
	}
	_, _, err = parser.Parse(tokens, nil)
	if err == nil {
		t.Fatal("expected a parse error for an unclosed scope")
	}
}

func TestReservedListScope(t *testing.T) {
	tokens, err := lexer.Tokenise("[1, 2]")
	if err != nil {
		t.Fatalf("Tokenise: %v", err)
	}
	_, _, err = parser.Parse(tokens, nil)
	if err == nil {
		t.Fatal("expected a parse error: '[' scope is reserved")
	}
}

func TestUnknownVariableError(t *testing.T) {
	tokens, err := lexer.Tokenise("nosuchvar + 1")
	if err != nil {
		t.Fatalf("Tokenise: %v", err)
	}
	_, _, err = parser.Parse(tokens, nil)
	if err == nil {
		t.Fatal("expected a parse error for an unknown variable")
	}
}

func TestDivisionAlwaysFloat(t *testing.T) {
	node := parseOne(t, "4 / 2", nil)
	if node.StaticKind() != operand.KindFloat {
		t.Errorf("StaticKind() = %s, want Float (division always widens)", node.StaticKind())
	}
	result, err := node.Eval(nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result.(operand.Float) != 2.0 {
		t.Errorf("got %v, want 2.0", result)
	}
}

func TestPowNegativeExponentWidensToFloat(t *testing.T) {
	node := parseOne(t, "2 ** -1", nil)
	if node.StaticKind() != operand.KindFloat {
		t.Errorf("StaticKind() = %s, want Float (Int ** Negative(Int) widens)", node.StaticKind())
	}
	result, err := node.Eval(nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if result.(operand.Float) != 0.5 {
		t.Errorf("got %v, want 0.5", result)
	}
}

func TestBitwiseRequiresIntegerOperands(t *testing.T) {
	tokens, err := lexer.Tokenise(`1.0 & 2`)
	if err != nil {
		t.Fatalf("Tokenise: %v", err)
	}
	_, _, err = parser.Parse(tokens, nil)
	if err == nil {
		t.Fatal("expected a type error: bitwise operands must already be Integer")
	}
}

func TestEqualityRequiresMatchingKinds(t *testing.T) {
	tokens, err := lexer.Tokenise(`1 == "1"`)
	if err != nil {
		t.Fatalf("Tokenise: %v", err)
	}
	_, _, err = parser.Parse(tokens, nil)
	if err == nil {
		t.Fatal("expected a type error for Integer == String")
	}
}

func TestEqualityRestrictedToBoolIntegerString(t *testing.T) {
	// spec.md restricts == and != to same-type Bool/Integer/String pairs;
	// Float, IPv4, Regex, Set, CIDR all fall outside that, even when both
	// sides share a kind.
	cases := []string{
		`1.0 == 1.0`,
		`10.0.0.1 == 10.0.0.1`,
		`/a/ == /a/`,
	}
	for _, expr := range cases {
		tokens, err := lexer.Tokenise(expr)
		if err != nil {
			t.Fatalf("Tokenise(%q): %v", expr, err)
		}
		_, _, err = parser.Parse(tokens, nil)
		if err == nil {
			t.Fatalf("Parse(%q): expected a type error, == is restricted to Bool/Integer/String", expr)
		}
		if _, ok := err.(*parser.TypeError); !ok {
			t.Errorf("Parse(%q) err = %T, want *parser.TypeError", expr, err)
		}
	}
}

func TestEqualityAllowsBoolIntegerString(t *testing.T) {
	if !evalBool(t, "true == true", nil, nil) {
		t.Error("true == true should be true")
	}
	if !evalBool(t, "1 == 1", nil, nil) {
		t.Error("1 == 1 should be true")
	}
	if !evalBool(t, `"a" == "a"`, nil, nil) {
		t.Error(`"a" == "a" should be true`)
	}
}

func TestNotEqualSynthesizedFromEqual(t *testing.T) {
	if !evalBool(t, "1 != 2", nil, nil) {
		t.Error("1 != 2 should be true")
	}
	if evalBool(t, "1 != 1", nil, nil) {
		t.Error("1 != 1 should be false")
	}
}

func TestComplementRegexCannotConcatenate(t *testing.T) {
	tokens, err := lexer.Tokenise(`~/a/ + /b/`)
	if err != nil {
		t.Fatalf("Tokenise: %v", err)
	}
	_, _, err = parser.Parse(tokens, nil)
	if err == nil {
		t.Fatal("expected a type error: complement regex cannot be concatenated")
	}
}

func TestDependencySet(t *testing.T) {
	env := operand.Env{"a": operand.KindInteger, "b": operand.KindInteger}
	tokens, err := lexer.Tokenise("a + b + a")
	if err != nil {
		t.Fatalf("Tokenise: %v", err)
	}
	_, deps, err := parser.Parse(tokens, env)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(deps) != 2 || !deps["a"] || !deps["b"] {
		t.Errorf("deps = %v, want {a, b}", deps)
	}
}
