package operators

import "testing"

func TestBinaryOperatorResolution(t *testing.T) {
	cases := map[string]Identity{
		"||": Or, "&&": And, "==": Eq, "!=": Neq, "<": Lt, ">": Gt,
		"=~": Match, "|": BitOr, "^": BitXor, "&": BitAnd,
		"<<": Shl, ">>": Shr, "+": Add, "-": Sub, "*": Mul, "/": Div, "%": Mod, "**": Pow,
	}
	for sym, want := range cases {
		got, ok := BinaryOperator(sym)
		if !ok || got != want {
			t.Errorf("BinaryOperator(%q) = %v, %v; want %v, true", sym, got, ok, want)
		}
	}
	if _, ok := BinaryOperator("in"); ok {
		t.Error(`BinaryOperator("in") should not resolve; "in" is promoted by the parser`)
	}
}

func TestUnaryOperatorResolution(t *testing.T) {
	cases := map[string]Identity{"!": Not, "+": Pos, "-": Neg, "~": Complement}
	for sym, want := range cases {
		got, ok := UnaryOperator(sym)
		if !ok || got != want {
			t.Errorf("UnaryOperator(%q) = %v, %v; want %v, true", sym, got, ok, want)
		}
	}
}

// TestPrecedenceLadder verifies the exact 12-level ladder spec.md fixes:
// || < && < (compare) < | < ^ < & < shift < +- < */ < ** < unary < ~.
func TestPrecedenceLadder(t *testing.T) {
	ladder := []Identity{Or, And, Eq, BitOr, BitXor, BitAnd, Shl, Add, Mul, Pow, Not, Complement}
	for i := 1; i < len(ladder); i++ {
		if Weight(ladder[i-1]) >= Weight(ladder[i]) {
			t.Errorf("Weight(%s)=%d should be < Weight(%s)=%d",
				ladder[i-1], Weight(ladder[i-1]), ladder[i], Weight(ladder[i]))
		}
	}
}

func TestCompareOperatorsShareWeight(t *testing.T) {
	group := []Identity{Eq, Neq, Lt, Gt, In, Match}
	for _, id := range group[1:] {
		if Weight(id) != Weight(group[0]) {
			t.Errorf("Weight(%s) = %d, want %d (same level as %s)", id, Weight(id), Weight(group[0]), group[0])
		}
	}
}

func TestAssociativity(t *testing.T) {
	if AssociativityOf(Add) != Left {
		t.Error("+ should be left-associative")
	}
	if AssociativityOf(Pow) != Right {
		t.Error("** should be right-associative")
	}
}

func TestCommaSymbol(t *testing.T) {
	if !IsOperatorSymbol(CommaSymbol) {
		t.Error("CommaSymbol should be a recognized complete operator symbol")
	}
	if !PrefixOfSymbol(",") {
		t.Error(`"," should be a prefix of CommaSymbol`)
	}
	if !IsOperatorChar(',') {
		t.Error("',' should be an operator leading character")
	}
}

func TestLongestOperatorMatch(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"**2", "**"},
		{"*2", "*"},
		{"<<1", "<<"},
		{"<1", "<"},
		{"=~x", "=~"},
		{",", ""},
		{"?", ""},
	}
	for _, c := range cases {
		if got := LongestOperatorMatch(c.in); got != c.want {
			t.Errorf("LongestOperatorMatch(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
