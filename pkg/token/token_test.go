package token

import "testing"

func TestKindString(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{Space, "Space"},
		{Word, "Word"},
		{Number, "Number"},
		{Hex, "Hex"},
		{Duration, "Duration"},
		{String, "String"},
		{Regex, "Regex"},
		{Scope, "Scope"},
		{Operator, "Operator"},
		{IPv4, "IPv4"},
		{IPv6, "IPv6"},
		{Kind(99), "Kind(99)"},
	}
	for _, c := range cases {
		if got := c.kind.String(); got != c.want {
			t.Errorf("Kind(%d).String() = %q, want %q", c.kind, got, c.want)
		}
	}
}

func TestTransparent(t *testing.T) {
	if !Space.Transparent() {
		t.Error("Space should be transparent")
	}
	for _, k := range []Kind{Word, Number, Hex, Duration, String, Regex, Scope, Operator, IPv4, IPv6} {
		if k.Transparent() {
			t.Errorf("%s should not be transparent", k)
		}
	}
}

func TestTokenString(t *testing.T) {
	tok := Token{Kind: Number, Text: "42", Index: 3}
	want := `Number("42")@3`
	if got := tok.String(); got != want {
		t.Errorf("Token.String() = %q, want %q", got, want)
	}
}
