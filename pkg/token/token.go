// Package token defines the lexical token kinds produced by pkg/lexer and
// consumed by pkg/parser.
package token

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	// Space is a transparent token; the parser never inspects it.
	Space Kind = iota
	Word
	Number
	Hex
	Duration
	String
	Regex
	Scope
	Operator
	IPv4
	IPv6
)

func (k Kind) String() string {
	switch k {
	case Space:
		return "Space"
	case Word:
		return "Word"
	case Number:
		return "Number"
	case Hex:
		return "Hex"
	case Duration:
		return "Duration"
	case String:
		return "String"
	case Regex:
		return "Regex"
	case Scope:
		return "Scope"
	case Operator:
		return "Operator"
	case IPv4:
		return "IPv4"
	case IPv6:
		return "IPv6"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Transparent reports whether tokens of this kind are invisible to the parser.
func (k Kind) Transparent() bool {
	return k == Space
}

// Token is a single lexical unit: its kind, its exact source text, and the
// index (counted in runes) of its first character in the input.
type Token struct {
	Kind  Kind
	Text  string
	Index int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text, t.Index)
}
