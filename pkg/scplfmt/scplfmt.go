// Package scplfmt renders tokens, AST nodes and errors for the CLI
// front-ends: ANSI-colored when stdout is a terminal, plain text otherwise,
// following the teacher's pkg/formatter conventions.
package scplfmt

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/perbu/scpl/pkg/ast"
	"github.com/perbu/scpl/pkg/operators"
	"github.com/perbu/scpl/pkg/token"
)

// ANSI color codes, named the way the teacher's formatter names them.
const (
	ColorReset  = "\033[0m"
	ColorGreen  = "\033[32m"
	ColorGray   = "\033[90m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

// ShouldUseColor reports whether stdout is a terminal (not piped to a file
// or another program), honoring NO_COLOR.
func ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func colorFor(k token.Kind) string {
	switch k {
	case token.Word:
		return ColorCyan
	case token.Number, token.Hex, token.Duration:
		return ColorYellow
	case token.String, token.Regex:
		return ColorGreen
	case token.Scope, token.Operator:
		return ColorBold
	case token.IPv4, token.IPv6:
		return ColorYellow
	default:
		return ""
	}
}

// Tokens renders a token sequence one per line as `Kind("text")@index`,
// color-coded by kind when useColor is set.
func Tokens(tokens []token.Token, useColor bool) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.Kind.Transparent() {
			continue
		}
		if useColor {
			fmt.Fprintf(&b, "%s%s%s\n", colorFor(t.Kind), t.String(), ColorReset)
		} else {
			fmt.Fprintf(&b, "%s\n", t.String())
		}
	}
	return b.String()
}

// SourceError renders a source line with a caret under the character at
// index, mirroring the teacher's DetailedError.Error() layout but for a
// single-line expression rather than a multi-line VCL file.
func SourceError(source string, index int, message string, useColor bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", source)
	caret := strings.Repeat(" ", clampIndex(index, len(source))) + "^"
	if useColor {
		fmt.Fprintf(&b, "%s%s%s\n", ColorRed, caret, ColorReset)
		fmt.Fprintf(&b, "%serror:%s %s\n", ColorRed, ColorReset, message)
	} else {
		fmt.Fprintf(&b, "%s\n", caret)
		fmt.Fprintf(&b, "error: %s\n", message)
	}
	return b.String()
}

func clampIndex(index, max int) int {
	if index < 0 {
		return 0
	}
	if index > max {
		return max
	}
	return index
}

// AST renders node as a parenthesized, indented tree for the parse
// subcommand.
func AST(node ast.Node, useColor bool) string {
	var b strings.Builder
	writeNode(&b, node, 0, useColor)
	return b.String()
}

func writeNode(b *strings.Builder, n ast.Node, depth int, useColor bool) {
	indent := strings.Repeat("  ", depth)
	label, children := describe(n)
	if useColor {
		fmt.Fprintf(b, "%s%s%s%s (%s)\n", indent, ColorBold, label, ColorReset, n.StaticKind())
	} else {
		fmt.Fprintf(b, "%s%s (%s)\n", indent, label, n.StaticKind())
	}
	for _, c := range children {
		writeNode(b, c, depth+1, useColor)
	}
}

func describe(n ast.Node) (string, []ast.Node) {
	switch v := n.(type) {
	case *ast.ConstNode:
		return v.Value.String(), nil
	case *ast.VariableNode:
		return "$" + v.Name, nil
	case *ast.UnaryNode:
		return opLabel(v.Op), []ast.Node{v.Child}
	case *ast.BinaryNode:
		return opLabel(v.Op), []ast.Node{v.Left, v.Right}
	case *ast.CastNode:
		return castLabel(v.Cast), []ast.Node{v.Child}
	default:
		return "?", nil
	}
}

var opNames = map[operators.Identity]string{
	operators.Or: "Or", operators.And: "And", operators.Eq: "Eq", operators.Neq: "Neq",
	operators.Lt: "Lt", operators.Gt: "Gt", operators.In: "In", operators.Match: "Match",
	operators.BitOr: "BitOr", operators.BitXor: "BitXor", operators.BitAnd: "BitAnd",
	operators.Shl: "Shl", operators.Shr: "Shr", operators.Add: "Add", operators.Sub: "Sub",
	operators.Mul: "Mul", operators.Div: "Div", operators.Mod: "Mod", operators.Pow: "Pow",
	operators.Not: "Not", operators.Pos: "Pos", operators.Neg: "Neg", operators.Complement: "Complement",
}

// opLabel names an operator node by its identity ("Add", "Neg"), the way
// castLabel names cast nodes.
func opLabel(id operators.Identity) string {
	if name, ok := opNames[id]; ok {
		return name
	}
	return id.String()
}

func castLabel(c ast.CastKind) string {
	switch c {
	case ast.CastIntegerFloat:
		return "CastIntegerFloat"
	case ast.CastStringRegex:
		return "CastStringRegex"
	case ast.CastStringBool:
		return "CastStringBool"
	case ast.CastIntegerBool:
		return "CastIntegerBool"
	case ast.CastFloatBool:
		return "CastFloatBool"
	case ast.CastRegexBool:
		return "CastRegexBool"
	case ast.CastHash:
		return "CastHash"
	default:
		return "Cast(" + strconv.Itoa(int(c)) + ")"
	}
}

// Deps renders a dependency set as a sorted, comma-joined list.
func Deps(deps map[string]bool) string {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return strings.Join(names, ", ")
}
