// Package parser turns a token sequence into a typed expression tree: a
// two-stack shunting yard (spec.md §4.D) that invokes the operator
// resolver (resolver.go) at every reduction, producing nodes whose static
// type is already fixed by the time the parse finishes.
package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/perbu/scpl/pkg/ast"
	"github.com/perbu/scpl/pkg/operand"
	"github.com/perbu/scpl/pkg/operators"
	"github.com/perbu/scpl/pkg/token"
)

// stackKind tags an entry on the operator stack: a real operator, or one of
// the two sentinels used only inside the parser (spec.md §4.A).
type stackKind int

const (
	opReal stackKind = iota
	opScope
	opComma
)

type opEntry struct {
	kind   stackKind
	id     operators.Identity // valid only when kind == opReal
	opener string              // valid only when kind == opScope
	tok    token.Token
}

type state struct {
	operands []ast.Node
	ops      []opEntry
	deps     map[string]bool
	env      operand.Env
}

// Parse consumes tokens (already produced by pkg/lexer) against env, the
// variable-type environment, and returns the unreduced top-level atoms
// (typically one) plus the set of variable names referenced anywhere in
// them (spec.md §4.D, §6).
func Parse(tokens []token.Token, env operand.Env) ([]ast.Node, map[string]bool, error) {
	s := &state{deps: map[string]bool{}, env: env}
	lastIsOperator := false

	for _, t := range tokens {
		if t.Kind.Transparent() {
			continue
		}

		switch {
		case t.Kind == token.Scope && isOpenBracket(t.Text):
			s.ops = append(s.ops, opEntry{kind: opScope, opener: t.Text, tok: t})
			lastIsOperator = true

		case t.Kind == token.Scope && isCloseBracket(t.Text):
			if err := s.closeScope(t); err != nil {
				return nil, nil, err
			}
			lastIsOperator = false

		case t.Kind == token.Operator && t.Text == operators.CommaSymbol:
			if err := s.comma(t); err != nil {
				return nil, nil, err
			}
			lastIsOperator = true

		case t.Kind == token.Operator:
			if err := s.pushOperator(t, lastIsOperator); err != nil {
				return nil, nil, err
			}
			lastIsOperator = true

		case t.Kind == token.Word && t.Text == operators.InKeyword && !lastIsOperator && len(s.operands) > 0:
			// "in" lexes as a plain Word; promoted to the In operator only
			// when a binary operator is syntactically expected here, so it
			// remains a legal variable name everywhere else.
			if err := s.pushOperator(t, lastIsOperator); err != nil {
				return nil, nil, err
			}
			lastIsOperator = true

		default:
			if !(lastIsOperator || len(s.operands) == 0) {
				return nil, nil, &Error{Token: t, Message: "missing operator"}
			}
			node, err := s.buildOperand(t)
			if err != nil {
				return nil, nil, err
			}
			if len(s.ops) > 0 && s.ops[len(s.ops)-1].kind == opScope {
				s.ops = append(s.ops, opEntry{kind: opComma, tok: t})
			}
			s.operands = append(s.operands, node)
			lastIsOperator = false
		}
	}

	for len(s.ops) > 0 {
		top := s.ops[len(s.ops)-1]
		switch top.kind {
		case opScope:
			return nil, nil, &Error{Token: top.tok, Message: "unclosed scope"}
		case opComma:
			return nil, nil, &Error{Token: top.tok, Message: "comma in root scope"}
		default:
			if err := s.popOperator(); err != nil {
				return nil, nil, err
			}
		}
	}

	return s.operands, s.deps, nil
}

func isOpenBracket(s string) bool  { return s == "(" || s == "[" || s == "{" }
func isCloseBracket(s string) bool { return s == ")" || s == "]" || s == "}" }

func matchingCloser(opener string) string {
	switch opener {
	case "(":
		return ")"
	case "[":
		return "]"
	case "{":
		return "}"
	}
	return ""
}

func tokenEnd(t token.Token) int { return t.Index + utf8.RuneCountInString(t.Text) }

// comma handles a literal "," separator between scope elements: it is only
// legal immediately after a completed element (top of the operator stack
// is a COMMA sentinel), and pushes a fresh COMMA sentinel marking the
// boundary with the next element (spec.md §4.D's "synthetic COMMA", here
// driven by the explicit separator rather than only the scope opener).
func (s *state) comma(t token.Token) error {
	if len(s.ops) == 0 || s.ops[len(s.ops)-1].kind != opComma {
		return &Error{Token: t, Message: "comma in root scope"}
	}
	s.ops = append(s.ops, opEntry{kind: opComma, tok: t})
	return nil
}

// pushOperator resolves t's surface text against the unary or binary table
// (picking the table per last_is_operator), then runs the shunting-yard
// pop rule before pushing the new operator (spec.md §4.D).
func (s *state) pushOperator(t token.Token, lastIsOperator bool) error {
	var id operators.Identity
	if lastIsOperator || len(s.operands) == 0 {
		found, ok := operators.UnaryOperator(t.Text)
		if !ok {
			return &Error{Token: t, Message: "invalid unary operator"}
		}
		id = found
	} else {
		found, ok := operators.BinaryOperator(t.Text)
		if !ok {
			if t.Text == operators.InKeyword {
				found = operators.In
			} else {
				return &Error{Token: t, Message: "invalid binary operator"}
			}
		}
		id = found
	}

	weight := operators.Weight(id)
	for len(s.ops) > 0 {
		head := s.ops[len(s.ops)-1]
		if head.kind != opReal {
			break
		}
		headWeight := operators.Weight(head.id)
		leftAssoc := operators.AssociativityOf(head.id) == operators.Left
		pops := (leftAssoc && headWeight >= weight) || (!leftAssoc && headWeight > weight)
		if !pops {
			break
		}
		if err := s.popOperator(); err != nil {
			return err
		}
	}

	s.ops = append(s.ops, opEntry{kind: opReal, id: id, tok: t})
	return nil
}

// popOperator reduces the top of the operator stack, invoking the resolver
// with the operands it consumes from the operand stack.
func (s *state) popOperator() error {
	top := s.ops[len(s.ops)-1]
	s.ops = s.ops[:len(s.ops)-1]

	if top.id.Unary() {
		if len(s.operands) < 1 {
			return &Error{Token: top.tok, Message: "missing unary operand"}
		}
		child := s.operands[len(s.operands)-1]
		s.operands = s.operands[:len(s.operands)-1]
		node, err := resolveUnary(top.id, top.tok, child)
		if err != nil {
			return err
		}
		s.operands = append(s.operands, node)
		return nil
	}

	if len(s.operands) < 2 {
		return &Error{Token: top.tok, Message: "missing binary operand"}
	}
	right := s.operands[len(s.operands)-1]
	left := s.operands[len(s.operands)-2]
	s.operands = s.operands[:len(s.operands)-2]
	node, err := resolveBinary(top.id, top.tok, left, right)
	if err != nil {
		return err
	}
	s.operands = append(s.operands, node)
	return nil
}

// closeScope pops operators until the matching SCOPE sentinel surfaces,
// collecting one operand per COMMA sentinel encountered along the way into
// scope_atoms (left-to-right order), then applies the opener's semantics
// (spec.md §4.D).
func (s *state) closeScope(closeTok token.Token) error {
	var atoms []ast.Node
	for {
		if len(s.ops) == 0 {
			return &Error{Token: closeTok, Message: "unexpected closing scope"}
		}
		top := s.ops[len(s.ops)-1]
		if top.kind == opScope {
			break
		}
		if top.kind == opComma {
			s.ops = s.ops[:len(s.ops)-1]
			if len(s.operands) == 0 {
				return &Error{Token: top.tok, Message: "missing binary operand"}
			}
			v := s.operands[len(s.operands)-1]
			s.operands = s.operands[:len(s.operands)-1]
			atoms = append(atoms, v)
			continue
		}
		if err := s.popOperator(); err != nil {
			return err
		}
	}

	scopeEntry := s.ops[len(s.ops)-1]
	s.ops = s.ops[:len(s.ops)-1]
	if matchingCloser(scopeEntry.opener) != closeTok.Text {
		return &Error{Token: scopeEntry.tok, Message: "mismatched scope terminator"}
	}

	for i, j := 0, len(atoms)-1; i < j; i, j = i+1, j-1 {
		atoms[i], atoms[j] = atoms[j], atoms[i]
	}

	switch scopeEntry.opener {
	case "(":
		s.operands = append(s.operands, atoms...)
		return nil
	case "{":
		set, err := buildSet(scopeEntry.tok, closeTok, atoms)
		if err != nil {
			return err
		}
		s.operands = append(s.operands, set)
		return nil
	case "[":
		return &Error{Token: scopeEntry.tok, Message: "'[' scope is reserved"}
	default:
		return &Error{Token: scopeEntry.tok, Message: "unknown scope opener"}
	}
}

// buildSet evaluates scope_atoms into a single constant Set node. Every
// atom must already be a literal constant: a hash-based set has to be
// materialized at parse time, which is only possible when every member's
// value is statically known.
func buildSet(openTok, closeTok token.Token, atoms []ast.Node) (ast.Node, error) {
	elems := make([]operand.HashableElem, 0, len(atoms))
	for _, a := range atoms {
		c, ok := a.(*ast.ConstNode)
		if !ok {
			return nil, &TypeError{Token: token.Token{Index: a.Start()}, Message: "set elements must be constant"}
		}
		h, ok := c.Value.(operand.HashableElem)
		if !ok {
			return nil, &TypeError{Token: token.Token{Index: a.Start()},
				Message: c.Value.Kind().String() + " cannot be a set element"}
		}
		elems = append(elems, h)
	}

	set, err := operand.NewSet(elems)
	if err != nil {
		if he, ok := err.(*operand.HeterogeneousError); ok {
			return nil, &TypeError{Token: token.Token{Index: atoms[he.Index].Start()}, Message: he.Error()}
		}
		return nil, &TypeError{Token: openTok, Message: err.Error()}
	}

	span := ast.Span(openTok.Index, tokenEnd(closeTok))
	return ast.NewConst(span, set), nil
}

// buildOperand constructs the literal or variable-reference AST node for a
// single operand-bearing token (spec.md §4.D).
func (s *state) buildOperand(t token.Token) (ast.Node, error) {
	span := ast.Span(t.Index, tokenEnd(t))

	switch t.Kind {
	case token.Word:
		switch t.Text {
		case "true":
			return ast.NewConst(span, operand.Bool(true)), nil
		case "false":
			return ast.NewConst(span, operand.Bool(false)), nil
		}
		kind, ok := s.env.Lookup(t.Text)
		if !ok {
			return nil, &Error{Token: t, Message: "unknown variable " + t.Text}
		}
		s.deps[t.Text] = true
		return ast.NewVariable(span, t.Text, kind), nil

	case token.Number:
		if strings.ContainsRune(t.Text, '.') {
			f, err := strconv.ParseFloat(t.Text, 64)
			if err != nil {
				return nil, &Error{Token: t, Message: err.Error()}
			}
			return ast.NewConst(span, operand.Float(f)), nil
		}
		i, err := strconv.ParseInt(t.Text, 10, 64)
		if err != nil {
			return nil, &Error{Token: t, Message: err.Error()}
		}
		return ast.NewConst(span, operand.Integer(i)), nil

	case token.Hex:
		i, err := strconv.ParseInt(t.Text[2:], 16, 64)
		if err != nil {
			return nil, &Error{Token: t, Message: err.Error()}
		}
		return ast.NewConst(span, operand.Integer(i)), nil

	case token.Duration:
		secs, err := parseDuration(t.Text)
		if err != nil {
			return nil, &Error{Token: t, Message: err.Error()}
		}
		return ast.NewConst(span, operand.Integer(secs)), nil

	case token.String:
		val, delim, err := parseStringLiteral(t.Text)
		if err != nil {
			return nil, &Error{Token: t, Message: err.Error()}
		}
		return ast.NewConst(span, operand.NewString(val, delim)), nil

	case token.Regex:
		pattern, flags, delim, err := parseRegexLiteral(t.Text)
		if err != nil {
			return nil, &Error{Token: t, Message: err.Error()}
		}
		re, err := operand.NewRegex(pattern, flags, delim, true, true)
		if err != nil {
			return nil, &Error{Token: t, Message: err.Error()}
		}
		return ast.NewConst(span, re), nil

	case token.IPv4:
		if idx := strings.IndexByte(t.Text, '/'); idx >= 0 {
			prefix, perr := strconv.Atoi(t.Text[idx+1:])
			if perr != nil {
				return nil, &Error{Token: t, Message: "invalid prefix length"}
			}
			cidr, err := operand.NewCIDRv4(t.Text[:idx], prefix)
			if err != nil {
				return nil, &Error{Token: t, Message: err.Error()}
			}
			return ast.NewConst(span, cidr), nil
		}
		ip, err := operand.NewIPv4(t.Text)
		if err != nil {
			return nil, &Error{Token: t, Message: err.Error()}
		}
		return ast.NewConst(span, ip), nil

	case token.IPv6:
		if idx := strings.IndexByte(t.Text, '/'); idx >= 0 {
			prefix, perr := strconv.Atoi(t.Text[idx+1:])
			if perr != nil {
				return nil, &Error{Token: t, Message: "invalid prefix length"}
			}
			cidr, err := operand.NewCIDRv6(t.Text[:idx], prefix)
			if err != nil {
				return nil, &Error{Token: t, Message: err.Error()}
			}
			return ast.NewConst(span, cidr), nil
		}
		ip, err := operand.NewIPv6(t.Text)
		if err != nil {
			return nil, &Error{Token: t, Message: err.Error()}
		}
		return ast.NewConst(span, ip), nil

	default:
		return nil, &Error{Token: t, Message: "unknown token"}
	}
}
