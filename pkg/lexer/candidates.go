package lexer

import (
	"strings"

	"github.com/perbu/scpl/pkg/operators"
	"github.com/perbu/scpl/pkg/token"
)

// candidate is one partial-token interpretation alive at a given input
// position. Each candidate is a small struct that accumulates its own text;
// the lexer holds them in a short slice re-seeded at each token boundary.
//
// Push offers the next character. ok reports whether the candidate accepts
// it and stays alive (its Complete() state may or may not change). When ok
// is false and diag is non-empty, the candidate is reporting a specific,
// nameable defect (not just "this character isn't mine") — the driver
// treats that as a "broken" candidate and may surface diag verbatim if
// nothing else resolves the ambiguity.
type candidate interface {
	Kind() token.Kind
	Text() string
	Complete() bool
	Push(r rune) (ok bool, diag string)
}

func isDigit(r rune) bool      { return r >= '0' && r <= '9' }
func isHexDigit(r rune) bool   { return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') }
func isWordStart(r rune) bool  { return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isWordCont(r rune) bool   { return isWordStart(r) || isDigit(r) }
func isDurationUnit(r rune) bool {
	return r == 'w' || r == 'd' || r == 'h' || r == 'm' || r == 's'
}
func isScopeChar(r rune) bool {
	return r == '(' || r == ')' || r == '[' || r == ']' || r == '{' || r == '}'
}

// --- Space -------------------------------------------------------------

type spaceCandidate struct {
	text     string
	complete bool
}

func (c *spaceCandidate) Kind() token.Kind { return token.Space }
func (c *spaceCandidate) Text() string     { return c.text }
func (c *spaceCandidate) Complete() bool   { return c.complete }

func (c *spaceCandidate) Push(r rune) (bool, string) {
	if r != ' ' {
		return false, ""
	}
	c.text += string(r)
	c.complete = true
	return true, ""
}

// --- Word ----------------------------------------------------------------

type wordCandidate struct {
	text     string
	complete bool
}

func (c *wordCandidate) Kind() token.Kind { return token.Word }
func (c *wordCandidate) Text() string     { return c.text }
func (c *wordCandidate) Complete() bool   { return c.complete }

func (c *wordCandidate) Push(r rune) (bool, string) {
	if c.text == "" {
		if !isWordStart(r) {
			return false, ""
		}
	} else if !isWordCont(r) {
		return false, ""
	}
	c.text += string(r)
	c.complete = true
	return true, ""
}

// --- Number ----------------------------------------------------------------

type numberCandidate struct {
	text     string
	complete bool
	hasDot   bool
}

func (c *numberCandidate) Kind() token.Kind { return token.Number }
func (c *numberCandidate) Text() string     { return c.text }
func (c *numberCandidate) Complete() bool   { return c.complete }

func (c *numberCandidate) Push(r rune) (bool, string) {
	switch {
	case isDigit(r):
		c.text += string(r)
		c.complete = true
		return true, ""
	case r == '.':
		if c.hasDot {
			c.complete = false
			return false, "too many points"
		}
		c.hasDot = true
		c.text += string(r)
		c.complete = false
		return true, ""
	case isWordStart(r):
		c.complete = false
		return false, "invalid number character"
	default:
		return false, ""
	}
}

// --- Hex ---------------------------------------------------------------

type hexCandidate struct {
	text     string
	complete bool
	stage    int // 0: want '0', 1: want 'x'/'X', 2+: hex digits
}

func (c *hexCandidate) Kind() token.Kind { return token.Hex }
func (c *hexCandidate) Text() string     { return c.text }
func (c *hexCandidate) Complete() bool   { return c.complete }

func (c *hexCandidate) Push(r rune) (bool, string) {
	switch c.stage {
	case 0:
		if r != '0' {
			return false, ""
		}
		c.text += string(r)
		c.stage = 1
		return true, ""
	case 1:
		if r != 'x' && r != 'X' {
			return false, ""
		}
		c.text += string(r)
		c.stage = 2
		return true, ""
	default:
		if !isHexDigit(r) {
			return false, ""
		}
		c.text += string(r)
		c.complete = true
		return true, ""
	}
}

// --- Duration ------------------------------------------------------------

type durationCandidate struct {
	text     string
	complete bool
	sawDigit bool
}

func (c *durationCandidate) Kind() token.Kind { return token.Duration }
func (c *durationCandidate) Text() string     { return c.text }
func (c *durationCandidate) Complete() bool   { return c.complete }

func (c *durationCandidate) Push(r rune) (bool, string) {
	switch {
	case isDigit(r):
		c.text += string(r)
		c.sawDigit = true
		c.complete = false
		return true, ""
	case isDurationUnit(r):
		if !c.sawDigit {
			c.complete = false
			return false, "missing duration value"
		}
		c.sawDigit = false
		c.text += string(r)
		c.complete = true
		return true, ""
	default:
		return false, ""
	}
}

// --- String ----------------------------------------------------------------

type stringCandidate struct {
	text       string
	complete   bool
	opened     bool
	escaping   bool
	closeDelim rune
}

func (c *stringCandidate) Kind() token.Kind { return token.String }
func (c *stringCandidate) Text() string     { return c.text }
func (c *stringCandidate) Complete() bool   { return c.complete }

func (c *stringCandidate) Push(r rune) (bool, string) {
	if !c.opened {
		switch r {
		case '"':
			c.closeDelim = '"'
		case '\'':
			c.closeDelim = '\''
		case '“':
			c.closeDelim = '”'
		default:
			return false, ""
		}
		c.opened = true
		c.text += string(r)
		return true, ""
	}
	if c.complete {
		return false, ""
	}
	if c.escaping {
		c.text += string(r)
		c.escaping = false
		return true, ""
	}
	if r == '\\' {
		c.text += string(r)
		c.escaping = true
		return true, ""
	}
	if r == c.closeDelim {
		c.text += string(r)
		c.complete = true
		return true, ""
	}
	c.text += string(r)
	return true, ""
}

// --- Regex -----------------------------------------------------------------

type regexCandidate struct {
	text     string
	complete bool
	opened   bool
	escaping bool
	inFlags  bool
	delim    rune
	lastTok  *token.Token
}

func (c *regexCandidate) Kind() token.Kind { return token.Regex }
func (c *regexCandidate) Text() string     { return c.text }
func (c *regexCandidate) Complete() bool   { return c.complete }

func (c *regexCandidate) validDelim(r rune) bool {
	if isWordCont(r) || r == ' ' || r == '\\' || isScopeChar(r) {
		return false
	}
	if operators.IsUnarySymbol(r) {
		return false
	}
	if operators.IsOperatorChar(r) {
		if c.lastTok == nil || c.lastTok.Kind == token.Operator {
			return true
		}
		return c.lastTok.Kind == token.Scope && isScopeOpener(c.lastTok.Text)
	}
	return true
}

func isScopeOpener(s string) bool {
	return s == "(" || s == "[" || s == "{"
}

func (c *regexCandidate) Push(r rune) (bool, string) {
	if !c.opened {
		if !c.validDelim(r) {
			return false, ""
		}
		c.delim = r
		c.opened = true
		c.text += string(r)
		return true, ""
	}
	if c.inFlags {
		if isWordStart(r) {
			c.text += string(r)
			return true, ""
		}
		return false, ""
	}
	if c.escaping {
		c.text += string(r)
		c.escaping = false
		return true, ""
	}
	if r == '\\' {
		c.text += string(r)
		c.escaping = true
		return true, ""
	}
	if r == c.delim {
		c.text += string(r)
		c.complete = true
		c.inFlags = true
		return true, ""
	}
	c.text += string(r)
	return true, ""
}

// --- Scope -----------------------------------------------------------------

type scopeCandidate struct {
	text     string
	complete bool
}

func (c *scopeCandidate) Kind() token.Kind { return token.Scope }
func (c *scopeCandidate) Text() string     { return c.text }
func (c *scopeCandidate) Complete() bool   { return c.complete }

func (c *scopeCandidate) Push(r rune) (bool, string) {
	if c.text != "" || !isScopeChar(r) {
		return false, ""
	}
	c.text = string(r)
	c.complete = true
	return true, ""
}

// --- Operator ----------------------------------------------------------

type operatorCandidate struct {
	text     string
	complete bool
}

func (c *operatorCandidate) Kind() token.Kind { return token.Operator }
func (c *operatorCandidate) Text() string     { return c.text }
func (c *operatorCandidate) Complete() bool   { return c.complete }

func (c *operatorCandidate) Push(r rune) (bool, string) {
	candidate := c.text + string(r)
	if !operators.PrefixOfSymbol(candidate) {
		return false, ""
	}
	c.text = candidate
	c.complete = operators.IsOperatorSymbol(c.text)
	return true, ""
}

// --- IPv4 --------------------------------------------------------------

type ipv4Candidate struct {
	text       string
	complete   bool
	curOctet   string
	dotsSeen   int
	afterSlash bool
}

func (c *ipv4Candidate) Kind() token.Kind { return token.IPv4 }
func (c *ipv4Candidate) Text() string     { return c.text }
func (c *ipv4Candidate) Complete() bool   { return c.complete }

func (c *ipv4Candidate) Push(r rune) (bool, string) {
	switch {
	case isDigit(r):
		if c.afterSlash {
			c.text += string(r)
			c.complete = true
			return true, ""
		}
		next := c.curOctet + string(r)
		if len(next) > 3 {
			c.complete = false
			return false, "too many digits in octet"
		}
		if atoi(next) > 255 {
			c.complete = false
			return false, "octet must be between 0 and 255"
		}
		c.curOctet = next
		c.text += string(r)
		c.complete = c.dotsSeen == 3 && c.curOctet != ""
		return true, ""
	case r == '.':
		if c.afterSlash || c.curOctet == "" || c.dotsSeen >= 3 {
			c.complete = false
			return false, "too many octets"
		}
		c.dotsSeen++
		c.curOctet = ""
		c.text += "."
		c.complete = false
		return true, ""
	case r == '/':
		if c.afterSlash || c.dotsSeen != 3 || c.curOctet == "" {
			return false, ""
		}
		c.afterSlash = true
		c.text += "/"
		c.complete = false
		return true, ""
	default:
		return false, ""
	}
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// --- IPv6 --------------------------------------------------------------
//
// Full RFC 4291 validity (exact hextet count, legality of "::") is left to
// net/netip.ParseAddr at operand-construction time, mirroring how CIDR
// prefix bounds are validated there rather than here. The lexer only needs
// to delimit the token and catch the purely syntactic problems: a hextet
// with more than four hex digits, and more than eight colon-separated
// segments.

type ipv6Candidate struct {
	text       string
	complete   bool
	curHex     string
	segments   int
	truncated  bool
	afterSlash bool
}

func (c *ipv6Candidate) Kind() token.Kind { return token.IPv6 }
func (c *ipv6Candidate) Text() string     { return c.text }
func (c *ipv6Candidate) Complete() bool   { return c.complete }

func (c *ipv6Candidate) Push(r rune) (bool, string) {
	if c.afterSlash {
		if isDigit(r) {
			c.text += string(r)
			c.complete = true
			return true, ""
		}
		return false, ""
	}
	switch {
	case isHexDigit(r):
		next := c.curHex + string(r)
		if len(next) > 4 {
			c.complete = false
			return false, "hextet must be between 0 and ffff"
		}
		c.curHex = next
		c.text += string(r)
		c.complete = c.segments > 0 || c.truncated
		return true, ""
	case r == ':':
		if c.curHex == "" {
			if c.truncated {
				c.complete = false
				return false, "double truncation"
			}
			c.truncated = true
			c.text += ":"
			c.complete = strings.Count(c.text, ":") >= 2 || c.segments > 0
			return true, ""
		}
		c.segments++
		if c.segments > 8 {
			c.complete = false
			return false, "too many hextets"
		}
		c.curHex = ""
		c.text += ":"
		c.complete = true
		return true, ""
	case r == '/':
		if !c.complete {
			return false, ""
		}
		c.afterSlash = true
		c.text += "/"
		c.complete = false
		return true, ""
	default:
		return false, ""
	}
}
