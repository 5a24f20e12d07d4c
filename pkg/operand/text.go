package operand

import (
	"regexp"
	"sort"
	"strings"
)

var stringDelimPrefs = []rune{'"', '\''}
var regexDelimPrefs = []rune{'/', ',', ';', ':'}

// pickDelimiter returns the first preference rune that does not occur in
// value, or ok=false if every preference does.
func pickDelimiter(value string, prefs []rune) (rune, bool) {
	for _, d := range prefs {
		if !strings.ContainsRune(value, d) && d != '\\' {
			return d, true
		}
	}
	return 0, false
}

func closingFor(open rune) rune {
	if open == '“' {
		return '”'
	}
	return open
}

func escapeFor(value string, delim rune) string {
	var b strings.Builder
	for _, r := range value {
		if r == '\\' || r == delim {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// String is the scalar text operand. Delim/HasDelim remember the delimiter
// the source used so printing round-trips it; operands built from computed
// values (HasDelim == false) instead pick the first delimiter from a fixed
// preference list that does not occur in the payload (spec.md §4.C).
type String struct {
	Value    string
	Delim    rune
	HasDelim bool
}

// NewString builds a String that remembers its source delimiter.
func NewString(value string, delim rune) String {
	return String{Value: value, Delim: delim, HasDelim: true}
}

// NewComputedString builds a String with no remembered delimiter, as
// produced by an operator rather than parsed directly from source.
func NewComputedString(value string) String {
	return String{Value: value}
}

func (s String) Kind() Kind { return KindString }

func (s String) String() string {
	delim := s.Delim
	if !s.HasDelim {
		if d, ok := pickDelimiter(s.Value, stringDelimPrefs); ok {
			delim = d
		} else {
			delim = stringDelimPrefs[0]
		}
	}
	return string(delim) + escapeFor(s.Value, delim) + string(closingFor(delim))
}

func (s String) Hash() uint64 { return hashString(byte(KindString), s.Value) }

func (s String) Equal(other Operand) bool {
	o, ok := other.(String)
	return ok && s.Value == o.Value
}

func (String) setElement() {}

// Regex is the regular-expression operand. Expected=false encodes a
// "complement regex": =~ against it yields Bool(no match) rather than the
// matched substring (spec.md §3, §4.F).
type Regex struct {
	Pattern  string
	Flags    string
	Delim    rune
	HasDelim bool
	Expected bool
	compiled *regexp.Regexp
}

// NewRegex compiles pattern under flags (Go's native RE2 inline-group
// syntax: i, m, s, U) and returns the operand, or an error if the pattern
// does not compile — an operand-construction error per spec.md §4.C.
func NewRegex(pattern, flags string, delim rune, hasDelim, expected bool) (Regex, error) {
	re, err := regexp.Compile(wrapFlags(pattern, flags))
	if err != nil {
		return Regex{}, err
	}
	return Regex{
		Pattern:  pattern,
		Flags:    flags,
		Delim:    delim,
		HasDelim: hasDelim,
		Expected: expected,
		compiled: re,
	}, nil
}

// NewRegexFromSource builds a Regex whose Pattern is already a complete
// source expression (e.g. the concatenation of an escaped string literal
// with another regex's CompiledSource()), carrying no flags of its own.
func NewRegexFromSource(source string, expected bool) (Regex, error) {
	re, err := regexp.Compile(source)
	if err != nil {
		return Regex{}, err
	}
	return Regex{Pattern: source, Expected: expected, compiled: re}, nil
}

func wrapFlags(pattern, flags string) string {
	if flags == "" {
		return pattern
	}
	return "(?" + flags + ":" + pattern + ")"
}

// Complemented returns r with Expected flipped. The compiled pattern is
// unchanged (only the match/no-match interpretation at =~ time differs), so
// no recompilation is needed; applying it twice returns a Regex equal to
// the original (spec.md §8: double-complement idempotence).
func (r Regex) Complemented() Regex {
	r.Expected = !r.Expected
	return r
}

// CompiledSource returns the exact source text regexp.Compile saw: the
// pattern wrapped in its own flags group, if any.
func (r Regex) CompiledSource() string { return wrapFlags(r.Pattern, r.Flags) }

// Compiled returns the *regexp.Regexp built at construction time.
func (r Regex) Compiled() *regexp.Regexp { return r.compiled }

func (r Regex) Kind() Kind { return KindRegex }

func (r Regex) String() string {
	delim := r.Delim
	if !r.HasDelim {
		if d, ok := pickDelimiter(r.Pattern, regexDelimPrefs); ok {
			delim = d
		} else {
			delim = regexDelimPrefs[0]
		}
	}
	prefix := ""
	if !r.Expected {
		prefix = "~"
	}
	return prefix + string(delim) + escapeFor(r.Pattern, delim) + string(delim) + r.Flags
}

func (r Regex) Hash() uint64 {
	return hashBytes(byte(KindRegex), []byte(r.Pattern), []byte(sortedFlags(r.Flags)), boolByte(r.Expected))
}

func (r Regex) Equal(other Operand) bool {
	o, ok := other.(Regex)
	if !ok {
		return false
	}
	return r.Pattern == o.Pattern && sortedFlags(r.Flags) == sortedFlags(o.Flags) && r.Expected == o.Expected
}

func sortedFlags(flags string) string {
	r := []rune(flags)
	sort.Slice(r, func(i, j int) bool { return r[i] < r[j] })
	return string(r)
}

func boolByte(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}
