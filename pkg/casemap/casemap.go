// Package casemap implements the regex structural retokenizer: it expands
// a compiled regex's source text under a character→string translation
// table so that literal characters fold through a custom alphabet (e.g.
// case-insensitive matching that isn't simply ASCII upper/lower). It knows
// just enough regex structure to tell a literal character apart from a
// syntactic one — groups, escapes, and {m,n} repeats pass through opaque;
// only literal text, inside or outside a character class, gets translated.
package casemap

import (
	"fmt"
	"strings"
)

const structuralChars = ".*+?^$|()"

// Translate rewrites pattern so every literal character with an entry in
// table is replaced by its translation (spec.md §4.G):
//
//   - a character range a-z inside a class expands to the translated,
//     deduplicated set of characters in that range;
//   - a literal character c with translation t becomes, inside a class, the
//     concatenation of t's runes; outside a class, a bracketed class
//     "[...]" if t has more than one rune, else t verbatim.
func Translate(pattern string, table map[rune]string) (string, error) {
	r := []rune(pattern)
	n := len(r)
	var out strings.Builder
	i := 0
	for i < n {
		c := r[i]
		switch {
		case c == '\\':
			if i+1 >= n {
				return "", fmt.Errorf("trailing backslash at %d", i)
			}
			out.WriteRune('\\')
			out.WriteRune(r[i+1])
			i += 2
		case c == '[':
			end, err := translateClass(r, i, table, &out)
			if err != nil {
				return "", err
			}
			i = end
		case c == '{':
			if end, ok := repeatQuantifierEnd(r, i); ok {
				out.WriteString(string(r[i : end+1]))
				i = end + 1
			} else {
				writeLiteral(c, table, &out)
				i++
			}
		case strings.ContainsRune(structuralChars, c):
			out.WriteRune(c)
			i++
		default:
			writeLiteral(c, table, &out)
			i++
		}
	}
	return out.String(), nil
}

func writeLiteral(c rune, table map[rune]string, out *strings.Builder) {
	t, ok := table[c]
	if !ok {
		out.WriteRune(c)
		return
	}
	if len([]rune(t)) > 1 {
		out.WriteByte('[')
		out.WriteString(t)
		out.WriteByte(']')
		return
	}
	out.WriteString(t)
}

func translateClass(r []rune, start int, table map[rune]string, out *strings.Builder) (int, error) {
	n := len(r)
	i := start + 1
	out.WriteByte('[')
	if i < n && r[i] == '^' {
		out.WriteByte('^')
		i++
	}
	seen := map[rune]bool{}
	first := true
	for i < n && (r[i] != ']' || first) {
		first = false
		switch {
		case r[i] == '\\':
			if i+1 >= n {
				return 0, fmt.Errorf("trailing backslash in class at %d", i)
			}
			out.WriteRune('\\')
			out.WriteRune(r[i+1])
			i += 2
		case i+2 < n && r[i+1] == '-' && r[i+2] != ']':
			lo, hi := r[i], r[i+2]
			for ch := lo; ch <= hi; ch++ {
				writeClassChar(ch, table, seen, out)
			}
			i += 3
		default:
			writeClassChar(r[i], table, seen, out)
			i++
		}
	}
	if i >= n {
		return 0, fmt.Errorf("unterminated character class starting at %d", start)
	}
	out.WriteByte(']')
	return i + 1, nil
}

func writeClassChar(c rune, table map[rune]string, seen map[rune]bool, out *strings.Builder) {
	t, ok := table[c]
	if !ok {
		if !seen[c] {
			out.WriteRune(c)
			seen[c] = true
		}
		return
	}
	for _, tc := range t {
		if !seen[tc] {
			out.WriteRune(tc)
			seen[tc] = true
		}
	}
}

// repeatQuantifierEnd reports the index of the closing '}' of a {m}, {m,}
// or {m,n} quantifier starting at r[start]=='{', if one is there.
func repeatQuantifierEnd(r []rune, start int) (int, bool) {
	n := len(r)
	i := start + 1
	sawDigit := false
	for i < n && r[i] >= '0' && r[i] <= '9' {
		i++
		sawDigit = true
	}
	if !sawDigit {
		return 0, false
	}
	if i < n && r[i] == ',' {
		i++
		for i < n && r[i] >= '0' && r[i] <= '9' {
			i++
		}
	}
	if i < n && r[i] == '}' {
		return i, true
	}
	return 0, false
}
