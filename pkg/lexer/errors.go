package lexer

import "fmt"

// LexError is a hard lexical failure: an unknown character, or a
// kind-specific diagnostic surfaced by a candidate that had already reached
// "complete" before the failing character voided it. Unfinished tokens are
// reported as UnfinishedError instead.
type LexError struct {
	Index   int
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d: %s", e.Index, e.Message)
}

// UnfinishedError reports that text accumulated toward a token but every
// surviving candidate died without ever reaching "complete". Start is the
// index of the token attempt's first character, Index the character that
// killed the last candidate.
type UnfinishedError struct {
	Start int
	Index int
}

func (e *UnfinishedError) Error() string {
	return fmt.Sprintf("unfinished token starting at %d (failed at %d)", e.Start, e.Index)
}
