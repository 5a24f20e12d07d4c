// Package lexer implements the multi-candidate streaming tokenizer: at every
// input position it advances one small state machine per token kind in
// parallel and resolves which one "wins" once the others have all dropped
// out, rather than committing to a single interpretation up front. This is
// what lets overlapping leading characters — regex vs. operator vs. IPv4,
// string delimiter vs. operator, hex vs. plain number, duration vs.
// number-then-word — resolve correctly without backtracking.
package lexer

import (
	"github.com/perbu/scpl/pkg/token"
)

func seed(lastNonTransparent *token.Token) []candidate {
	return []candidate{
		&spaceCandidate{},
		&wordCandidate{},
		&numberCandidate{},
		&hexCandidate{},
		&durationCandidate{},
		&stringCandidate{},
		&regexCandidate{lastTok: lastNonTransparent},
		&scopeCandidate{},
		&operatorCandidate{},
		&ipv4Candidate{},
		&ipv6Candidate{},
	}
}

// Tokenise converts input into an ordered token sequence covering it in
// full. Space tokens are included in the result; callers that walk the
// stream for parsing skip Kind.Transparent() tokens.
func Tokenise(input string) ([]token.Token, error) {
	runes := []rune(input)
	n := len(runes)

	var out []token.Token
	var lastNonTransparent *token.Token

	pos := 0
	for pos <= n {
		start := pos
		cands := seed(lastNonTransparent)
		alive := make([]bool, len(cands))
		for i := range alive {
			alive[i] = true
		}
		textLen := 0

		resolve := func(winner candidate) {
			tok := token.Token{Kind: winner.Kind(), Text: winner.Text(), Index: start}
			out = append(out, tok)
			if !tok.Kind.Transparent() {
				last := out[len(out)-1]
				lastNonTransparent = &last
			}
		}

	attempt:
		for {
			eof := pos >= n
			var c rune
			if !eof {
				c = runes[pos]
			}

			if eof {
				var droppedComplete []candidate
				for i, cand := range cands {
					if !alive[i] {
						continue
					}
					alive[i] = false
					if cand.Complete() {
						droppedComplete = append(droppedComplete, cand)
					}
				}
				switch {
				case len(droppedComplete) >= 1:
					resolve(droppedComplete[0])
					pos = n + 1
					break attempt
				case textLen > 0:
					return nil, &UnfinishedError{Start: start, Index: pos}
				default:
					pos = n + 1
					break attempt
				}
			}

			anyAlive := false
			var droppedComplete []candidate
			var broken []struct {
				cand candidate
				diag string
			}
			for i, cand := range cands {
				if !alive[i] {
					continue
				}
				wasComplete := cand.Complete()
				ok, diag := cand.Push(c)
				if !ok {
					alive[i] = false
					if wasComplete && !cand.Complete() {
						broken = append(broken, struct {
							cand candidate
							diag string
						}{cand, diag})
					} else if wasComplete {
						droppedComplete = append(droppedComplete, cand)
					}
					continue
				}
				anyAlive = true
			}

			if anyAlive {
				pos++
				textLen++
				continue
			}

			switch {
			case len(droppedComplete) == 1:
				resolve(droppedComplete[0])
				break attempt
			case len(droppedComplete) > 1:
				// Two kinds can complete on the same text (a quoted
				// literal is both a String and a Regex using the quote as
				// its delimiter); the first seeded wins (deterministic,
				// not arbitrary map order), so String beats Regex.
				resolve(droppedComplete[0])
				break attempt
			case len(broken) > 0:
				return nil, &LexError{Index: pos, Message: broken[0].diag}
			case textLen > 0:
				return nil, &UnfinishedError{Start: start, Index: pos}
			default:
				return nil, &LexError{Index: pos, Message: "unknown token"}
			}
		}
	}

	return out, nil
}
