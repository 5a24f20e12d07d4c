package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/perbu/scpl/pkg/lexer"
	"github.com/perbu/scpl/pkg/scplfmt"
)

func runLex(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("lex", flag.ContinueOnError)
	flags.SetOutput(stderr)
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: scpl lex <expr>")
		return 1
	}
	expr := flags.Arg(0)

	tokens, err := lexer.Tokenise(expr)
	if err != nil {
		reportError(stderr, expr, err)
		return 1
	}

	fmt.Fprint(stdout, scplfmt.Tokens(tokens, scplfmt.ShouldUseColor()))
	return 0
}
