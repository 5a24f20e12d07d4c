package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

func main() {
	ctx := context.Background()
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 1
	}

	verb, rest := args[0], args[1:]
	switch verb {
	case "lex":
		return runLex(rest, stdout, stderr)
	case "parse":
		return runParse(rest, stdout, stderr)
	case "eval":
		return runEval(rest, stdout, stderr)
	case "watch":
		return runWatch(ctx, rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown subcommand %q\n", verb)
		printUsage(stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `scpl - SCPL expression compiler and evaluator

Usage:
  scpl lex <expr>
  scpl parse <expr> [--types vars.yaml]
  scpl eval <expr> [--types vars.yaml] [--vars vars.json]
  scpl watch <expr> --types vars.yaml

Examples:
  scpl lex '1 + 2'
  scpl parse 'a * 2 + 1' --types vars.yaml
  scpl eval 'a * 2 + 1' --types vars.yaml --vars vars.json
  scpl watch 'status == 500' --types vars.yaml < lines.jsonl
`)
}
