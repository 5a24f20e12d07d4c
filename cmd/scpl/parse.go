package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/perbu/scpl/pkg/ast"
	"github.com/perbu/scpl/pkg/lexer"
	"github.com/perbu/scpl/pkg/operand"
	"github.com/perbu/scpl/pkg/parser"
	"github.com/perbu/scpl/pkg/scplfmt"
	"github.com/perbu/scpl/pkg/varenv"
)

func runParse(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("parse", flag.ContinueOnError)
	flags.SetOutput(stderr)
	typesFile := flags.String("types", "", "path to a variable-type environment YAML file")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: scpl parse <expr> [--types vars.yaml]")
		return 2
	}
	expr := flags.Arg(0)

	env, err := loadEnv(*typesFile)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	atoms, deps, err := compile(expr, env)
	if err != nil {
		reportError(stderr, expr, err)
		return 2
	}

	useColor := scplfmt.ShouldUseColor()
	for _, atom := range atoms {
		fmt.Fprint(stdout, scplfmt.AST(atom, useColor))
	}
	fmt.Fprintf(stdout, "deps: %s\n", scplfmt.Deps(deps))
	return 0
}

// loadEnv reads a variable-type environment from typesFile, or returns an
// empty environment when typesFile is unset.
func loadEnv(typesFile string) (operand.Env, error) {
	if typesFile == "" {
		return operand.Env{}, nil
	}
	return varenv.Load(typesFile)
}

// compile runs the shared lex+parse pipeline used by parse, eval and watch.
func compile(expr string, env operand.Env) ([]ast.Node, map[string]bool, error) {
	tokens, err := lexer.Tokenise(expr)
	if err != nil {
		return nil, nil, err
	}
	return parser.Parse(tokens, env)
}

// reportError renders a lex/parse/type error with a caret under the
// offending source position.
func reportError(stderr io.Writer, expr string, err error) {
	useColor := scplfmt.ShouldUseColor()
	fmt.Fprint(stderr, scplfmt.SourceError(expr, errorIndex(err), err.Error(), useColor))
}

func errorIndex(err error) int {
	switch e := err.(type) {
	case *parser.Error:
		return e.Token.Index
	case *parser.TypeError:
		return e.Token.Index
	case *lexer.LexError:
		return e.Index
	case *lexer.UnfinishedError:
		return e.Index
	default:
		return 0
	}
}
