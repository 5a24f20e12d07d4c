package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/perbu/scpl/pkg/operand"
	"github.com/perbu/scpl/pkg/varenv"
)

func runEval(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("eval", flag.ContinueOnError)
	flags.SetOutput(stderr)
	typesFile := flags.String("types", "", "path to a variable-type environment YAML file")
	varsFile := flags.String("vars", "", "path to a JSON file of variable values")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: scpl eval <expr> [--types vars.yaml] [--vars vars.json]")
		return 1
	}
	expr := flags.Arg(0)

	env, err := loadEnv(*typesFile)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	atoms, _, err := compile(expr, env)
	if err != nil {
		reportError(stderr, expr, err)
		return 1
	}

	if len(atoms) == 0 {
		fmt.Fprintln(stderr, "error: expression has no evaluable result")
		return 1
	}

	vars, err := loadVars(*varsFile, env)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	start := time.Now()
	var last operand.Operand
	for _, atom := range atoms {
		last, err = atom.Eval(vars)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}
	elapsed := time.Since(start)

	fmt.Fprintf(stdout, "%s\n", last.String())
	fmt.Fprintf(stdout, "%dus\n", elapsed.Microseconds())
	return 0
}

// loadVars decodes varsFile (a flat JSON object of variable values) into
// operand values typed per env, or returns an empty bag when varsFile is
// unset.
func loadVars(varsFile string, env operand.Env) (map[string]operand.Operand, error) {
	if varsFile == "" {
		return map[string]operand.Operand{}, nil
	}
	data, err := os.ReadFile(varsFile)
	if err != nil {
		return nil, fmt.Errorf("reading variables %q: %w", varsFile, err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing variables %q: %w", varsFile, err)
	}
	return varenv.DecodeVars(raw, env)
}
