// Package varenv loads the variable-type environment the parser resolves
// Word tokens against from a YAML document, following the same
// read-then-validate shape as the teacher's pkg/config loader.
package varenv

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/perbu/scpl/pkg/operand"
)

// spec is the on-disk shape: a flat map from variable name to its operand
// kind, spelled the way operand.Kind.String() renders it.
type spec struct {
	Variables map[string]string `yaml:"variables"`
}

var kindNames = map[string]operand.Kind{
	"Bool":    operand.KindBool,
	"Integer": operand.KindInteger,
	"Float":   operand.KindFloat,
	"String":  operand.KindString,
	"Regex":   operand.KindRegex,
	"IPv4":    operand.KindIPv4,
	"IPv6":    operand.KindIPv6,
	"CIDRv4":  operand.KindCIDRv4,
	"CIDRv6":  operand.KindCIDRv6,
	"Set":     operand.KindSet,
}

// Load reads filename as YAML and returns the resulting variable-type
// environment, or an error naming the first variable whose declared type
// isn't one of operand's closed kinds.
func Load(filename string) (operand.Env, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading variable environment %q: %w", filename, err)
	}
	return Parse(data)
}

// Parse decodes data (the contents of a variable-environment YAML
// document) without touching the filesystem.
func Parse(data []byte) (operand.Env, error) {
	var s spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing variable environment: %w", err)
	}

	env := make(operand.Env, len(s.Variables))
	for name, kindName := range s.Variables {
		kind, ok := kindNames[kindName]
		if !ok {
			return nil, fmt.Errorf("variable %q: unknown type %q", name, kindName)
		}
		env[name] = kind
	}
	return env, nil
}
