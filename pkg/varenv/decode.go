package varenv

import (
	"encoding/json"
	"fmt"

	"github.com/perbu/scpl/pkg/operand"
)

// DecodeVars converts one JSON object of variable values into operand
// values typed per env — the "JSON-decoded variable bag" spec.md names as
// an external collaborator (§1) without specifying its shape beyond "a
// mapping from variable name to a concrete operand of matching type"
// (§6). A name present in raw but absent from env passes through as a
// String, the permissive default for ad-hoc fields; a name declared in env
// but absent from raw is simply omitted rather than defaulted.
func DecodeVars(raw map[string]json.RawMessage, env operand.Env) (map[string]operand.Operand, error) {
	vars := make(map[string]operand.Operand, len(raw))
	for name, msg := range raw {
		kind, declared := env.Lookup(name)
		if !declared {
			var s string
			if err := json.Unmarshal(msg, &s); err != nil {
				return nil, fmt.Errorf("variable %q: undeclared and not a string: %w", name, err)
			}
			vars[name] = operand.NewComputedString(s)
			continue
		}
		v, err := decodeOne(name, kind, msg)
		if err != nil {
			return nil, err
		}
		vars[name] = v
	}
	return vars, nil
}

func decodeOne(name string, kind operand.Kind, msg json.RawMessage) (operand.Operand, error) {
	switch kind {
	case operand.KindBool:
		var b bool
		if err := json.Unmarshal(msg, &b); err != nil {
			return nil, fmt.Errorf("variable %q: want Bool: %w", name, err)
		}
		return operand.Bool(b), nil
	case operand.KindInteger:
		var i int64
		if err := json.Unmarshal(msg, &i); err != nil {
			return nil, fmt.Errorf("variable %q: want Integer: %w", name, err)
		}
		return operand.Integer(i), nil
	case operand.KindFloat:
		var f float64
		if err := json.Unmarshal(msg, &f); err != nil {
			return nil, fmt.Errorf("variable %q: want Float: %w", name, err)
		}
		return operand.Float(f), nil
	case operand.KindString:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, fmt.Errorf("variable %q: want String: %w", name, err)
		}
		return operand.NewComputedString(s), nil
	case operand.KindIPv4:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, fmt.Errorf("variable %q: want IPv4 string: %w", name, err)
		}
		v, err := operand.NewIPv4(s)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		return v, nil
	case operand.KindIPv6:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, fmt.Errorf("variable %q: want IPv6 string: %w", name, err)
		}
		v, err := operand.NewIPv6(s)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("variable %q: decoding kind %s from JSON is not supported", name, kind)
	}
}
