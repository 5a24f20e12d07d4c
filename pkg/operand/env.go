package operand

// Env is the variable-type environment the parser resolves Word tokens
// against: a mapping from variable name to its operand Kind (spec.md §4.D,
// §6: "var_env is a mapping from variable name to its operand type").
type Env map[string]Kind

// Lookup reports the Kind registered for name, if any.
func (e Env) Lookup(name string) (Kind, bool) {
	k, ok := e[name]
	return k, ok
}
