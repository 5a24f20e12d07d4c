package operand

// Variable is a reference to a value supplied at evaluation time rather
// than one carried in the AST. Its Kind is fixed by the variable-type
// environment at parse time (pkg/varenv); Eval resolves it against a
// variable bag (spec.md §3, §6).
type Variable struct {
	Name    string
	VarKind Kind
}

func (v Variable) Kind() Kind     { return v.VarKind }
func (v Variable) String() string { return v.Name }

// Hash/Equal are defined for interface completeness (Variable never
// appears as a Set element or a folded constant) but are not meaningful:
// two Variable operands are never compared by value, only by name at
// resolution time.
func (v Variable) Hash() uint64 { return hashString(byte(KindVariable), v.Name) }
func (v Variable) Equal(other Operand) bool {
	o, ok := other.(Variable)
	return ok && v.Name == o.Name && v.VarKind == o.VarKind
}
