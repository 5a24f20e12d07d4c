// Package operand implements the closed operand sum type: the set of
// concrete value kinds an AST node can hold or produce. Every concrete type
// here implements Operand; there is no other way to construct a value the
// evaluator hands back to a caller.
package operand

// Kind tags a concrete Operand implementation. It exists so AST nodes and
// the operator resolver can switch on "what kind of value is this" without
// a type assertion ladder at every call site.
type Kind int

const (
	KindBool Kind = iota
	KindInteger
	KindFloat
	KindString
	KindRegex
	KindIPv4
	KindIPv6
	KindCIDRv4
	KindCIDRv6
	KindSet
	KindVariable
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindRegex:
		return "Regex"
	case KindIPv4:
		return "IPv4"
	case KindIPv6:
		return "IPv6"
	case KindCIDRv4:
		return "CIDRv4"
	case KindCIDRv6:
		return "CIDRv6"
	case KindSet:
		return "Set"
	case KindVariable:
		return "Variable"
	default:
		return "Unknown"
	}
}

// Operand is the interface every concrete value kind implements. Hash and
// Equal are defined over semantic value, never over textual form: two
// strings with different remembered delimiters, or two regexes whose flags
// were declared in a different order, compare equal if their meaning is the
// same.
type Operand interface {
	Kind() Kind
	String() string
	Hash() uint64
	Equal(other Operand) bool
}

// HashableElem is implemented by the operand kinds legal inside a Set: the
// scalar, by-value kinds spec.md §3 allows as Set elements.
type HashableElem interface {
	Operand
	setElement()
}
