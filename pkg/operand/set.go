package operand

import "strings"

// HeterogeneousError reports the first Set element whose Kind diverges from
// the set's established element kind, carrying its position so the parser
// can point at the originating token (spec.md §3, §7: "a parse type error
// at that operand's token").
type HeterogeneousError struct {
	Index int
	Want  Kind
	Got   Kind
}

func (e *HeterogeneousError) Error() string {
	return e.Got.String() + " in " + e.Want.String() + " set"
}

// Set is an unordered, homogeneous, hash-based collection — the only legal
// right operand of `in` besides a CIDR (spec.md §3, GLOSSARY).
type Set struct {
	ElemKind Kind
	elems    []HashableElem
	byHash   map[uint64][]HashableElem
}

// NewSet builds a Set from elems in order, failing at the first element
// whose Kind does not match the first element's Kind.
func NewSet(elems []HashableElem) (Set, error) {
	s := Set{byHash: map[uint64][]HashableElem{}}
	for i, e := range elems {
		if i == 0 {
			s.ElemKind = e.Kind()
		} else if e.Kind() != s.ElemKind {
			return Set{}, &HeterogeneousError{Index: i, Want: s.ElemKind, Got: e.Kind()}
		}
		s.elems = append(s.elems, e)
		h := e.Hash()
		s.byHash[h] = append(s.byHash[h], e)
	}
	return s, nil
}

func (s Set) Kind() Kind { return KindSet }

func (s Set) String() string {
	parts := make([]string, len(s.elems))
	for i, e := range s.elems {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (s Set) Hash() uint64 {
	var acc uint64
	for _, e := range s.elems {
		acc += e.Hash() // commutative: set membership order never affects the hash
	}
	return hashBytes(byte(KindSet), []byte{byte(s.ElemKind)}) ^ acc
}

func (s Set) Equal(other Operand) bool {
	o, ok := other.(Set)
	if !ok || o.ElemKind != s.ElemKind || len(o.elems) != len(s.elems) {
		return false
	}
	for _, e := range s.elems {
		if !o.Contains(e) {
			return false
		}
	}
	return true
}

// Contains reports whether e (of the same kind as the set's elements) is a
// member, by semantic hash/equality rather than textual form.
func (s Set) Contains(e HashableElem) bool {
	for _, candidate := range s.byHash[e.Hash()] {
		if candidate.Equal(e) {
			return true
		}
	}
	return false
}

// Len reports the number of elements.
func (s Set) Len() int { return len(s.elems) }

// Elems returns the elements in construction order.
func (s Set) Elems() []HashableElem { return s.elems }
