package operand

import (
	"encoding/binary"
	"math"
	"strconv"
)

// Bool is the scalar boolean operand.
type Bool bool

func (b Bool) Kind() Kind   { return KindBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b Bool) Hash() uint64 {
	if b {
		return hashBytes(byte(KindBool), []byte{1})
	}
	return hashBytes(byte(KindBool), []byte{0})
}
func (b Bool) Equal(other Operand) bool {
	o, ok := other.(Bool)
	return ok && b == o
}

// Integer is the scalar signed-integer operand; duration and hex literals
// both fold into Integer at parse time (spec.md §3: "Duration-as-Integer,
// Hex-as-Integer").
type Integer int64

func (i Integer) Kind() Kind     { return KindInteger }
func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }
func (i Integer) Hash() uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(i))
	return hashBytes(byte(KindInteger), buf[:])
}
func (i Integer) Equal(other Operand) bool {
	o, ok := other.(Integer)
	return ok && i == o
}
func (Integer) setElement() {}

// Float is the scalar floating-point operand. Equality is host
// bit-equality (Go's native float64 ==): NaN != NaN, matching IEEE 754 and
// deliberately not special-cased (spec.md §8, Open Questions).
type Float float64

func (f Float) Kind() Kind     { return KindFloat }
func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (f Float) Hash() uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(float64(f)))
	return hashBytes(byte(KindFloat), buf[:])
}
func (f Float) Equal(other Operand) bool {
	o, ok := other.(Float)
	return ok && f == o
}
func (Float) setElement() {}
