package operand

import "hash/maphash"

// seed is process-wide so that two Operand values with the same semantic
// content always hash the same within one run; it does not need to survive
// a restart since hashes are never persisted (spec.md §6: "no wire
// formats").
var seed = maphash.MakeSeed()

func hashBytes(tag byte, parts ...[]byte) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	h.WriteByte(tag)
	for _, p := range parts {
		h.Write(p)
		h.WriteByte(0) // separator so "ab","c" and "a","bc" don't collide
	}
	return h.Sum64()
}

func hashString(tag byte, s string) uint64 {
	return hashBytes(tag, []byte(s))
}
