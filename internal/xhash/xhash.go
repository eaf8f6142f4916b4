// Package xhash provides a small structural-hash helper used to dedupe
// monomorphization jobs and to hash interned symbol names. It is a thin
// wrapper over murmur3, mirroring the role hash.Hash plays in the teacher
// codebase's symbol and AST packages.
package xhash

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// Hash is a 128-bit structural hash value.
type Hash [16]byte

// Zero is the hash of nothing, used as a sentinel for an uninterned symbol.
var Zero Hash

// String hashes a string.
func String(s string) Hash {
	hi, lo := murmur3.Sum128([]byte(s))
	return pack(hi, lo)
}

func pack(hi, lo uint64) Hash {
	var h Hash
	binary.LittleEndian.PutUint64(h[0:8], hi)
	binary.LittleEndian.PutUint64(h[8:16], lo)
	return h
}

// Key renders the hash as a map key / worklist key.
func (h Hash) Key() string {
	return string(h[:])
}
