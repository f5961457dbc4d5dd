package project

import (
	"crypto/sha256"
)

// Digest - фиксированный 256 битный хеш
type Digest [32]byte

// Combine hashes parts in order, each prefixed with its length so that
// ("ab", "c") and ("a", "bc") differ.
func Combine(parts ...[]byte) Digest {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		l := uint64(len(p))
		for i := range n {
			n[i] = byte(l >> (8 * i))
		}
		_, _ = h.Write(n[:])
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// IsZero reports an unset digest.
func (d Digest) IsZero() bool { return d == Digest{} }
