// Package hashing wraps the answer digest primitive used by the commit-reveal
// protocol. Equality is always byte-exact over the full 32-byte digest.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Size is the digest length in bytes.
const Size = sha256.Size

// Digest is a 32-byte answer digest.
type Digest [Size]byte

// Sum computes the digest of data.
func Sum(data []byte) Digest {
	return sha256.Sum256(data)
}

// FromBytes converts a raw byte slice into a Digest.
func FromBytes(raw []byte) (Digest, error) {
	var d Digest
	if len(raw) != Size {
		return d, fmt.Errorf("digest must be %d bytes, got %d", Size, len(raw))
	}
	copy(d[:], raw)
	return d, nil
}

// String returns the lowercase hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Bytes returns the digest as a byte slice.
func (d Digest) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, d[:])
	return out
}
