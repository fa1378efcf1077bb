package model

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/vmihailenco/msgpack/v5"
)

// Digest is a sha256 content hash used as a cache key.
type Digest [32]byte

// String returns the hex form of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 12 hex characters, for logs.
func (d Digest) Short() string {
	return d.String()[:12]
}

// IsZero reports whether the digest is unset.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// DigestOf hashes the msgpack encoding of v. Values that are Equal produce
// equal digests.
func DigestOf(v any) (Digest, error) {
	h := sha256.New()

	enc := msgpack.NewEncoder(h)
	enc.SetSortMapKeys(true)

	if err := enc.Encode(v); err != nil {
		return Digest{}, fmt.Errorf("encoding digest input: %w", err)
	}

	return sum(h), nil
}

// Combine builds H(first || rest...). The order of rest must be deterministic.
func Combine(first Digest, rest ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(first[:])

	for _, d := range rest {
		_, _ = h.Write(d[:])
	}

	return sum(h)
}

// DigestBytes hashes raw content, such as a source file. Each part is
// length-prefixed, so part boundaries affect the digest.
func DigestBytes(parts ...[]byte) Digest {
	h := sha256.New()

	var size [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(size[:], uint64(len(p)))
		_, _ = h.Write(size[:])
		_, _ = h.Write(p)
	}

	return sum(h)
}

func sum(h hash.Hash) Digest {
	var out Digest
	copy(out[:], h.Sum(nil))

	return out
}
