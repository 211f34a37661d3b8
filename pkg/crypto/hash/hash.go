package hash

import (
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash"
)

// New returns a streaming hash by name.
func New(name string) (hash.Hash, error) {
	switch name {
	case "sha1":
		return sha1.New(), nil
	case "sha256":
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("unsupported hash: %s", name)
	}
}

// Digest hashes the concatenation of parts.
func Digest(name string, parts ...[]byte) ([]byte, error) {
	h, err := New(name)
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil), nil
}
