// Package sha384 computes SHA384 digests of files and data streams.
package sha384

import (
	"crypto/sha512"
	"fmt"
	stdhash "hash"
	"io"
	"os"

	"github.com/vrsoftware/vrbuild/internal/digest"
)

// Hash accumulates data for computing a digest.
type Hash struct {
	hash stdhash.Hash
}

// New returns an empty Hash.
func New() *Hash {
	return &Hash{hash: sha512.New384()}
}

// Write adds p to the hash, it never returns an error.
func (h *Hash) Write(p []byte) (int, error) {
	return h.hash.Write(p)
}

// AddFile adds the content of the file at path to the hash.
func (h *Hash) AddFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file failed: %w", err)
	}

	defer f.Close()

	if _, err := io.Copy(h.hash, f); err != nil {
		return fmt.Errorf("reading file failed: %w", err)
	}

	return nil
}

// AddBytes adds b to the hash.
func (h *Hash) AddBytes(b []byte) error {
	if _, err := h.hash.Write(b); err != nil {
		return fmt.Errorf("writing to hash stream failed: %w", err)
	}

	return nil
}

// Digest returns the digest of all data added so far.
func (h *Hash) Digest() *digest.Digest {
	return &digest.Digest{
		Algorithm: digest.SHA384,
		Sum:       h.hash.Sum(nil),
	}
}

// File returns the digest of the file at path.
func File(path string) (*digest.Digest, error) {
	h := New()
	if err := h.AddFile(path); err != nil {
		return nil, err
	}

	return h.Digest(), nil
}
