// Package digest provides a representation of checksums of artifacts.
package digest

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Algorithm is a hash algorithm.
type Algorithm int

const (
	_ Algorithm = iota
	// SHA256 is the sha256 algorithm.
	SHA256
	// SHA384 is the sha384 algorithm.
	SHA384
)

var algorithms = map[Algorithm]struct {
	name   string
	hexLen int
}{
	SHA256: {name: "sha256", hexLen: 64},
	SHA384: {name: "sha384", hexLen: 96},
}

// String returns the lowercase name of the algorithm.
func (a Algorithm) String() string {
	if alg, exist := algorithms[a]; exist {
		return alg.name
	}

	return "undefined"
}

// Digest is a checksum computed with Algorithm.
type Digest struct {
	Sum       []byte
	Algorithm Algorithm
}

// String returns "<Algorithm>:<Hex-Sum>".
func (d *Digest) String() string {
	return d.Algorithm.String() + ":" + d.Hex()
}

// Hex returns the hex encoded sum.
func (d *Digest) Hex() string {
	return hex.EncodeToString(d.Sum)
}

// FromString parses a "<Algorithm>:<Hex-Sum>" string.
func FromString(in string) (*Digest, error) {
	algName, sum, found := strings.Cut(strings.TrimSpace(in), ":")
	if !found {
		return nil, fmt.Errorf("%q has an invalid format, expecting <algorithm>:<sum>", in)
	}

	for a, alg := range algorithms {
		if !strings.EqualFold(alg.name, algName) {
			continue
		}

		if len(sum) != alg.hexLen {
			return nil, fmt.Errorf("hash length is %d, expected length %d", len(sum), alg.hexLen)
		}

		b, err := hex.DecodeString(sum)
		if err != nil {
			return nil, fmt.Errorf("decoding hex sum failed: %w", err)
		}

		return &Digest{Sum: b, Algorithm: a}, nil
	}

	return nil, fmt.Errorf("unsupported algorithm %q", algName)
}
