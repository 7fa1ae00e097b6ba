// Package random provides the process seed for availability generation.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// ResolveSeed returns configured unless it is zero, in which case it draws a fresh seed
// from gen. gen defaults to NewSeed.
func ResolveSeed(configured int64, gen func() (int64, error)) (int64, error) {
	if configured != 0 {
		return configured, nil
	}
	if gen == nil {
		gen = NewSeed
	}
	seed, err := gen()
	if err != nil {
		return 0, err
	}
	return seed, nil
}
