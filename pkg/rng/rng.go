// Package rng produces uniformly random integers and shuffles from a
// cryptographically secure OS source. No seeding API is exposed: the whole
// point of this package is that callers cannot make outcomes predictable.
package rng

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// UniformInt returns a uniformly distributed integer in the half-open
// range [lo, hi). Panics if hi <= lo, since that is always a caller bug,
// never recoverable input.
func UniformInt(lo, hi int) (int, error) {
	if hi <= lo {
		panic(fmt.Sprintf("rng: invalid range [%d, %d)", lo, hi))
	}
	span := big.NewInt(int64(hi - lo))
	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return 0, fmt.Errorf("rng: secure source unavailable: %w", err)
	}
	return lo + int(n.Int64()), nil
}

// MustUniformInt is UniformInt for callers that treat a failed secure
// source as fatal, per spec: "fails fatally if the OS source is
// unavailable."
func MustUniformInt(lo, hi int) int {
	n, err := UniformInt(lo, hi)
	if err != nil {
		panic(err)
	}
	return n
}

// Shuffle performs an in-place Fisher-Yates shuffle using UniformInt.
func Shuffle[T any](items []T) error {
	for i := len(items) - 1; i > 0; i-- {
		j, err := UniformInt(0, i+1)
		if err != nil {
			return err
		}
		items[i], items[j] = items[j], items[i]
	}
	return nil
}

// MustShuffle panics on a secure-source failure, matching MustUniformInt.
func MustShuffle[T any](items []T) {
	if err := Shuffle(items); err != nil {
		panic(err)
	}
}
