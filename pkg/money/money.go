// Package money represents token amounts as exact integers in the smallest
// on-chain unit, never floating point, serialized as decimal strings so
// arbitrary magnitudes survive any JSON-like transport unharmed.
package money

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Amount is a non-negative integer count of the smallest on-chain unit.
type Amount int64

// Zero is the additive identity, spelled out for readability at call sites.
const Zero Amount = 0

// ParseAmount parses a decimal string into an Amount, rejecting fractional,
// negative, or malformed input.
func ParseAmount(s string) (Amount, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("money: negative amount %q", s)
	}
	return Amount(n), nil
}

func (a Amount) String() string {
	return strconv.FormatInt(int64(a), 10)
}

// MarshalJSON encodes the amount as a decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a decimal string (or a bare JSON number, for
// leniency with hand-written test fixtures) into an Amount.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := ParseAmount(s)
		if err != nil {
			return err
		}
		*a = v
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("money: cannot unmarshal amount: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("money: negative amount %d", n)
	}
	*a = Amount(n)
	return nil
}

// Mul computes amount * num / den, truncating toward zero (house-favoring),
// the shared primitive behind craps place-bet odds and poker pot splits.
func Mul(amount Amount, num, den int64) Amount {
	if den == 0 {
		panic("money: division by zero")
	}
	return Amount(int64(amount) * num / den)
}

// Split divides an amount evenly among n shares, returning the per-share
// amount and the integer remainder (to be awarded separately, e.g. via the
// odd-chip rule).
func Split(amount Amount, n int) (share Amount, remainder Amount) {
	if n <= 0 {
		panic("money: split into non-positive shares")
	}
	share = Amount(int64(amount) / int64(n))
	remainder = amount - share*Amount(n)
	return share, remainder
}
