package craps

import "github.com/feltedge/tablehouse/pkg/rng"

// rollDice produces a pair of dice, each uniform in [1,6], from the shared
// cryptographically secure RNG.
func rollDice() ([2]int, error) {
	var d [2]int
	for i := range d {
		n, err := rng.UniformInt(1, 7)
		if err != nil {
			return d, err
		}
		d[i] = n
	}
	return d, nil
}
