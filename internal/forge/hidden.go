package forge

import (
	"fmt"
	"math/rand/v2"
)

// SelectHidden draws n propositions from vocab without replacement. Each draw
// picks uniformly among the remaining candidates; the result is in draw order.
func SelectHidden(vocab []string, n int, rng *rand.Rand) ([]string, error) {
	if n < 0 || n > len(vocab) {
		return nil, fmt.Errorf("%w: cannot hide %d of %d propositions", ErrInvalidParams, n, len(vocab))
	}

	candidates := append([]string(nil), vocab...)
	hidden := make([]string, 0, n)
	for i := 0; i < n; i++ {
		pos := rng.IntN(len(candidates))
		hidden = append(hidden, candidates[pos])
		candidates = append(candidates[:pos], candidates[pos+1:]...)
	}
	return hidden, nil
}
