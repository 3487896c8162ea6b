package gateway

import (
	"math/rand"

	"github.com/synnergy-network/rpc-gateway/internal/registry"
)

// candidate pairs a registry entry with its live weight at sampling time.
type candidate struct {
	entry  *registry.Entry
	weight float64
}

// weightedPick samples one candidate from cands with probability
// proportional to weight, using rng for the uniform draw. Candidates with
// weight <= 0 have already been filtered out by the caller. A running
// cumulative sum with a linear scan is sufficient here: the candidate set
// rarely exceeds ~8 providers per chain (§9 design notes).
func weightedPick(rng *rand.Rand, cands []candidate) int {
	if len(cands) == 1 {
		return 0
	}
	total := 0.0
	for _, c := range cands {
		total += c.weight
	}
	if total <= 0 {
		return rng.Intn(len(cands))
	}
	target := rng.Float64() * total
	cum := 0.0
	for i, c := range cands {
		cum += c.weight
		if target < cum {
			return i
		}
	}
	return len(cands) - 1
}
