package taskauction

import (
	"fmt"
	"math/rand/v2"
)

// RandSource provides random number generation for tie-breaking.
// Injecting it keeps settlement reproducible in tests.
type RandSource interface {
	// Intn returns a random integer in [0, n). Panics if n <= 0.
	Intn(n int) int
}

type pcgRandSource struct {
	r *rand.Rand
}

// NewRandSource returns a PCG-backed RandSource seeded once with seed.
// It is not safe for concurrent use.
func NewRandSource(seed uint64) RandSource {
	return &pcgRandSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *pcgRandSource) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("pcgRandSource.Intn: n must be positive, got %d", n))
	}
	return s.r.IntN(n)
}

// pickAssignee selects the lowest bidder. Ties go to the tied bidder with
// the fewest assigned tasks, then to a uniformly random pick among those.
// bids must be non-empty and in insertion order.
func pickAssignee(bids []Bid, reg *Registry, rng RandSource) string {
	lowest := bids[0].Amount
	for _, b := range bids[1:] {
		lowest = min(lowest, b.Amount)
	}

	var group []string
	for _, b := range bids {
		if b.Amount == lowest {
			group = append(group, b.User)
		}
	}
	if len(group) == 1 {
		return group[0]
	}

	fewest := -1
	var candidates []string
	for _, name := range group {
		n := reg.lookup(name).TasksAssigned()
		switch {
		case fewest < 0 || n < fewest:
			fewest = n
			candidates = []string{name}
		case n == fewest:
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	return candidates[rng.Intn(len(candidates))]
}
