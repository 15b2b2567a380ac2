package inventory

import (
	"math/rand/v2"
	"sync"
)

// SelectionStrategy picks which of a folder's candidate videos to claim for a
// request of n. The inventory claims from the front of the returned slice
// until n claims succeed, so returning more than n candidates lets lost races
// fall through to the next one. Implementations must not mutate candidates.
type SelectionStrategy interface {
	Select(candidates []string, n int) []string
}

// FisherYates shuffles candidates uniformly.
type FisherYates struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewFisherYates returns a uniform shuffle. A nil source uses the global generator.
func NewFisherYates(src rand.Source) *FisherYates {
	s := &FisherYates{}
	if src != nil {
		s.rng = rand.New(src)
	}
	return s
}

// NewSeeded returns a deterministic shuffle for tests and replays.
func NewSeeded(seed uint64) *FisherYates {
	return NewFisherYates(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Select returns a shuffled copy of candidates. Every candidate is kept as a
// fallback for lost claims.
func (s *FisherYates) Select(candidates []string, _ int) []string {
	out := append([]string(nil), candidates...)
	if s == nil || s.rng == nil {
		rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(out) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Oldest keeps the store's creation order, handing out the oldest videos first.
type Oldest struct{}

// Select returns a copy of candidates unchanged.
func (Oldest) Select(candidates []string, _ int) []string {
	return append([]string(nil), candidates...)
}
