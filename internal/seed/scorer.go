package seed

import (
	"math/rand/v2"
	"sync"
)

// Scorer produces CropCura scores for generated farmers. Scores are demo
// placeholders; no scoring model is implied.
type Scorer interface {
	Score() int
}

// RandomScorer draws from a weighted distribution: 15% in [250,400),
// 20% in [500,600), 35% in [600,700) and 30% in [700,850).
type RandomScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomScorer creates a RandomScorer from a seed.
func NewRandomScorer(seed uint64) *RandomScorer {
	return &RandomScorer{rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

// Score implements Scorer.
func (s *RandomScorer) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rng.Float64()
	switch {
	case r < 0.15:
		return s.rng.IntN(150) + 250
	case r < 0.35:
		return s.rng.IntN(100) + 500
	case r < 0.70:
		return s.rng.IntN(100) + 600
	default:
		return s.rng.IntN(150) + 700
	}
}

// FixedScorer returns scores from a list in order, cycling when exhausted.
type FixedScorer struct {
	mu     sync.Mutex
	scores []int
	next   int
}

// NewFixedScorer creates a FixedScorer.
func NewFixedScorer(scores ...int) *FixedScorer {
	return &FixedScorer{scores: scores}
}

// Score implements Scorer.
func (s *FixedScorer) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.scores) == 0 {
		return 0
	}
	v := s.scores[s.next%len(s.scores)]
	s.next++
	return v
}
