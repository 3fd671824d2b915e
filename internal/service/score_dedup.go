package service

import (
	"math"
	"math/rand"
	"sync"
)

const scoreHistorySize = 10

// ScoreDeduplicator keeps the last few emitted scores per category and
// nudges new scores so the report does not show rows of identical numbers.
// The quality bonus is deterministic; jitter only kicks in on an exact
// collision with a recent score and stays within 0.2 of the input, so a
// score can never drift more than one qualitative band.
type ScoreDeduplicator struct {
	mu      sync.Mutex
	rng     *rand.Rand
	history map[string][]float64
}

// NewScoreDeduplicator returns a deduplicator seeded for reproducibility.
func NewScoreDeduplicator(seed int64) *ScoreDeduplicator {
	return &ScoreDeduplicator{
		rng:     rand.New(rand.NewSource(seed)),
		history: make(map[string][]float64),
	}
}

// Adjust applies the quality bonus and collision jitter to a rubric score,
// records the result in the category's rolling history, and returns it
// rounded to one decimal in [0, 10].
func (d *ScoreDeduplicator) Adjust(categoryID string, score float64, wordCount int, sentiment float64) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	bonus := math.Min(0.5, float64(wordCount)/200)
	if sentiment > 0 {
		bonus += math.Min(0.3, sentiment*0.3)
	}
	adjusted := round1(clamp(score+bonus, 0, 10))

	for attempt := 0; attempt < 5 && d.collides(categoryID, adjusted); attempt++ {
		jitter := 0.15 + d.rng.Float64()*0.05
		if d.rng.Intn(2) == 0 {
			jitter = -jitter
		}
		candidate := clamp(adjusted+jitter, 0, 10)
		// Stay within the original whole-point band's neighbors.
		candidate = clamp(candidate, score-1, score+1)
		adjusted = round1(candidate)
	}

	d.record(categoryID, adjusted)
	return adjusted
}

func (d *ScoreDeduplicator) collides(categoryID string, score float64) bool {
	for _, s := range d.history[categoryID] {
		if s == score {
			return true
		}
	}
	return false
}

func (d *ScoreDeduplicator) record(categoryID string, score float64) {
	h := append(d.history[categoryID], score)
	if len(h) > scoreHistorySize {
		h = h[len(h)-scoreHistorySize:]
	}
	d.history[categoryID] = h
}
