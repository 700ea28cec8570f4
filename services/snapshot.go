package services

import (
	"math/rand/v2"
	"strconv"

	"hygiene-analyzer/models"
)

// downgradeProbability is the chance a five-star record is rewritten in the
// synthetic prior snapshot.
const downgradeProbability = 0.3

// RandomSource is the randomness GenerateOldMockData draws from.
// *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

// NewSeededSource returns a deterministic PCG-backed source.
func NewSeededSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// GenerateOldMockData fabricates a "previous" snapshot from records: each
// five-star record is, with probability 0.3, given a uniform rating in
// 0..4. Everything else is copied as is. The input slice is not modified
// and the output always has the same length.
func GenerateOldMockData(records []models.Establishment, rnd RandomSource) []models.Establishment {
	prior := make([]models.Establishment, len(records))
	for i, e := range records {
		if e.RatingValue == models.FiveStar && rnd.Float64() < downgradeProbability {
			e.RatingValue = strconv.Itoa(rnd.IntN(5))
		}
		prior[i] = e
	}
	return prior
}
