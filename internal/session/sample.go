package session

import (
	"math/rand"

	"github.com/lmersch/sprooch/internal/model"
)

// sampleUniform draws target distinct words without replacement.
func sampleUniform(rnd *rand.Rand, pool []model.WordInfo, target int) []model.WordInfo {
	perm := rnd.Perm(len(pool))
	out := make([]model.WordInfo, 0, target)
	for _, idx := range perm[:target] {
		out = append(out, pool[idx])
	}
	return out
}

// sampleWeighted draws target distinct words, biased toward higher weights.
// Each draw removes the chosen word so the result stays duplicate-free.
func sampleWeighted(rnd *rand.Rand, pool []model.WordInfo, target int, weights map[string]float64) []model.WordInfo {
	remaining := make([]model.WordInfo, len(pool))
	copy(remaining, pool)

	out := make([]model.WordInfo, 0, target)
	for len(out) < target && len(remaining) > 0 {
		total := 0.0
		for _, w := range remaining {
			total += weightFor(weights, w.Word)
		}

		r := rnd.Float64() * total
		acc := 0.0
		idx := len(remaining) - 1
		for i, w := range remaining {
			acc += weightFor(weights, w.Word)
			if r <= acc {
				idx = i
				break
			}
		}

		out = append(out, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return out
}

func weightFor(weights map[string]float64, word string) float64 {
	if w, ok := weights[word]; ok && w > 0 {
		return w
	}
	return 1.0
}
