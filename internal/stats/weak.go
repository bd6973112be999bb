package stats

import (
	"sort"

	"github.com/lmersch/sprooch/internal/model"
)

// SelectWeakWords picks the words with the lowest best scores and assigns
// each a sampling weight. Words outside the selection keep an implicit
// weight of 1.
func SelectWeakWords(aggs []model.WordAggregate, top int, factor float64) map[string]float64 {
	weights := map[string]float64{}
	if len(aggs) == 0 || factor <= 1 {
		return weights
	}
	candidates := make([]model.WordAggregate, len(aggs))
	copy(candidates, aggs)
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].BestScore == candidates[j].BestScore {
			return candidates[i].Word < candidates[j].Word
		}
		return candidates[i].BestScore < candidates[j].BestScore
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		weights[candidates[i].Word] = factor
	}
	return weights
}
