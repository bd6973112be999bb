// Package align computes Dynamic Time Warping distances between sequences.
package align

import "math"

// MaxDistance is returned when either sequence is empty. Aligning against
// silence is defined as maximally dissimilar rather than an error.
const MaxDistance = 100.0

// DistanceFunc measures the cost between two sequence elements.
type DistanceFunc[E any] func(a, b E) float64

// Distance computes the DTW distance between two sequences, normalized by
// the combined path length (n+m) so the result is length-independent.
//
// The cumulative-cost matrix is (n+1)x(m+1); each cell adds the element cost
// to the minimum of the insertion, deletion, and match predecessors, in that
// order for deterministic tie-breaking. O(n·m) time and memory, fine for
// single-word utterances of a few hundred frames.
func Distance[E any](seq1, seq2 []E, dist DistanceFunc[E]) float64 {
	n, m := len(seq1), len(seq2)
	if n == 0 || m == 0 {
		return MaxDistance
	}

	inf := math.Inf(1)
	dp := make([][]float64, n+1)
	for i := range dp {
		dp[i] = make([]float64, m+1)
		for j := range dp[i] {
			dp[i][j] = inf
		}
	}
	dp[0][0] = 0

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cost := dist(seq1[i-1], seq2[j-1])
			best := dp[i-1][j] // insertion
			if del := dp[i][j-1]; del < best {
				best = del
			}
			if match := dp[i-1][j-1]; match < best {
				best = match
			}
			dp[i][j] = cost + best
		}
	}

	return dp[n][m] / float64(n+m)
}

// AbsDiff is the element distance for one-dimensional contours.
func AbsDiff(a, b float64) float64 {
	return math.Abs(a - b)
}

// Euclidean is the element distance for multi-dimensional feature vectors.
// Dimensions beyond the shorter vector are ignored.
func Euclidean(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
