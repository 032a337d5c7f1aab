package qdrantDB

import "math"

// maximalMarginalRelevance picks up to k candidate indices balancing
// relevance to the query against novelty relative to what is already
// selected: score = lambda*sim(query, c) - (1-lambda)*max sim(c, selected).
// Candidates arrive ranked by the index, so ties fall back to query order.
func maximalMarginalRelevance(query []float32, candidates [][]float32, lambda float32, k int) []int {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	if k > len(candidates) {
		k = len(candidates)
	}

	querySim := make([]float32, len(candidates))
	for i, c := range candidates {
		querySim[i] = cosineSimilarity(query, c)
	}

	selected := make([]int, 0, k)
	remaining := make(map[int]bool, len(candidates))
	for i := range candidates {
		remaining[i] = true
	}

	for len(selected) < k {
		best := -1
		bestScore := float32(math.Inf(-1))

		for i := range candidates {
			if !remaining[i] {
				continue
			}

			redundancy := float32(0)
			for _, s := range selected {
				if sim := cosineSimilarity(candidates[i], candidates[s]); sim > redundancy {
					redundancy = sim
				}
			}

			score := lambda*querySim[i] - (1-lambda)*redundancy
			if score > bestScore || (score == bestScore && (best == -1 || i < best)) {
				bestScore = score
				best = i
			}
		}

		if best == -1 {
			break
		}
		selected = append(selected, best)
		delete(remaining, best)
	}
	return selected
}

func cosineSimilarity(a []float32, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
