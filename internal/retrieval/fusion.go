package retrieval

import "sort"

// FuseRanks applies reciprocal rank fusion to the given ranked lists of table
// names: score(d) = sum over lists containing d of 1/(k + rank + 1), ranks
// 0-based. Results are sorted by descending fused score; ties keep the order
// in which names were first seen across the concatenated inputs.
func FuseRanks(rankings [][]string, k int) []string {
	scores := make(map[string]float64)
	var order []string

	for _, ranks := range rankings {
		for rank, name := range ranks {
			if _, seen := scores[name]; !seen {
				order = append(order, name)
			}
			scores[name] += 1.0 / float64(k+rank+1)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	return order
}
