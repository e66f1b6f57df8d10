package session

import (
	"sort"

	"github.com/houshuang/alif/pkg/lemma"
)

// minCoveredStability returns a candidate's min-covered-stability: the
// lowest pseudo-stability among the due lemmas it covers. The ordering
// stage uses this as the per-sentence difficulty proxy.
func minCoveredStability(c candidate, infos map[lemma.ID]*dueInfo) float64 {
	min := 0.0
	first := true
	for _, id := range c.Covered {
		info, ok := infos[id]
		if !ok {
			continue
		}
		if first || info.PseudoStability < min {
			min = info.PseudoStability
			first = false
		}
	}
	return min
}

// orderSession implements Ordering stage ("easy bookends"):
// sort by ascending min-covered-stability (hardest first), then place the
// easiest item first, the second-easiest last, the hardest in the middle,
// and fill outward from the center with the remainder in ascending
// stability (the next-hardest nearest the middle).
func orderSession(selected []candidate, infos map[lemma.ID]*dueInfo) []candidate {
	n := len(selected)
	if n <= 2 {
		return selected
	}

	sorted := make([]candidate, n)
	copy(sorted, selected)
	sort.SliceStable(sorted, func(i, j int) bool {
		return minCoveredStability(sorted[i], infos) < minCoveredStability(sorted[j], infos)
	})

	// sorted[0] is hardest (lowest stability), sorted[n-1] easiest.
	easiest := sorted[n-1]
	secondEasiest := sorted[n-2]
	hardest := sorted[0]
	rest := sorted[1 : n-2] // remaining, ascending stability (hardest-first)

	out := make([]candidate, n)
	out[0] = easiest
	out[n-1] = secondEasiest

	mid := n / 2
	out[mid] = hardest

	// Fill the remaining positions outward from the center, nearest first,
	// with rest in ascending stability order: the next-hardest item lands
	// closest to the middle, easier items land progressively farther out.
	var positions []int
	for d := 1; ; d++ {
		added := false
		if mid-d >= 1 {
			positions = append(positions, mid-d)
			added = true
		}
		if mid+d <= n-2 {
			positions = append(positions, mid+d)
			added = true
		}
		if !added {
			break
		}
	}
	for i, pos := range positions {
		out[pos] = rest[i]
	}
	return out
}
