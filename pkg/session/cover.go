package session

import (
	"context"

	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/pool"
)

// greedyCover implements Greedy Set Cover: repeatedly pick
// the highest-scoring candidate, remove its covered lemmas from the
// remaining due set, and re-score (since covered/DMQ/etc. depend on it).
// Stable across identical inputs: sentences are scanned in their input
// order and ties broken deterministically.
func greedyCover(ctx context.Context, deps Dependencies, cfg Config, sentences []pool.Sentence, infos map[lemma.ID]*dueInfo, due map[lemma.ID]bool, limit int) ([]candidate, error) {
	remaining := make(map[lemma.ID]bool, len(due))
	for id := range due {
		remaining[id] = true
	}

	used := make(map[int64]bool, len(sentences))
	var selected []candidate
	for len(selected) < limit && len(remaining) > 0 {
		var best *candidate
		for _, s := range sentences {
			if used[s.ID] {
				continue
			}
			c, ok, err := score(ctx, deps, cfg, s, infos, remaining)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if best == nil || betterCandidate(c, *best) {
				cc := c
				best = &cc
			}
		}
		if best == nil {
			break
		}
		selected = append(selected, *best)
		used[best.Sentence.ID] = true
		for _, id := range best.Covered {
			delete(remaining, id)
		}
	}
	return selected, nil
}

// betterCandidate reports whether a should be picked over b: higher score
// wins, ties broken by lower times_shown then lower sentence id.
func betterCandidate(a, b candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	shownA, shownB := totalShown(a.Sentence), totalShown(b.Sentence)
	if shownA != shownB {
		return shownA < shownB
	}
	return a.Sentence.ID < b.Sentence.ID
}

func totalShown(s pool.Sentence) int {
	total := 0
	for _, stat := range s.Shown {
		total += stat.TimesShown
	}
	return total
}
