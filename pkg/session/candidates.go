package session

import (
	"context"
	"time"

	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/pool"
)

// fetchCandidates implements Candidate Fetch stage: pull
// active sentences covering any due, cohort-filtered lemma, with the pool's
// recency filter already applied by the store.
func fetchCandidates(ctx context.Context, deps Dependencies, cohort map[lemma.ID]bool, mode pool.Mode, now time.Time) ([]pool.Sentence, error) {
	due := make([]lemma.ID, 0, len(cohort))
	for id := range cohort {
		due = append(due, id)
	}
	if len(due) == 0 {
		return nil, nil
	}
	sentences, err := deps.PoolStore.ActiveSentencesCovering(ctx, due, mode, now)
	if err != nil {
		return nil, err
	}
	return dedupeSentences(sentences), nil
}

// dedupeSentences drops duplicate sentence ids, keeping the first occurrence.
func dedupeSentences(sentences []pool.Sentence) []pool.Sentence {
	seen := make(map[int64]bool, len(sentences))
	out := make([]pool.Sentence, 0, len(sentences))
	for _, s := range sentences {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out
}
