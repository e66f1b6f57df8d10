package session

import (
	"context"

	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
	"github.com/houshuang/alif/pkg/pool"
)

// acquisitionRepetition implements Acquisition Repetition
// stage: top up sentences for any acquiring lemma appearing fewer than 4
// times in the selected set, in passes targeting appearance counts
// 2, 3, 4 in order (every lemma reaches 2 before any reaches 3), bounded
// by maxExtra additional slots beyond the caller's limit.
func acquisitionRepetition(ctx context.Context, deps Dependencies, cfg Config, selected []candidate, sentences []pool.Sentence, infos map[lemma.ID]*dueInfo, due map[lemma.ID]bool, maxExtra int) ([]candidate, error) {
	used := make(map[int64]bool, len(selected))
	appearances := make(map[lemma.ID]int)
	for _, c := range selected {
		used[c.Sentence.ID] = true
		for _, id := range c.Covered {
			appearances[id]++
		}
	}

	var acquiring []lemma.ID
	for id := range due {
		if info, ok := infos[id]; ok && info.KnowledgeState == memory.StateAcquiring {
			acquiring = append(acquiring, id)
		}
	}

	extraUsed := 0
	for _, target := range cfg.AcquisitionRepetitionTargets {
		for _, lemmaID := range acquiring {
			for appearances[lemmaID] < target && extraUsed < maxExtra {
				next, ok, err := bestUnusedCovering(ctx, deps, cfg, sentences, infos, due, lemmaID, used)
				if err != nil {
					return nil, err
				}
				if !ok {
					break
				}
				selected = append(selected, next)
				used[next.Sentence.ID] = true
				for _, id := range next.Covered {
					appearances[id]++
				}
				extraUsed++
			}
			if extraUsed >= maxExtra {
				return selected, nil
			}
		}
	}
	return selected, nil
}

// bestUnusedCovering finds the highest-scoring not-yet-used sentence
// covering targetLemma, scored against the full due set so its covered/DMQ
// reflect everything it actually covers, not just targetLemma.
func bestUnusedCovering(ctx context.Context, deps Dependencies, cfg Config, sentences []pool.Sentence, infos map[lemma.ID]*dueInfo, due map[lemma.ID]bool, targetLemma lemma.ID, used map[int64]bool) (candidate, bool, error) {
	var best *candidate
	for _, s := range sentences {
		if used[s.ID] {
			continue
		}
		coversTarget := false
		for _, id := range s.ActiveTokenLemmaIDs(deps.Graph) {
			if id == targetLemma {
				coversTarget = true
				break
			}
		}
		if !coversTarget {
			continue
		}
		c, ok, err := score(ctx, deps, cfg, s, infos, due)
		if err != nil {
			return candidate{}, false, err
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
		return candidate{}, false, nil
	}
	return *best, true, nil
}
