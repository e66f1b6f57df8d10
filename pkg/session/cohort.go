package session

import (
	"sort"

	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
)

// buildCohort implements Focus Cohort Filter: a cohort containing every
// acquiring due lemma unconditionally (even beyond maxSize), then the
// lowest-stability long-term due lemmas filling it up to maxSize.
// Due lemmas outside the cohort are dropped from this session.
func buildCohort(infos map[lemma.ID]*dueInfo, maxSize int) map[lemma.ID]bool {
	var acquiring, longTerm []*dueInfo
	for _, info := range infos {
		if !info.Due {
			continue
		}
		if info.KnowledgeState == memory.StateAcquiring {
			acquiring = append(acquiring, info)
		} else {
			longTerm = append(longTerm, info)
		}
	}

	// Acquiring lemmas are unconditional: does not cap them
	// by maxSize, only the long-term fill does.
	cohort := make(map[lemma.ID]bool, maxSize)
	for _, info := range acquiring {
		cohort[info.LemmaID] = true
	}

	sort.Slice(longTerm, func(i, j int) bool {
		if longTerm[i].PseudoStability != longTerm[j].PseudoStability {
			return longTerm[i].PseudoStability < longTerm[j].PseudoStability
		}
		return longTerm[i].LemmaID < longTerm[j].LemmaID
	})
	for _, info := range longTerm {
		if len(cohort) >= maxSize {
			break
		}
		cohort[info.LemmaID] = true
	}

	return cohort
}
