package session

import (
	"context"
	"time"

	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
)

// classify implements Classify stage: load all non-suspended
// memory states, determine due-ness for every non-function canonical
// lemma, and attach a pseudo-stability for acquiring lemmas.
func classify(ctx context.Context, deps Dependencies, now time.Time) (map[lemma.ID]*dueInfo, error) {
	states, err := deps.MemoryStore.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[lemma.ID]*dueInfo, len(states))
	for _, s := range states {
		if deps.Graph.IsFunctionWord(s.LemmaID) {
			continue
		}
		if l, ok := deps.Graph.Lookup(s.LemmaID); ok && l.IsVariant() {
			continue // variants never own memory state directly
		}
		out[s.LemmaID] = &dueInfo{
			LemmaID:         s.LemmaID,
			KnowledgeState:  s.KnowledgeState,
			Due:             s.IsDue(now),
			PseudoStability: s.PseudoStability(),
			Box:             s.Box,
			TimesSeen:       s.TimesSeen,
		}
	}
	return out, nil
}

// dueSet returns the lemma ids currently marked due in infos.
func dueSet(infos map[lemma.ID]*dueInfo) []lemma.ID {
	var out []lemma.ID
	for id, info := range infos {
		if info.Due {
			out = append(out, id)
		}
	}
	return out
}

// comprehensibleStates is the set of knowledge states that count as
// "comprehended" for the Score stage's comprehensibility gate
// (encountered lemmas DO count).
var comprehensibleStates = map[memory.KnowledgeState]bool{
	memory.StateKnown:       true,
	memory.StateLearning:    true,
	memory.StateLapsed:      true,
	memory.StateAcquiring:   true,
	memory.StateEncountered: true,
}
