package review

import (
	"time"

	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
	"github.com/houshuang/alif/pkg/pool"
)

// deriveRating maps an aggregate comprehension signal plus per-word marks
// onto the 1..4 rating scale the schedulers share.
func deriveRating(signal pool.Comprehension, id lemma.ID, missed, confused map[lemma.ID]bool) memory.Rating {
	switch signal {
	case pool.ComprehensionUnderstood, pool.ComprehensionGrammarConfused:
		return memory.RatingGood
	case pool.ComprehensionPartial:
		if missed[id] {
			return memory.RatingAgain
		}
		if confused[id] {
			return memory.RatingHard
		}
		return memory.RatingGood
	default: // no_idea
		return memory.RatingAgain
	}
}

// creditVariant records credit on the canonical lemma's state for a
// variant surface that was actually encountered, using the same 1/2
// encoding as the missed/confused rating bands.
func creditVariant(st *memory.State, variantID lemma.ID, rating memory.Rating) {
	if st.VariantStats == nil {
		st.VariantStats = make(map[lemma.ID]*memory.VariantStat)
	}
	vs, ok := st.VariantStats[variantID]
	if !ok {
		vs = &memory.VariantStat{VariantID: variantID}
		st.VariantStats[variantID] = vs
	}
	vs.Seen++
	switch rating {
	case memory.RatingAgain:
		vs.Missed++
	case memory.RatingHard:
		vs.Confused++
	}
}

// wordDueAt reads the due timestamp appropriate to a state's current
// knowledge_state.
func wordDueAt(st *memory.State) time.Time {
	if st.KnowledgeState == memory.StateAcquiring {
		return st.NextDueAt
	}
	if st.Card != nil {
		return st.Card.DueAt
	}
	return time.Time{}
}
