package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
)

// Property 7: cohort size <= 100, and every acquiring due lemma is in it,
// even when that pushes the cohort above maxSize.
func TestBuildCohort_BoundAndAcquiringUnconditional(t *testing.T) {
	infos := make(map[lemma.ID]*dueInfo)
	for i := lemma.ID(1); i <= 5; i++ {
		infos[i] = &dueInfo{LemmaID: i, KnowledgeState: memory.StateAcquiring, Due: true, PseudoStability: 0.1}
	}
	for i := lemma.ID(100); i < 200; i++ {
		infos[i] = &dueInfo{LemmaID: i, KnowledgeState: memory.StateKnown, Due: true, PseudoStability: float64(i)}
	}

	cohort := buildCohort(infos, 100)

	for i := lemma.ID(1); i <= 5; i++ {
		assert.True(t, cohort[i], "acquiring lemma %d must be unconditionally in the cohort", i)
	}
	assert.LessOrEqual(t, len(cohort), 105, "cohort is bounded by maxSize plus the unconditional acquiring set")
}

func TestBuildCohort_FillsLowestStabilityFirst(t *testing.T) {
	infos := map[lemma.ID]*dueInfo{
		1: {LemmaID: 1, KnowledgeState: memory.StateKnown, Due: true, PseudoStability: 5.0},
		2: {LemmaID: 2, KnowledgeState: memory.StateKnown, Due: true, PseudoStability: 1.0},
		3: {LemmaID: 3, KnowledgeState: memory.StateKnown, Due: true, PseudoStability: 3.0},
	}
	cohort := buildCohort(infos, 2)
	assert.True(t, cohort[2])
	assert.True(t, cohort[3])
	assert.False(t, cohort[1])
}

func TestBuildCohort_IgnoresNotDue(t *testing.T) {
	infos := map[lemma.ID]*dueInfo{
		1: {LemmaID: 1, KnowledgeState: memory.StateKnown, Due: false, PseudoStability: 1.0},
	}
	cohort := buildCohort(infos, 100)
	assert.Empty(t, cohort)
}
