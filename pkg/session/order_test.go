package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/houshuang/alif/pkg/lemma"
)

// Property 9: item[0] and item[n-1] have the two highest min-covered-
// stability values among selected items.
func TestOrderSession_EasyBookends(t *testing.T) {
	infos := map[lemma.ID]*dueInfo{
		1: {LemmaID: 1, PseudoStability: 1.0},
		2: {LemmaID: 2, PseudoStability: 5.0}, // easiest
		3: {LemmaID: 3, PseudoStability: 0.1}, // hardest
		4: {LemmaID: 4, PseudoStability: 4.0}, // second-easiest
		5: {LemmaID: 5, PseudoStability: 2.0},
	}
	selected := []candidate{
		{Covered: []lemma.ID{1}},
		{Covered: []lemma.ID{2}},
		{Covered: []lemma.ID{3}},
		{Covered: []lemma.ID{4}},
		{Covered: []lemma.ID{5}},
	}

	ordered := orderSession(selected, infos)
	require := assert.New(t)
	require.Len(ordered, 5)

	stabilities := make([]float64, len(ordered))
	for i, c := range ordered {
		stabilities[i] = minCoveredStability(c, infos)
	}

	// The two highest stabilities overall (5.0, 4.0) must occupy the two
	// bookend positions.
	top2 := []float64{5.0, 4.0}
	assert.Contains(t, top2, stabilities[0])
	assert.Contains(t, top2, stabilities[len(stabilities)-1])
	assert.NotEqual(t, stabilities[0], stabilities[len(stabilities)-1])

	mid := len(ordered) / 2
	assert.Equal(t, 0.1, stabilities[mid], "hardest item sits in the middle")
}

func TestOrderSession_ShortSessionsUnchanged(t *testing.T) {
	infos := map[lemma.ID]*dueInfo{1: {LemmaID: 1, PseudoStability: 1.0}}
	selected := []candidate{{Covered: []lemma.ID{1}}}
	assert.Equal(t, selected, orderSession(selected, infos))

	two := []candidate{{Covered: []lemma.ID{1}}, {Covered: []lemma.ID{1}}}
	assert.Equal(t, two, orderSession(two, infos))
}
