package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
	"github.com/houshuang/alif/pkg/pool"
)

func TestAssembleItem_PrimaryLemmaPrefersOnDemandTarget(t *testing.T) {
	g := lemma.NewGraph([]lemma.Lemma{
		{ID: 1, Surface: "a", Gloss: "gloss-a"},
		{ID: 2, Surface: "b", Gloss: "gloss-b"},
	})
	d := Dependencies{Graph: g}
	c := candidate{
		Sentence: pool.Sentence{
			ID:     1,
			Tokens: []pool.Token{{Position: 0, LemmaID: 1}, {Position: 1, LemmaID: 2}},
		},
		Covered:       []lemma.ID{1, 2},
		TargetLemmaID: 2,
	}
	due := map[lemma.ID]bool{1: true, 2: true}
	infos := map[lemma.ID]*dueInfo{}

	item := assembleItem(d, c, infos, due)
	assert.Equal(t, lemma.ID(2), item.PrimaryLemmaID)
	assert.Equal(t, "gloss-b", item.PrimaryGloss)
}

func TestAssembleItem_PrimaryLemmaFallsBackToFirstDueCovered(t *testing.T) {
	g := lemma.NewGraph([]lemma.Lemma{
		{ID: 1, Surface: "a", Gloss: "gloss-a"},
		{ID: 2, Surface: "b", Gloss: "gloss-b"},
	})
	d := Dependencies{Graph: g}
	c := candidate{
		Sentence: pool.Sentence{
			ID:     1,
			Tokens: []pool.Token{{Position: 0, LemmaID: 1}, {Position: 1, LemmaID: 2}},
		},
		Covered: []lemma.ID{1, 2},
	}
	due := map[lemma.ID]bool{2: true}
	infos := map[lemma.ID]*dueInfo{}

	item := assembleItem(d, c, infos, due)
	assert.Equal(t, lemma.ID(2), item.PrimaryLemmaID, "first due covered lemma in token order wins")
}

func TestAssembleItem_TokenCardsCarryStabilityAndDueFlag(t *testing.T) {
	g := lemma.NewGraph([]lemma.Lemma{{ID: 1, Surface: "a"}, {ID: 2, Surface: "min", IsFunctionWord: true}})
	d := Dependencies{Graph: g}
	c := candidate{
		Sentence: pool.Sentence{
			ID:     1,
			Tokens: []pool.Token{{Position: 0, Surface: "a", LemmaID: 1}, {Position: 1, Surface: "min", LemmaID: 2}},
		},
		Covered: []lemma.ID{1},
	}
	infos := map[lemma.ID]*dueInfo{1: {LemmaID: 1, KnowledgeState: memory.StateAcquiring, Due: true, PseudoStability: 0.1}}
	due := map[lemma.ID]bool{1: true}

	item := assembleItem(d, c, infos, due)
	require := assert.New(t)
	require.Len(item.Tokens, 2)
	require.True(item.Tokens[0].Due)
	require.Equal(0.1, item.Tokens[0].Stability)
	require.True(item.Tokens[1].FunctionWord)
	require.False(item.Tokens[1].Due)
}
