package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houshuang/alif/pkg/grammar"
	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
	"github.com/houshuang/alif/pkg/pool"
)

// Scenario A end-to-end: one acquiring lemma, one sentence covering it,
// auto-introduction disabled by low recent accuracy. The build returns
// that sentence exactly once.
func TestBuilder_Build_ColdStartSingleAcquiringWord(t *testing.T) {
	g := lemma.NewGraph([]lemma.Lemma{
		{ID: 1, Surface: "كتاب"},
		{ID: 2, Surface: "مدرسة"},
		{ID: 3, Surface: "الولد"},
	})
	ms := memory.NewMemStore()
	ps := pool.NewMemStore(g, pool.RecencyConfig{})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	require.NoError(t, ms.Put(ctx, &memory.State{
		LemmaID: 2, KnowledgeState: memory.StateAcquiring, Box: 1, NextDueAt: now,
	}))
	require.NoError(t, ms.Put(ctx, &memory.State{
		LemmaID: 3, KnowledgeState: memory.StateKnown,
		Card: &memory.Card{Stability: 5, FSRSState: memory.FSRSReview, DueAt: now.Add(-time.Hour)},
	}))
	ps.Seed(pool.Sentence{
		ID:       1,
		Text:     "ذهبَ الولدُ إلى المدرسةِ",
		IsActive: true,
		Tokens: []pool.Token{
			{Position: 0, Surface: "الولد", LemmaID: 3},
			{Position: 1, Surface: "المدرسة", LemmaID: 2},
		},
	})

	ratings := make([]memory.Rating, 20)
	for i := range ratings {
		ratings[i] = memory.RatingAgain // accuracy 0: auto-intro must not fire
	}
	log := &fakeRatingLog{recent: ratings}

	b := NewBuilder(Dependencies{
		Graph:        g,
		MemoryStore:  ms,
		PoolStore:    ps,
		GrammarStore: grammar.NewMemStore(),
		RatingLog:    log,
	}, DefaultConfig())

	result, err := b.Build(ctx, BuildRequest{Mode: pool.ModeReading, Limit: 5, Now: now})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, int64(1), result.Items[0].SentenceID)
	assert.Empty(t, result.IntroCandidates, "auto-intro is blocked by low recent accuracy")
}

// With an empty pool, even a default auto-introduction budget cannot
// produce a card: there is nothing covering the newly-acquiring lemma, and
// with no generator configured, on-demand generation is a no-op too.
func TestBuilder_Build_EmptyPoolReturnsNoItems(t *testing.T) {
	g := lemma.NewGraph([]lemma.Lemma{{ID: 1, Surface: "a"}})
	ms := memory.NewMemStore()
	ps := pool.NewMemStore(g, pool.RecencyConfig{})
	log := &fakeRatingLog{}

	b := NewBuilder(Dependencies{Graph: g, MemoryStore: ms, PoolStore: ps, GrammarStore: grammar.NewMemStore(), RatingLog: log}, DefaultConfig())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	result, err := b.Build(context.Background(), BuildRequest{Mode: pool.ModeReading, Limit: 5, Now: now})
	require.NoError(t, err)
	assert.Empty(t, result.Items, "the auto-introduced lemma has no covering sentence and no generator, so nothing to build")
}
