package leech

import (
	"context"
	"testing"
	"time"

	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_ScanOnce_ReintroducesPastCooldown(t *testing.T) {
	store := memory.NewMemStore()
	locks := memory.NewLockTable(8)
	cfg := DefaultConfig()

	suspendedAt := time.Now().Add(-4 * 24 * time.Hour) // past the 3d 1st-offense cooldown
	require.NoError(t, store.Put(context.Background(), &memory.State{
		LemmaID:          lemma.ID(1),
		KnowledgeState:   memory.StateSuspended,
		LeechSuspendedAt: suspendedAt,
		LeechCount:       1,
		TimesSeen:        7,
		TimesCorrect:     2,
	}))
	require.NoError(t, store.Put(context.Background(), &memory.State{
		LemmaID:          lemma.ID(2),
		KnowledgeState:   memory.StateSuspended,
		LeechSuspendedAt: time.Now(), // not past cooldown yet
		LeechCount:       1,
	}))

	scanner := NewReintroductionScanner(store, locks, cfg, time.Hour)
	require.NoError(t, scanner.scanOnce(context.Background()))

	s1, ok, err := store.Get(context.Background(), lemma.ID(1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, memory.StateAcquiring, s1.KnowledgeState)
	assert.Equal(t, memory.Box(1), s1.Box)
	assert.Equal(t, 7, s1.TimesSeen)

	s2, ok, err := store.Get(context.Background(), lemma.ID(2))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, memory.StateSuspended, s2.KnowledgeState, "not yet past its own cooldown")

	assert.Equal(t, 1, scanner.Stats().Reintroduced)
}
