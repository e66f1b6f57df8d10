package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houshuang/alif/pkg/memory"
)

func TestMemLog_PutAndGetByClientID(t *testing.T) {
	l := NewMemLog()
	ctx := context.Background()
	entry := &LogEntry{
		ID: "log-1", ClientReviewID: "client-1", SentenceID: 1,
		Snapshots: []WordSnapshot{{LemmaID: 4, Prior: &memory.State{LemmaID: 4, KnowledgeState: memory.StateAcquiring}}},
		CreatedAt: time.Now(),
	}
	require.NoError(t, l.Put(ctx, entry))

	got, ok, err := l.GetByClientID(ctx, "client-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "log-1", got.ID)
	require.Len(t, got.Snapshots, 1)
	assert.Equal(t, memory.StateAcquiring, got.Snapshots[0].Prior.KnowledgeState)
}

func TestMemLog_CloneIsolatesCallerMutation(t *testing.T) {
	l := NewMemLog()
	ctx := context.Background()
	entry := &LogEntry{
		ID: "log-1",
		Snapshots: []WordSnapshot{{LemmaID: 4, Prior: &memory.State{LemmaID: 4, Box: 1}}},
	}
	require.NoError(t, l.Put(ctx, entry))

	got, _, err := l.Get(ctx, "log-1")
	require.NoError(t, err)
	got.Snapshots[0].Prior.Box = 9

	got2, _, err := l.Get(ctx, "log-1")
	require.NoError(t, err)
	assert.Equal(t, memory.Box(1), got2.Snapshots[0].Prior.Box, "mutating a returned entry must not affect the stored copy")
}

func TestMemLog_DeleteRemovesBothIndexes(t *testing.T) {
	l := NewMemLog()
	ctx := context.Background()
	require.NoError(t, l.Put(ctx, &LogEntry{ID: "log-1", ClientReviewID: "client-1"}))
	require.NoError(t, l.Delete(ctx, "log-1"))

	_, ok, err := l.Get(ctx, "log-1")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = l.GetByClientID(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemLog_DeleteUnknownReturnsError(t *testing.T) {
	l := NewMemLog()
	err := l.Delete(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrReviewLogNotFound)
}
