package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
	"github.com/houshuang/alif/pkg/pool"
)

type fakeRatingLog struct {
	recent   []memory.Rating
	ratedOne map[lemma.ID]time.Time
}

func (f *fakeRatingLog) RecentWordRatings(limit int) ([]memory.Rating, error) {
	if limit < len(f.recent) {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeRatingLog) RatedOneSince(lemmaID lemma.ID, since time.Time) (bool, error) {
	at, ok := f.ratedOne[lemmaID]
	if !ok {
		return false, nil
	}
	return !at.Before(since), nil
}

func depsFor(g *lemma.Graph, ms memory.Store, log RatingLog) Dependencies {
	return Dependencies{Graph: g, MemoryStore: ms, RatingLog: log}
}

// Scenario A's tail clause: auto-intro is blocked if recent accuracy < 0.70.
func TestAutoIntroduce_BlockedBelowAccuracyThreshold(t *testing.T) {
	g := lemma.NewGraph([]lemma.Lemma{{ID: 1, Surface: "كتاب", FrequencyRank: 1}})
	ms := memory.NewMemStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	ratings := make([]memory.Rating, 20)
	for i := range ratings {
		ratings[i] = memory.RatingAgain // 0% accuracy, well below 0.70
	}
	log := &fakeRatingLog{recent: ratings}

	cfg := DefaultConfig()
	introduced, err := autoIntroduce(context.Background(), depsFor(g, ms, log), cfg, map[lemma.ID]*dueInfo{}, pool.ModeReading, false, now)
	require.NoError(t, err)
	assert.Empty(t, introduced)
}

func TestAutoIntroduce_HighAccuracyIntroducesUpToBudget(t *testing.T) {
	lemmas := make([]lemma.Lemma, 0, 20)
	for i := lemma.ID(1); i <= 20; i++ {
		lemmas = append(lemmas, lemma.Lemma{ID: i, Surface: "w", FrequencyRank: int(i)})
	}
	g := lemma.NewGraph(lemmas)
	ms := memory.NewMemStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	ratings := make([]memory.Rating, 20)
	for i := range ratings {
		ratings[i] = memory.RatingGood // 100% accuracy -> budget 10
	}
	log := &fakeRatingLog{recent: ratings}

	cfg := DefaultConfig()
	introduced, err := autoIntroduce(context.Background(), depsFor(g, ms, log), cfg, map[lemma.ID]*dueInfo{}, pool.ModeReading, false, now)
	require.NoError(t, err)
	// Budget is 10 (accuracy >= 0.92), but every newly-introduced lemma
	// enters box 1, so the box-1 cap (8) binds before the ceiling does.
	assert.Len(t, introduced, cfg.Box1Cap)
}

func TestAutoIntroduce_ListeningModeSkippedByDefault(t *testing.T) {
	g := lemma.NewGraph([]lemma.Lemma{{ID: 1, Surface: "a", FrequencyRank: 1}})
	ms := memory.NewMemStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	log := &fakeRatingLog{}

	cfg := DefaultConfig()
	introduced, err := autoIntroduce(context.Background(), depsFor(g, ms, log), cfg, map[lemma.ID]*dueInfo{}, pool.ModeListening, false, now)
	require.NoError(t, err)
	assert.Empty(t, introduced, "listening mode never auto-introduces unless the flag is flipped")
}

// Root Interference Guard: a sibling rated 1 within the
// lookback window defers introduction of the candidate.
func TestAutoIntroduce_RootInterferenceGuardDefers(t *testing.T) {
	g := lemma.NewGraph([]lemma.Lemma{
		{ID: 1, Surface: "كتب", RootID: 10, FrequencyRank: 1},
		{ID: 2, Surface: "كاتب", RootID: 10, FrequencyRank: 2},
	})
	ms := memory.NewMemStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	ratings := make([]memory.Rating, 20)
	for i := range ratings {
		ratings[i] = memory.RatingGood
	}
	log := &fakeRatingLog{
		recent:   ratings,
		ratedOne: map[lemma.ID]time.Time{2: now.Add(-24 * time.Hour)},
	}

	cfg := DefaultConfig()
	introduced, err := autoIntroduce(context.Background(), depsFor(g, ms, log), cfg, map[lemma.ID]*dueInfo{}, pool.ModeReading, false, now)
	require.NoError(t, err)
	for _, ic := range introduced {
		assert.NotEqual(t, lemma.ID(1), ic.LemmaID, "lemma 1's sibling was rated 1 within the lookback window")
	}
}

func TestAutoIntroduce_FillPhaseRelaxesCaps(t *testing.T) {
	cfg := DefaultConfig()
	assert.Greater(t, cfg.FillAcquiringCap, cfg.AcquiringCap)
	assert.Greater(t, cfg.FillBox1Cap, cfg.Box1Cap)
}
