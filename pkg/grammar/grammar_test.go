package grammar

import (
	"testing"
	"time"

	"github.com/houshuang/alif/pkg/lemma"
	"github.com/stretchr/testify/assert"
)

func TestUpdate_ComfortGrowsWithSeenAndCorrect(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var e Exposure

	e = Update(e, "verb-past-tense", true, now)
	assert.Equal(t, 1, e.TimesSeen)
	assert.Equal(t, 1, e.TimesCorrect)
	assert.Greater(t, e.Comfort, 0.0)

	prevComfort := e.Comfort
	e = Update(e, "verb-past-tense", true, now.Add(time.Hour))
	assert.Greater(t, e.Comfort, prevComfort, "more seen+correct exposure in quick succession should raise comfort")
}

func TestUpdate_DecaysWithElapsedTime(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := Update(Exposure{}, "case-marker", true, now)

	soon := Update(e, "case-marker", true, now.Add(time.Hour))
	later := Update(e, "case-marker", true, now.AddDate(0, 0, 30))

	assert.Greater(t, soon.Comfort, later.Comfort, "a 30-day gap should decay comfort relative to reviewing soon after")
}

func TestClassify(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, LevelUnseen, Classify(cfg, nil))
	assert.Equal(t, LevelUnseen, Classify(cfg, &Exposure{}))
	assert.Equal(t, LevelLow, Classify(cfg, &Exposure{TimesSeen: 1, Comfort: 0.1}))
	assert.Equal(t, LevelHigh, Classify(cfg, &Exposure{TimesSeen: 10, Comfort: 0.9}))
}

func TestGrammarFit(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("no features is neutral", func(t *testing.T) {
		assert.Equal(t, 1.0, GrammarFit(cfg, nil, nil))
	})

	t.Run("single unseen feature scores 0.8", func(t *testing.T) {
		got := GrammarFit(cfg, nil, []lemma.GrammarFeature{"verb-past-tense"})
		assert.InDelta(t, 0.8, got, 1e-9)
	})

	t.Run("single high-comfort feature scores 1.1", func(t *testing.T) {
		exposures := map[lemma.GrammarFeature]*Exposure{
			"case-marker": {TimesSeen: 10, Comfort: 0.9},
		}
		got := GrammarFit(cfg, exposures, []lemma.GrammarFeature{"case-marker"})
		assert.InDelta(t, 1.1, got, 1e-9)
	})

	t.Run("geometric mean over mixed features", func(t *testing.T) {
		exposures := map[lemma.GrammarFeature]*Exposure{
			"a": {TimesSeen: 10, Comfort: 0.9}, // high: 1.1
			// "b" absent -> unseen: 0.8
		}
		got := GrammarFit(cfg, exposures, []lemma.GrammarFeature{"a", "b"})
		assert.InDelta(t, 0.9380832, got, 1e-6) // sqrt(1.1 * 0.8)
	})
}
