// Package grammar tracks per-feature exposure and "comfort" — how
// practiced a learner is with a grammatical construction, independent of
// any single lemma's memory state.
package grammar

import (
	"math"
	"time"

	"github.com/houshuang/alif/pkg/lemma"
)

// Exposure is the accounting record for one grammar feature.
type Exposure struct {
	Feature      lemma.GrammarFeature
	TimesSeen    int
	TimesCorrect int
	Comfort      float64
	LastSeenAt   time.Time
}

// Level buckets a feature's comfort for scoring.
type Level string

const (
	LevelUnseen Level = "unseen"
	LevelLow    Level = "low"
	LevelHigh   Level = "high"
)

// Config holds the one tunable the spec leaves to the implementation: the
// comfort value separating "low" from "high" for grammar_fit purposes.
// Comfort's two components each cap at 0.6/0.4 so the theoretical max is
// 1.0; 0.5 sits below the seen-component's own 0.6 cap, so with no decay
// five exposures reach high comfort even without any correct answers.
type Config struct {
	HighComfortThreshold float64 `yaml:"high_comfort_threshold"`
}

func DefaultConfig() Config {
	return Config{HighComfortThreshold: 0.5}
}

// Update applies one exposure (seen, and whether the learner handled it
// correctly per comprehension-signal mapping) and returns
// the new record. prev may be the zero value for a never-seen feature.
func Update(prev Exposure, feature lemma.GrammarFeature, correct bool, now time.Time) Exposure {
	seen := prev.TimesSeen + 1
	correctCount := prev.TimesCorrect
	if correct {
		correctCount++
	}

	seenComponent := math.Min(0.6, math.Log2(float64(seen+1))/math.Log2(31))
	correctComponent := math.Min(0.4, float64(correctCount)/float64(seen)*0.4)
	raw := seenComponent + correctComponent

	decay := 1.0
	if !prev.LastSeenAt.IsZero() {
		days := now.Sub(prev.LastSeenAt).Hours() / 24
		decay = math.Pow(0.5, days/30)
	}

	return Exposure{
		Feature:      feature,
		TimesSeen:    seen,
		TimesCorrect: correctCount,
		Comfort:      raw * decay,
		LastSeenAt:   now,
	}
}

// Classify buckets an exposure (nil/zero meaning never seen) into the
// three levels the Session Builder's grammar_fit score distinguishes.
func Classify(cfg Config, e *Exposure) Level {
	if e == nil || e.TimesSeen == 0 {
		return LevelUnseen
	}
	if e.Comfort >= cfg.HighComfortThreshold {
		return LevelHigh
	}
	return LevelLow
}

// GrammarFit implements grammar_fit score: the geometric
// mean, over a sentence's grammar features, of 0.8 (unseen), 1.0
// (low-comfort), or 1.1 (high-comfort). A sentence with no grammar
// features scores a neutral 1.0.
func GrammarFit(cfg Config, exposures map[lemma.GrammarFeature]*Exposure, features []lemma.GrammarFeature) float64 {
	if len(features) == 0 {
		return 1.0
	}
	product := 1.0
	for _, f := range features {
		var e *Exposure
		if exposures != nil {
			e = exposures[f]
		}
		switch Classify(cfg, e) {
		case LevelUnseen:
			product *= 0.8
		case LevelHigh:
			product *= 1.1
		default:
			product *= 1.0
		}
	}
	return math.Pow(product, 1.0/float64(len(features)))
}
