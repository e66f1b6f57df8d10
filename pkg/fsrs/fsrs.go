// Package fsrs implements the long-term (FSRS-style) memory scheduler:
// a parametric stability/difficulty model that computes the next review
// time under a target retention probability. The exact
// numeric formulas are intentionally not the published FSRS algorithm —
// stability/difficulty update is treated as an opaque configuration and
// only the behavioral contract is required. Update is a pure
// function; Parameters is the only thing pkg/config loads and validates.
package fsrs

import (
	"math"
	"time"

	"github.com/houshuang/alif/pkg/memory"
)

// Parameters is the opaque configuration vector the scheduler's behavioral
// contract references, rather than a bare array of floats, so it can be
// loaded from YAML and validated the same way as the rest of pkg/config.
type Parameters struct {
	TargetRetention float64 `yaml:"target_retention" validate:"gt=0,lt=1"`
	StabilityFloor  float64 `yaml:"stability_floor" validate:"gt=0"`

	// Initial stability (days) by rating, keyed 1..4 (index 0 unused).
	InitialStability [5]float64 `yaml:"-"`
	// Initial difficulty (1..10) by rating, keyed 1..4 (index 0 unused).
	InitialDifficulty [5]float64 `yaml:"-"`

	GrowthRate     float64 `yaml:"growth_rate" validate:"gt=0"`
	LapseDecay     float64 `yaml:"lapse_decay" validate:"gt=0,lt=1"`
	DifficultyStep float64 `yaml:"difficulty_step" validate:"gt=0"`
	MinStability   float64 `yaml:"min_stability" validate:"gt=0"`
}

// DefaultParameters matches fixed initial-stability table
// and a middle-of-the-road growth/decay/difficulty shape.
func DefaultParameters() Parameters {
	return Parameters{
		TargetRetention:   0.90,
		StabilityFloor:    1.0,
		InitialStability:  [5]float64{0, 0.212, 1.293, 2.307, 8.296},
		InitialDifficulty: [5]float64{0, 7.5, 6.0, 5.0, 3.0},
		GrowthRate:        0.35,
		LapseDecay:        0.45,
		DifficultyStep:    0.8,
		MinStability:      0.1,
	}
}

// LogEntry records what changed, for the review log / observability.
type LogEntry struct {
	Rating          memory.Rating
	PriorStability  float64
	NewStability    float64
	PriorDifficulty float64
	NewDifficulty   float64
	ReviewedAt      time.Time
}

// Update computes the new card state for one review. card may be nil for
// a first long-term review (including the graduation-seed update, where
// feeds the acquisition-graduating rating straight in here).
func Update(card *memory.Card, rating memory.Rating, now time.Time, p Parameters) (*memory.Card, LogEntry) {
	var priorStability, priorDifficulty float64
	var priorFSRSState memory.FSRSState
	if card != nil {
		priorStability = card.Stability
		priorDifficulty = card.Difficulty
		priorFSRSState = card.FSRSState
	}

	newStability := nextStability(card, rating, p)
	newDifficulty := nextDifficulty(card, rating, p)
	newFSRSState := nextState(priorFSRSState, card == nil, rating)

	newCard := &memory.Card{
		Stability:      newStability,
		Difficulty:     newDifficulty,
		LastReviewedAt: now,
		DueAt:          now.Add(nextInterval(newStability, p.TargetRetention)),
		FSRSState:      newFSRSState,
	}

	return newCard, LogEntry{
		Rating:          rating,
		PriorStability:  priorStability,
		NewStability:    newStability,
		PriorDifficulty: priorDifficulty,
		NewDifficulty:   newDifficulty,
		ReviewedAt:      now,
	}
}

// nextStability is non-decreasing on rating>=3 (Good/Easy) and may
// decrease on rating<=2 (Again/Hard) — first behavioral
// requirement.
func nextStability(card *memory.Card, rating memory.Rating, p Parameters) float64 {
	if card == nil {
		return p.InitialStability[clampRating(rating)]
	}
	s := card.Stability
	if rating >= memory.RatingGood {
		difficulty := math.Max(card.Difficulty, 1)
		growth := 1 + p.GrowthRate*float64(rating-memory.RatingHard)/difficulty
		return s * growth
	}
	// Again/Hard: decay toward a floor, scaled down further for Again.
	decay := p.LapseDecay
	if rating == memory.RatingAgain {
		decay *= 0.6
	}
	newS := s * decay
	if newS < p.MinStability {
		newS = p.MinStability
	}
	return newS
}

// nextDifficulty moves toward higher values on Again/Hard, lower on Easy,
// bounded [1,10] — second behavioral requirement.
func nextDifficulty(card *memory.Card, rating memory.Rating, p Parameters) float64 {
	var d float64
	if card == nil {
		d = p.InitialDifficulty[clampRating(rating)]
	} else {
		delta := p.DifficultyStep * float64(memory.RatingGood-rating)
		d = card.Difficulty + delta
	}
	return clampDifficulty(d)
}

func clampDifficulty(d float64) float64 {
	if d < 1 {
		return 1
	}
	if d > 10 {
		return 10
	}
	return d
}

func clampRating(r memory.Rating) memory.Rating {
	if r < memory.RatingAgain {
		return memory.RatingAgain
	}
	if r > memory.RatingEasy {
		return memory.RatingEasy
	}
	return r
}

// nextInterval is monotonically increasing in stability for a fixed
// target retention — third behavioral requirement. At
// retention == 0.9 the interval equals the stability itself (the
// reference point FSRS's own published formula also anchors on).
func nextInterval(stability, targetRetention float64) time.Duration {
	if targetRetention <= 0 || targetRetention >= 1 {
		targetRetention = 0.9
	}
	ratio := math.Log(targetRetention) / math.Log(0.9)
	days := stability * ratio
	if days < 0 {
		days = 0
	}
	return time.Duration(days * float64(24*time.Hour))
}

// nextState maps the review outcome onto the FSRS state machine. A rating
// of Again always lapses. A first-ever long-term review (card==nil, e.g. the
// graduation-seed update) that is NOT Again goes straight to Review,
// since the word already satisfied the acquisition scheduler's repetition
// requirements before graduating. Otherwise a Hard rating on a word in
// Relearning moves it to Learning; every other non-Again rating moves the
// word to Review.
func nextState(prior memory.FSRSState, firstReview bool, rating memory.Rating) memory.FSRSState {
	if rating == memory.RatingAgain {
		return memory.FSRSRelearning
	}
	if firstReview {
		return memory.FSRSReview
	}
	if prior == memory.FSRSRelearning {
		if rating == memory.RatingHard {
			return memory.FSRSLearning
		}
		return memory.FSRSReview
	}
	return memory.FSRSReview
}

// MapKnowledgeState applies property 5 (the stability floor
// override) on top of memory.MapFSRSState, so callers never have to
// remember to do it separately.
func MapKnowledgeState(card *memory.Card, p Parameters) memory.KnowledgeState {
	return memory.MapFSRSState(card.FSRSState, card.Stability, p.StabilityFloor)
}
