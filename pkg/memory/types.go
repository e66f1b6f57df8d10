// Package memory holds the per-lemma learning state: the tagged
// MemoryState record (acquiring fields xor long-term card), the store
// contract over it, and a canonical-lemma-partitioned write lock. Pure
// data types live here so pkg/acquisition and pkg/fsrs can depend on them
// without pulling in storage.
package memory

import (
	"time"

	"github.com/houshuang/alif/pkg/lemma"
)

// KnowledgeState classifies a lemma's learning progress.
type KnowledgeState string

const (
	StateEncountered KnowledgeState = "encountered"
	StateAcquiring   KnowledgeState = "acquiring"
	StateLearning    KnowledgeState = "learning"
	StateKnown       KnowledgeState = "known"
	StateLapsed      KnowledgeState = "lapsed"
	StateSuspended   KnowledgeState = "suspended"
)

// Rating is a review outcome on the 1 (Again) .. 4 (Easy) scale shared by
// the acquisition and long-term schedulers.
type Rating int

const (
	RatingAgain Rating = 1
	RatingHard  Rating = 2
	RatingGood  Rating = 3
	RatingEasy  Rating = 4
)

// Box is an acquisition-phase Leitner box, 1..3.
type Box int

// FSRSState is the long-term scheduler's internal state tag, independent
// of (but mapped onto) KnowledgeState — see MapFSRSState.
type FSRSState string

const (
	FSRSLearning   FSRSState = "learning"
	FSRSReview     FSRSState = "review"
	FSRSRelearning FSRSState = "relearning"
)

// Card is the long-term (FSRS-style) memory record.
type Card struct {
	Stability      float64 // days
	Difficulty     float64 // 1..10
	DueAt          time.Time
	LastReviewedAt time.Time
	FSRSState      FSRSState
}

// VariantStat counts how a specific surface variant performed, attached to
// the canonical lemma's memory state.
type VariantStat struct {
	VariantID lemma.ID
	Seen      int
	Missed    int
	Confused  int
}

// State is the single tagged record for a canonical, non-function lemma's
// memory. Exactly one of the acquiring fields or Card is populated,
// according to KnowledgeState — a tagged record rather than two inheriting
// types.
type State struct {
	LemmaID       lemma.ID
	KnowledgeState KnowledgeState

	TimesSeen    int
	TimesCorrect int
	Source       string

	VariantStats map[lemma.ID]*VariantStat

	EnteredAcquiringAt time.Time
	GraduatedAt        time.Time
	LeechSuspendedAt   time.Time
	LeechCount         int

	// Acquiring-only. Valid iff KnowledgeState == StateAcquiring.
	Box       Box
	NextDueAt time.Time

	// Long-term-only. Valid iff KnowledgeState is learning/known/lapsed.
	Card *Card
}

// PseudoStability returns the stability value used for scoring/cohort
// ranking. Acquiring lemmas get a pseudo-stability keyed by box; long-term
// lemmas use their card's actual stability.
func (s *State) PseudoStability() float64 {
	if s.KnowledgeState == StateAcquiring {
		switch s.Box {
		case 1:
			return 0.1
		case 2:
			return 0.5
		case 3:
			return 2.0
		}
		return 0.1
	}
	if s.Card != nil {
		return s.Card.Stability
	}
	return 0
}

// Accuracy returns times_correct/times_seen, or 0 if never seen.
func (s *State) Accuracy() float64 {
	if s.TimesSeen == 0 {
		return 0
	}
	return float64(s.TimesCorrect) / float64(s.TimesSeen)
}

// IsDue reports whether the state's schedule says it is due at `now`,
// under Classify rules. Suspended and encountered lemmas
// are never due.
func (s *State) IsDue(now time.Time) bool {
	switch s.KnowledgeState {
	case StateAcquiring:
		return !s.NextDueAt.After(now)
	case StateLearning, StateKnown, StateLapsed:
		return s.Card != nil && !s.Card.DueAt.After(now)
	default:
		return false
	}
}

// Clone returns a deep copy, used to take pre-review snapshots for undo.
func (s *State) Clone() *State {
	c := *s
	if s.Card != nil {
		card := *s.Card
		c.Card = &card
	}
	if s.VariantStats != nil {
		c.VariantStats = make(map[lemma.ID]*VariantStat, len(s.VariantStats))
		for k, v := range s.VariantStats {
			vs := *v
			c.VariantStats[k] = &vs
		}
	}
	return &c
}

// MapFSRSState maps an FSRS internal state to the public KnowledgeState,
// applying the stability-floor override:
// a Review state with stability below the floor is relabeled lapsed.
func MapFSRSState(fsrs FSRSState, stability, floor float64) KnowledgeState {
	switch fsrs {
	case FSRSLearning:
		return StateLearning
	case FSRSRelearning:
		return StateLapsed
	case FSRSReview:
		if stability < floor {
			return StateLapsed
		}
		return StateKnown
	default:
		return StateLearning
	}
}
