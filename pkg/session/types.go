// Package session implements the Session Builder: the central algorithm
// that turns a learner's current memory state into an ordered bundle of
// sentences to review. The pipeline is split into one file per stage.
package session

import (
	"time"

	"github.com/houshuang/alif/pkg/generator"
	"github.com/houshuang/alif/pkg/grammar"
	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
	"github.com/houshuang/alif/pkg/pool"
)

// BuildRequest is the session build's input.
type BuildRequest struct {
	Mode  pool.Mode
	Limit int
	Now   time.Time
}

// TokenCard is a response token descriptor.
type TokenCard struct {
	Surface      string
	LemmaID      lemma.ID
	Gloss        string
	Stability    float64
	Due          bool
	FunctionWord bool
}

// Item is one assembled session card.
type Item struct {
	SentenceID     int64
	Text           string
	Translation    string
	PrimaryLemmaID lemma.ID
	PrimaryGloss   string
	Tokens         []TokenCard
	GrammarTags    []lemma.GrammarFeature
	AudioURL       string
	IsOnDemand     bool
}

// IntroCandidate is a suggestion surfaced to the UI, not inserted as a card.
type IntroCandidate struct {
	LemmaID lemma.ID
	Surface string
	Gloss   string
}

// BuildResult is the session build's output.
type BuildResult struct {
	Items           []Item
	IntroCandidates []IntroCandidate
}

// dueInfo is the Classify stage's per-lemma output, threaded through the
// rest of the pipeline.
type dueInfo struct {
	LemmaID         lemma.ID
	KnowledgeState  memory.KnowledgeState
	Due             bool
	PseudoStability float64
	Box             memory.Box
	TimesSeen       int
}

// candidate is a scored sentence mid-pipeline.
type candidate struct {
	Sentence      pool.Sentence
	Covered       []lemma.ID // distinct due lemmas it covers, canonical
	Comprehension float64
	DMQ           float64
	GrammarFit    float64
	Diversity     float64
	ScaffoldFresh float64
	Score         float64
	IsOnDemand    bool
	TargetLemmaID lemma.ID // from the underlying pool.Sentence; 0 if it was never generated for a specific target
}

// Dependencies bundles everything the Builder needs read access to.
type Dependencies struct {
	Graph        *lemma.Graph
	MemoryStore  memory.Store
	PoolStore    pool.Store
	GrammarStore grammar.Store
	RatingLog    RatingLog
	Generator    generator.Generator
	Reviewer     generator.QualityReviewer
}

// RatingLog answers the recent-accuracy and root-interference queries the
// Session Builder needs from the review log, without pulling pkg/review
// into this package (pkg/review's PostgresRatingLog satisfies it without
// importing pkg/session).
type RatingLog interface {
	// RecentWordRatings returns up to n most recent word-level ratings
	// (most recent first), for the Auto-Introduction accuracy calculation.
	RecentWordRatings(limit int) ([]memory.Rating, error)
	// RatedOneSince reports whether lemmaID received rating 1 at or after
	// since, for the Root Interference Guard.
	RatedOneSince(lemmaID lemma.ID, since time.Time) (bool, error)
}
