// Package generator defines the Sentence Generator Interface: the one
// outbound contract the Session Builder uses to synthesize new sentences
// on demand when the pool has no eligible coverage for a due lemma.
package generator

import (
	"context"
	"time"

	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/pool"
)

// Request describes what a generation call should target.
type Request struct {
	Targets        []lemma.ID
	KnownVocab     []lemma.ID
	RejectedWords  []string
	MaxWords       int
	DifficultyHint string
	Now            time.Time
}

// Candidate is one generated sentence, not yet validated or persisted.
type Candidate struct {
	Text            string
	Translation     string
	Transliteration string
	Tokens          []pool.Token
	TargetLemmaIDs  []lemma.ID
	GrammarFeatures []lemma.GrammarFeature
}

// Generator is the contract the Session Builder depends on. Implementations
// may call out to an LLM, a templating engine, or (in tests) return canned
// data — the scheduler itself never knows which.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]Candidate, error)
}

// QualityReviewer is the cross-model quality gate run on every candidate
// before it reaches a learner. It must fail closed: an unavailable
// reviewer rejects the sentence rather than passing it by default.
type QualityReviewer interface {
	Review(ctx context.Context, c Candidate) (pass bool, err error)
}
