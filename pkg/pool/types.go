// Package pool holds the Sentence Pool: the corpus of sentences a session
// can draw from, their token→lemma mapping, and the comprehension-aware
// recency filter that keeps a learner from seeing the same sentence too
// often in the same mode.
package pool

import (
	"time"

	"github.com/houshuang/alif/pkg/lemma"
)

// Mode is the exposure channel a sentence is shown through. Recency and
// shown-counters are tracked per mode, since a sentence a learner has read
// many times may still be unfamiliar heard aloud.
type Mode string

const (
	ModeReading   Mode = "reading"
	ModeListening Mode = "listening"
)

// Comprehension is the per-sentence outcome signal recorded alongside a
// review. A zero value means "never shown in this
// mode" rather than any specific signal.
type Comprehension string

const (
	ComprehensionNone            Comprehension = ""
	ComprehensionUnderstood      Comprehension = "understood"
	ComprehensionPartial         Comprehension = "partial"
	ComprehensionGrammarConfused Comprehension = "grammar_confused"
	ComprehensionNoIdea          Comprehension = "no_idea"
)

// Token is one word position in a sentence, mapped to the lemma it
// instantiates. ScaffoldWord marks tokens the Session Builder's scaffold
// machinery treats as supporting context rather than a review target.
type Token struct {
	Position     int
	Surface      string
	LemmaID      lemma.ID
	ScaffoldWord bool
}

// ShownStat tracks last-shown/last-comprehension per mode for one sentence.
type ShownStat struct {
	TimesShown       int
	LastShownAt      time.Time
	LastComprehension Comprehension
}

// Sentence is one pool entry: its text, token/lemma mapping, and per-mode
// shown history. TargetLemmaID is the lemma this sentence was generated
// or selected to exercise; zero for sentences with no single deliberate
// target (e.g. pool seed data predating on-demand generation).
type Sentence struct {
	ID              int64
	Text            string
	Translation     string
	Transliteration string
	Tokens          []Token
	ThematicTag     string
	GrammarFeatures []lemma.GrammarFeature
	AudioURL        string
	IsActive        bool
	RetiredAt       time.Time
	TargetLemmaID   lemma.ID
	Shown           map[Mode]ShownStat
}

// ActiveTokenLemmaIDs returns the lemma ids a sentence covers, resolved
// through the canonical graph ("a sentence covers a due lemma iff the
// sentence contains a token whose mapped lemma resolves through the
// canonical graph to a canonical lemma in the due set"). A scaffold word is
// still a content word for coverage purposes: ScaffoldWord only affects
// scoring/selection weight, never whether the token counts toward
// coverage.
func (s Sentence) ActiveTokenLemmaIDs(g *lemma.Graph) []lemma.ID {
	seen := make(map[lemma.ID]bool)
	var out []lemma.ID
	for _, tok := range s.Tokens {
		canon := g.Canonical(tok.LemmaID)
		if seen[canon] {
			continue
		}
		seen[canon] = true
		out = append(out, canon)
	}
	return out
}
