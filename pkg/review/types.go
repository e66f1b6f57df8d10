// Package review implements the Review Submission Engine: per-token rating
// derivation from an aggregate comprehension signal, routing to the
// acquisition or long-term scheduler, variant credit, leech triggering,
// grammar exposure accounting, sentence counters, idempotent replay, and
// undo.
package review

import (
	"time"

	"github.com/houshuang/alif/pkg/grammar"
	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
	"github.com/houshuang/alif/pkg/pool"
)

// Request is one review submission, as it arrives from the UI.
type Request struct {
	ClientReviewID      string
	SessionID           string
	SentenceID          int64
	Mode                pool.Mode
	ComprehensionSignal pool.Comprehension
	MissedLemmaIDs      []lemma.ID
	ConfusedLemmaIDs    []lemma.ID
	ResponseMS          int
	Now                 time.Time
}

// WordResult is one canonical lemma's outcome from a submission.
type WordResult struct {
	LemmaID        lemma.ID
	Rating         memory.Rating
	KnowledgeState memory.KnowledgeState
	Stability      float64
	DueAt          time.Time
	Graduated      bool
	Suspended      bool
}

// Result is returned to the caller, and cached verbatim for idempotent
// replays of the same client_review_id.
type Result struct {
	ReviewLogID string
	Words       []WordResult
}

// WordSnapshot is one lemma's pre-review state, kept so Undo can restore it.
type WordSnapshot struct {
	LemmaID lemma.ID
	Prior   *memory.State
}

// LogEntry is the durable review-log record backing idempotency and undo.
type LogEntry struct {
	ID                  string
	ClientReviewID      string
	SessionID           string
	SentenceID          int64
	Mode                pool.Mode
	ComprehensionSignal pool.Comprehension
	PriorShown          pool.ShownStat
	Snapshots           []WordSnapshot
	Result              Result
	CreatedAt           time.Time
}

// Clone returns a deep copy, so stores can hand out entries without
// letting callers mutate the stored record through the returned pointer.
func (e *LogEntry) Clone() *LogEntry {
	cp := *e
	cp.Snapshots = make([]WordSnapshot, len(e.Snapshots))
	for i, s := range e.Snapshots {
		ws := WordSnapshot{LemmaID: s.LemmaID}
		if s.Prior != nil {
			ws.Prior = s.Prior.Clone()
		}
		cp.Snapshots[i] = ws
	}
	cp.Result.Words = append([]WordResult(nil), e.Result.Words...)
	return &cp
}

// Dependencies bundles every store and domain package the engine needs.
type Dependencies struct {
	Graph        *lemma.Graph
	MemoryStore  memory.Store
	Locks        *memory.LockTable
	PoolStore    pool.Store
	GrammarStore grammar.Store
	Log          Log
}
