package pool

import (
	"context"
	"time"

	"github.com/houshuang/alif/pkg/lemma"
)

// Store is the Sentence Pool's contract.
type Store interface {
	// Get loads one sentence by id, for the review engine's token/lemma
	// lookup. (false, nil) if no such sentence exists.
	Get(ctx context.Context, id int64) (Sentence, bool, error)

	// ActiveSentencesCovering returns active sentences whose resolved
	// token-lemma set intersects lemmaIDs, already filtered by the
	// comprehension-aware recency rule for mode at now.
	ActiveSentencesCovering(ctx context.Context, lemmaIDs []lemma.ID, mode Mode, now time.Time) ([]Sentence, error)

	// RecordShown updates the per-mode shown counters and comprehension
	// signal for a sentence.
	RecordShown(ctx context.Context, sentenceID int64, mode Mode, comprehension Comprehension, now time.Time) error

	// SetShown overwrites the per-mode shown stat outright. RecordShown's
	// increment has no generic inverse once last_comprehension has
	// changed, so the review engine's undo path restores the exact
	// pre-review snapshot through this instead.
	SetShown(ctx context.Context, sentenceID int64, mode Mode, stat ShownStat) error

	// Retire sets is_active = false so the sentence no longer appears in
	// future candidate fetches.
	Retire(ctx context.Context, sentenceID int64) error

	// Insert persists a newly-generated sentence (on-demand
	// generator output, after it passes validation) and returns its
	// assigned id.
	Insert(ctx context.Context, s Sentence) (int64, error)

	// PurgeRetiredBefore hard-deletes retired (is_active = false) sentences
	// whose retirement predates cutoff, and returns the count removed.
	PurgeRetiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
