package memory

import (
	"context"

	"github.com/houshuang/alif/pkg/lemma"
)

// Store is the persistence contract for memory states. Its methods do not
// lock across a read-modify-write: callers serialize writes to the same
// lemma id with a LockTable. MemStore guards its map with one RWMutex;
// for a row-locked Postgres transaction this package also provides the
// WithTx/GetForUpdate/PutTx functions.
type Store interface {
	// Get loads the state for id, or (nil, false) if no state has been
	// created yet (knowledge_state implicitly "not yet encountered").
	Get(ctx context.Context, id lemma.ID) (*State, bool, error)

	// GetAllActive loads every non-suspended memory state, for the Classify
	// stage of the session builder.
	GetAllActive(ctx context.Context) ([]*State, error)

	// Put creates or replaces the state for id. Used after every
	// scheduler transition.
	Put(ctx context.Context, s *State) error

	// SuspendedPastCooldown loads every suspended state for which
	// cooldownLookup reports an elapsed leech cooldown, for the leech
	// reintroduction scan.
	SuspendedPastCooldown(ctx context.Context, cooldownLookup func(s *State) bool) ([]*State, error)
}
