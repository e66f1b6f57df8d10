package memory

import (
	"context"
	"sync"

	"github.com/houshuang/alif/pkg/lemma"
)

// MemStore is an in-process Store implementation, used by fast unit tests
// across pkg/session, pkg/review, pkg/leech and other store-backed packages
// so those suites do not need a live Postgres instance. A single
// sync.RWMutex guards the whole map here (unlike LockTable's sharding)
// because test fixtures are small and never contend in practice; callers
// that need the real per-lemma locking semantics use LockTable directly
// (the Postgres store relies on row locks instead).
type MemStore struct {
	mu     sync.RWMutex
	states map[lemma.ID]*State
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{states: make(map[lemma.ID]*State)}
}

func (m *MemStore) Get(_ context.Context, id lemma.ID) (*State, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[id]
	if !ok {
		return nil, false, nil
	}
	return s.Clone(), true, nil
}

func (m *MemStore) GetAllActive(_ context.Context) ([]*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*State, 0, len(m.states))
	for _, s := range m.states {
		if s.KnowledgeState == StateSuspended {
			continue
		}
		out = append(out, s.Clone())
	}
	return out, nil
}

func (m *MemStore) Put(_ context.Context, s *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[s.LemmaID] = s.Clone()
	return nil
}

func (m *MemStore) SuspendedPastCooldown(_ context.Context, cooldownLookup func(s *State) bool) ([]*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*State
	for _, s := range m.states {
		if s.KnowledgeState != StateSuspended {
			continue
		}
		if cooldownLookup(s) {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}
