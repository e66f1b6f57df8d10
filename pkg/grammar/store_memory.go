package grammar

import (
	"context"
	"sync"

	"github.com/houshuang/alif/pkg/lemma"
)

// MemStore is an in-process Store for unit tests and the generator's
// difficulty-derivation path, which only ever reads a handful of features.
type MemStore struct {
	mu        sync.RWMutex
	exposures map[lemma.GrammarFeature]*Exposure
}

func NewMemStore() *MemStore {
	return &MemStore{exposures: make(map[lemma.GrammarFeature]*Exposure)}
}

func (m *MemStore) Get(_ context.Context, feature lemma.GrammarFeature) (*Exposure, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exposures[feature]
	if !ok {
		return nil, false, nil
	}
	cp := *e
	return &cp, true, nil
}

func (m *MemStore) GetMany(_ context.Context, features []lemma.GrammarFeature) (map[lemma.GrammarFeature]*Exposure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[lemma.GrammarFeature]*Exposure, len(features))
	for _, f := range features {
		if e, ok := m.exposures[f]; ok {
			cp := *e
			out[f] = &cp
		}
	}
	return out, nil
}

func (m *MemStore) Put(_ context.Context, e Exposure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := e
	m.exposures[e.Feature] = &cp
	return nil
}
