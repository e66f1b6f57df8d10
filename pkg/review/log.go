package review

import (
	"context"
	"sync"
	"time"
)

// Log persists review-log entries: idempotency keyed on client_review_id,
// and undo's pre-review snapshots keyed on the entry id.
type Log interface {
	GetByClientID(ctx context.Context, clientReviewID string) (*LogEntry, bool, error)
	Get(ctx context.Context, id string) (*LogEntry, bool, error)
	Put(ctx context.Context, entry *LogEntry) error
	Delete(ctx context.Context, id string) error

	// PurgeOlderThan deletes entries created before cutoff, once their
	// undo window has long since closed, and returns the count removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// MemLog is an in-process Log, used by unit tests across pkg/review.
type MemLog struct {
	mu       sync.RWMutex
	byID     map[string]*LogEntry
	byClient map[string]string
}

func NewMemLog() *MemLog {
	return &MemLog{byID: make(map[string]*LogEntry), byClient: make(map[string]string)}
}

func (m *MemLog) GetByClientID(_ context.Context, clientReviewID string) (*LogEntry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byClient[clientReviewID]
	if !ok {
		return nil, false, nil
	}
	e, ok := m.byID[id]
	if !ok {
		return nil, false, nil
	}
	return e.Clone(), true, nil
}

func (m *MemLog) Get(_ context.Context, id string) (*LogEntry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.byID[id]
	if !ok {
		return nil, false, nil
	}
	return e.Clone(), true, nil
}

func (m *MemLog) Put(_ context.Context, entry *LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[entry.ID] = entry.Clone()
	if entry.ClientReviewID != "" {
		m.byClient[entry.ClientReviewID] = entry.ID
	}
	return nil
}

func (m *MemLog) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[id]
	if !ok {
		return ErrReviewLogNotFound
	}
	delete(m.byID, id)
	if e.ClientReviewID != "" {
		delete(m.byClient, e.ClientReviewID)
	}
	return nil
}

func (m *MemLog) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for id, e := range m.byID {
		if e.CreatedAt.Before(cutoff) {
			delete(m.byID, id)
			if e.ClientReviewID != "" {
				delete(m.byClient, e.ClientReviewID)
			}
			count++
		}
	}
	return count, nil
}
