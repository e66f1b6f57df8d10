package leech

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/houshuang/alif/pkg/memory"
)

// ReintroductionScanner periodically surfaces suspended lemmas past their
// cooldown and reintroduces them into acquisition box 1: a ticker loop
// selecting over ctx.Done()/stopCh, logging failures rather than crashing
// the process, tracking a small metrics struct under its own mutex.
type ReintroductionScanner struct {
	store    memory.Store
	locks    *memory.LockTable
	cfg      Config
	interval time.Duration

	stopCh chan struct{}
	wg     sync.WaitGroup

	mu           sync.Mutex
	lastScanAt   time.Time
	reintroduced int
}

// NewReintroductionScanner wires a scanner against the memory store and
// its lock table. interval defaults to 15 minutes if zero.
func NewReintroductionScanner(store memory.Store, locks *memory.LockTable, cfg Config, interval time.Duration) *ReintroductionScanner {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &ReintroductionScanner{store: store, locks: locks, cfg: cfg, interval: interval, stopCh: make(chan struct{})}
}

// Start launches the background scan loop. Call Stop for graceful shutdown.
func (s *ReintroductionScanner) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop signals the scan loop to exit and waits for it to finish.
func (s *ReintroductionScanner) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *ReintroductionScanner) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if err := s.scanOnce(ctx); err != nil {
				slog.Error("leech reintroduction scan failed", "error", err)
			}
		}
	}
}

// scanOnce runs one pass, reintroducing every suspended lemma whose
// cooldown has elapsed. All replicas may run this independently: the
// reintroduction transition is idempotent (re-applying it to an
// already-acquiring lemma is a no-op in effect).
func (s *ReintroductionScanner) scanOnce(ctx context.Context) error {
	now := time.Now()
	due, err := s.store.SuspendedPastCooldown(ctx, func(st *memory.State) bool {
		return PastCooldown(s.cfg, st, now)
	})
	if err != nil {
		return err
	}

	count := 0
	for _, st := range due {
		id := st.LemmaID
		unlock := s.locks.Lock(id)
		fresh, ok, err := s.store.Get(ctx, id)
		if err != nil {
			unlock()
			slog.Error("leech scan: reload state failed", "lemma_id", id, "error", err)
			continue
		}
		if !ok || fresh.KnowledgeState != memory.StateSuspended || !PastCooldown(s.cfg, fresh, now) {
			unlock()
			continue
		}
		Reintroduce(fresh, now)
		err = s.store.Put(ctx, fresh)
		unlock()
		if err != nil {
			slog.Error("leech scan: reintroduce failed", "lemma_id", id, "error", err)
			continue
		}
		count++
	}

	s.mu.Lock()
	s.lastScanAt = now
	s.reintroduced += count
	s.mu.Unlock()

	if count > 0 {
		slog.Info("leech reintroduction scan complete", "reintroduced", count)
	}
	return nil
}

// Stats reports cumulative scan metrics.
type Stats struct {
	LastScanAt   time.Time
	Reintroduced int
}

func (s *ReintroductionScanner) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{LastScanAt: s.lastScanAt, Reintroduced: s.reintroduced}
}
