// Package worker runs the background warm-cache generation loop: the
// asynchronous half of sentence supply, topping up the pool for lemmas
// whose coverage is thin so a session build rarely has to generate
// on-demand.
package worker

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/houshuang/alif/pkg/config"
	"github.com/houshuang/alif/pkg/generator"
	"github.com/houshuang/alif/pkg/grammar"
	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
	"github.com/houshuang/alif/pkg/pool"
)

// Dependencies bundles everything the warm-cache loop needs.
type Dependencies struct {
	Graph        *lemma.Graph
	MemoryStore  memory.Store
	PoolStore    pool.Store
	GrammarStore grammar.Store
	Generator    generator.Generator
	Reviewer     generator.QualityReviewer
}

// Health reports the warm-cache pool's status for the API's health check.
type Health struct {
	IsHealthy    bool
	ActiveWorker int
	LastScanAt   time.Time
	LastScanErr  string
}

// Pool runs cfg.Concurrency warmer goroutines, each polling on its own
// jittered interval so replicas don't scan the memory store in lockstep.
type Pool struct {
	deps Dependencies
	cfg  config.WorkerConfig

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu         sync.RWMutex
	lastScanAt time.Time
	lastErr    string
	started    bool
}

// NewPool builds a Pool. Call Start to begin warming.
func NewPool(deps Dependencies, cfg config.WorkerConfig) *Pool {
	return &Pool{deps: deps, cfg: cfg, stopCh: make(chan struct{})}
}

// Start spawns the warmer goroutines. Safe to call once; a second call is a
// no-op.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	slog.Info("starting warm-cache pool", "concurrency", p.cfg.Concurrency)
	for i := 0; i < p.cfg.Concurrency; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

// Stop signals every warmer to finish its current batch and waits up to
// cfg.GracefulShutdownTimeout.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("warm-cache pool stopped")
	case <-time.After(p.cfg.GracefulShutdownTimeout):
		slog.Warn("warm-cache pool stop timed out", "timeout", p.cfg.GracefulShutdownTimeout)
	}
}

func (p *Pool) run(ctx context.Context, workerIdx int) {
	defer p.wg.Done()

	jitter := time.Duration(rand.Int63n(int64(p.cfg.PollIntervalJitter) + 1))
	timer := time.NewTimer(jitter)
	defer timer.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-timer.C:
			p.scan(ctx)
			jitter = time.Duration(rand.Int63n(int64(p.cfg.PollIntervalJitter) + 1))
			timer.Reset(p.cfg.PollInterval + jitter)
		}
	}
}

// scan finds up to cfg.BatchSize thinly-covered due lemmas and generates a
// fresh sentence for each via the configured generator.
func (p *Pool) scan(ctx context.Context) {
	now := time.Now()
	targets, err := p.thinlyCovered(ctx, now)
	if err != nil {
		p.recordScan(now, err)
		slog.Warn("warm-cache scan failed", "error", err)
		return
	}

	for _, id := range targets {
		if err := p.warm(ctx, id, now); err != nil {
			slog.Warn("warm-cache generation failed", "lemma_id", id, "error", err)
		}
	}
	p.recordScan(now, nil)
}

// minCoverage is the number of reading-mode-eligible active sentences a
// due lemma should have before it stops being a warming target.
const minCoverage = 2

// thinlyCovered returns up to cfg.BatchSize due lemma ids whose pool
// coverage (active, currently-eligible sentences covering them) is below
// minCoverage.
func (p *Pool) thinlyCovered(ctx context.Context, now time.Time) ([]lemma.ID, error) {
	states, err := p.deps.MemoryStore.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	var due []lemma.ID
	for _, st := range states {
		if !st.IsDue(now) {
			continue
		}
		due = append(due, st.LemmaID)
	}

	var targets []lemma.ID
	for _, id := range due {
		if len(targets) >= p.cfg.BatchSize {
			break
		}
		covering, err := p.deps.PoolStore.ActiveSentencesCovering(ctx, []lemma.ID{id}, pool.ModeReading, now)
		if err != nil {
			return nil, err
		}
		if len(covering) < minCoverage {
			targets = append(targets, id)
		}
	}
	return targets, nil
}

func (p *Pool) warm(ctx context.Context, target lemma.ID, now time.Time) error {
	maturity := lemmaMaturity(ctx, p.deps, target, now)
	params := generator.DeriveParams(maturity)

	known := p.knownVocab(ctx)
	req := generator.Request{
		Targets:        []lemma.ID{target},
		KnownVocab:     known,
		MaxWords:       params.MaxWords,
		DifficultyHint: params.Hint,
		Now:            now,
	}
	vocab := generator.NewVocabularySet(known, []lemma.ID{target})

	candidates, err := generator.GenerateValidated(ctx, p.deps.Generator, p.deps.Reviewer, req, vocab)
	if err != nil {
		return err
	}

	for _, c := range candidates {
		s := pool.Sentence{
			Text:            c.Text,
			Translation:     c.Translation,
			Transliteration: c.Transliteration,
			Tokens:          c.Tokens,
			GrammarFeatures: c.GrammarFeatures,
			IsActive:        true,
			TargetLemmaID:   target,
		}
		if _, err := p.deps.PoolStore.Insert(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pool) knownVocab(ctx context.Context) []lemma.ID {
	states, err := p.deps.MemoryStore.GetAllActive(ctx)
	if err != nil {
		return nil
	}
	var ids []lemma.ID
	for _, st := range states {
		if st.KnowledgeState != memory.StateEncountered && st.KnowledgeState != memory.StateAcquiring {
			ids = append(ids, st.LemmaID)
		}
	}
	return ids
}

func lemmaMaturity(ctx context.Context, deps Dependencies, id lemma.ID, now time.Time) generator.Maturity {
	s, ok, err := deps.MemoryStore.Get(ctx, id)
	if err != nil || !ok {
		return generator.Maturity{}
	}
	start := s.EnteredAcquiringAt
	if s.KnowledgeState != memory.StateAcquiring && !s.GraduatedAt.IsZero() {
		start = s.GraduatedAt
	}
	if start.IsZero() {
		return generator.Maturity{TimesSeen: s.TimesSeen}
	}
	return generator.Maturity{Age: now.Sub(start), TimesSeen: s.TimesSeen}
}

func (p *Pool) recordScan(at time.Time, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastScanAt = at
	if err != nil {
		p.lastErr = err.Error()
	} else {
		p.lastErr = ""
	}
}

// Health reports the pool's current status for the API's health check.
func (p *Pool) Health() Health {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Health{
		IsHealthy:    p.lastErr == "",
		ActiveWorker: p.cfg.Concurrency,
		LastScanAt:   p.lastScanAt,
		LastScanErr:  p.lastErr,
	}
}
