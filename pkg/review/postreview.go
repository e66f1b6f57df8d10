package review

import (
	"context"
	"time"

	"github.com/houshuang/alif/pkg/grammar"
	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/leech"
	"github.com/houshuang/alif/pkg/memory"
	"github.com/houshuang/alif/pkg/pool"
)

// checkLeech re-reads a lemma's state (its TimesSeen/TimesCorrect already
// reflect the just-applied review) and suspends it if it now qualifies.
func (e *Engine) checkLeech(ctx context.Context, id lemma.ID, now time.Time) error {
	var werr error
	e.Deps.Locks.WithLock(id, func() {
		st, ok, err := e.Deps.MemoryStore.Get(ctx, id)
		if err != nil {
			werr = err
			return
		}
		if !ok || st.KnowledgeState == memory.StateSuspended {
			return
		}
		if !leech.IsLeech(e.Cfg.Leech, st.TimesSeen, st.TimesCorrect) {
			return
		}
		leech.Suspend(st, now)
		werr = e.Deps.MemoryStore.Put(ctx, st)
	})
	return werr
}

// updateGrammarExposure applies one sentence's grammar features to the
// exposure store, crediting correctness per the comprehension signal.
func (e *Engine) updateGrammarExposure(ctx context.Context, features []lemma.GrammarFeature, signal pool.Comprehension, now time.Time) error {
	if len(features) == 0 || e.Deps.GrammarStore == nil {
		return nil
	}
	correct := signal == pool.ComprehensionUnderstood || signal == pool.ComprehensionGrammarConfused
	for _, f := range features {
		prev, ok, err := e.Deps.GrammarStore.Get(ctx, f)
		if err != nil {
			return err
		}
		var p grammar.Exposure
		if ok {
			p = *prev
		}
		next := grammar.Update(p, f, correct, now)
		if err := e.Deps.GrammarStore.Put(ctx, next); err != nil {
			return err
		}
	}
	return nil
}
