package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/houshuang/alif/pkg/generator"
	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
	"github.com/houshuang/alif/pkg/pool"
)

// onDemandGenerate implements On-Demand Generation stage:
// for up to maxLemmas still-uncovered due lemmas, call the sentence
// generator (fanned out, bounded to cfg.OnDemandConcurrency concurrent
// calls via errgroup.Group.SetLimit), validate, persist passing sentences
// to the pool, and score them against the full due set.
func onDemandGenerate(ctx context.Context, deps Dependencies, cfg Config, uncovered []lemma.ID, infos map[lemma.ID]*dueInfo, due map[lemma.ID]bool, maxLemmas int, now time.Time) ([]candidate, error) {
	if len(uncovered) == 0 || deps.Generator == nil {
		return nil, nil
	}
	if maxLemmas > 0 && len(uncovered) > maxLemmas {
		uncovered = uncovered[:maxLemmas]
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.SessionGenerationBudget)
	defer cancel()

	knownIDs := knownVocab(infos)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.OnDemandConcurrency)

	var (
		mu      sync.Mutex
		results []candidate
	)
	for _, target := range uncovered {
		target := target
		g.Go(func() error {
			sentences, err := generateForLemma(gctx, deps, target, knownIDs, now)
			if err != nil {
				slog.Warn("on-demand generation failed", "lemma_id", target, "error", err)
				return nil // a single lemma's failure doesn't fail the whole stage
			}
			mu.Lock()
			defer mu.Unlock()
			for _, s := range sentences {
				c, ok, scoreErr := score(gctx, deps, cfg, s, infos, due)
				if scoreErr != nil {
					continue
				}
				if !ok {
					continue
				}
				c.IsOnDemand = true
				results = append(results, c)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// generateForLemma derives difficulty parameters from the target's current
// maturity, runs the generate-validate-retry loop, and persists every
// validated candidate to the pool as an active, on-demand sentence.
func generateForLemma(ctx context.Context, deps Dependencies, target lemma.ID, knownIDs []lemma.ID, now time.Time) ([]pool.Sentence, error) {
	maturity := lemmaMaturity(ctx, deps, target, now)
	params := generator.DeriveParams(maturity)

	req := generator.Request{
		Targets:        []lemma.ID{target},
		KnownVocab:     knownIDs,
		MaxWords:       params.MaxWords,
		DifficultyHint: params.Hint,
		Now:            now,
	}
	vocab := generator.NewVocabularySet(knownIDs, []lemma.ID{target})

	candidates, err := generator.GenerateValidated(ctx, deps.Generator, deps.Reviewer, req, vocab)
	if err != nil {
		return nil, err
	}

	out := make([]pool.Sentence, 0, len(candidates))
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
		id, err := deps.PoolStore.Insert(ctx, s)
		if err != nil {
			return nil, err
		}
		s.ID = id
		out = append(out, s)
	}
	return out, nil
}

// lemmaMaturity loads a lemma's current memory state to derive its age and
// times-seen for generator.DeriveParams. A lemma with no state yet (still
// merely "encountered") is treated as brand-new.
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

// knownVocab lists the lemmas the learner already comprehends, for the
// generator's known_vocab constraint and the validator's out-of-vocab
// check.
func knownVocab(infos map[lemma.ID]*dueInfo) []lemma.ID {
	ids := make([]lemma.ID, 0, len(infos))
	for id, info := range infos {
		if comprehensibleStates[info.KnowledgeState] {
			ids = append(ids, id)
		}
	}
	return ids
}
