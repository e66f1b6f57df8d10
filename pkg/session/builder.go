package session

import (
	"context"
	"fmt"

	"github.com/houshuang/alif/pkg/lemma"
)

// Builder runs the Session Builder pipeline.
type Builder struct {
	deps Dependencies
	cfg  Config
}

func NewBuilder(deps Dependencies, cfg Config) *Builder {
	return &Builder{deps: deps, cfg: cfg}
}

// Build runs Classify through Response Assembly, producing an ordered
// session. On failure semantics: if the pool plus on-demand generation
// supply no sentence, the result has an empty Items slice rather than any
// bare-word card.
func (b *Builder) Build(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = b.cfg.DefaultLimit
	}

	infos, err := classify(ctx, b.deps, req.Now)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	cohort := buildCohort(infos, b.cfg.MaxCohortSize)

	var introduced []IntroCandidate
	intro, err := autoIntroduce(ctx, b.deps, b.cfg, infos, req.Mode, false, req.Now)
	if err != nil {
		return nil, fmt.Errorf("auto-introduce: %w", err)
	}
	introduced = append(introduced, intro...)
	for _, ic := range intro {
		cohort[ic.LemmaID] = true
	}

	sentences, err := fetchCandidates(ctx, b.deps, cohort, req.Mode, req.Now)
	if err != nil {
		return nil, fmt.Errorf("candidate fetch: %w", err)
	}
	selected, err := greedyCover(ctx, b.deps, b.cfg, sentences, infos, cohort, limit)
	if err != nil {
		return nil, fmt.Errorf("greedy set cover: %w", err)
	}

	selected, err = acquisitionRepetition(ctx, b.deps, b.cfg, selected, sentences, infos, cohort, b.cfg.AcquisitionRepetitionMaxExtra)
	if err != nil {
		return nil, fmt.Errorf("acquisition repetition: %w", err)
	}

	onDemandBudget := b.cfg.MaxOnDemandPerSession
	if len(selected) < limit && onDemandBudget > 0 {
		uncovered := uncoveredDue(cohort, selected)
		if len(uncovered) > onDemandBudget {
			uncovered = uncovered[:onDemandBudget]
		}
		onDemand, err := onDemandGenerate(ctx, b.deps, b.cfg, uncovered, infos, cohort, len(uncovered), req.Now)
		if err != nil {
			return nil, fmt.Errorf("on-demand generation: %w", err)
		}
		selected = mergeUnique(selected, onDemand)
		onDemandBudget -= len(uncovered)
	}

	if len(selected) < limit {
		fillIntro, err := autoIntroduce(ctx, b.deps, b.cfg, infos, req.Mode, true, req.Now)
		if err != nil {
			return nil, fmt.Errorf("fill phase auto-introduce: %w", err)
		}
		introduced = append(introduced, fillIntro...)
		for _, ic := range fillIntro {
			cohort[ic.LemmaID] = true
		}
		if onDemandBudget > 0 {
			uncovered := uncoveredDue(cohort, selected)
			if len(uncovered) > onDemandBudget {
				uncovered = uncovered[:onDemandBudget]
			}
			onDemand, err := onDemandGenerate(ctx, b.deps, b.cfg, uncovered, infos, cohort, len(uncovered), req.Now)
			if err != nil {
				return nil, fmt.Errorf("fill phase on-demand generation: %w", err)
			}
			selected = mergeUnique(selected, onDemand)
		}
	}

	// selected may exceed limit here: Acquisition Repetition intentionally
	// grows the session up to AcquisitionRepetitionMaxExtra slots beyond
	// limit; only the cover/on-demand/fill stages respect
	// limit directly.
	ordered := orderSession(selected, infos)
	items := assembleItems(b.deps, ordered, infos, cohort)

	return &BuildResult{Items: items, IntroCandidates: introduced}, nil
}

func uncoveredDue(cohort map[lemma.ID]bool, selected []candidate) []lemma.ID {
	covered := make(map[lemma.ID]bool)
	for _, c := range selected {
		for _, id := range c.Covered {
			covered[id] = true
		}
	}
	var out []lemma.ID
	for id := range cohort {
		if !covered[id] {
			out = append(out, id)
		}
	}
	return out
}

func mergeUnique(selected []candidate, extra []candidate) []candidate {
	used := make(map[int64]bool, len(selected))
	for _, c := range selected {
		used[c.Sentence.ID] = true
	}
	for _, c := range extra {
		if used[c.Sentence.ID] {
			continue
		}
		used[c.Sentence.ID] = true
		selected = append(selected, c)
	}
	return selected
}
