package session

import (
	"context"
	"math"

	"github.com/houshuang/alif/pkg/grammar"
	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
	"github.com/houshuang/alif/pkg/pool"
)

// contentLemmaIDs returns every non-function-word lemma a sentence's tokens
// resolve to, canonical-resolved and deduped. Comprehensibility and
// scaffold scoring need the full content-word set, independent of which
// subset pool.Sentence.ActiveTokenLemmaIDs separately reports as covering
// the due set.
func contentLemmaIDs(s pool.Sentence, g *lemma.Graph) []lemma.ID {
	seen := make(map[lemma.ID]bool)
	var out []lemma.ID
	for _, tok := range s.Tokens {
		if g.IsFunctionWord(tok.LemmaID) {
			continue
		}
		canon := g.Canonical(tok.LemmaID)
		if seen[canon] {
			continue
		}
		seen[canon] = true
		out = append(out, canon)
	}
	return out
}

// score computes a candidate's full score record (Score
// stage), or ok=false if the sentence fails the comprehensibility gate.
func score(ctx context.Context, deps Dependencies, cfg Config, s pool.Sentence, infos map[lemma.ID]*dueInfo, due map[lemma.ID]bool) (candidate, bool, error) {
	covered := coveredDue(s, deps.Graph, due)
	if len(covered) == 0 {
		return candidate{}, false, nil
	}

	content := contentLemmaIDs(s, deps.Graph)
	comprehensible := 0
	for _, id := range content {
		if info, ok := infos[id]; ok && comprehensibleStates[info.KnowledgeState] {
			comprehensible++
		}
	}
	comprehensibility := 1.0
	if len(content) > 0 {
		comprehensibility = float64(comprehensible) / float64(len(content))
	}
	if comprehensibility < cfg.ComprehensibilityThreshold {
		return candidate{}, false, nil
	}

	weakest := weakestStability(covered, infos)
	scaffold := scaffoldLemmas(content, covered)
	scaffoldAvg := scaffoldAvgStability(scaffold, infos)
	dmq := difficultyMatch(cfg, weakest, scaffoldAvg)

	exposures, err := deps.GrammarStore.GetMany(ctx, s.GrammarFeatures)
	if err != nil {
		return candidate{}, false, err
	}
	gf := grammar.GrammarFit(grammar.DefaultConfig(), exposures, s.GrammarFeatures)

	diversity := 1.0 / (1.0 + float64(s.Shown[pool.ModeReading].TimesShown+s.Shown[pool.ModeListening].TimesShown))
	scaffoldFresh := scaffoldFreshness(cfg, scaffold, infos)

	covScore := math.Pow(float64(len(covered)), 1.5)
	c := candidate{
		Sentence:      s,
		Covered:       covered,
		Comprehension: comprehensibility,
		DMQ:           dmq,
		GrammarFit:    gf,
		Diversity:     diversity,
		ScaffoldFresh: scaffoldFresh,
		TargetLemmaID: s.TargetLemmaID,
	}
	c.Score = covScore * dmq * gf * diversity * scaffoldFresh
	return c, true, nil
}

// coveredDue returns the distinct due lemmas s covers, canonical-resolved.
func coveredDue(s pool.Sentence, g *lemma.Graph, due map[lemma.ID]bool) []lemma.ID {
	var out []lemma.ID
	for _, id := range s.ActiveTokenLemmaIDs(g) {
		if due[id] {
			out = append(out, id)
		}
	}
	return out
}

// scaffoldLemmas returns content lemmas that are not among the covered due
// set: "remaining content words" in DMQ definition.
func scaffoldLemmas(content, covered []lemma.ID) []lemma.ID {
	coveredSet := make(map[lemma.ID]bool, len(covered))
	for _, id := range covered {
		coveredSet[id] = true
	}
	var out []lemma.ID
	for _, id := range content {
		if !coveredSet[id] {
			out = append(out, id)
		}
	}
	return out
}

func weakestStability(covered []lemma.ID, infos map[lemma.ID]*dueInfo) float64 {
	weakest := math.Inf(1)
	for _, id := range covered {
		if info, ok := infos[id]; ok && info.PseudoStability < weakest {
			weakest = info.PseudoStability
		}
	}
	if math.IsInf(weakest, 1) {
		return 0
	}
	return weakest
}

// scaffoldAvgStability averages stability over scaffold lemmas in the
// known/learning states only, per DMQ definition.
func scaffoldAvgStability(scaffold []lemma.ID, infos map[lemma.ID]*dueInfo) float64 {
	sum, n := 0.0, 0
	for _, id := range scaffold {
		info, ok := infos[id]
		if !ok {
			continue
		}
		if info.KnowledgeState != memory.StateKnown && info.KnowledgeState != memory.StateLearning {
			continue
		}
		sum += info.PseudoStability
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// difficultyMatch implements three-band DMQ formula.
func difficultyMatch(cfg Config, weakest, scaffoldAvg float64) float64 {
	lowBand := cfg.DMQWeakestLowBand.Hours() / 24
	highBand := cfg.DMQWeakestHighBand.Hours() / 24

	switch {
	case weakest < lowBand:
		if scaffoldAvg >= 1.0 {
			return 1.0
		}
		return 0.3
	case weakest <= highBand:
		if scaffoldAvg > weakest {
			return 1.0
		}
		return 0.5
	default:
		return 1.0
	}
}

// scaffoldFreshness is the geometric mean, over scaffold lemmas, of
// min(1, 8/max(1,times_seen)), floored at 0.3.
func scaffoldFreshness(cfg Config, scaffold []lemma.ID, infos map[lemma.ID]*dueInfo) float64 {
	if len(scaffold) == 0 {
		return 1.0
	}
	product := 1.0
	for _, id := range scaffold {
		timesSeen := 0
		if info, ok := infos[id]; ok {
			timesSeen = info.TimesSeen
		}
		if timesSeen < 1 {
			timesSeen = 1
		}
		fresh := cfg.ScaffoldFreshnessBaseline / float64(timesSeen)
		if fresh > 1.0 {
			fresh = 1.0
		}
		product *= fresh
	}
	mean := math.Pow(product, 1.0/float64(len(scaffold)))
	if mean < 0.3 {
		return 0.3
	}
	return mean
}
