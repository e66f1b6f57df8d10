package session

import (
	"context"
	"time"

	"github.com/houshuang/alif/pkg/acquisition"
	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
	"github.com/houshuang/alif/pkg/pool"
)

// caps bundles the acquiring/box-1 ceilings auto-introduction must respect.
// The fill phase relaxes both.
type caps struct {
	acquiring int
	box1      int
}

func (c Config) caps(fillPhase bool) caps {
	if fillPhase {
		return caps{acquiring: c.FillAcquiringCap, box1: c.FillBox1Cap}
	}
	return caps{acquiring: c.AcquiringCap, box1: c.Box1Cap}
}

// countAcquiring returns the number of acquiring lemmas, and of those, the
// number still parked in box 1.
func countAcquiring(infos map[lemma.ID]*dueInfo) (acquiring, box1 int) {
	for _, info := range infos {
		if info.KnowledgeState != memory.StateAcquiring {
			continue
		}
		acquiring++
		if info.Box == 1 {
			box1++
		}
	}
	return acquiring, box1
}

// autoIntroduce pulls new lemmas into acquisition: reading mode only by
// default, gated by recent accuracy, capped by acquisition-room, and
// filtered by the root interference guard. It mutates infos in place
// (adding newly-acquiring lemmas to the due set) and persists each new
// state via deps.MemoryStore. Returns the introduced lemmas as
// IntroCandidates for the UI.
func autoIntroduce(ctx context.Context, deps Dependencies, cfg Config, infos map[lemma.ID]*dueInfo, mode pool.Mode, fillPhase bool, now time.Time) ([]IntroCandidate, error) {
	if mode != pool.ModeReading && !cfg.AutoIntroListening {
		return nil, nil
	}

	recent, err := deps.RatingLog.RecentWordRatings(cfg.RecentRatingsWindow)
	if err != nil {
		return nil, err
	}
	budget := cfg.introBudget(recentAccuracy(recent), len(recent))
	if budget > cfg.AutoIntroCeiling {
		budget = cfg.AutoIntroCeiling
	}
	if budget <= 0 {
		return nil, nil
	}

	roomCaps := cfg.caps(fillPhase)
	acquiringCount, box1Count := countAcquiring(infos)
	room := budget
	if left := roomCaps.acquiring - acquiringCount; left < room {
		room = left
	}
	if left := roomCaps.box1 - box1Count; left < room {
		room = left
	}
	if room <= 0 {
		return nil, nil
	}

	lookback := cfg.RootInterferenceLookback
	var introduced []IntroCandidate
	for _, l := range deps.Graph.AllCanonical() {
		if room <= 0 {
			break
		}
		info, known := infos[l.ID]
		if known && info.KnowledgeState != memory.StateEncountered {
			continue // already acquiring/learning/known/lapsed
		}

		interfered, err := siblingRatedOne(deps, l.ID, now, lookback)
		if err != nil {
			return introduced, err
		}
		if interfered {
			continue
		}

		decision := acquisition.Enter(cfg.Acquisition, now, true)
		state := &memory.State{
			LemmaID:            l.ID,
			KnowledgeState:     memory.StateAcquiring,
			Box:                decision.Box,
			NextDueAt:          decision.NextDueAt,
			EnteredAcquiringAt: now,
		}
		if err := deps.MemoryStore.Put(ctx, state); err != nil {
			return introduced, err
		}

		infos[l.ID] = &dueInfo{
			LemmaID:         l.ID,
			KnowledgeState:  memory.StateAcquiring,
			Due:             true,
			PseudoStability: state.PseudoStability(),
			Box:             state.Box,
		}
		introduced = append(introduced, IntroCandidate{LemmaID: l.ID, Surface: l.Surface, Gloss: l.Gloss})
		room--
		acquiringCount++
		box1Count++
	}
	return introduced, nil
}

// siblingRatedOne reports whether any lemma sharing id's root received a
// rating of 1 since now-lookback.
func siblingRatedOne(deps Dependencies, id lemma.ID, now time.Time, lookback time.Duration) (bool, error) {
	since := now.Add(-lookback)
	for _, sib := range deps.Graph.Siblings(id) {
		ratedOne, err := deps.RatingLog.RatedOneSince(sib, since)
		if err != nil {
			return false, err
		}
		if ratedOne {
			return true, nil
		}
	}
	return false, nil
}

// recentAccuracy returns the fraction of ratings at or above Good.
func recentAccuracy(ratings []memory.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	correct := 0
	for _, r := range ratings {
		if r >= memory.RatingGood {
			correct++
		}
	}
	return float64(correct) / float64(len(ratings))
}
