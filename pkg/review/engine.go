package review

import (
	"context"

	"github.com/google/uuid"

	"github.com/houshuang/alif/pkg/acquisition"
	"github.com/houshuang/alif/pkg/fsrs"
	"github.com/houshuang/alif/pkg/lemma"
	"github.com/houshuang/alif/pkg/memory"
	"github.com/houshuang/alif/pkg/pool"
)

// Engine is the Review Submission Engine's entry point.
type Engine struct {
	Deps Dependencies
	Cfg  Config
}

// NewEngine builds an Engine. deps.Locks defaults to a fresh LockTable if nil.
func NewEngine(deps Dependencies, cfg Config) *Engine {
	if deps.Locks == nil {
		deps.Locks = memory.NewLockTable(0)
	}
	return &Engine{Deps: deps, Cfg: cfg}
}

func validateRequest(req Request) error {
	if req.SentenceID == 0 {
		return NewValidationError("sentence_id", "required")
	}
	switch req.ComprehensionSignal {
	case pool.ComprehensionUnderstood, pool.ComprehensionPartial, pool.ComprehensionGrammarConfused, pool.ComprehensionNoIdea:
	default:
		return NewValidationError("comprehension_signal", "must be one of understood, partial, grammar_confused, no_idea")
	}
	if req.Mode != pool.ModeReading && req.Mode != pool.ModeListening {
		return NewValidationError("mode", "must be reading or listening")
	}
	return nil
}

func toSet(ids []lemma.ID) map[lemma.ID]bool {
	out := make(map[lemma.ID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

// Submit applies one review submission: per-token rating derivation,
// scheduler routing, variant credit, leech triggering, grammar exposure,
// and sentence counters. Duplicate client_review_ids replay the original
// result rather than re-applying the mutation.
func (e *Engine) Submit(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if req.ClientReviewID != "" && e.Deps.Log != nil {
		if existing, ok, err := e.Deps.Log.GetByClientID(ctx, req.ClientReviewID); err != nil {
			return nil, err
		} else if ok {
			return &existing.Result, nil
		}
	}

	sentence, ok, err := e.Deps.PoolStore.Get(ctx, req.SentenceID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSentenceNotFound
	}

	missed := toSet(req.MissedLemmaIDs)
	confused := toSet(req.ConfusedLemmaIDs)

	seen := make(map[lemma.ID]bool)
	var words []WordResult
	var snapshots []WordSnapshot
	var leechTargets []lemma.ID

	for _, tok := range sentence.Tokens {
		canon := e.Deps.Graph.Canonical(tok.LemmaID)
		if e.Deps.Graph.IsFunctionWord(canon) || seen[canon] {
			continue
		}
		seen[canon] = true

		wr, snap, rating, skip, werr := e.applyWord(ctx, canon, tok.LemmaID, req, missed, confused)
		if werr != nil {
			return nil, werr
		}
		if skip {
			continue
		}

		words = append(words, *wr)
		snapshots = append(snapshots, WordSnapshot{LemmaID: canon, Prior: snap})
		if rating <= memory.RatingHard {
			leechTargets = append(leechTargets, canon)
		}
	}

	wordIndex := make(map[lemma.ID]int, len(words))
	for i, w := range words {
		wordIndex[w.LemmaID] = i
	}
	for _, id := range leechTargets {
		if err := e.checkLeech(ctx, id, req.Now); err != nil {
			return nil, err
		}
		st, ok, err := e.Deps.MemoryStore.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok && st.KnowledgeState == memory.StateSuspended {
			i := wordIndex[id]
			words[i].Suspended = true
			words[i].KnowledgeState = st.KnowledgeState
		}
	}

	if err := e.updateGrammarExposure(ctx, sentence.GrammarFeatures, req.ComprehensionSignal, req.Now); err != nil {
		return nil, err
	}

	priorShown := sentence.Shown[req.Mode]
	if err := e.Deps.PoolStore.RecordShown(ctx, req.SentenceID, req.Mode, req.ComprehensionSignal, req.Now); err != nil {
		return nil, err
	}

	result := &Result{Words: words}

	if req.ClientReviewID != "" && e.Deps.Log != nil {
		entry := &LogEntry{
			ID:                  uuid.New().String(),
			ClientReviewID:      req.ClientReviewID,
			SessionID:           req.SessionID,
			SentenceID:          req.SentenceID,
			Mode:                req.Mode,
			ComprehensionSignal: req.ComprehensionSignal,
			PriorShown:          priorShown,
			Snapshots:           snapshots,
			Result:              *result,
			CreatedAt:           req.Now,
		}
		if err := e.Deps.Log.Put(ctx, entry); err != nil {
			return nil, err
		}
		result.ReviewLogID = entry.ID
	}

	return result, nil
}

// applyWord mutates one canonical lemma's memory state under its lock and
// returns the outcome, the pre-mutation snapshot (for undo), the derived
// rating (for the leech-check trigger), and whether the word was skipped
// (not yet introduced, or suspended).
func (e *Engine) applyWord(ctx context.Context, canon, surfaceLemma lemma.ID, req Request, missed, confused map[lemma.ID]bool) (*WordResult, *memory.State, memory.Rating, bool, error) {
	var (
		wr     *WordResult
		snap   *memory.State
		rating memory.Rating
		skip   bool
		werr   error
	)

	e.Deps.Locks.WithLock(canon, func() {
		st, ok, err := e.Deps.MemoryStore.Get(ctx, canon)
		if err != nil {
			werr = err
			return
		}
		if !ok || st.KnowledgeState == memory.StateEncountered || st.KnowledgeState == memory.StateSuspended {
			skip = true
			return
		}

		snap = st.Clone()
		wasAcquiring := st.KnowledgeState == memory.StateAcquiring
		rating = deriveRating(req.ComprehensionSignal, canon, missed, confused)

		if surfaceLemma != canon {
			creditVariant(st, surfaceLemma, rating)
		}

		switch st.KnowledgeState {
		case memory.StateAcquiring:
			dec := acquisition.Review(e.Cfg.Acquisition, acquisition.ReviewInput{
				Box:                st.Box,
				TimesSeen:          st.TimesSeen,
				TimesCorrect:       st.TimesCorrect,
				EnteredAcquiringAt: st.EnteredAcquiringAt,
				Now:                req.Now,
				Rating:             rating,
			})
			st.TimesSeen++
			if rating >= memory.RatingGood {
				st.TimesCorrect++
			}
			if dec.Graduate {
				card, _ := fsrs.Update(nil, rating, req.Now, e.Cfg.FSRS)
				st.Card = card
				st.KnowledgeState = fsrs.MapKnowledgeState(card, e.Cfg.FSRS)
				st.GraduatedAt = req.Now
			} else {
				st.Box = dec.Box
				st.NextDueAt = dec.NextDueAt
			}
		case memory.StateLearning, memory.StateKnown, memory.StateLapsed:
			card, _ := fsrs.Update(st.Card, rating, req.Now, e.Cfg.FSRS)
			st.Card = card
			st.KnowledgeState = fsrs.MapKnowledgeState(card, e.Cfg.FSRS)
			st.TimesSeen++
			if rating >= memory.RatingGood {
				st.TimesCorrect++
			}
		default:
			skip = true
			return
		}

		if err := e.Deps.MemoryStore.Put(ctx, st); err != nil {
			werr = err
			return
		}

		wr = &WordResult{
			LemmaID:        canon,
			Rating:         rating,
			KnowledgeState: st.KnowledgeState,
			Stability:      st.PseudoStability(),
			DueAt:          wordDueAt(st),
			Graduated:      wasAcquiring && st.KnowledgeState != memory.StateAcquiring,
		}
	})

	return wr, snap, rating, skip, werr
}
