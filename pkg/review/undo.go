package review

import "context"

// Undo reverts a prior submission: every word's memory state is restored
// to its pre-review snapshot, the sentence's shown counters are restored
// to their pre-review values, and the review-log entry is removed. A
// repeated Undo on the same id returns ErrReviewLogNotFound.
func (e *Engine) Undo(ctx context.Context, reviewLogID string) error {
	entry, ok, err := e.Deps.Log.Get(ctx, reviewLogID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrReviewLogNotFound
	}

	for _, snap := range entry.Snapshots {
		if snap.Prior == nil {
			continue
		}
		prior := snap.Prior
		e.Deps.Locks.WithLock(snap.LemmaID, func() {
			err = e.Deps.MemoryStore.Put(ctx, prior)
		})
		if err != nil {
			return err
		}
	}

	if err := e.Deps.PoolStore.SetShown(ctx, entry.SentenceID, entry.Mode, entry.PriorShown); err != nil {
		return err
	}

	return e.Deps.Log.Delete(ctx, entry.ID)
}
