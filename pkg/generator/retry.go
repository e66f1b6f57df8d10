package generator

import (
	"context"
	"log/slog"

	"github.com/houshuang/alif/pkg/lemma"
)

// MaxAttempts bounds the retry-with-feedback loop ("at most
// 7 attempts per target set").
const MaxAttempts = 7

// GenerateValidated drives the generate → validate → feed-back-rejections
// loop until a valid candidate is produced or MaxAttempts is exhausted.
// Returns every valid candidate the generator returned on its winning
// attempt (a single call may produce more than one sentence).
func GenerateValidated(ctx context.Context, gen Generator, reviewer QualityReviewer, req Request, vocab VocabularySet) ([]Candidate, error) {
	attemptReq := req
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidates, err := gen.Generate(ctx, attemptReq)
		if err != nil {
			slog.Warn("sentence generation attempt failed", "attempt", attempt, "error", err)
			continue
		}

		var valid []Candidate
		var rejected []string
		seenRejected := make(map[string]bool)
		for _, c := range candidates {
			result := ValidateWithQuality(ctx, reviewer, c, vocab, req.Targets)
			if result.Valid {
				valid = append(valid, c)
				continue
			}
			for _, id := range result.OutOfVocab {
				if w := surfaceOf(c, id); w != "" && !seenRejected[w] {
					seenRejected[w] = true
					rejected = append(rejected, w)
				}
			}
		}

		if len(valid) > 0 {
			return valid, nil
		}

		attemptReq.RejectedWords = append(append([]string{}, req.RejectedWords...), rejected...)
	}
	return nil, ErrExhaustedAttempts
}

func surfaceOf(c Candidate, id lemma.ID) string {
	for _, tok := range c.Tokens {
		if tok.LemmaID == id {
			return tok.Surface
		}
	}
	return ""
}
