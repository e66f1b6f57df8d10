package generator

import (
	"context"

	"github.com/houshuang/alif/pkg/lemma"
)

// VocabularySet is the union known_vocab ∪ targets ∪ encountered a
// generated sentence's content words must stay within.
type VocabularySet map[lemma.ID]bool

func NewVocabularySet(groups ...[]lemma.ID) VocabularySet {
	s := make(VocabularySet)
	for _, g := range groups {
		for _, id := range g {
			s[id] = true
		}
	}
	return s
}

// ValidationResult reports why a candidate was rejected, so the retry loop
// can feed it back as constraints on the next attempt.
type ValidationResult struct {
	Valid         bool
	OutOfVocab    []lemma.ID
	MissingTarget bool
	QualityFailed bool
}

func (r ValidationResult) RejectedWords(tokensByLemma map[lemma.ID]string) []string {
	var out []string
	for _, id := range r.OutOfVocab {
		if s, ok := tokensByLemma[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Validate runs the non-quality checks of validity
// contract: every content token's lemma must resolve into vocab, and at
// least one target lemma must be present. A scaffold-tagged token is still
// a content word here: ScaffoldWord only weights scoring, it never exempts
// a word from the vocabulary constraint.
func Validate(c Candidate, vocab VocabularySet, targets []lemma.ID) ValidationResult {
	var result ValidationResult
	seenOutOfVocab := make(map[lemma.ID]bool)
	targetSet := make(map[lemma.ID]bool, len(targets))
	for _, t := range targets {
		targetSet[t] = true
	}

	hasTarget := false
	for _, tok := range c.Tokens {
		if !vocab[tok.LemmaID] {
			if !seenOutOfVocab[tok.LemmaID] {
				seenOutOfVocab[tok.LemmaID] = true
				result.OutOfVocab = append(result.OutOfVocab, tok.LemmaID)
			}
			continue
		}
		if targetSet[tok.LemmaID] {
			hasTarget = true
		}
	}
	result.MissingTarget = !hasTarget

	result.Valid = len(result.OutOfVocab) == 0 && hasTarget
	return result
}

// ValidateWithQuality adds the quality-review gate on top of Validate.
// The gate fails closed: a reviewer error is treated as a failed review,
// never a pass.
func ValidateWithQuality(ctx context.Context, reviewer QualityReviewer, c Candidate, vocab VocabularySet, targets []lemma.ID) ValidationResult {
	result := Validate(c, vocab, targets)
	if !result.Valid {
		return result
	}
	pass, err := reviewer.Review(ctx, c)
	if err != nil || !pass {
		result.Valid = false
		result.QualityFailed = true
	}
	return result
}
