package session

import (
	"github.com/houshuang/alif/pkg/lemma"
)

// assembleItems implements Response Assembly stage: build
// one card per selected candidate.
func assembleItems(deps Dependencies, selected []candidate, infos map[lemma.ID]*dueInfo, due map[lemma.ID]bool) []Item {
	items := make([]Item, 0, len(selected))
	for _, c := range selected {
		items = append(items, assembleItem(deps, c, infos, due))
	}
	return items
}

func assembleItem(deps Dependencies, c candidate, infos map[lemma.ID]*dueInfo, due map[lemma.ID]bool) Item {
	primary, primaryGloss := primaryLemma(deps, c, infos, due)

	tokens := make([]TokenCard, 0, len(c.Sentence.Tokens))
	for _, tok := range c.Sentence.Tokens {
		canon := deps.Graph.Canonical(tok.LemmaID)
		tc := TokenCard{
			Surface:      tok.Surface,
			LemmaID:      canon,
			FunctionWord: deps.Graph.IsFunctionWord(canon),
		}
		if l, ok := deps.Graph.Lookup(canon); ok {
			tc.Gloss = l.Gloss
		}
		if info, ok := infos[canon]; ok {
			tc.Stability = info.PseudoStability
			tc.Due = info.Due
		}
		tokens = append(tokens, tc)
	}

	return Item{
		SentenceID:     c.Sentence.ID,
		Text:           c.Sentence.Text,
		Translation:    c.Sentence.Translation,
		PrimaryLemmaID: primary,
		PrimaryGloss:   primaryGloss,
		Tokens:         tokens,
		GrammarTags:    c.Sentence.GrammarFeatures,
		AudioURL:       c.Sentence.AudioURL,
		IsOnDemand:     c.IsOnDemand,
	}
}

// primaryLemma picks the card's headline lemma: the on-demand target if
// still due, else the first due covered lemma in token order, else the
// sentence's first content word.
func primaryLemma(deps Dependencies, c candidate, infos map[lemma.ID]*dueInfo, due map[lemma.ID]bool) (lemma.ID, string) {
	if c.TargetLemmaID != 0 && due[c.TargetLemmaID] {
		return glossFor(deps, c.TargetLemmaID)
	}
	for _, tok := range c.Sentence.Tokens {
		canon := deps.Graph.Canonical(tok.LemmaID)
		if due[canon] {
			return glossFor(deps, canon)
		}
	}
	for _, id := range contentLemmaIDs(c.Sentence, deps.Graph) {
		return glossFor(deps, id)
	}
	return 0, ""
}

func glossFor(deps Dependencies, id lemma.ID) (lemma.ID, string) {
	if l, ok := deps.Graph.Lookup(id); ok {
		return id, l.Gloss
	}
	return id, ""
}
