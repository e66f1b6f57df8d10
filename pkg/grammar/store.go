package grammar

import (
	"context"

	"github.com/houshuang/alif/pkg/lemma"
)

// Store persists grammar-feature exposure records.
type Store interface {
	Get(ctx context.Context, feature lemma.GrammarFeature) (*Exposure, bool, error)
	GetMany(ctx context.Context, features []lemma.GrammarFeature) (map[lemma.GrammarFeature]*Exposure, error)
	Put(ctx context.Context, e Exposure) error
}
