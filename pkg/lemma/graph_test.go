package lemma

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testGraph() *Graph {
	return NewGraph([]Lemma{
		{ID: 1, Surface: "كتاب", RootID: 10},
		{ID: 2, Surface: "كتابه", RootID: 10, CanonicalID: 1},
		{ID: 3, Surface: "مدرسة", RootID: 20},
		{ID: 4, Surface: "من", IsFunctionWord: true},
		{ID: 5, Surface: "مكتبة", RootID: 10},
	})
}

func TestGraph_Canonical(t *testing.T) {
	g := testGraph()

	t.Run("variant resolves to canonical", func(t *testing.T) {
		assert.Equal(t, ID(1), g.Canonical(2))
	})

	t.Run("canonical resolves to itself", func(t *testing.T) {
		assert.Equal(t, ID(1), g.Canonical(1))
	})

	t.Run("unknown id resolves to itself", func(t *testing.T) {
		assert.Equal(t, ID(999), g.Canonical(999))
	})
}

func TestGraph_IsFunctionWord(t *testing.T) {
	g := testGraph()
	assert.True(t, g.IsFunctionWord(4))
	assert.False(t, g.IsFunctionWord(1))
}

func TestGraph_Siblings(t *testing.T) {
	g := testGraph()
	sibs := g.Siblings(1)
	assert.ElementsMatch(t, []ID{2, 5}, sibs)
}

func TestGraph_RecentRatingOneSibling(t *testing.T) {
	g := testGraph()
	now := time.Now()

	t.Run("defers when sibling rated 1 recently", func(t *testing.T) {
		lookup := func(id ID, since time.Time) bool { return id == 5 }
		assert.True(t, g.RecentRatingOneSibling(1, now, 7*24*time.Hour, lookup))
	})

	t.Run("does not defer when no sibling rated 1", func(t *testing.T) {
		lookup := func(id ID, since time.Time) bool { return false }
		assert.False(t, g.RecentRatingOneSibling(1, now, 7*24*time.Hour, lookup))
	})

	t.Run("lemma alone in its root has no siblings to defer on", func(t *testing.T) {
		lookup := func(id ID, since time.Time) bool { return true }
		assert.False(t, g.RecentRatingOneSibling(3, now, 7*24*time.Hour, lookup))
	})
}
