package trie_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odtl/dl85/lib/itemset"
	"github.com/odtl/dl85/lib/trie"
)

func mustCanonical(t *testing.T, items ...itemset.Item) itemset.Itemset {
	t.Helper()
	set, err := itemset.Canonical(items)
	require.NoError(t, err)
	return set
}

func TestInsertIsStableAcrossCalls(t *testing.T) {
	t.Parallel()
	tr := trie.New()
	set := mustCanonical(t, itemset.NewItem(0, itemset.Present), itemset.NewItem(1, itemset.Negated))

	first := tr.Insert(set)
	second := tr.Insert(set)
	assert.Same(t, first, second)
}

func TestInsertSharesCommonPrefix(t *testing.T) {
	t.Parallel()
	tr := trie.New()
	a := mustCanonical(t, itemset.NewItem(0, itemset.Present))
	ab := mustCanonical(t, itemset.NewItem(0, itemset.Present), itemset.NewItem(1, itemset.Present))

	nodeA := tr.Insert(a)
	nodeAB := tr.Insert(ab)
	assert.NotSame(t, nodeA, nodeAB)

	// re-inserting the prefix must land on the same node as before.
	assert.Same(t, nodeA, tr.Insert(a))
}

func TestNewBestIsUnsolvedLeafSentinel(t *testing.T) {
	t.Parallel()
	best := trie.NewBest()
	assert.True(t, math.IsInf(best.Error, 1))
	assert.True(t, math.IsInf(best.LeafError, 1))
	assert.Equal(t, -1, best.Test)
	assert.True(t, best.IsLeaf())
}

func TestExistingSuccessorsIsAscendingAndDeduplicated(t *testing.T) {
	t.Parallel()
	tr := trie.New()
	root := tr.Root()

	// discover edges out of order and with both polarities of the same
	// attribute, to exercise both the ascending-order and
	// dedup-by-attribute guarantees.
	tr.Insert(mustCanonical(t, itemset.NewItem(2, itemset.Present)))
	tr.Insert(mustCanonical(t, itemset.NewItem(0, itemset.Negated)))
	tr.Insert(mustCanonical(t, itemset.NewItem(0, itemset.Present)))
	tr.Insert(mustCanonical(t, itemset.NewItem(1, itemset.Present)))

	succ := root.ExistingSuccessors()
	assert.Equal(t, []itemset.Attribute{0, 1, 2}, succ)
}

func TestEdgesReflectsItemPolarity(t *testing.T) {
	t.Parallel()
	tr := trie.New()
	root := tr.Root()
	tr.Insert(mustCanonical(t, itemset.NewItem(0, itemset.Negated)))
	tr.Insert(mustCanonical(t, itemset.NewItem(0, itemset.Present)))

	edges := root.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, itemset.Attribute(0), edges[0].Item.Attribute())
	assert.Equal(t, itemset.Negated, edges[0].Item.Polarity())
	assert.Equal(t, itemset.Present, edges[1].Item.Polarity())
}
