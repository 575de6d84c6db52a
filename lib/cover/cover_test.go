package cover_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odtl/dl85/lib/bitcover"
	"github.com/odtl/dl85/lib/cover"
	"github.com/odtl/dl85/lib/itemset"
)

// xorData builds the classic XOR dataset used throughout the search-engine
// tests: two attributes a,b, class = a XOR b.
//
//	(a=0,b=0,cls=0) (a=0,b=1,cls=1) (a=1,b=0,cls=1) (a=1,b=1,cls=0)
func xorData() *cover.Data {
	a := bitcover.New(4)
	a[0] = 0b1100 // transactions 2,3 have a=1
	b := bitcover.New(4)
	b[0] = 0b1010 // transactions 1,3 have b=1
	cls0 := bitcover.New(4)
	cls0[0] = 0b1001 // transactions 0,3
	cls1 := bitcover.New(4)
	cls1[0] = 0b0110 // transactions 1,2

	return &cover.Data{
		NTransactions: 4,
		NClasses:      2,
		AttrPresent:   []bitcover.Set{a, b},
		ClassOf:       []bitcover.Set{cls0, cls1},
	}
}

func TestRootCoverCoversEverything(t *testing.T) {
	t.Parallel()
	c := cover.NewRoot(xorData())
	assert.Equal(t, 4, c.GetSupport())
	assert.Equal(t, 0, c.StackDepth())
	assert.Equal(t, []int{2, 2}, c.GetSupportPerClass())
}

func TestIntersectBacktrackIsReversible(t *testing.T) {
	t.Parallel()
	c := cover.NewRoot(xorData())

	c.Intersect(0, itemset.Present) // a=1: transactions {2,3}
	assert.Equal(t, 2, c.GetSupport())
	assert.Equal(t, 1, c.StackDepth())
	assert.Equal(t, []int{1, 1}, c.GetSupportPerClass()) // {3:cls0, 2:cls1}

	c.Intersect(1, itemset.Present) // a=1,b=1: transaction {3}
	assert.Equal(t, 1, c.GetSupport())
	assert.Equal(t, 2, c.StackDepth())

	c.Backtrack()
	assert.Equal(t, 2, c.GetSupport())
	assert.Equal(t, 1, c.StackDepth())

	c.Backtrack()
	assert.Equal(t, 4, c.GetSupport())
	assert.Equal(t, 0, c.StackDepth())
}

func TestTemporaryIntersectDoesNotMutate(t *testing.T) {
	t.Parallel()
	c := cover.NewRoot(xorData())

	supports, total := c.TemporaryIntersect(0, itemset.Present)
	assert.Equal(t, 2, total)
	assert.Equal(t, []int{1, 1}, supports)
	c.ReleaseSupports(supports)

	// cover itself is untouched
	assert.Equal(t, 4, c.GetSupport())
	assert.Equal(t, 0, c.StackDepth())

	assert.Equal(t, 2, c.TemporaryIntersectSup(0, itemset.Present))
	assert.Equal(t, 2, c.TemporaryIntersectSup(0, itemset.Negated))
}

func TestMinusMe(t *testing.T) {
	t.Parallel()
	c := cover.NewRoot(xorData())
	snapshot := c.GetTopBitsetArray() // all 4 transactions

	c.Intersect(0, itemset.Present) // now cover = {2,3}
	diff := c.MinusMe(snapshot)     // snapshot \ cover = {0,1}
	require.Len(t, diff, 2)
	assert.Equal(t, 1, diff[0]) // transaction 0 is class 0
	assert.Equal(t, 1, diff[1]) // transaction 1 is class 1
	c.ReleaseSupports(diff)
}
