package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odtl/dl85/lib/bitcover"
	"github.com/odtl/dl85/lib/cover"
	"github.com/odtl/dl85/lib/itemset"
	"github.com/odtl/dl85/lib/query"
	"github.com/odtl/dl85/lib/trie"
)

// eightTxData is an 8-transaction dataset with three attributes chosen so
// their information gains are strictly ordered:
//
//   - attribute 0 ("a"): 4/4 split, classes balanced on both sides (IG 0)
//   - attribute 1 ("b"): 1/7 split, the lone b=1 transaction is class 1
//   - attribute 2 ("c"): 4/4 split that exactly predicts the class (IG 1)
func eightTxData() *cover.Data {
	a := bitcover.New(8)
	a[0] = 0b1111_0000
	b := bitcover.New(8)
	b[0] = 0b1000_0000
	c := bitcover.New(8)
	c[0] = 0b1100_1100

	cls1 := c.Clone()
	cls0 := bitcover.New(8)
	cls0[0] = ^c[0] & 0b1111_1111

	return &cover.Data{
		NTransactions: 8,
		NClasses:      2,
		AttrPresent:   []bitcover.Set{a, b, c},
		ClassOf:       []bitcover.Set{cls0, cls1},
	}
}

func newTestEngine(minsup int, order Order) *SearchEngine {
	q := query.NewMisclassQuery(query.Config{MinSupport: minsup, MaxDepth: 2})
	e := New(q, trie.New())
	e.InfoGain = order
	return e
}

func allAttrs() []itemset.Attribute { return []itemset.Attribute{0, 1, 2} }

func TestSuccessorsFilterDropsInfrequentAndLastAdded(t *testing.T) {
	t.Parallel()
	cov := cover.NewRoot(eightTxData())

	// minsup=2: attribute 1's b=1 side has support 1 and must go.
	e := newTestEngine(2, NoOrder)
	assert.Equal(t, []itemset.Attribute{0, 2},
		e.generateSuccessors(allAttrs(), cov, itemset.NoAttribute))

	// the attribute just split on is never a successor of itself.
	assert.Equal(t, []itemset.Attribute{2},
		e.generateSuccessors(allAttrs(), cov, 0))
}

func TestSuccessorsEveryResultSatisfiesTwoSidedMinSup(t *testing.T) {
	t.Parallel()
	cov := cover.NewRoot(eightTxData())
	for _, minsup := range []int{1, 2, 3, 4, 5} {
		e := newTestEngine(minsup, NoOrder)
		for _, a := range e.generateSuccessors(allAttrs(), cov, itemset.NoAttribute) {
			assert.GreaterOrEqual(t, cov.TemporaryIntersectSup(a, itemset.Negated), minsup)
			assert.GreaterOrEqual(t, cov.TemporaryIntersectSup(a, itemset.Present), minsup)
		}
	}
}

func TestSuccessorsInformationGainOrdering(t *testing.T) {
	t.Parallel()
	cov := cover.NewRoot(eightTxData())

	asc := newTestEngine(1, Ascending)
	assert.Equal(t, []itemset.Attribute{0, 1, 2},
		asc.generateSuccessors(allAttrs(), cov, itemset.NoAttribute))

	desc := newTestEngine(1, Descending)
	assert.Equal(t, []itemset.Attribute{2, 1, 0},
		desc.generateSuccessors(allAttrs(), cov, itemset.NoAttribute))
}

func TestSuccessorsRepeatSortIsOneShot(t *testing.T) {
	t.Parallel()
	cov := cover.NewRoot(eightTxData())

	e := newTestEngine(1, Descending)
	e.RepeatSort = false
	assert.Equal(t, []itemset.Attribute{2, 1, 0},
		e.generateSuccessors(allAttrs(), cov, itemset.NoAttribute))
	// the sort ran once; later calls keep the candidates' own order.
	assert.Equal(t, []itemset.Attribute{0, 1, 2},
		e.generateSuccessors(allAttrs(), cov, itemset.NoAttribute))

	repeat := newTestEngine(1, Descending)
	repeat.RepeatSort = true
	repeat.generateSuccessors(allAttrs(), cov, itemset.NoAttribute)
	assert.Equal(t, []itemset.Attribute{2, 1, 0},
		repeat.generateSuccessors(allAttrs(), cov, itemset.NoAttribute))
}

func TestInformationGainPerfectAndUselessSplits(t *testing.T) {
	t.Parallel()
	// a perfect split of a balanced parent gains one full bit...
	assert.InDelta(t, 1.0, informationGain([]int{4, 4}, []int{4, 0}), query.Epsilon)
	// ...a split that changes nothing gains nothing.
	assert.InDelta(t, 0.0, informationGain([]int{4, 4}, []int{2, 2}), query.Epsilon)
}
