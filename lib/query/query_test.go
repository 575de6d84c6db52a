package query_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odtl/dl85/lib/query"
	"github.com/odtl/dl85/lib/trie"
)

func TestMisclassComputeErrorValues(t *testing.T) {
	t.Parallel()
	q := query.NewMisclassQuery(query.Config{MinSupport: 1, MaxDepth: 2, MaxError: math.Inf(1)})

	result := q.ComputeErrorValues([]int{7, 3})
	assert.Equal(t, 0, result.Class)
	assert.InDelta(t, 3, result.Error, query.Epsilon)

	result = q.ComputeErrorValues([]int{2, 2})
	assert.InDelta(t, 2, result.Error, query.Epsilon)
}

func TestMisclassUpdateDataOnlyImprovesWithinBound(t *testing.T) {
	t.Parallel()
	q := query.NewMisclassQuery(query.Config{MinSupport: 1, MaxDepth: 2, MaxError: math.Inf(1)})

	data := trie.NewBest()
	data.Error = math.Inf(1)
	left := trie.NewBest()
	left.Error = 1
	right := trie.NewBest()
	right.Error = 1

	require.True(t, q.UpdateData(data, 5, 0, left, right))
	assert.InDelta(t, 2, data.Error, query.Epsilon)
	assert.Equal(t, 0, data.Test)
	assert.Same(t, left, data.Left)
	assert.Same(t, right, data.Right)

	// a combined error that does not beat data.Error must not overwrite it
	worseLeft := trie.NewBest()
	worseLeft.Error = 5
	worseRight := trie.NewBest()
	worseRight.Error = 5
	assert.False(t, q.UpdateData(data, 5, 1, worseLeft, worseRight))
	assert.InDelta(t, 2, data.Error, query.Epsilon)

	// a combined error that beats data.Error but not ub must not overwrite it
	fresh := trie.NewBest()
	assert.False(t, q.UpdateData(fresh, 2, 1, left, right))
	assert.True(t, math.IsInf(fresh.Error, 1))
}

func TestMisclassCanSkipRequiresLowerBoundMatch(t *testing.T) {
	t.Parallel()
	q := query.NewMisclassQuery(query.Config{})
	data := trie.NewBest()
	data.Error = 3
	data.LowerBound = 3
	assert.True(t, q.CanSkip(data))

	data.LowerBound = 1
	assert.False(t, q.CanSkip(data))
}

func TestWeightedQueryFavorsMinorityClassWithHigherWeight(t *testing.T) {
	t.Parallel()
	q := query.NewWeightedQuery(query.Config{MinSupport: 1, MaxDepth: 2, MaxError: math.Inf(1)}, []float64{1, 5})

	// 9 of class 0, 1 of class 1; weighted support is 9 vs 5, so class 0
	// still wins, but the weighted error is larger than the raw count.
	result := q.ComputeErrorValues([]int{9, 1})
	assert.Equal(t, 0, result.Class)
	assert.InDelta(t, 5, result.Error, query.Epsilon)
}

func TestWeightedQueryDefaultsUnconfiguredClassesToWeightOne(t *testing.T) {
	t.Parallel()
	q := query.NewWeightedQuery(query.Config{}, []float64{2})
	result := q.ComputeErrorValues([]int{4, 4, 4})
	// class 0 weighted to 8, classes 1 and 2 stay at 4: class 0 wins.
	assert.Equal(t, 0, result.Class)
	assert.InDelta(t, 8, result.Error, query.Epsilon)
}
