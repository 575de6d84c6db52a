package search

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odtl/dl85/lib/bitcover"
	"github.com/odtl/dl85/lib/cover"
	"github.com/odtl/dl85/lib/itemset"
	"github.com/odtl/dl85/lib/query"
	"github.com/odtl/dl85/lib/trie"
)

// bruteForceDepthTwo returns the minimum error over every tree of depth
// <= 2 whose internal nodes test attributes of cov's dataset, subject to
// every leaf having support >= minsup: the root as a leaf, every valid
// one-split tree, and every valid two-level tree, enumerated directly
// with cover intersections and no pruning at all.
func bruteForceDepthTwo(q query.Query, cov *cover.Cover, minsup int) float64 {
	best := q.ComputeOnlyError(cov.GetSupportPerClass())

	nAttrs := cov.NumAttributes()
	frequent := func(a itemset.Attribute) bool {
		return cov.TemporaryIntersectSup(a, itemset.Negated) >= minsup &&
			cov.TemporaryIntersectSup(a, itemset.Present) >= minsup
	}

	for r := 0; r < nAttrs; r++ {
		root := itemset.Attribute(r)
		if !frequent(root) {
			continue
		}
		total := 0.0
		for _, pol := range []itemset.Polarity{itemset.Negated, itemset.Present} {
			cov.Intersect(root, pol)
			side := q.ComputeOnlyError(cov.GetSupportPerClass())
			for s := 0; s < nAttrs; s++ {
				split := itemset.Attribute(s)
				if split == root || !frequent(split) {
					continue
				}
				cov.Intersect(split, itemset.Negated)
				e0 := q.ComputeOnlyError(cov.GetSupportPerClass())
				cov.Backtrack()
				cov.Intersect(split, itemset.Present)
				e1 := q.ComputeOnlyError(cov.GetSupportPerClass())
				cov.Backtrack()
				if e0+e1 < side {
					side = e0 + e1
				}
			}
			total += side
			cov.Backtrack()
		}
		if total < best {
			best = total
		}
	}
	return best
}

// randomBinaryData draws every attribute and class label uniformly,
// except attribute 0, which always covers exactly the first half of the
// transactions so that at least one root split is frequent on both sides
// and an unbounded depth-2 search is guaranteed to solve.
func randomBinaryData(rng *rand.Rand, nTx, nAttrs int) *cover.Data {
	attrs := make([]bitcover.Set, nAttrs)
	for a := range attrs {
		attrs[a] = bitcover.New(nTx)
		if a == 0 {
			for tx := 0; tx < nTx/2; tx++ {
				attrs[a].SetBit(tx)
			}
			continue
		}
		for tx := 0; tx < nTx; tx++ {
			if rng.Intn(2) == 1 {
				attrs[a].SetBit(tx)
			}
		}
	}
	classes := []bitcover.Set{bitcover.New(nTx), bitcover.New(nTx)}
	for tx := 0; tx < nTx; tx++ {
		classes[rng.Intn(2)].SetBit(tx)
	}
	return &cover.Data{
		NTransactions: nTx,
		NClasses:      2,
		AttrPresent:   attrs,
		ClassOf:       classes,
	}
}

// The specialized solver must find the exact optimum over all trees of
// depth <= 2, so a full search at maxdepth 2 (which delegates the root
// straight to depthTwoSolve) has to agree with unpruned brute-force
// enumeration on any dataset.
func TestDepthTwoSolverMatchesBruteForce(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(0x5eed))

	for trial := 0; trial < 64; trial++ {
		nTx := 4 + rng.Intn(12)
		nAttrs := 2 + rng.Intn(3)
		minsup := 1 + rng.Intn(2)
		data := randomBinaryData(rng, nTx, nAttrs)

		q := query.NewMisclassQuery(query.Config{
			MinSupport: minsup, MaxDepth: 2, MaxError: math.Inf(1),
		})
		eng := New(q, trie.New())
		node, err := eng.Run(context.Background(), cover.NewRoot(data))
		require.NoError(t, err)

		got := node.Data().Error
		require.False(t, math.IsInf(got, 1),
			"trial %d: unbounded search must always solve", trial)

		ref := cover.NewRoot(data)
		want := bruteForceDepthTwo(q, ref, minsup)
		assert.Equal(t, 0, ref.StackDepth())

		assert.InDeltaf(t, want, got, query.Epsilon,
			"trial %d: nTx=%d nAttrs=%d minsup=%d", trial, nTx, nAttrs, minsup)
	}
}
