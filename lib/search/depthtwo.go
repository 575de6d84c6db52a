package search

import (
	"time"

	"github.com/odtl/dl85/lib/cover"
	"github.com/odtl/dl85/lib/itemset"
	"github.com/odtl/dl85/lib/query"
	"github.com/odtl/dl85/lib/trie"
)

// depthTwoSideResult is the outcome of optimizing one side (left or
// right child) of a candidate root: either the side is best left as a
// leaf, or a further split on another attribute strictly beats it.
type depthTwoSideResult struct {
	finalErr, leafErr float64
	isLeaf            bool
	splitIdx          int
	ownSup            []int
	leftSup, rightSup []int
}

// depthTwoSolve exhaustively finds the optimal depth-<=2 tree for cov and
// candidates in O(a^2) cover operations. It is only called when exactly
// two levels of depth remain. lbIn is the caller-supplied lower bound for
// this node; depthTwoSide uses it to skip a side's inner search entirely
// when that side's leaf error already equals lbIn (already provably
// optimal, so no split can do better).
func (e *SearchEngine) depthTwoSolve(current itemset.Itemset, node *trie.Node, candidates []itemset.Attribute, cov *cover.Cover, ub, lbIn float64) *trie.Node {
	start := time.Now()
	e.NCall++
	defer func() { e.SpecTime += time.Since(start) }()

	data := node.Data()
	if data == nil {
		data = e.Query.InitData(cov)
		node.SetData(data)
		e.LatticeSize++
	}

	a := len(candidates)
	if a == 0 {
		data.Error = data.LeafError
		return node
	}

	minsup := e.Query.MinSup()
	sups := e.depthTwoPrecompute(cov, candidates)
	rootSupports := cov.GetSupportPerClass()

	bestErr := ub
	bestRoot := -1
	var bestLeft, bestRight depthTwoSideResult

	for ir := range candidates {
		idsc := sups[ir][ir]
		igsc := subtract(rootSupports, idsc)
		rightTotal := sum(idsc)
		leftTotal := sum(igsc)
		if rightTotal < minsup || leftTotal < minsup {
			continue
		}

		left := e.depthTwoSide(igsc, leftTotal, ir, candidates, sups, minsup, false, lbIn)
		if left.finalErr >= bestErr {
			continue
		}
		right := e.depthTwoSide(idsc, rightTotal, ir, candidates, sups, minsup, true, lbIn)

		combined := left.finalErr + right.finalErr
		if combined < bestErr {
			bestErr = combined
			bestRoot = ir
			bestLeft = left
			bestRight = right
		}
	}

	if bestRoot == -1 {
		if ub > data.LowerBound {
			data.LowerBound = ub
		}
		return node
	}

	r := candidates[bestRoot]
	leftSet, _ := current.WithItem(itemset.NewItem(r, itemset.Negated))
	rightSet, _ := current.WithItem(itemset.NewItem(r, itemset.Present))
	leftNode := e.Trie.Insert(leftSet)
	rightNode := e.Trie.Insert(rightSet)

	leftData := e.materializeSide(leftNode, leftSet, candidates, bestLeft)
	rightData := e.materializeSide(rightNode, rightSet, candidates, bestRight)

	data.Error = leftData.Error + rightData.Error
	data.Test = int(r)
	data.Size = leftData.Size + rightData.Size + 1
	data.Left = leftData
	data.Right = rightData
	return node
}

// depthTwoPrecompute builds sups[i][j] (i<=j) = per-class supports of
// cov intersected with attr_i=1 and attr_j=1, in a single pass per
// attribute: intersect once, record the diagonal, probe every later
// column with a non-mutating temporary intersect, then backtrack.
func (e *SearchEngine) depthTwoPrecompute(cov *cover.Cover, candidates []itemset.Attribute) [][][]int {
	a := len(candidates)
	sups := make([][][]int, a)
	for i := range sups {
		sups[i] = make([][]int, a)
	}
	for i, ai := range candidates {
		cov.Intersect(ai, itemset.Present)
		sups[i][i] = cov.GetSupportPerClass()
		for j := i + 1; j < a; j++ {
			probe, _ := cov.TemporaryIntersect(candidates[j], itemset.Present)
			owned := make([]int, len(probe))
			copy(owned, probe)
			cov.ReleaseSupports(probe)
			sups[i][j] = owned
		}
		cov.Backtrack()
	}
	return sups
}

func pairSupports(sups [][][]int, i, j int) []int {
	if i <= j {
		return sups[i][j]
	}
	return sups[j][i]
}

// depthTwoSide finds the best way to resolve one side of a root split:
// as a leaf, or by splitting further on some other attribute s. isRight
// selects whether sideSupports is the r=1 side (so pair supports are used
// directly as the s=1 grandchild) or the r=0 side (so the s=1 grandchild
// is derived by subtracting the pair supports from s's own supports).
// lbIn is the node's incoming lower bound: if this side's leaf error
// already equals lbIn, the leaf is provably optimal and the inner search
// over split candidates is skipped entirely.
func (e *SearchEngine) depthTwoSide(sideSupports []int, sideTotal, rootIdx int, candidates []itemset.Attribute, sups [][][]int, minsup int, isRight bool, lbIn float64) depthTwoSideResult {
	leafErr := e.Query.ComputeOnlyError(sideSupports)
	result := depthTwoSideResult{
		finalErr: leafErr,
		leafErr:  leafErr,
		isLeaf:   true,
		splitIdx: -1,
		ownSup:   sideSupports,
	}

	if sideTotal < 2*minsup {
		return result
	}
	if query.FloatEqual(leafErr, lbIn) {
		return result
	}

	for si := range candidates {
		if si == rootIdx {
			continue
		}
		pair := pairSupports(sups, rootIdx, si)

		var grandLeft, grandRight []int
		if isRight {
			grandRight = pair
			grandLeft = subtract(sideSupports, pair)
		} else {
			supS := sups[si][si]
			grandRight = subtract(supS, pair)
			grandLeft = subtract(sideSupports, grandRight)
		}

		leftTotal := sum(grandLeft)
		rightTotal := sum(grandRight)
		if leftTotal < minsup || rightTotal < minsup {
			continue
		}

		leftErr := e.Query.ComputeOnlyError(grandLeft)
		if leftErr >= result.finalErr {
			continue
		}
		rightErr := e.Query.ComputeOnlyError(grandRight)
		combined := leftErr + rightErr
		if combined < result.finalErr {
			result.finalErr = combined
			result.isLeaf = false
			result.splitIdx = si
			result.leftSup = grandLeft
			result.rightSup = grandRight
		}
	}

	return result
}

// materializeSide installs side's outcome on node, creating grandchild
// trie nodes when side is a split rather than a leaf.
func (e *SearchEngine) materializeSide(node *trie.Node, base itemset.Itemset, candidates []itemset.Attribute, side depthTwoSideResult) *trie.Best {
	if side.isLeaf {
		return e.materializeLeaf(node, side.ownSup)
	}

	s := candidates[side.splitIdx]
	leftSet, _ := base.WithItem(itemset.NewItem(s, itemset.Negated))
	rightSet, _ := base.WithItem(itemset.NewItem(s, itemset.Present))
	leftNode := e.Trie.Insert(leftSet)
	rightNode := e.Trie.Insert(rightSet)

	leftLeaf := e.materializeLeaf(leftNode, side.leftSup)
	rightLeaf := e.materializeLeaf(rightNode, side.rightSup)
	return e.materializeSplit(node, s, side.leafErr, leftLeaf, rightLeaf)
}

func (e *SearchEngine) materializeLeaf(node *trie.Node, supports []int) *trie.Best {
	data := node.Data()
	if data == nil {
		data = trie.NewBest()
		node.SetData(data)
		e.LatticeSize++
	}
	result := e.Query.ComputeErrorValues(supports)
	data.Error = result.Error
	data.LeafError = result.Error
	data.LowerBound = result.Error
	data.Test = result.Class
	data.Size = 1
	data.Left = nil
	data.Right = nil
	return data
}

func (e *SearchEngine) materializeSplit(node *trie.Node, attr itemset.Attribute, leafErrorWhole float64, left, right *trie.Best) *trie.Best {
	data := node.Data()
	if data == nil {
		data = trie.NewBest()
		node.SetData(data)
		e.LatticeSize++
	}
	data.Error = left.Error + right.Error
	data.LeafError = leafErrorWhole
	data.LowerBound = data.Error
	data.Test = int(attr)
	data.Size = left.Size + right.Size + 1
	data.Left = left
	data.Right = right
	return data
}

func subtract(a, b []int) []int {
	out := make([]int, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func sum(a []int) int {
	total := 0
	for _, v := range a {
		total += v
	}
	return total
}
