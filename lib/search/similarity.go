package search

import (
	"math"

	"github.com/odtl/dl85/lib/bitcover"
	"github.com/odtl/dl85/lib/cover"
	"github.com/odtl/dl85/lib/trie"
)

// similarityBound tracks up to two cover snapshots across one Recurse
// frame's attribute loop: b1 is the snapshot of the highest solved error
// seen so far, b2 the snapshot of the largest support seen so far. It is
// allocated fresh per frame and needs no explicit release in Go; it
// simply goes out of scope with the frame.
type similarityBound struct {
	b1, b2         bitcover.Set
	highestError   float64
	highestSupport int
}

// observe considers replacing either snapshot after a child recursion
// solved to data, with cov still intersected to that child (pre-backtrack).
// Unsolved children (Error still +Inf) carry no information and are
// ignored, matching the source's guard on the same condition.
func (s *similarityBound) observe(cov *cover.Cover, data *trie.Best) {
	if math.IsInf(data.Error, 1) {
		return
	}
	if data.Error > s.highestError {
		s.b1 = cov.GetTopBitsetArray()
		s.highestError = data.Error
	}
	if sup := cov.GetSupport(); sup > s.highestSupport {
		s.b2 = cov.GetTopBitsetArray()
		s.highestSupport = sup
	}
}

// bound returns the similarity lower bound for cov against whichever
// snapshots have been recorded so far: for each snapshot S, diff =
// supportPerClass(S \ cov), remain[c] = support[c] - diff[c], bound_S =
// sum(remain) - max(remain). The result is max(bound_b1, bound_b2), or 0
// if neither snapshot exists.
func (s *similarityBound) bound(cov *cover.Cover) float64 {
	best := 0.0
	var supports []int
	for _, snap := range [2]bitcover.Set{s.b1, s.b2} {
		if snap == nil {
			continue
		}
		if supports == nil {
			supports = cov.GetSupportPerClass()
		}
		diff := cov.MinusMe(snap)
		sum, max := 0, 0
		for c, d := range diff {
			remain := supports[c] - d
			sum += remain
			if remain > max {
				max = remain
			}
		}
		cov.ReleaseSupports(diff)
		if b := float64(sum - max); b > best {
			best = b
		}
	}
	return best
}
