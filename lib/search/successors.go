package search

import (
	"math"
	"sort"

	"github.com/odtl/dl85/lib/cover"
	"github.com/odtl/dl85/lib/itemset"
)

// generateSuccessors filters candidates to those satisfying the two-sided
// minsup constraint against cov, dropping lastAdded, and orders the
// survivors by information gain when e.InfoGain is configured. Per the
// one-shot repeatSort flag, once the gain sort has run once it is
// permanently disabled for the rest of the search if e.RepeatSort is
// false; later calls still filter, they just stop re-sorting.
func (e *SearchEngine) generateSuccessors(candidates []itemset.Attribute, cov *cover.Cover, lastAdded itemset.Attribute) []itemset.Attribute {
	minsup := e.Query.MinSup()
	if cov.GetSupport() < 2*minsup {
		return nil
	}

	currentSup := cov.GetSupport()
	currentSupClass := cov.GetSupportPerClass()

	useGain := e.InfoGain != NoOrder && !e.sortDisabled

	type gainEntry struct {
		gain float64
		attr itemset.Attribute
	}
	var gains []gainEntry
	var kept []itemset.Attribute

	for _, a := range candidates {
		if a == lastAdded {
			continue
		}
		supLeft := cov.TemporaryIntersectSup(a, itemset.Negated)
		supRight := currentSup - supLeft
		if supLeft < minsup || supRight < minsup {
			continue
		}
		if useGain {
			supClassLeft, _ := cov.TemporaryIntersect(a, itemset.Negated)
			gains = append(gains, gainEntry{gain: informationGain(currentSupClass, supClassLeft), attr: a})
			cov.ReleaseSupports(supClassLeft)
		} else {
			kept = append(kept, a)
		}
	}

	if useGain {
		ascending := e.InfoGain == Ascending
		sort.SliceStable(gains, func(i, j int) bool {
			if ascending {
				return gains[i].gain < gains[j].gain
			}
			return gains[i].gain > gains[j].gain
		})
		kept = make([]itemset.Attribute, len(gains))
		for i, g := range gains {
			kept[i] = g.attr
		}
		if !e.RepeatSort {
			e.sortDisabled = true
		}
	}

	return kept
}

// informationGain is the classical entropy decrease of splitting a
// parent's per-class supports into left/right per-class supports:
// H(parent) - (p0*H(left) + p1*H(right)).
func informationGain(parentSupports, leftSupports []int) float64 {
	rightSupports := make([]int, len(parentSupports))
	leftTotal, rightTotal := 0, 0
	for i := range parentSupports {
		rightSupports[i] = parentSupports[i] - leftSupports[i]
		leftTotal += leftSupports[i]
		rightTotal += rightSupports[i]
	}
	total := leftTotal + rightTotal
	if total == 0 {
		return 0
	}
	base := entropy(parentSupports, total)
	pLeft := float64(leftTotal) / float64(total)
	pRight := float64(rightTotal) / float64(total)
	cond := pLeft*entropy(leftSupports, leftTotal) + pRight*entropy(rightSupports, rightTotal)
	return base - cond
}

func entropy(supports []int, total int) float64 {
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, s := range supports {
		if s == 0 {
			continue
		}
		p := float64(s) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}
