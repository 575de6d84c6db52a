// Package search implements the branch-and-bound driver: the recursive
// lattice walk (Recurse), successor generation, the similarity lower
// bound, and the depth-2 specialized solver. It is built against the
// query.Query, trie.Trie, and cover.Cover collaborators through their
// interfaces/exported methods only, never downcasting to a concrete
// payload type.
package search

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/datawire/dlib/dlog"

	"github.com/odtl/dl85/lib/cover"
	"github.com/odtl/dl85/lib/itemset"
	"github.com/odtl/dl85/lib/query"
	"github.com/odtl/dl85/lib/textui"
	"github.com/odtl/dl85/lib/trie"
)

// ErrContinuousData is returned by Run when the configured Query reports
// continuous features; this engine only supports binary attributes.
var ErrContinuousData = errors.New("search: continuous features are not supported")

// Order selects how SuccessorGenerator orders frequent attributes by
// information gain.
type Order int

const (
	// NoOrder keeps candidates in their natural (filtered) order.
	NoOrder Order = iota
	// Ascending emits low-information-gain attributes first.
	Ascending
	// Descending emits high-information-gain attributes first.
	Descending
)

// SearchEngine is the branch-and-bound driver. The zero value is not
// usable; construct with New.
type SearchEngine struct {
	Query query.Query
	Trie  *trie.Trie

	// InfoGain selects the successor ordering heuristic; NoOrder
	// disables it.
	InfoGain Order
	// RepeatSort, if false, disables the information-gain sort after
	// the first SuccessorGenerator call for the remainder of the
	// search: later first visits still filter their candidates but keep
	// them in the order they were passed in. Re-visits always use the
	// existing trie edge order, whatever this flag says.
	RepeatSort bool

	// NCall counts DepthTwoSolver invocations.
	NCall int
	// SpecTime accumulates wall-clock time spent inside DepthTwoSolver.
	SpecTime time.Duration
	// CompTime is the total wall-clock time of the most recent Run call.
	CompTime time.Duration
	// LatticeSize counts distinct trie nodes that received a payload.
	LatticeSize int
	// TimeLimitReached is set once the configured time budget elapses;
	// every frame visited afterwards settles as a leaf.
	TimeLimitReached bool

	// Progress, if non-nil, receives a live snapshot of the diagnostic
	// counters once per Recurse frame. It is a cheap atomic swap (see
	// textui.Progress), safe to call from this single-threaded search
	// loop; Run does not call Done on it, since the caller owns its
	// lifetime and may want to report progress across multiple Run calls.
	Progress *textui.Progress[EngineStats]

	startTime    time.Time
	sortDisabled bool
}

// EngineStats is a point-in-time snapshot of a SearchEngine's diagnostic
// counters, suitable for use with textui.Progress.
type EngineStats struct {
	NCall       int
	SpecTime    time.Duration
	LatticeSize int
}

func (s EngineStats) String() string {
	return textui.Sprintf("ncall=%d spectime=%v latticesize=%d", s.NCall, s.SpecTime, s.LatticeSize)
}

// New returns a SearchEngine ready to Run against t using q as its error
// function and configuration source.
func New(q query.Query, t *trie.Trie) *SearchEngine {
	return &SearchEngine{Query: q, Trie: t}
}

// Run bootstraps the empty itemset, builds the initial candidate list,
// and drives the search to completion. It returns the trie node holding
// the root of the resulting tree.
func (e *SearchEngine) Run(ctx context.Context, cov *cover.Cover) (*trie.Node, error) {
	if e.Query.Continuous() {
		return nil, ErrContinuousData
	}

	e.startTime = time.Now()
	e.TimeLimitReached = false
	e.sortDisabled = false

	minsup := e.Query.MinSup()
	candidates := e.initialCandidates(cov, minsup)

	root := e.Trie.Root()
	node := e.Recurse(ctx, nil, itemset.NoAttribute, root, candidates, cov, 0, e.Query.MaxError(), 0)
	e.CompTime = time.Since(e.startTime)

	dlog.Infof(ctx, "search done: ncall=%d spectime=%s comptime=%s latticesize=%d",
		e.NCall, e.SpecTime, e.CompTime, e.LatticeSize)

	return node, nil
}

func (e *SearchEngine) initialCandidates(cov *cover.Cover, minsup int) []itemset.Attribute {
	n := cov.NumAttributes()
	all := make([]itemset.Attribute, n)
	for a := 0; a < n; a++ {
		all[a] = itemset.Attribute(a)
	}
	if minsup <= 1 {
		return all
	}
	kept := make([]itemset.Attribute, 0, n)
	for _, a := range all {
		if cov.TemporaryIntersectSup(a, itemset.Negated) >= minsup &&
			cov.TemporaryIntersectSup(a, itemset.Present) >= minsup {
			kept = append(kept, a)
		}
	}
	return kept
}

// Recurse is the main branch-and-bound frame: it consults the memoized
// trie node, prunes by upper/lower bound and support, delegates to the
// depth-2 solver near the leaves, and otherwise branches over candidate
// attributes, tightening its lower bound when no split improves.
func (e *SearchEngine) Recurse(
	ctx context.Context,
	current itemset.Itemset,
	lastAdded itemset.Attribute,
	node *trie.Node,
	candidates []itemset.Attribute,
	cov *cover.Cover,
	depth int,
	ub float64,
	lbIn float64,
) *trie.Node {
	// Step 1: time check.
	if !e.TimeLimitReached {
		if tl := e.Query.TimeLimit(); tl > 0 && time.Since(e.startTime) >= tl {
			e.TimeLimitReached = true
			ctx := dlog.WithField(ctx, "search.depth", depth)
			ctx = dlog.WithField(ctx, "search.itemset", current)
			dlog.Infof(ctx, "time limit of %s reached", tl)
		}
	}
	if e.Progress != nil {
		e.Progress.Set(EngineStats{NCall: e.NCall, SpecTime: e.SpecTime, LatticeSize: e.LatticeSize})
	}

	minsup := e.Query.MinSup()
	maxdepth := e.Query.MaxDepth()

	data := node.Data()

	// Step 2: memoization fast paths.
	if data != nil {
		if !math.IsInf(data.Error, 1) {
			return node
		}
		if ub <= data.LowerBound {
			return node
		}
		if query.FloatEqual(data.LeafError, data.LowerBound) {
			data.Error = data.LeafError
			return node
		}
		if depth == maxdepth || cov.GetSupport() < 2*minsup {
			data.Error = data.LeafError
			return node
		}
	}

	// Step 3: depth-2 fast path. A frame that observes the time limit
	// settles as a leaf instead of delegating, same as every other
	// frame; the specialized solver is not exempt from the cancellation
	// contract.
	if maxdepth-depth == 2 && cov.GetSupport() >= 2*minsup {
		if e.TimeLimitReached {
			if data == nil {
				data = e.Query.InitData(cov)
				node.SetData(data)
				e.LatticeSize++
			}
			data.Error = data.LeafError
			return node
		}
		return e.depthTwoSolve(current, node, candidates, cov, ub, lbIn)
	}

	var nextAttrs []itemset.Attribute
	if data == nil {
		// Step 4: first visit.
		data = e.Query.InitData(cov)
		node.SetData(data)
		e.LatticeSize++

		if ub <= data.LowerBound {
			return node
		}
		if query.FloatEqual(data.LeafError, data.LowerBound) {
			data.Error = data.LeafError
			return node
		}
		if depth == maxdepth || cov.GetSupport() < 2*minsup {
			data.Error = data.LeafError
			return node
		}
		if e.TimeLimitReached {
			data.Error = data.LeafError
			return node
		}
		nextAttrs = e.generateSuccessors(candidates, cov, lastAdded)
	} else {
		// Step 5: re-visit without solution.
		if e.TimeLimitReached {
			data.Error = data.LeafError
			return node
		}
		nextAttrs = node.ExistingSuccessors()
	}

	// Step 6: no successors.
	if len(nextAttrs) == 0 {
		data.Error = data.LeafError
		return node
	}

	// Step 7: branching.
	sim := &similarityBound{}
	childUb := ub
	minlb := math.Inf(1)

	for _, a := range nextAttrs {
		cov.Intersect(a, itemset.Negated)
		lb0 := sim.bound(cov)
		cov.Backtrack()

		cov.Intersect(a, itemset.Present)
		lb1 := sim.bound(cov)
		cov.Backtrack()

		var firstPol, secondPol itemset.Polarity
		var firstLB, secondLB float64
		if lb1 > lb0 {
			firstPol, secondPol = itemset.Present, itemset.Negated
			firstLB, secondLB = lb1, lb0
		} else {
			firstPol, secondPol = itemset.Negated, itemset.Present
			firstLB, secondLB = lb0, lb1
		}

		cov.Intersect(a, firstPol)
		firstSet, _ := current.WithItem(itemset.NewItem(a, firstPol))
		firstNode := e.Trie.Insert(firstSet)
		if fd := firstNode.Data(); fd != nil && fd.LowerBound > firstLB {
			firstLB = fd.LowerBound
		}
		firstNode = e.Recurse(ctx, firstSet, a, firstNode, nextAttrs, cov, depth+1, childUb, firstLB)
		sim.observe(cov, firstNode.Data())
		firstError := firstNode.Data().Error
		cov.Backtrack()

		if e.Query.CanImprove(firstNode.Data(), childUb) {
			cov.Intersect(a, secondPol)
			secondSet, _ := current.WithItem(itemset.NewItem(a, secondPol))
			secondNode := e.Trie.Insert(secondSet)
			if sd := secondNode.Data(); sd != nil && sd.LowerBound > secondLB {
				secondLB = sd.LowerBound
			}
			remainUb := childUb - firstError
			secondNode = e.Recurse(ctx, secondSet, a, secondNode, nextAttrs, cov, depth+1, remainUb, secondLB)
			sim.observe(cov, secondNode.Data())
			secondError := secondNode.Data().Error
			cov.Backtrack()

			featureError := firstError + secondError
			if e.Query.UpdateData(data, childUb, a, firstNode.Data(), secondNode.Data()) {
				childUb = featureError
			} else if featureError < minlb {
				minlb = featureError
			}

			if e.Query.CanSkip(data) {
				break
			}
		} else {
			var candidate float64
			if math.IsInf(firstError, 1) {
				candidate = firstLB + secondLB
			} else {
				candidate = firstError + secondLB
			}
			if candidate < minlb {
				minlb = candidate
			}
		}

		if e.Query.StopAfterError() && depth == 0 && !math.IsInf(ub, 1) && data.Error < ub {
			break
		}
	}

	// Step 8: tighten lowerBound on failure.
	if math.IsInf(data.Error, 1) {
		floor := ub
		if minlb > floor {
			floor = minlb
		}
		if floor > data.LowerBound {
			data.LowerBound = floor
		}
	}

	// Step 9: snapshots are owned by sim, a local, and are released by
	// simply going out of scope; no explicit free is needed in Go.
	return node
}
