// Package query provides the pluggable error-function collaborator the
// search engine is built against: what it means for a leaf to be good,
// whether a sibling branch is worth exploring, and when a node's optimum
// is already proven. The engine never downcasts to a concrete type; it
// works entirely through the Query interface, so alternative objectives
// (weighted misclassification, eventually anything else) plug in without
// touching lib/search.
package query

import (
	"math"
	"time"

	"github.com/odtl/dl85/lib/cover"
	"github.com/odtl/dl85/lib/itemset"
	"github.com/odtl/dl85/lib/trie"
)

// Epsilon is the tolerance used for all floating-point error comparisons
// in this package and in lib/search; never compare errors with ==.
const Epsilon = 1e-5

// FloatEqual reports whether a and b are equal within Epsilon.
func FloatEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// ErrorResult is the outcome of scoring a per-class support vector: the
// error of the majority-vote leaf and the class it predicts.
type ErrorResult struct {
	Error float64
	Class int
}

// Query is the error-function and search-configuration collaborator.
// Implementations are shared read-only across an entire search; they hold
// no per-node state (that lives in trie.Best).
type Query interface {
	// MinSup is the minimum support any leaf of the final tree must
	// achieve.
	MinSup() int
	// MaxDepth is the maximum tree depth the search will consider.
	MaxDepth() int
	// MaxError is the strict upper bound the whole search must beat;
	// +Inf means "any error is acceptable".
	MaxError() float64
	// TimeLimit is the soft wall-clock budget for a Run call; zero
	// means unbounded.
	TimeLimit() time.Duration
	// StopAfterError reports whether the engine should stop branching
	// at the root as soon as any split beats MaxError.
	StopAfterError() bool
	// Continuous reports whether the dataset carries continuous
	// features, which this engine does not support.
	Continuous() bool

	// InitData populates a freshly allocated trie.Best for a node's
	// first visit: LeafError, an initial LowerBound, and the
	// majority-class Test, all derived from cov's current per-class
	// supports.
	InitData(cov *cover.Cover) *trie.Best

	// UpdateData considers installing (attr, left, right) as node's
	// split. It returns true, and mutates data in place, iff
	// left.Error + right.Error is both strictly less than data.Error
	// and strictly less than ub.
	UpdateData(data *trie.Best, ub float64, attr itemset.Attribute, left, right *trie.Best) bool

	// CanImprove reports whether exploring a sibling branch could
	// still improve on the best error found so far, given the first
	// branch already solved to child and remainingUb left to beat.
	CanImprove(child *trie.Best, remainingUb float64) bool

	// CanSkip reports whether data's optimum is already proven, i.e.
	// no further candidate at this node could improve on it.
	CanSkip(data *trie.Best) bool

	// ComputeErrorValues scores a per-class support vector.
	ComputeErrorValues(supports []int) ErrorResult

	// ComputeOnlyError is ComputeErrorValues without the Class field,
	// for call sites that only need the scalar error.
	ComputeOnlyError(supports []int) float64
}

// Config holds the search-wide knobs shared by every Query implementation
// in this package.
type Config struct {
	MinSupport     int
	MaxDepth       int
	MaxError       float64
	TimeLimit      time.Duration
	StopAfterError bool
	Continuous     bool
}

func argmax(supports []int) (class int, total int) {
	best := -1
	for c, s := range supports {
		total += s
		if s > best {
			best = s
			class = c
		}
	}
	return class, total
}

// MisclassQuery is the default Query: error is plain misclassification
// count, i.e. support minus the largest class's support.
type MisclassQuery struct {
	Config
}

// NewMisclassQuery returns a MisclassQuery with the given configuration.
func NewMisclassQuery(cfg Config) *MisclassQuery {
	return &MisclassQuery{Config: cfg}
}

var _ Query = (*MisclassQuery)(nil)

func (q *MisclassQuery) MinSup() int              { return q.MinSupport }
func (q *MisclassQuery) MaxDepth() int            { return q.Config.MaxDepth }
func (q *MisclassQuery) MaxError() float64        { return q.Config.MaxError }
func (q *MisclassQuery) TimeLimit() time.Duration { return q.Config.TimeLimit }
func (q *MisclassQuery) StopAfterError() bool     { return q.Config.StopAfterError }
func (q *MisclassQuery) Continuous() bool         { return q.Config.Continuous }

func (q *MisclassQuery) InitData(cov *cover.Cover) *trie.Best {
	best := trie.NewBest()
	supports := cov.GetSupportPerClass()
	result := q.ComputeErrorValues(supports)
	best.LeafError = result.Error
	best.Test = result.Class
	return best
}

func (q *MisclassQuery) ComputeErrorValues(supports []int) ErrorResult {
	class, total := argmax(supports)
	majority := supports[class]
	return ErrorResult{Error: float64(total - majority), Class: class}
}

func (q *MisclassQuery) ComputeOnlyError(supports []int) float64 {
	return q.ComputeErrorValues(supports).Error
}

func (q *MisclassQuery) UpdateData(data *trie.Best, ub float64, attr itemset.Attribute, left, right *trie.Best) bool {
	combined := left.Error + right.Error
	if combined < data.Error && combined < ub {
		data.Test = int(attr)
		data.Error = combined
		data.Left = left
		data.Right = right
		data.Size = left.Size + right.Size + 1
		return true
	}
	return false
}

func (q *MisclassQuery) CanImprove(child *trie.Best, remainingUb float64) bool {
	return child.Error < remainingUb
}

func (q *MisclassQuery) CanSkip(data *trie.Best) bool {
	return FloatEqual(data.Error, data.LowerBound)
}

// WeightedQuery scales each class's contribution to the error by a
// per-class weight, for datasets where misclassifying one class matters
// more than another. Weights default to 1 for any class beyond the
// configured vector.
type WeightedQuery struct {
	Config
	Weights []float64
}

// NewWeightedQuery returns a WeightedQuery with the given configuration
// and per-class weights.
func NewWeightedQuery(cfg Config, weights []float64) *WeightedQuery {
	return &WeightedQuery{Config: cfg, Weights: weights}
}

var _ Query = (*WeightedQuery)(nil)

func (q *WeightedQuery) weight(class int) float64 {
	if class < 0 || class >= len(q.Weights) {
		return 1
	}
	return q.Weights[class]
}

func (q *WeightedQuery) MinSup() int              { return q.MinSupport }
func (q *WeightedQuery) MaxDepth() int            { return q.Config.MaxDepth }
func (q *WeightedQuery) MaxError() float64        { return q.Config.MaxError }
func (q *WeightedQuery) TimeLimit() time.Duration { return q.Config.TimeLimit }
func (q *WeightedQuery) StopAfterError() bool     { return q.Config.StopAfterError }
func (q *WeightedQuery) Continuous() bool         { return q.Config.Continuous }

func (q *WeightedQuery) InitData(cov *cover.Cover) *trie.Best {
	best := trie.NewBest()
	supports := cov.GetSupportPerClass()
	result := q.ComputeErrorValues(supports)
	best.LeafError = result.Error
	best.Test = result.Class
	return best
}

// ComputeErrorValues scores a per-class support vector as the weighted
// sum of every non-majority class's (weighted) support, where "majority"
// is chosen by weighted support rather than raw count.
func (q *WeightedQuery) ComputeErrorValues(supports []int) ErrorResult {
	class := 0
	bestWeighted := -1.0
	weightedTotal := 0.0
	for c, s := range supports {
		w := float64(s) * q.weight(c)
		weightedTotal += w
		if w > bestWeighted {
			bestWeighted = w
			class = c
		}
	}
	return ErrorResult{Error: weightedTotal - bestWeighted, Class: class}
}

func (q *WeightedQuery) ComputeOnlyError(supports []int) float64 {
	return q.ComputeErrorValues(supports).Error
}

func (q *WeightedQuery) UpdateData(data *trie.Best, ub float64, attr itemset.Attribute, left, right *trie.Best) bool {
	combined := left.Error + right.Error
	if combined < data.Error && combined < ub {
		data.Test = int(attr)
		data.Error = combined
		data.Left = left
		data.Right = right
		data.Size = left.Size + right.Size + 1
		return true
	}
	return false
}

func (q *WeightedQuery) CanImprove(child *trie.Best, remainingUb float64) bool {
	return child.Error < remainingUb
}

func (q *WeightedQuery) CanSkip(data *trie.Best) bool {
	return FloatEqual(data.Error, data.LowerBound)
}
