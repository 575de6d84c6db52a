// Package cover implements the reversible transaction-mask abstraction the
// search engine walks the itemset lattice through: intersect pushes a new
// (attribute, polarity) constraint, backtrack pops it, and a handful of
// "temporary" variants probe a constraint's effect without mutating the
// cover at all.
package cover

import (
	"fmt"

	"github.com/odtl/dl85/lib/bitcover"
	"github.com/odtl/dl85/lib/itemset"
)

// Data is the immutable, dataset-wide input a Cover is built against: one
// presence bitset per attribute, and one membership bitset per class
// label. It is produced by a data-ingestion collaborator (lib/dataset is
// this module's default one) and shared read-only by every Cover derived
// from it.
type Data struct {
	NTransactions int
	NClasses      int
	// AttrPresent[a] has bit t set iff transaction t has attribute a = 1.
	AttrPresent []bitcover.Set
	// ClassOf[c] has bit t set iff transaction t belongs to class c.
	ClassOf []bitcover.Set
}

func (d *Data) validate() {
	if len(d.AttrPresent) == 0 {
		panic("cover: Data has no attributes")
	}
	if len(d.ClassOf) != d.NClasses {
		panic("cover: Data.ClassOf does not match NClasses")
	}
}

type frame struct {
	item itemset.Item
	prev bitcover.Set
}

// Cover is a reversible mask over transactions. The zero value is not
// usable; construct with NewRoot.
type Cover struct {
	data *Data
	mask bitcover.Set
	stack []frame

	maskWords     scratchPool[uint64]
	supportSlices scratchPool[int]
}

// NewRoot returns the Cover over every transaction in data (the itemset-{}
// cover used to bootstrap a search).
func NewRoot(data *Data) *Cover {
	data.validate()
	return &Cover{
		data: data,
		mask: bitcover.Full(data.NTransactions),
	}
}

// StackDepth returns the number of Intersect calls not yet matched by
// Backtrack.
func (c *Cover) StackDepth() int { return len(c.stack) }

// Intersect pushes a new (attr, polarity) constraint onto the cover,
// reducing the mask to the transactions that also satisfy it. It must be
// matched by exactly one Backtrack call.
func (c *Cover) Intersect(attr itemset.Attribute, pol itemset.Polarity) {
	item := itemset.NewItem(attr, pol)
	attrMask := c.data.AttrPresent[attr]

	newWords := c.maskWords.get(len(c.mask))
	newMask := bitcover.Set(newWords)
	if pol == itemset.Present {
		bitcover.And(&newMask, c.mask, attrMask)
	} else {
		bitcover.AndNot(&newMask, c.mask, attrMask)
	}

	c.stack = append(c.stack, frame{item: item, prev: c.mask})
	c.mask = newMask
}

// Backtrack undoes the most recent Intersect call.
func (c *Cover) Backtrack() {
	if len(c.stack) == 0 {
		panic("cover: Backtrack called with an empty stack")
	}
	top := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.maskWords.put([]uint64(c.mask))
	c.mask = top.prev
}

// GetSupport returns the number of transactions in the current cover.
func (c *Cover) GetSupport() int { return c.mask.Count() }

// GetSupportPerClass returns a freshly allocated per-class support vector
// for the current cover. Unlike TemporaryIntersect, the returned slice is
// meant to be retained (e.g. as part of a memoized Best payload), so it is
// not drawn from the scratch pool.
func (c *Cover) GetSupportPerClass() []int {
	out := make([]int, c.data.NClasses)
	for i, cls := range c.data.ClassOf {
		out[i] = bitcover.CountAnd(c.mask, cls)
	}
	return out
}

// TemporaryIntersectSup returns the support the cover would have after
// Intersect(attr, pol), without mutating the cover.
func (c *Cover) TemporaryIntersectSup(attr itemset.Attribute, pol itemset.Polarity) int {
	attrMask := c.data.AttrPresent[attr]
	if pol == itemset.Present {
		return bitcover.CountAnd(c.mask, attrMask)
	}
	return bitcover.CountAndNot(c.mask, attrMask)
}

// TemporaryIntersect returns the per-class supports and total support the
// cover would have after Intersect(attr, pol), without mutating the cover.
// The returned slice is drawn from an internal pool; callers must pass it
// to ReleaseSupports when done with it.
func (c *Cover) TemporaryIntersect(attr itemset.Attribute, pol itemset.Polarity) (supports []int, support int) {
	attrMask := c.data.AttrPresent[attr]
	var maskAndAttr bitcover.Set
	if pol == itemset.Present {
		maskAndAttr = andScratch(c.mask, attrMask)
	} else {
		maskAndAttr = andNotScratch(c.mask, attrMask)
	}

	supports = c.supportSlices.get(c.data.NClasses)
	total := 0
	for i, cls := range c.data.ClassOf {
		n := bitcover.CountAnd(maskAndAttr, cls)
		supports[i] = n
		total += n
	}
	return supports, total
}

// ReleaseSupports returns a per-class support slice obtained from
// TemporaryIntersect or MinusMe to the internal pool.
func (c *Cover) ReleaseSupports(s []int) {
	c.supportSlices.put(s)
}

// MinusMe returns the per-class supports of the transactions present in
// snapshot but not in the current cover ("snapshot \ cover"). The returned
// slice must be released with ReleaseSupports.
func (c *Cover) MinusMe(snapshot bitcover.Set) []int {
	out := c.supportSlices.get(c.data.NClasses)
	diff := andNotScratch(snapshot, c.mask)
	for i, cls := range c.data.ClassOf {
		out[i] = bitcover.CountAnd(diff, cls)
	}
	return out
}

// GetTopBitsetArray returns an owned snapshot of the current mask, safe to
// retain after further Intersect/Backtrack calls mutate the cover.
func (c *Cover) GetTopBitsetArray() bitcover.Set {
	return c.mask.Clone()
}

// NClasses reports the number of class labels in the underlying dataset.
func (c *Cover) NClasses() int { return c.data.NClasses }

// NumAttributes reports the number of attributes in the underlying dataset.
func (c *Cover) NumAttributes() int { return len(c.data.AttrPresent) }

func (c *Cover) String() string {
	return fmt.Sprintf("cover(support=%d, depth=%d)", c.GetSupport(), len(c.stack))
}

// andScratch and andNotScratch are small unpooled helpers used only inside
// TemporaryIntersect/MinusMe, where the result is immediately consumed by a
// handful of CountAnd calls and discarded; the allocation is one word
// slice, not one per class.
func andScratch(a, b bitcover.Set) bitcover.Set {
	var dst bitcover.Set
	bitcover.And(&dst, a, b)
	return dst
}

func andNotScratch(a, b bitcover.Set) bitcover.Set {
	var dst bitcover.Set
	bitcover.AndNot(&dst, a, b)
	return dst
}
