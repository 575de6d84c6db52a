// Package trie implements the memoization collaborator Recurse is built
// against: a shared trie keyed by canonical itemsets, whose nodes carry
// the Best payload. Nodes and payloads are arena owned by the Trie for
// its whole lifetime; Best.Left/Right are non-owning handles into
// sibling nodes' payloads, never reference counted.
package trie

import (
	"math"

	"github.com/odtl/dl85/lib/containers"
	"github.com/odtl/dl85/lib/itemset"
)

// Best is the memoized search result attached to a trie node.
type Best struct {
	// Error is the best known tree error for this node, or +Inf if not
	// yet solved at any upper bound tried so far.
	Error float64
	// LowerBound is the greatest lower bound proven for this node.
	LowerBound float64
	// LeafError is the error if this node is turned into a leaf.
	LeafError float64
	// Test is the splitting attribute (internal node) or predicted
	// class (leaf); -1 until initialized.
	Test int
	// Size is the number of nodes in the subtree rooted here.
	Size int
	// Left, Right are non-owning handles to this node's children's
	// payloads; both nil for a leaf.
	Left, Right *Best
}

// NewBest returns an unsolved Best payload, as installed on a trie node's
// first visit before Query.InitData runs.
func NewBest() *Best {
	return &Best{
		Error:      math.Inf(1),
		LowerBound: 0,
		LeafError:  math.Inf(1),
		Test:       -1,
		Size:       1,
	}
}

// IsLeaf reports whether this payload currently describes a leaf.
func (b *Best) IsLeaf() bool {
	return b.Left == nil && b.Right == nil
}

// Edge is one (item, child) pair out of a trie node.
type Edge struct {
	Item  itemset.Item
	Child *Node
}

// Node is a trie node: a memoized Best payload plus the children reached
// by extending this node's itemset with one more item.
type Node struct {
	data  *Best
	edges containers.SortedMap[containers.NativeOrdered[int], *Node]
}

// Data returns the node's memoized payload, or nil if this is the node's
// first visit.
func (n *Node) Data() *Best { return n.data }

// SetData installs data as this node's payload. Called exactly once per
// node, on first visit.
func (n *Node) SetData(data *Best) { n.data = data }

// Edges returns this node's (item, child) edges in ascending item order —
// equivalently, ascending attribute, with the negated branch (polarity 0)
// immediately before the present branch (polarity 1) of the same
// attribute. The order depends only on the items, not on the order in
// which edges were inserted, so it does not change on subsequent visits.
func (n *Node) Edges() []Edge {
	var out []Edge
	n.edges.Range(func(key containers.NativeOrdered[int], child *Node) bool {
		out = append(out, Edge{Item: itemset.DecodeItem(key.Val), Child: child})
		return true
	})
	return out
}

// ExistingSuccessors returns the distinct attributes this node already has
// edges for, in ascending attribute order. This is the order Recurse
// falls back to on a re-visit: it is sorted by attribute, not the order
// in which edges were discovered, and not necessarily the first-visit
// information-gain order.
func (n *Node) ExistingSuccessors() []itemset.Attribute {
	seen := containers.NewSet[itemset.Attribute]()
	var out []itemset.Attribute
	for _, edge := range n.Edges() {
		a := edge.Item.Attribute()
		if seen.Has(a) {
			continue
		}
		seen.Insert(a)
		out = append(out, a)
	}
	return out
}

// Trie is the shared, whole-search-lifetime itemset→Node store.
type Trie struct {
	root *Node
}

// New returns an empty Trie (its root is the itemset-{} node).
func New() *Trie {
	return &Trie{root: &Node{}}
}

// Insert returns the node for set, creating any missing edges along the
// way. Itemsets must already be canonical; Insert does not re-sort or
// validate.
func (t *Trie) Insert(set itemset.Itemset) *Node {
	n := t.root
	for _, item := range set {
		key := containers.NativeOrdered[int]{Val: item.Encode()}
		child, ok := n.edges.Load(key)
		if !ok {
			child = &Node{}
			n.edges.Store(key, child)
		}
		n = child
	}
	return n
}

// Root returns the node for the empty itemset.
func (t *Trie) Root() *Node { return t.root }
