// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package containers holds the handful of generic collection types the
// itemset trie is built from: a sorted, ordered-key map (SortedMap, over
// RBTree) for a trie node's outgoing edges, and the unordered Set the
// trie uses to deduplicate edge attributes when listing a node's
// existing successors.
package containers

import (
	"errors"
)

type orderedKV[K Ordered[K], V any] struct {
	K K
	V V
}

// SortedMap is a map keyed by an Ordered type, backed by RBTree so Range
// walks keys in ascending order. The trie uses SortedMap[NativeOrdered[int], *Node]
// for each node's outgoing edges, keyed by the integer encoding of the
// item the edge tests.
type SortedMap[K Ordered[K], V any] struct {
	inner RBTree[K, orderedKV[K, V]]
}

func (m *SortedMap[K, V]) init() {
	if m.inner.KeyFn == nil {
		m.inner.KeyFn = m.keyFn
	}
}

func (m *SortedMap[K, V]) keyFn(kv orderedKV[K, V]) K {
	return kv.K
}

// Load looks up key, reporting whether it was present.
func (m *SortedMap[K, V]) Load(key K) (value V, ok bool) {
	m.init()
	node := m.inner.Lookup(key)
	if node == nil {
		var zero V
		return zero, false
	}
	return node.Value.V, true
}

var errStop = errors.New("stop")

// Range walks the map in ascending key order, stopping early if f
// returns false. The trie uses this to list a node's edges in a
// deterministic order (Node.Edges, and through it ExistingSuccessors).
func (m *SortedMap[K, V]) Range(f func(key K, value V) bool) {
	m.init()
	_ = m.inner.Walk(func(node *RBNode[orderedKV[K, V]]) error {
		if f(node.Value.K, node.Value.V) {
			return nil
		} else {
			return errStop
		}
	})
}

// Store inserts or replaces the value at key.
func (m *SortedMap[K, V]) Store(key K, value V) {
	m.init()
	m.inner.Insert(orderedKV[K, V]{
		K: key,
		V: value,
	})
}
