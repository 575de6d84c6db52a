// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package containers

import (
	"golang.org/x/exp/constraints"
)

// Ordered is the key constraint RBTree and SortedMap build on: anything
// that can compare itself to another value of the same type.
type Ordered[T interface{ Cmp(T) int }] interface {
	Cmp(T) int
}

// NativeOrdered adapts a constraints.Ordered scalar to Ordered. The trie
// uses NativeOrdered[int] to key each node's outgoing edges by the
// integer encoding of the (attribute, polarity) item they test, so edges
// iterate in a stable, deterministic order.
type NativeOrdered[T constraints.Ordered] struct {
	Val T
}

func (a NativeOrdered[T]) Cmp(b NativeOrdered[T]) int {
	switch {
	case a.Val < b.Val:
		return -1
	case a.Val > b.Val:
		return 1
	default:
		return 0
	}
}

var _ Ordered[NativeOrdered[int]] = NativeOrdered[int]{}
