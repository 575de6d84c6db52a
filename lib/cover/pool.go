// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package cover

import (
	"git.lukeshu.com/go/typedsync"
)

// scratchPool recycles the backing arrays a Cover churns through on every
// Intersect/Backtrack round trip (a fresh mask) and every
// TemporaryIntersect/ReleaseSupports round trip (a fresh per-class support
// vector), so a deep branch-and-bound search doesn't allocate at every
// node it visits.
type scratchPool[T any] struct {
	inner typedsync.Pool[[]T]
}

func (p *scratchPool[T]) get(size int) []T {
	if size == 0 {
		return nil
	}
	ret, ok := p.inner.Get()
	if ok && cap(ret) >= size {
		ret = ret[:size]
	} else {
		ret = make([]T, size)
	}
	return ret
}

func (p *scratchPool[T]) put(slice []T) {
	if slice == nil {
		return
	}
	p.inner.Put(slice)
}
