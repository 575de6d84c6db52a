package bitcover_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odtl/dl85/lib/bitcover"
)

func TestFullAndCount(t *testing.T) {
	t.Parallel()
	s := bitcover.Full(10)
	assert.Equal(t, 10, s.Count())
	for i := 0; i < 10; i++ {
		assert.True(t, s.Test(i))
	}
	assert.False(t, s.Test(10))
}

func TestAnd(t *testing.T) {
	t.Parallel()
	a := bitcover.Full(130) // spans three 64-bit words
	b := bitcover.New(130)
	b[0] = 0b1010
	var dst bitcover.Set
	bitcover.And(&dst, a, b)
	assert.Equal(t, 2, dst.Count())
	assert.True(t, dst.Test(1))
	assert.True(t, dst.Test(3))
}

func TestAndNot(t *testing.T) {
	t.Parallel()
	a := bitcover.Full(8)
	b := bitcover.New(8)
	b[0] = 0b0011
	var dst bitcover.Set
	bitcover.AndNot(&dst, a, b)
	assert.Equal(t, 6, dst.Count())
	assert.False(t, dst.Test(0))
	assert.False(t, dst.Test(1))
	assert.True(t, dst.Test(2))
}

func TestCountAndCountAndNotAgreeWithAllocatingVariants(t *testing.T) {
	t.Parallel()
	a := bitcover.Full(200)
	b := bitcover.New(200)
	for i := 0; i < 200; i += 3 {
		b[i/64] |= 1 << uint(i%64)
	}

	var and, andNot bitcover.Set
	bitcover.And(&and, a, b)
	bitcover.AndNot(&andNot, a, b)

	assert.Equal(t, and.Count(), bitcover.CountAnd(a, b))
	assert.Equal(t, andNot.Count(), bitcover.CountAndNot(a, b))
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()
	a := bitcover.Full(64)
	b := a.Clone()
	b[0] = 0
	assert.Equal(t, 64, a.Count())
	assert.Equal(t, 0, b.Count())
}
