package veb

import (
	"fmt"
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// elements lists everything stored under n in
// ascending order, by walking the structure
// rather than by querying it.
func elements(n *node) (out []uint64) {
	if !n.has {
		return nil
	}
	if n.isBase() {
		for x := range uint64(2) {
			if n.leaf[x] {
				out = append(out, x)
			}
		}
		return
	}
	out = append(out, n.min)
	for _, h := range slices.Sorted(maps.Keys(n.cluster)) {
		for _, l := range elements(n.cluster[h]) {
			out = append(out, n.index(h, l))
		}
	}
	return
}

// verifyNode checks the structural invariants
// recursively: min/max agree with the contents,
// the min is never stored in a cluster, and the
// summary holds exactly the non-empty clusters.
func verifyNode(n *node) error {
	if n.half != n.bits/2 {
		return fmt.Errorf("u=2^%v: half is %v", n.bits, n.half)
	}
	if n.isBase() {
		present := n.leaf[0] || n.leaf[1]
		if present != n.has {
			return fmt.Errorf("base: has=%v but leaf=%v", n.has, n.leaf)
		}
		if !n.has {
			return nil
		}
		want := elements(n)
		if n.min != want[0] || n.max != want[len(want)-1] {
			return fmt.Errorf("base: min/max %v/%v for leaf %v", n.min, n.max, n.leaf)
		}
		return nil
	}
	if n.summary == nil || n.summary.bits != n.half {
		return fmt.Errorf("u=2^%v: bad summary", n.bits)
	}
	if err := verifyNode(n.summary); err != nil {
		return fmt.Errorf("summary of u=2^%v: %w", n.bits, err)
	}
	var nonEmpty []uint64
	for h, c := range n.cluster {
		if c.bits != n.half {
			return fmt.Errorf("u=2^%v: cluster %v has u=2^%v", n.bits, h, c.bits)
		}
		if !inUniverse(h, n.half) {
			return fmt.Errorf("u=2^%v: cluster index %v out of range", n.bits, h)
		}
		if err := verifyNode(c); err != nil {
			return fmt.Errorf("cluster %v of u=2^%v: %w", h, n.bits, err)
		}
		if c.has {
			nonEmpty = append(nonEmpty, h)
		}
	}
	slices.Sort(nonEmpty)
	if got := elements(n.summary); !slices.Equal(got, nonEmpty) {
		return fmt.Errorf("u=2^%v: summary %v, non-empty clusters %v", n.bits, got, nonEmpty)
	}
	if !n.has {
		if len(nonEmpty) != 0 {
			return fmt.Errorf("u=2^%v: empty node with clusters %v", n.bits, nonEmpty)
		}
		return nil
	}
	if c := n.cluster[n.high(n.min)]; c != nil && c.contains(n.low(n.min)) {
		return fmt.Errorf("u=2^%v: min %v is also stored in its cluster", n.bits, n.min)
	}
	all := elements(n)
	if !slices.IsSorted(all) {
		return fmt.Errorf("u=2^%v: elements out of order: %v", n.bits, all)
	}
	if len(all) > 1 && all[1] == all[0] {
		return fmt.Errorf("u=2^%v: min %v duplicated", n.bits, n.min)
	}
	if n.max != all[len(all)-1] {
		return fmt.Errorf("u=2^%v: max is %v, largest element is %v", n.bits, n.max, all[len(all)-1])
	}
	return nil
}

func TestNode_HighLowIndex(t *testing.T) {
	n := newNode(4)
	// x = 9 is 1001: high 10, low 01.
	assert.Equal(t, uint64(2), n.high(9))
	assert.Equal(t, uint64(1), n.low(9))
	assert.Equal(t, uint64(9), n.index(2, 1))

	for _, b := range []uint8{2, 4, 8, 16} {
		n := newNode(b)
		for x := range uint64(1) << b {
			require.Equal(t, x, n.index(n.high(x), n.low(x)))
			require.Less(t, n.high(x), uint64(1)<<n.half)
			require.Less(t, n.low(x), uint64(1)<<n.half)
		}
	}

	n = newNode(64)
	x := uint64(0xdeadbeef_cafef00d)
	assert.Equal(t, uint64(0xdeadbeef), n.high(x))
	assert.Equal(t, uint64(0xcafef00d), n.low(x))
	assert.Equal(t, x, n.index(n.high(x), n.low(x)))
	assert.Equal(t, ^uint64(0), n.index(n.high(^uint64(0)), n.low(^uint64(0))))
}

func TestNode_SummaryChainDepth(t *testing.T) {
	// log2(log2(u)) levels down to the base case.
	for b, depth := range map[uint8]int{1: 0, 2: 1, 4: 2, 8: 3, 16: 4, 32: 5, 64: 6} {
		d := 0
		for n := newNode(b); !n.isBase(); n = n.summary {
			d++
		}
		assert.Equalf(t, depth, d, "u=2^%v", b)
		assert.Equal(t, depth+1, newNode(b).count())
	}
}

func TestNode_BaseCase(t *testing.T) {
	n := newNode(1)
	require.True(t, n.isBase())
	require.Nil(t, n.summary)

	_, ok := n.successor(0)
	assert.False(t, ok)
	_, ok = n.predecessor(1)
	assert.False(t, ok)

	n.insert(1)
	require.NoError(t, verifyNode(n))
	assert.Equal(t, uint64(1), n.min)

	// the second, smaller, value must lower min.
	n.insert(0)
	require.NoError(t, verifyNode(n))
	assert.Equal(t, uint64(0), n.min)
	assert.Equal(t, uint64(1), n.max)

	v, ok := n.successor(0)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), v)
	v, ok = n.predecessor(1)
	assert.True(t, ok)
	assert.Equal(t, uint64(0), v)
	_, ok = n.successor(1)
	assert.False(t, ok)
	_, ok = n.predecessor(0)
	assert.False(t, ok)

	n.delete(0)
	require.NoError(t, verifyNode(n))
	assert.Equal(t, uint64(1), n.min)
	assert.Equal(t, uint64(1), n.max)
	v, ok = n.successor(0)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), v)

	n.delete(0) // absent
	require.NoError(t, verifyNode(n))
	assert.True(t, n.contains(1))

	n.delete(1)
	require.NoError(t, verifyNode(n))
	assert.False(t, n.has)
}

func TestNode_FirstInsertDoesNotDescend(t *testing.T) {
	n := newNode(32)
	n.insert(12345)
	assert.Nil(t, n.cluster)
	assert.False(t, n.summary.has)
	assert.Equal(t, uint64(12345), n.min)
	assert.Equal(t, uint64(12345), n.max)

	// a smaller value swaps in as min, and the old
	// min is the one pushed into a cluster.
	n.insert(7)
	require.NoError(t, verifyNode(n))
	assert.Equal(t, uint64(7), n.min)
	c := n.cluster[n.high(12345)]
	require.NotNil(t, c)
	assert.True(t, c.contains(n.low(12345)))
	assert.Nil(t, n.cluster[n.high(7)].cluster)
}

func TestNode_InsertIsIdempotent(t *testing.T) {
	n := newNode(16)
	for range 3 {
		for _, x := range []uint64{5, 300, 301, 65535, 5} {
			n.insert(x)
			require.NoError(t, verifyNode(n))
		}
	}
	assert.Equal(t, []uint64{5, 300, 301, 65535}, elements(n))
}

func TestNode_DrainedClusterStays(t *testing.T) {
	n := newNode(16)
	n.insert(1)
	n.insert(0x0500)
	n.insert(0x0501)
	before := n.count()

	n.delete(0x0500)
	n.delete(0x0501)
	require.NoError(t, verifyNode(n))
	c, ok := n.cluster[5]
	require.True(t, ok, "drained cluster should be kept")
	assert.False(t, c.has)
	assert.Equal(t, before, n.count())

	reclaimed := n.compact()
	assert.Equal(t, before-n.count(), reclaimed)
	assert.Positive(t, reclaimed)
	_, ok = n.cluster[5]
	assert.False(t, ok)
	require.NoError(t, verifyNode(n))
	assert.Equal(t, []uint64{1}, elements(n))
}

func TestNode_FlatString(t *testing.T) {
	n := newNode(4)
	n.insert(2)
	n.insert(9)
	s := n.FlatString(0)
	assert.Contains(t, s, "u: 2^4\n")
	assert.Contains(t, s, "min: 2\n")
	assert.Contains(t, s, "max: 9\n")
	assert.Contains(t, s, "cluster 2:\n")
	assert.Contains(t, s, "    min: 1\n") // offset of 9 in cluster 2
	assert.Contains(t, s, "[0:false 1:false]\n")

	n.delete(9)
	assert.Contains(t, n.FlatString(0), "cluster 2: empty\n")

	e := newNode(2)
	assert.Contains(t, e.FlatString(1), "    min: none\n")
}
