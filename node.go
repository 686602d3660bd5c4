package veb

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// node is one level of the van Emde Boas recursion.
//
// A node over a universe of 2^bits values splits
// each value x into a high half (the cluster index)
// and a low half (the offset in that cluster), each
// half bits wide. Cluster i is itself a node over
// 2^half values. The summary, also a node over 2^half
// values, holds exactly the indexes of the clusters
// that are non-empty, so the next or previous
// occupied cluster is one summary query away.
//
// The minimum is kept only here and never pushed
// into a cluster. That is what makes inserting into
// an empty node O(1): no cluster or summary is touched.
//
// At bits == 1 the recursion stops; leaf records
// which of 0 and 1 are present and summary and
// cluster stay nil.
type node struct {
	bits uint8 // log2 of our universe size
	half uint8 // bits/2: log2 of sqrt(universe)

	// has is false iff the node is empty, in
	// which case min and max are meaningless.
	has      bool
	min, max uint64

	summary *node

	// cluster is sparse and only grows. A drained
	// cluster stays in the map but is absent from
	// summary; compact() reclaims such entries.
	cluster map[uint64]*node

	leaf leaf
}

// newNode builds an empty node for a universe of 2^b
// values, along with its (recursively empty) summary.
// Clusters are created lazily on first use.
func newNode(b uint8) *node {
	n := &node{bits: b, half: b / 2}
	if b > 1 {
		n.summary = newNode(n.half)
	}
	return n
}

func (n *node) isBase() bool {
	return n.bits == 1
}

func (n *node) makeEmpty() {
	n.has = false
	n.min, n.max = 0, 0
}

func (n *node) minimum() (uint64, bool) {
	return n.min, n.has
}

func (n *node) maximum() (uint64, bool) {
	return n.max, n.has
}

func (n *node) contains(x uint64) bool {
	if !n.has {
		return false
	}
	if x == n.min || x == n.max {
		return true
	}
	if n.isBase() {
		return false
	}
	c := n.cluster[n.high(x)]
	return c != nil && c.contains(n.low(x))
}

// insert adds x, which must be in our universe.
// Inserting a value already present changes nothing.
func (n *node) insert(x uint64) {
	if !n.has {
		n.has = true
		n.min, n.max = x, x
		if n.isBase() {
			n.leaf.set(x)
		}
		return
	}
	if x == n.min {
		return
	}
	if n.isBase() {
		n.baseInsert(x)
		return
	}
	if x > n.max {
		n.max = x
	}
	if x < n.min {
		// x becomes the new minimum and the
		// old minimum is the one pushed down.
		x, n.min = n.min, x
	}
	h, l := n.high(x), n.low(x)
	c := n.cluster[h]
	if c == nil {
		if n.cluster == nil {
			n.cluster = make(map[uint64]*node)
		}
		c = newNode(n.half)
		n.cluster[h] = c
	}
	if !c.has {
		n.summary.insert(h)
	}
	c.insert(l)
}

// delete removes x. Deleting a value that is not
// present is a no-op.
func (n *node) delete(x uint64) {
	if !n.has {
		return
	}
	if n.isBase() {
		n.baseDelete(x)
		return
	}
	if x == n.min {
		i, ok := n.summary.minimum()
		if !ok {
			// x was the only element.
			n.makeEmpty()
			return
		}
		// The next smallest becomes our minimum, and
		// must now be removed from its cluster, since
		// the minimum is never stored below us.
		x = n.index(i, n.cluster[i].min)
		n.min = x
	}
	h := n.high(x)
	c := n.cluster[h]
	if c == nil {
		return
	}
	c.delete(n.low(x))
	if !c.has {
		n.summary.delete(h)
	}
	if x == n.max {
		if j, ok := n.summary.maximum(); ok {
			n.max = n.index(j, n.cluster[j].max)
		} else {
			n.max = n.min
		}
	}
}

// successor returns the smallest stored value > x.
func (n *node) successor(x uint64) (uint64, bool) {
	// The minimum lives only here, so the
	// recursive search below cannot see it.
	if n.has && x < n.min {
		return n.min, true
	}
	if n.isBase() {
		return n.baseSuccessor(x)
	}
	h, l := n.high(x), n.low(x)
	if c := n.cluster[h]; c != nil && c.has && l < c.max {
		j, ok := c.successor(l)
		if !ok {
			return 0, false
		}
		return n.index(h, j), true
	}
	i, ok := n.summary.successor(h)
	if !ok {
		return 0, false
	}
	return n.index(i, n.cluster[i].min), true
}

// predecessor returns the largest stored value < x.
func (n *node) predecessor(x uint64) (uint64, bool) {
	if n.has && x > n.max {
		return n.max, true
	}
	if n.isBase() {
		return n.basePredecessor(x)
	}
	h, l := n.high(x), n.low(x)
	if c := n.cluster[h]; c != nil && c.has && l > c.min {
		j, ok := c.predecessor(l)
		if !ok {
			return 0, false
		}
		return n.index(h, j), true
	}
	i, ok := n.summary.predecessor(h)
	if !ok {
		// no earlier cluster, but our own
		// minimum may still qualify.
		if n.has && x > n.min {
			return n.min, true
		}
		return 0, false
	}
	return n.index(i, n.cluster[i].max), true
}

// compact drops drained clusters and reports
// how many nodes were released.
func (n *node) compact() (reclaimed int) {
	if n.isBase() {
		return 0
	}
	for h, c := range n.cluster {
		if !c.has {
			reclaimed += c.count()
			delete(n.cluster, h)
			continue
		}
		reclaimed += c.compact()
	}
	return reclaimed + n.summary.compact()
}

// count is the number of nodes in our subtree,
// ourselves and our summary included.
func (n *node) count() int {
	k := 1
	if n.summary != nil {
		k += n.summary.count()
	}
	for _, c := range n.cluster {
		k += c.count()
	}
	return k
}

func (n *node) String() string {
	return n.FlatString(0)
}

func (n *node) boundString(v uint64) string {
	if !n.has {
		return "none"
	}
	return fmt.Sprintf("%d", v)
}

// FlatString renders the node, its summary and
// its clusters, indented four spaces per level.
// Drained clusters are listed as empty.
func (n *node) FlatString(depth int) string {
	rep := strings.Repeat("    ", depth)
	var b strings.Builder
	fmt.Fprintf(&b, "%vu: 2^%v\n", rep, n.bits)
	fmt.Fprintf(&b, "%vmin: %v\n", rep, n.boundString(n.min))
	fmt.Fprintf(&b, "%vmax: %v\n", rep, n.boundString(n.max))
	fmt.Fprintf(&b, "%vsummary:\n", rep)
	if n.isBase() {
		fmt.Fprintf(&b, "%v    %v\n", rep, n.leaf)
		return b.String()
	}
	b.WriteString(n.summary.FlatString(depth + 1))
	for _, h := range slices.Sorted(maps.Keys(n.cluster)) {
		c := n.cluster[h]
		if !c.has {
			fmt.Fprintf(&b, "%vcluster %v: empty\n", rep, h)
			continue
		}
		fmt.Fprintf(&b, "%vcluster %v:\n", rep, h)
		b.WriteString(c.FlatString(depth + 1))
	}
	return b.String()
}
