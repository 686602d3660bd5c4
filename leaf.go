package veb

import "fmt"

// leaf is the presence record of a base case
// node, whose universe is just {0, 1}. It stands
// in for the summary and clusters that a larger
// node would have; there is no recursion below it.
type leaf [2]bool

func (lf *leaf) set(x uint64)   { lf[x] = true }
func (lf *leaf) clear(x uint64) { lf[x] = false }

func (lf leaf) String() string {
	return fmt.Sprintf("[0:%v 1:%v]", lf[0], lf[1])
}

// The base* methods are only called on nodes
// with bits == 1, where x is always 0 or 1.

func (n *node) baseInsert(x uint64) {
	n.leaf.set(x)
	if x < n.min {
		n.min = x
	}
	if x > n.max {
		n.max = x
	}
}

func (n *node) baseDelete(x uint64) {
	n.leaf.clear(x)
	switch {
	case n.leaf[0] && n.leaf[1]:
		n.min, n.max = 0, 1
	case n.leaf[0]:
		n.min, n.max = 0, 0
	case n.leaf[1]:
		n.min, n.max = 1, 1
	default:
		n.makeEmpty()
	}
}

func (n *node) baseSuccessor(x uint64) (uint64, bool) {
	if x == 0 && n.leaf[1] {
		return 1, true
	}
	return 0, false
}

func (n *node) basePredecessor(x uint64) (uint64, bool) {
	if x == 1 && n.leaf[0] {
		return 0, true
	}
	return 0, false
}
