package veb

import (
	"fmt"
)

// Tree is an ordered set of integers drawn
// from a fixed universe {0, 1, ..., u-1}, built
// on the van Emde Boas layout[1][2]. Insert,
// Delete, Successor and Predecessor all run
// in O(log log u) time, independent of how many
// values are stored. For u = 2^64 that is at most
// six levels of recursion.
//
// The universe size must have the form u = 2^(2^k):
// 2, 4, 16, 256, 65536, 2^32 or 2^64. Each level
// splits a value into a high half, the cluster
// index, and a low half, the offset in the cluster,
// so the halves must stay whole numbers of bits
// all the way down to the base case of u = 2.
//
// Space is proportional to the number of distinct
// clusters ever touched, not to u. Clusters are
// allocated on first use. A cluster drained by
// deletions is kept for reuse; call Compact to
// release drained clusters.
//
// A Tree is a good fit where the keys are bounded
// integers and the dominant query is "next" or
// "previous": timer wheels and event schedulers,
// bounded priority queues, port or id allocators.
//
// Concurrency: a Tree does no synchronization.
// Every method, queries included, needs exclusive
// access or external locking around it.
//
// [1] "Preserving order in a forest in less than
// logarithmic time" by P. van Emde Boas.
// 16th Annual Symposium on Foundations of Computer
// Science (SFCS 1975), pp. 75-84.
//
// [2] "Introduction to Algorithms", 3rd edition,
// by Cormen, Leiserson, Rivest and Stein.
// Chapter 20, "van Emde Boas Trees".
type Tree struct {
	root *node
	size int
	bits uint8
}

// New returns an empty Tree over the universe
// {0, ..., 2^universeBits - 1}. universeBits must
// be a power of two no larger than 64.
func New(universeBits uint) (*Tree, error) {
	if err := validBits(universeBits); err != nil {
		return nil, err
	}
	b := uint8(universeBits)
	return &Tree{root: newNode(b), bits: b}, nil
}

// NewUniverse returns an empty Tree over the
// universe {0, ..., u-1}. u must equal 2^(2^k)
// for some k >= 0. Use New(64) for u = 2^64,
// which a uint64 cannot express.
func NewUniverse(u uint64) (*Tree, error) {
	b, err := universeBits(u)
	if err != nil {
		return nil, err
	}
	return New(b)
}

// UniverseBits returns log2 of the universe size.
func (t *Tree) UniverseBits() uint {
	return uint(t.bits)
}

// MaxValue returns u-1, the largest value
// the Tree can store.
func (t *Tree) MaxValue() uint64 {
	return maxValue(t.bits)
}

func (t *Tree) check(x uint64) error {
	if !inUniverse(x, t.bits) {
		return outOfRange(x, t.MaxValue())
	}
	return nil
}

// Size returns the number of values
// stored in the tree.
func (t *Tree) Size() int {
	return t.size
}

// IsEmpty returns true iff the Tree is empty.
func (t *Tree) IsEmpty() bool {
	return !t.root.has
}

// Clear removes every value, releasing all clusters.
func (t *Tree) Clear() {
	t.root = newNode(t.bits)
	t.size = 0
}

func (t *Tree) String() string {
	if t.IsEmpty() {
		return fmt.Sprintf("empty tree (u: 2^%v)", t.bits)
	}
	return fmt.Sprintf("tree of size %v: ", t.size) +
		t.root.FlatString(0)
}

func (t *Tree) FlatString() string {
	return fmt.Sprintf("tree of size %v: \n", t.size) +
		t.root.FlatString(0)
}

// Insert adds x to the Tree. added is false if
// x was already present. x must be in [0, u-1];
// otherwise ErrOutOfRange is returned and the
// Tree is left untouched.
func (t *Tree) Insert(x uint64) (added bool, err error) {
	if err = t.check(x); err != nil {
		return false, err
	}
	if t.root.contains(x) {
		return false, nil
	}
	t.root.insert(x)
	t.size++
	return true, nil
}

// InsertAll inserts each of xs in order. Every
// value is checked first: if any is out of range,
// nothing is inserted.
func (t *Tree) InsertAll(xs ...uint64) error {
	for i, x := range xs {
		if err := t.check(x); err != nil {
			return fmt.Errorf("InsertAll: value %d: %w", i, err)
		}
	}
	for _, x := range xs {
		if !t.root.contains(x) {
			t.root.insert(x)
			t.size++
		}
	}
	return nil
}

// Delete removes x from the Tree. Deleting a
// value that is not present is not an error;
// deleted reports whether x was there.
func (t *Tree) Delete(x uint64) (deleted bool, err error) {
	if err = t.check(x); err != nil {
		return false, err
	}
	if !t.root.contains(x) {
		return false, nil
	}
	t.root.delete(x)
	t.size--
	return true, nil
}

// Has reports whether x is stored in the Tree.
func (t *Tree) Has(x uint64) (bool, error) {
	if err := t.check(x); err != nil {
		return false, err
	}
	return t.root.contains(x), nil
}

// Successor returns the smallest stored value
// strictly greater than x. found is false if
// there is none.
func (t *Tree) Successor(x uint64) (val uint64, found bool, err error) {
	return t.Find(GT, x)
}

// Predecessor returns the largest stored value
// strictly less than x. found is false if
// there is none.
func (t *Tree) Predecessor(x uint64) (val uint64, found bool, err error) {
	return t.Find(LT, x)
}

// FindGT is the same as Successor.
func (t *Tree) FindGT(x uint64) (val uint64, found bool, err error) {
	return t.Find(GT, x)
}

// FindGTE returns the smallest stored
// value that is greater than, or equal to, x.
func (t *Tree) FindGTE(x uint64) (val uint64, found bool, err error) {
	return t.Find(GTE, x)
}

// FindLT is the same as Predecessor.
func (t *Tree) FindLT(x uint64) (val uint64, found bool, err error) {
	return t.Find(LT, x)
}

// FindLTE returns the largest stored
// value that is less-than-or-equal to x.
func (t *Tree) FindLTE(x uint64) (val uint64, found bool, err error) {
	return t.Find(LTE, x)
}

// Min returns the smallest stored value, in O(1).
func (t *Tree) Min() (uint64, bool) {
	return t.root.minimum()
}

// Max returns the largest stored value, in O(1).
func (t *Tree) Max() (uint64, bool) {
	return t.root.maximum()
}

// Find allows GTE, GT, LTE, LT, and Exact searches.
//
// GTE: find the smallest stored value >= x.
//
// GT: find the smallest stored value > x.
//
// LTE: find the largest stored value <= x.
//
// LT: find the largest stored value < x.
//
// Exact: report x itself if it is stored.
// This is the default.
//
// An x outside the universe is an error for
// every modifier, never a not-found.
func (t *Tree) Find(smod SearchModifier, x uint64) (val uint64, found bool, err error) {
	if err = t.check(x); err != nil {
		return 0, false, err
	}
	val, found = t.find(smod, x)
	return
}

// find is Find for an x already known to be in range.
func (t *Tree) find(smod SearchModifier, x uint64) (uint64, bool) {
	switch smod {
	case GT:
		return t.root.successor(x)
	case LT:
		return t.root.predecessor(x)
	case GTE:
		if t.root.contains(x) {
			return x, true
		}
		return t.root.successor(x)
	case LTE:
		if t.root.contains(x) {
			return x, true
		}
		return t.root.predecessor(x)
	default:
		return x, t.root.contains(x)
	}
}

// Compact releases clusters that deletions have
// drained, returning the number of nodes freed.
// Query results are unchanged; only memory is
// given back.
func (t *Tree) Compact() (reclaimed int) {
	return t.root.compact()
}

// NodeCount returns the number of allocated
// nodes, summaries and drained clusters included.
func (t *Tree) NodeCount() int {
	return t.root.count()
}

type SearchModifier int

const (
	// Exact is the default.
	Exact SearchModifier = 0 // exact matches only; a membership test
	GTE   SearchModifier = 1 // greater than or equal to x.
	LTE   SearchModifier = 2 // less than or equal to x.
	GT    SearchModifier = 3 // strictly greater than x; the successor.
	LT    SearchModifier = 4 // strictly less than x; the predecessor.
)

func (smod SearchModifier) String() string {
	switch smod {
	case Exact:
		return "Exact"
	case GTE:
		return "GTE"
	case LTE:
		return "LTE"
	case GT:
		return "GT"
	case LT:
		return "LT"
	}
	panic(fmt.Sprintf("unknown smod '%v'", int(smod)))
}
