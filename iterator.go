package veb

import (
	"iter"
)

// iterator walks stored values between two
// inclusive bounds, ascending or descending.
// Each step is a single Successor or Predecessor
// query from the last value returned, so it
// costs O(log log u) and needs no saved path.
// Values inserted or deleted behind the cursor
// between steps are simply seen or not seen;
// the walk never repeats a value.
type iterator struct {
	tree *Tree

	closed  bool
	started bool
	reverse bool

	// from is where the walk begins, to where
	// it must stop; both inclusive.
	from, to uint64

	cur uint64
}

// Next advances to the next value in range.
func (i *iterator) Next() (ok bool) {
	if i.closed {
		return false
	}
	var v uint64
	if !i.started {
		i.started = true
		if i.reverse {
			v, ok = i.tree.find(LTE, i.from)
		} else {
			v, ok = i.tree.find(GTE, i.from)
		}
	} else {
		if i.reverse {
			v, ok = i.tree.root.predecessor(i.cur)
		} else {
			v, ok = i.tree.root.successor(i.cur)
		}
	}
	if !ok || !i.inRange(v) {
		i.closed = true
		return false
	}
	i.cur = v
	return true
}

// Value returns the value Next just moved to.
func (i *iterator) Value() uint64 {
	return i.cur
}

func (i *iterator) inRange(v uint64) bool {
	if i.reverse {
		return v >= i.to
	}
	return v <= i.to
}

// Iterator starts an ascending traversal over the
// stored values v with lo <= v <= hi. A hi beyond
// the universe is treated as MaxValue.
//
// For example, suppose the values {0, 1, 2} are
// in the tree, and tree.Iterator(0, 1) is called.
// Iteration will return 0, then 1.
//
// The returned iterator is not goroutine safe.
func (t *Tree) Iterator(lo, hi uint64) *iterator {
	it := &iterator{tree: t, from: lo, to: min(hi, t.MaxValue())}
	if lo > it.to {
		it.closed = true
	}
	return it
}

// ReverseIterator starts a descending traversal
// over the stored values v with hi >= v >= lo,
// beginning with the largest value <= hi. A hi
// beyond the universe is treated as MaxValue.
//
// For example, suppose the values {0, 1, 2} are
// in the tree, and tree.ReverseIterator(9, 1) is
// called. Iteration will return 2, then 1.
func (t *Tree) ReverseIterator(hi, lo uint64) *iterator {
	it := &iterator{tree: t, from: min(hi, t.MaxValue()), to: lo, reverse: true}
	if lo > it.from {
		it.closed = true
	}
	return it
}

// Ascend yields the stored values in [lo, hi]
// in ascending order.
func Ascend(t *Tree, lo, hi uint64) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		it := t.Iterator(lo, hi)
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Descend yields the stored values in [lo, hi]
// in descending order, starting from hi.
func Descend(t *Tree, hi, lo uint64) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		it := t.ReverseIterator(hi, lo)
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// All yields every stored value, smallest first.
func (t *Tree) All() iter.Seq[uint64] {
	return Ascend(t, 0, t.MaxValue())
}

// Backward yields every stored value, largest first.
func (t *Tree) Backward() iter.Seq[uint64] {
	return Descend(t, t.MaxValue(), 0)
}
