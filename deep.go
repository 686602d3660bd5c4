package veb

import (
	"unsafe"
)

// mapEntrySize is what one cluster map entry
// costs us at minimum: the key and the pointer.
// Bucket overhead and slack are not counted.
const mapEntrySize = unsafe.Sizeof(uint64(0)) + unsafe.Sizeof((*node)(nil))

// mapHeaderSize approximates the runtime's map header.
const mapHeaderSize = 48

// deepSize estimates the bytes held by n and
// everything below it.
func (n *node) deepSize() (size uintptr) {
	if n == nil {
		return 0
	}
	size = unsafe.Sizeof(*n)
	size += n.summary.deepSize()
	if n.cluster != nil {
		size += mapHeaderSize
		for _, c := range n.cluster {
			size += mapEntrySize + c.deepSize()
		}
	}
	return
}

// Footprint estimates the heap bytes used by the
// tree's nodes, including drained clusters that
// Compact has not yet released. It is a lower
// bound; allocator and map bucket overhead are
// not included.
func (t *Tree) Footprint() uintptr {
	return unsafe.Sizeof(*t) + t.root.deepSize()
}

// DeepSize enumerates every stored value
// in order to compute the size. This is really only
// for testing. Prefer the counter based Size()
// whenever possible.
func (t *Tree) DeepSize() (sz int) {
	for range t.All() {
		sz++
	}
	return
}
