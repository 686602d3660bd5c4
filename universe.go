package veb

import (
	"fmt"
	"math/bits"
)

// MaxUniverseBits is the widest universe a Tree
// can hold: u = 2^64, every uint64.
const MaxUniverseBits = 64

// A universe of size u = 2^b is described by b alone,
// since 2^64 itself does not fit in a uint64.
// b must be a power of two (1, 2, 4, ... 64), so
// that sqrt(u) = 2^(b/2) is always a whole number
// of bits, all the way down to the base case b == 1.

// isPow2 reports whether x has exactly one set bit.
func isPow2(x uint64) bool {
	return x != 0 && x&(x-1) == 0
}

// validBits checks the exponent form of the universe size.
func validBits(b uint) error {
	if b == 0 || !isPow2(uint64(b)) {
		return fmt.Errorf("%w: %d is not a power of 2", ErrInvalidUniverseSize, b)
	}
	if b > MaxUniverseBits {
		return fmt.Errorf("%w: 2^%d exceeds the 2^%d maximum", ErrInvalidUniverseSize, b, MaxUniverseBits)
	}
	return nil
}

// universeBits checks that u = 2^(2^k) and returns log2(u).
// The rules are applied in order: u must be a power
// of 2, then its exponent must be a power of 2.
func universeBits(u uint64) (uint, error) {
	if !isPow2(u) {
		return 0, fmt.Errorf("%w: %d is not a power of 2", ErrInvalidUniverseSize, u)
	}
	b := uint(bits.TrailingZeros64(u))
	if err := validBits(b); err != nil {
		return 0, err
	}
	return b, nil
}

// maxValue is u-1 for a universe of 2^b.
func maxValue(b uint8) uint64 {
	if b >= MaxUniverseBits {
		return ^uint64(0)
	}
	return uint64(1)<<b - 1
}

// inUniverse reports whether 0 <= x < 2^b.
func inUniverse(x uint64, b uint8) bool {
	return b >= MaxUniverseBits || x>>b == 0
}

// high is the cluster index of x: x / sqrt(u).
func (n *node) high(x uint64) uint64 {
	return x >> n.half
}

// low is the offset of x within its cluster: x mod sqrt(u).
func (n *node) low(x uint64) uint64 {
	return x & (uint64(1)<<n.half - 1)
}

// index recombines a cluster index and offset: h*sqrt(u) + l.
func (n *node) index(h, l uint64) uint64 {
	return h<<n.half | l
}
