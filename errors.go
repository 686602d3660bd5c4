package veb

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidUniverseSize = errors.New("invalid universe size")
	ErrOutOfRange          = errors.New("value out of range")
)

func outOfRange(x, maxv uint64) error {
	return fmt.Errorf("%w: %d is not in the range 0...%d", ErrOutOfRange, x, maxv)
}
