package draw

import "errors"

var (
	// ErrPoolEmpty indicates a draw from a pool with no remaining items.
	ErrPoolEmpty = errors.New("draw: pool is empty")

	// ErrInvalidRange indicates Uniform was asked for an empty range.
	ErrInvalidRange = errors.New("draw: invalid range")
)
