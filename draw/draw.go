package draw

import (
	"fmt"

	"github.com/bitfsorg/libmint-go/store"
)

// SecondaryRange bounds the auxiliary attribute drawn alongside each item.
const SecondaryRange = 100

// Pool is the slot-indexed inventory a draw operates on. Slots 1..Remaining
// hold the undrawn items. *store.Tx satisfies it.
type Pool interface {
	Item(slot uint32) (*store.ItemRecord, error)
	PutItem(slot uint32, rec *store.ItemRecord) error
	Remaining() (uint32, error)
	SetRemaining(n uint32) error
}

// Compile-time interface check.
var _ Pool = (*store.Tx)(nil)

// Result is the outcome of one draw.
type Result struct {
	Slot      uint32            // slot the item was taken from
	Item      *store.ItemRecord // the drawn item
	Secondary uint32            // auxiliary value in [1, SecondaryRange]
}

// Draw removes one item from pool, chosen uniformly among the remaining
// slots using a stream keyed by seed. The last remaining item is moved into
// the vacated slot and the remaining count is decremented, so the undrawn
// items always occupy slots 1..Remaining.
func Draw(pool Pool, seed [32]byte) (*Result, error) {
	n, err := pool.Remaining()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrPoolEmpty
	}

	s, err := NewStream(seed)
	if err != nil {
		return nil, err
	}
	r, err := s.Uniform(n)
	if err != nil {
		return nil, err
	}
	slot := r + 1

	item, err := pool.Item(slot)
	if err != nil {
		return nil, fmt.Errorf("draw: load slot %d: %w", slot, err)
	}
	if slot != n {
		last, err := pool.Item(n)
		if err != nil {
			return nil, fmt.Errorf("draw: load slot %d: %w", n, err)
		}
		if err := pool.PutItem(slot, last); err != nil {
			return nil, err
		}
	}
	if err := pool.SetRemaining(n - 1); err != nil {
		return nil, err
	}

	sec, err := s.Uniform(SecondaryRange)
	if err != nil {
		return nil, err
	}

	return &Result{Slot: slot, Item: item, Secondary: sec + 1}, nil
}
