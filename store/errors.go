package store

import "errors"

var (
	// ErrConfigNotFound indicates the minter has not been initialized.
	ErrConfigNotFound = errors.New("store: config not found")

	// ErrSeedNotFound indicates the persistent draw secret is missing.
	ErrSeedNotFound = errors.New("store: prng seed not found")

	// ErrCountersNotFound indicates the inventory counters are missing.
	ErrCountersNotFound = errors.New("store: inventory counters not found")

	// ErrItemNotFound indicates no item record is stored at the slot.
	ErrItemNotFound = errors.New("store: item not found")

	// ErrInvalidSlot indicates slot 0, which is never used.
	ErrInvalidSlot = errors.New("store: invalid slot")

	// ErrNotListed indicates an allow-list update for an identity without an entry.
	ErrNotListed = errors.New("store: identity not on allow-list")

	// ErrDuplicateReceipt indicates a payment transaction was already settled.
	ErrDuplicateReceipt = errors.New("store: duplicate payment receipt")

	// ErrReceiptNotFound indicates no receipt exists for the transaction.
	ErrReceiptNotFound = errors.New("store: receipt not found")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("store: required parameter is nil")

	// ErrCorrupt indicates a stored value has an unexpected encoding.
	ErrCorrupt = errors.New("store: corrupt value")
)
