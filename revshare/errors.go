package revshare

import "errors"

var (
	// ErrInsufficientPayment indicates the payment is too small to distribute.
	ErrInsufficientPayment = errors.New("revshare: insufficient payment for distribution")
	// ErrNoEntries indicates the split has no recipients.
	ErrNoEntries = errors.New("revshare: no recipient entries")
	// ErrZeroShares indicates an entry with a zero weight.
	ErrZeroShares = errors.New("revshare: zero share weight")
	// ErrEmptyAddress indicates an entry without a recipient address.
	ErrEmptyAddress = errors.New("revshare: empty recipient address")
	// ErrDuplicateEntry indicates the same recipient is listed twice.
	ErrDuplicateEntry = errors.New("revshare: duplicate recipient")
	// ErrWeightTotal indicates the weights do not add up to WeightScale.
	ErrWeightTotal = errors.New("revshare: weights must total 100%")
)
