package entropy

import "errors"

var (
	// ErrInvalidIndex indicates a sequence index below 1.
	ErrInvalidIndex = errors.New("entropy: sequence index must be at least 1")

	// ErrHKDFFailure indicates HKDF key derivation failed.
	ErrHKDFFailure = errors.New("entropy: HKDF seed derivation failed")
)
