package chain

import "errors"

var (
	// ErrConnectionFailed indicates the node could not be reached.
	ErrConnectionFailed = errors.New("chain: connection failed")

	// ErrInvalidResponse indicates the node returned a malformed response.
	ErrInvalidResponse = errors.New("chain: invalid response")

	// ErrTxNotFound indicates the node does not know the transaction.
	ErrTxNotFound = errors.New("chain: transaction not found")

	// ErrNotConfirmed indicates the transaction is not yet buried deep enough.
	ErrNotConfirmed = errors.New("chain: not enough confirmations")

	// ErrInvalidHeader indicates a block header is not 80 bytes.
	ErrInvalidHeader = errors.New("chain: invalid block header")
)
