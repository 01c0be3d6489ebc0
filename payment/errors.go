package payment

import "errors"

var (
	// ErrInvalidParams indicates missing or malformed parameters.
	ErrInvalidParams = errors.New("payment: invalid parameters")

	// ErrInvalidTx indicates the raw transaction could not be parsed.
	ErrInvalidTx = errors.New("payment: invalid transaction")

	// ErrNoMatchingOutput indicates no P2PKH output pays the sale address.
	ErrNoMatchingOutput = errors.New("payment: no output pays the sale address")

	// ErrNoMintData indicates the transaction carries no mint OP_RETURN output.
	ErrNoMintData = errors.New("payment: no mint data output")

	// ErrInvalidRequester indicates the requester push is not a valid address.
	ErrInvalidRequester = errors.New("payment: invalid requester address")
)
