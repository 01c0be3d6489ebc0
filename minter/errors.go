package minter

import (
	"errors"

	"github.com/bitfsorg/libmint-go/metrics"
)

var (
	// ErrUnauthorized indicates the caller may not issue the command.
	ErrUnauthorized = errors.New("minter: unauthorized")

	// ErrPreconditionFailed indicates the command is not allowed in the current state.
	ErrPreconditionFailed = errors.New("minter: precondition failed")

	// ErrNotConfigured indicates no issuance target has been set.
	ErrNotConfigured = errors.New("minter: no issuance target set")

	// ErrMintingDisabled indicates both sale modes are off.
	ErrMintingDisabled = errors.New("minter: minting is not enabled")

	// ErrInventoryExhausted indicates every item has been allocated.
	ErrInventoryExhausted = errors.New("minter: all items have been allocated")

	// ErrInsufficientInventory indicates fewer items remain than requested.
	ErrInsufficientInventory = errors.New("minter: not enough items left for this request")

	// ErrCapExceeded indicates the request exceeds the per-request maximum.
	ErrCapExceeded = errors.New("minter: requested count exceeds maximum per request")

	// ErrPaymentMismatch indicates the paid amount is not exactly price times count.
	ErrPaymentMismatch = errors.New("minter: incorrect payment amount")

	// ErrNotEligible indicates an unlisted requester during an allow-list-only sale.
	ErrNotEligible = errors.New("minter: requester is not on the allow-list")

	// ErrAlreadyClaimed indicates a listed requester already used their allocation.
	ErrAlreadyClaimed = errors.New("minter: allow-list allocation already claimed")

	// ErrNotFound indicates a referenced entry does not exist.
	ErrNotFound = errors.New("minter: not found")

	// ErrInvalidRequest indicates a malformed or unroutable request.
	ErrInvalidRequest = errors.New("minter: invalid request")

	// ErrDuplicatePayment indicates a payment transaction was already settled.
	ErrDuplicatePayment = errors.New("minter: payment already settled")
)

var reasons = []struct {
	err   error
	label string
}{
	{ErrUnauthorized, "unauthorized"},
	{ErrPreconditionFailed, "precondition_failed"},
	{ErrNotConfigured, "not_configured"},
	{ErrMintingDisabled, "minting_disabled"},
	{ErrInventoryExhausted, "inventory_exhausted"},
	{ErrInsufficientInventory, "insufficient_inventory"},
	{ErrCapExceeded, "cap_exceeded"},
	{ErrPaymentMismatch, "payment_mismatch"},
	{ErrNotEligible, "not_eligible"},
	{ErrAlreadyClaimed, "already_claimed"},
	{ErrNotFound, "not_found"},
	{ErrInvalidRequest, "invalid_request"},
	{ErrDuplicatePayment, "duplicate_payment"},
}

// Reason returns a short label for err, suitable as a metrics outcome.
func Reason(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.label
		}
	}
	return "error"
}
