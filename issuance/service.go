package issuance

import "context"

// Client delivers outbound messages and answers the issuance-side queries the
// minter needs. Implementations talk to whatever hosts the external components.
type Client interface {
	// Deliver hands the messages of one committed request to their
	// destinations, in order.
	Deliver(ctx context.Context, msgs []Message) error

	// NumTokens returns how many items the issuance component at target has
	// issued so far.
	NumTokens(ctx context.Context, target Contract) (uint64, error)
}
