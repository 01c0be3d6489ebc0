package revshare

import (
	"fmt"

	"github.com/holiman/uint256"
)

// DistributeRevenue calculates per-recipient payouts of totalPayment.
// The last entry gets the remainder to avoid integer division precision loss.
func DistributeRevenue(totalPayment *uint256.Int, entries []Entry) ([]Distribution, error) {
	if totalPayment == nil || totalPayment.IsZero() {
		return nil, ErrInsufficientPayment
	}
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	totalShares := TotalWeight(entries)
	if totalShares == 0 {
		return nil, fmt.Errorf("%w: total weight is zero", ErrZeroShares)
	}

	denom := uint256.NewInt(totalShares)
	distributions := make([]Distribution, len(entries))
	distributed := new(uint256.Int)
	for i, entry := range entries {
		distributions[i].Address = entry.Address
		if i == len(entries)-1 {
			// Last recipient gets remainder
			distributions[i].Amount = new(uint256.Int).Sub(totalPayment, distributed)
			continue
		}
		// Divide first if the product does not fit in 256 bits.
		amount, overflow := new(uint256.Int).MulOverflow(totalPayment, uint256.NewInt(uint64(entry.Weight)))
		if overflow {
			amount = new(uint256.Int).Div(totalPayment, denom)
			amount.Mul(amount, uint256.NewInt(uint64(entry.Weight)))
		} else {
			amount.Div(amount, denom)
		}
		distributions[i].Amount = amount
		distributed.Add(distributed, amount)
	}
	return distributions, nil
}
