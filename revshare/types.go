// Package revshare splits sale proceeds across a fixed list of recipients.
package revshare

import "github.com/holiman/uint256"

// WeightScale is the weight of a 100% share: percentages carry four decimal
// places, so 12.5% is written as 125000.
const WeightScale = 1_000_000

// Entry is one recipient of the revenue split.
type Entry struct {
	Address string `json:"address" yaml:"address"`
	Weight  uint32 `json:"percentage" yaml:"percentage"`
}

// Distribution is a single payout computed from an Entry.
type Distribution struct {
	Address string
	Amount  *uint256.Int // smallest payment-asset denomination
}

// TotalWeight sums the weights of entries.
func TotalWeight(entries []Entry) uint64 {
	var total uint64
	for _, e := range entries {
		total += uint64(e.Weight)
	}
	return total
}
