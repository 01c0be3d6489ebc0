package revshare

import "fmt"

// ValidateEntries checks a revenue split before it is stored. An empty list
// is valid and disables revenue distribution.
func ValidateEntries(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.Address == "" {
			return fmt.Errorf("%w: entry %d", ErrEmptyAddress, i)
		}
		if e.Weight == 0 {
			return fmt.Errorf("%w: entry %d (%s)", ErrZeroShares, i, e.Address)
		}
		if seen[e.Address] {
			return fmt.Errorf("%w: %s", ErrDuplicateEntry, e.Address)
		}
		seen[e.Address] = true
	}
	if total := TotalWeight(entries); total != WeightScale {
		return fmt.Errorf("%w: got %d, want %d", ErrWeightTotal, total, WeightScale)
	}
	return nil
}
