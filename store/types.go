// Package store persists the minter state in a bbolt database: the sale
// configuration, the slot-keyed item inventory and its counters, the
// allow-list and payment receipts.
//
// All access goes through Store.Update and Store.View. An error returned from
// an Update callback rolls back every write made in it, which is what makes a
// multi-item allocation all-or-nothing.
package store

import (
	"github.com/holiman/uint256"

	"github.com/bitfsorg/libmint-go/issuance"
	"github.com/bitfsorg/libmint-go/revshare"
)

// Config is the singleton sale configuration.
type Config struct {
	Admin            string
	PaymentAsset     issuance.Contract
	IssuanceTarget   *issuance.Contract // nil until the administrator sets it
	Price            uint256.Int        // per item, smallest payment-asset denomination
	MaxPerRequest    uint16
	AllowListEnabled bool
	PublicEnabled    bool
	RevenueShares    []revshare.Entry
	MetadataEditors  []string
}

// MintingEnabled reports whether at least one sale mode is on.
func (c *Config) MintingEnabled() bool {
	return c.AllowListEnabled || c.PublicEnabled
}

// ItemRecord is one preloaded, not yet issued item.
type ItemRecord struct {
	ID                string           `json:"id" yaml:"id"`
	ImageURL          string           `json:"img_url" yaml:"img_url"`
	PublicAttributes  []issuance.Trait `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	PrivateAttributes []issuance.Trait `json:"priv_attributes,omitempty" yaml:"priv_attributes,omitempty"`
	HiddenAttributes  []issuance.Trait `json:"hidden_attributes,omitempty" yaml:"hidden_attributes,omitempty"`
}

// Counters track the inventory. Slots 1..Remaining hold undrawn items;
// TotalLoaded is the number of items ever preloaded.
type Counters struct {
	TotalLoaded uint32
	Remaining   uint32
}

// Drawn reports whether at least one item has left the pool.
func (c Counters) Drawn() bool {
	return c.Remaining < c.TotalLoaded
}

// AllowState is the allow-list status of one identity.
type AllowState uint8

const (
	// AllowUnlisted means the identity has no allow-list entry.
	AllowUnlisted AllowState = iota
	// AllowEligibleUnused means the identity may still claim its reserved allocation.
	AllowEligibleUnused
	// AllowEligibleUsed means the reserved allocation has been claimed.
	AllowEligibleUsed
)

func (s AllowState) String() string {
	switch s {
	case AllowUnlisted:
		return "unlisted"
	case AllowEligibleUnused:
		return "eligible-unused"
	case AllowEligibleUsed:
		return "eligible-used"
	default:
		return "unknown"
	}
}

// Receipt records a payment transaction that settled an allocation.
type Receipt struct {
	TxID      string
	Requester string
	Amount    string
	Height    uint64
}
