// Package issuance describes the outbound side of the minter: the messages it
// hands to the item-issuance component and to the payment asset, and the
// client interface that delivers them.
package issuance

// Contract references an external component by address and code hash.
type Contract struct {
	Address  string `json:"address" yaml:"address"`
	CodeHash string `json:"code_hash" yaml:"code_hash"`
}

// IsZero reports whether the reference is unset.
func (c Contract) IsZero() bool {
	return c.Address == "" && c.CodeHash == ""
}

// Trait is a single metadata attribute.
type Trait struct {
	DisplayType string `json:"display_type,omitempty" yaml:"display_type,omitempty"`
	TraitType   string `json:"trait_type,omitempty" yaml:"trait_type,omitempty"`
	Value       string `json:"value" yaml:"value"`
	MaxValue    string `json:"max_value,omitempty" yaml:"max_value,omitempty"`
}

// Authentication carries media access credentials.
type Authentication struct {
	Key  string `json:"key"`
	User string `json:"user"`
}

// MediaFile is one media attachment of an issued item.
type MediaFile struct {
	FileType       string          `json:"file_type,omitempty"`
	Extension      string          `json:"extension,omitempty"`
	Authentication *Authentication `json:"authentication,omitempty"`
	URL            string          `json:"url"`
}

// Extension is the on-chain metadata body.
type Extension struct {
	Name       string      `json:"name,omitempty"`
	Attributes []Trait     `json:"attributes,omitempty"`
	Media      []MediaFile `json:"media,omitempty"`
}

// Metadata wraps an extension the way the issuance component expects it.
type Metadata struct {
	TokenURI  string     `json:"token_uri,omitempty"`
	Extension *Extension `json:"extension,omitempty"`
}

// HiddenAttribute is a name/value pair revealed only by the issuance component.
type HiddenAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Mint is one entry of a batch issuance instruction.
type Mint struct {
	TokenID          string            `json:"token_id"`
	Owner            string            `json:"owner"`
	PublicMetadata   *Metadata         `json:"public_metadata,omitempty"`
	PrivateMetadata  *Metadata         `json:"private_metadata,omitempty"`
	HiddenAttributes []HiddenAttribute `json:"hidden_attributes,omitempty"`
}

// BatchMint instructs the issuance component to mint every entry at once.
type BatchMint struct {
	Mints []Mint `json:"mints"`
}

// Transfer moves amount (decimal, smallest denomination) of the payment
// asset held by the minter to Recipient.
type Transfer struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

// RegisterReceive asks the payment asset to notify CodeHash of incoming
// transfers.
type RegisterReceive struct {
	CodeHash string `json:"code_hash"`
}

// Message is one outbound instruction. Exactly one of the payload fields is set.
type Message struct {
	Contract        Contract         `json:"contract"`
	BatchMint       *BatchMint       `json:"batch_mint_nft,omitempty"`
	Transfer        *Transfer        `json:"transfer,omitempty"`
	RegisterReceive *RegisterReceive `json:"register_receive,omitempty"`
}

// Kind returns a short label for the payload, used in logs and metrics.
func (m Message) Kind() string {
	switch {
	case m.BatchMint != nil:
		return "batch_mint_nft"
	case m.Transfer != nil:
		return "transfer"
	case m.RegisterReceive != nil:
		return "register_receive"
	default:
		return "empty"
	}
}
