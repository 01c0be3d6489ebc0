package minter

import (
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/bitfsorg/libmint-go/issuance"
	"github.com/bitfsorg/libmint-go/revshare"
	"github.com/bitfsorg/libmint-go/store"
)

// Command names, as used on the wire and in logs and metrics.
const (
	CmdInit                  = "init"
	CmdReceive               = "receive"
	CmdReceiveTx             = "receive_tx"
	CmdUpdateMint            = "update_mint"
	CmdAddNftContract        = "add_nft_contract"
	CmdChangeAdmin           = "change_admin"
	CmdLoadMetadata          = "load_metadata"
	CmdUpdateMetadataEditors = "update_change_metadata_permited_addresses"
)

// StatusSuccess is the status of every accepted command.
const StatusSuccess = "success"

// Env is the execution context of one request.
type Env struct {
	Caller string // identity that sent the message
	Height uint64 // block height
	Time   uint64 // block time, seconds
}

// InitMsg establishes the minter.
type InitMsg struct {
	Admin         string            `json:"admin,omitempty" yaml:"admin,omitempty"`
	PaymentAsset  issuance.Contract `json:"token_contract" yaml:"token_contract"`
	Entropy       string            `json:"entropy" yaml:"entropy"`
	Price         string            `json:"mint_price" yaml:"mint_price"` // decimal
	MaxPerRequest uint16            `json:"max_mint_per_tx" yaml:"max_mint_per_tx"`
	AllowList     []string          `json:"whitelist,omitempty" yaml:"whitelist,omitempty"`
	RevenueShares []revshare.Entry  `json:"revenue_split,omitempty" yaml:"revenue_split,omitempty"`
}

// HandleMsg is one dispatched command. Exactly one field is set.
type HandleMsg struct {
	Receive               *ReceiveMsg               `json:"receive,omitempty"`
	ReceiveTx             *ReceiveTxMsg             `json:"receive_tx,omitempty"`
	UpdateMint            *UpdateMintMsg            `json:"update_mint,omitempty"`
	AddNftContract        *AddNftContractMsg        `json:"add_nft_contract,omitempty"`
	ChangeAdmin           *ChangeAdminMsg           `json:"change_admin,omitempty"`
	LoadMetadata          *LoadMetadataMsg          `json:"load_metadata,omitempty"`
	UpdateMetadataEditors *UpdateMetadataEditorsMsg `json:"update_change_metadata_permited_addresses,omitempty"`
}

// Command returns the name of the single command carried by m.
func (m *HandleMsg) Command() (string, error) {
	var names []string
	if m.Receive != nil {
		names = append(names, CmdReceive)
	}
	if m.ReceiveTx != nil {
		names = append(names, CmdReceiveTx)
	}
	if m.UpdateMint != nil {
		names = append(names, CmdUpdateMint)
	}
	if m.AddNftContract != nil {
		names = append(names, CmdAddNftContract)
	}
	if m.ChangeAdmin != nil {
		names = append(names, CmdChangeAdmin)
	}
	if m.LoadMetadata != nil {
		names = append(names, CmdLoadMetadata)
	}
	if m.UpdateMetadataEditors != nil {
		names = append(names, CmdUpdateMetadataEditors)
	}
	if len(names) != 1 {
		return "", fmt.Errorf("%w: expected one command, got %d", ErrInvalidRequest, len(names))
	}
	return names[0], nil
}

// ReceiveMsg is a payment notification from the payment asset. Sender
// initiated the transfer, From owned the funds and is the requester.
type ReceiveMsg struct {
	Sender string          `json:"sender"`
	From   string          `json:"from"`
	Amount *uint256.Int    `json:"amount"`
	Msg    json.RawMessage `json:"msg"`
}

// ReceiveTxMsg names a BSV payment transaction to settle. The transaction
// is read from the chain, never from the message.
type ReceiveTxMsg struct {
	TxID string `json:"tx_id"`
}

// UpdateMintMsg switches the sale modes and optionally reprices.
type UpdateMintMsg struct {
	AllowListEnabled bool         `json:"whitelist_mint_enabled"`
	PublicEnabled    bool         `json:"standard_mint_enabled"`
	Price            *uint256.Int `json:"mint_price,omitempty"`
	MaxPerRequest    *uint16      `json:"max_mint_per_tx,omitempty"`
}

// AddNftContractMsg sets the issuance target.
type AddNftContractMsg struct {
	Contract issuance.Contract `json:"contract"`
}

// ChangeAdminMsg replaces the administrator.
type ChangeAdminMsg struct {
	Admin string `json:"admin"`
}

// LoadMetadataMsg appends items to the inventory.
type LoadMetadataMsg struct {
	Items []store.ItemRecord `json:"new_data"`
}

// UpdateMetadataEditorsMsg replaces the metadata-edit permission list.
type UpdateMetadataEditorsMsg struct {
	Addresses []string `json:"change_metadata_permited_addresses"`
}

// receivePayload is the body of a payment notification.
type receivePayload struct {
	MintNfts *struct {
		Count uint16 `json:"count"`
	} `json:"mint_nfts"`
}

// decodeMintCount extracts the requested item count from a payment payload.
func decodeMintCount(payload []byte) (uint16, error) {
	var p receivePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return 0, fmt.Errorf("%w: decode payload: %w", ErrInvalidRequest, err)
	}
	if p.MintNfts == nil {
		return 0, fmt.Errorf("%w: receive handler not found", ErrInvalidRequest)
	}
	if p.MintNfts.Count == 0 {
		return 0, fmt.Errorf("%w: count must be positive", ErrInvalidRequest)
	}
	return p.MintNfts.Count, nil
}

// Response is the result of an accepted command.
type Response struct {
	Command  string             `json:"command"`
	Status   string             `json:"status"`
	Messages []issuance.Message `json:"messages,omitempty"`
}

// Info is the public status of the minter.
type Info struct {
	Admin            string             `json:"admin"`
	PaymentAsset     issuance.Contract  `json:"token_contract"`
	IssuanceTarget   *issuance.Contract `json:"nft_contract,omitempty"`
	Price            string             `json:"mint_price"`
	AllowListEnabled bool               `json:"whitelist_mint_enabled"`
	PublicEnabled    bool               `json:"standard_mint_enabled"`
	MaxPerRequest    uint16             `json:"max_mint_per_tx"`
	TotalIssued      uint64             `json:"mint_current_count"`
	Remaining        uint32             `json:"mint_current_left"`
	TotalLoaded      uint32             `json:"mint_total_loaded"`
}
