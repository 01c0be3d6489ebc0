// Package chain reads payment transactions from a BSV node so the minter can
// settle them once they are buried deep enough.
package chain

import "context"

// Service is the subset of a BSV node the minter relies on.
type Service interface {
	// GetRawTx returns the serialized transaction.
	GetRawTx(ctx context.Context, txid string) ([]byte, error)

	// GetTxStatus returns the confirmation status of a transaction.
	GetTxStatus(ctx context.Context, txid string) (*TxStatus, error)

	// GetBlockHeader returns the raw 80-byte header of a block.
	GetBlockHeader(ctx context.Context, blockHash string) ([]byte, error)

	// GetBestBlockHeight returns the height of the chain tip.
	GetBestBlockHeight(ctx context.Context) (uint64, error)
}

// TxStatus is the confirmation state of a transaction. BlockHeight and
// BlockTime are zero when the node did not report them.
type TxStatus struct {
	Confirmations uint64 `json:"confirmations"`
	BlockHash     string `json:"block_hash"`
	BlockHeight   uint64 `json:"block_height"`
	BlockTime     uint64 `json:"block_time"`
}

// Confirmed reports whether the transaction is in a block.
func (s *TxStatus) Confirmed() bool {
	return s != nil && s.Confirmations > 0
}
