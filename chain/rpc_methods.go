package chain

import (
	"context"
	"encoding/hex"
	"fmt"
)

// GetRawTx calls `getrawtransaction txid false`.
func (c *RPCClient) GetRawTx(ctx context.Context, txid string) ([]byte, error) {
	var rawHex string
	if err := c.Call(ctx, "getrawtransaction", []any{txid, false}, &rawHex); err != nil {
		return nil, err
	}
	data, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, fmt.Errorf("%w: tx hex: %w", ErrInvalidResponse, err)
	}
	return data, nil
}

type verboseTx struct {
	Confirmations uint64 `json:"confirmations"`
	BlockHash     string `json:"blockhash"`
	BlockHeight   uint64 `json:"blockheight"`
	BlockTime     uint64 `json:"blocktime"`
}

// GetTxStatus calls `getrawtransaction txid true` and keeps the block fields.
func (c *RPCClient) GetTxStatus(ctx context.Context, txid string) (*TxStatus, error) {
	var v verboseTx
	if err := c.Call(ctx, "getrawtransaction", []any{txid, true}, &v); err != nil {
		return nil, err
	}
	return &TxStatus{
		Confirmations: v.Confirmations,
		BlockHash:     v.BlockHash,
		BlockHeight:   v.BlockHeight,
		BlockTime:     v.BlockTime,
	}, nil
}

// GetBlockHeader calls `getblockheader hash false`.
func (c *RPCClient) GetBlockHeader(ctx context.Context, blockHash string) ([]byte, error) {
	var headerHex string
	if err := c.Call(ctx, "getblockheader", []any{blockHash, false}, &headerHex); err != nil {
		return nil, err
	}
	data, err := hex.DecodeString(headerHex)
	if err != nil {
		return nil, fmt.Errorf("%w: header hex: %w", ErrInvalidResponse, err)
	}
	return data, nil
}

// GetBestBlockHeight calls `getblockcount`.
func (c *RPCClient) GetBestBlockHeight(ctx context.Context) (uint64, error) {
	var height uint64
	if err := c.Call(ctx, "getblockcount", nil, &height); err != nil {
		return 0, err
	}
	return height, nil
}
