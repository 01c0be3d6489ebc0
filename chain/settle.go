package chain

import (
	"context"
	"encoding/binary"
	"fmt"
)

// HeaderSize is the size of a serialized block header.
const HeaderSize = 80

// Payment is a confirmed transaction together with the block that holds it.
type Payment struct {
	TxID   string
	RawTx  []byte
	Height uint64
	Time   uint64 // block timestamp, seconds
}

// HeaderTime returns the timestamp field of a block header.
func HeaderTime(header []byte) (uint64, error) {
	if len(header) != HeaderSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrInvalidHeader, len(header))
	}
	// version(4) prev(32) merkle(32) time(4) bits(4) nonce(4)
	return uint64(binary.LittleEndian.Uint32(header[68:72])), nil
}

// FetchConfirmed returns txid once it has at least minConf confirmations,
// along with the height and time of its block. Missing block fields are
// filled from the header and the chain tip.
func FetchConfirmed(ctx context.Context, svc Service, txid string, minConf uint64) (*Payment, error) {
	if minConf == 0 {
		minConf = 1
	}
	st, err := svc.GetTxStatus(ctx, txid)
	if err != nil {
		return nil, err
	}
	if !st.Confirmed() || st.Confirmations < minConf {
		var have uint64
		if st != nil {
			have = st.Confirmations
		}
		return nil, fmt.Errorf("%w: %s has %d, need %d", ErrNotConfirmed, txid, have, minConf)
	}

	height := st.BlockHeight
	if height == 0 {
		tip, err := svc.GetBestBlockHeight(ctx)
		if err != nil {
			return nil, err
		}
		if tip+1 < st.Confirmations {
			return nil, fmt.Errorf("%w: tip %d below %d confirmations", ErrInvalidResponse, tip, st.Confirmations)
		}
		height = tip + 1 - st.Confirmations
	}

	blockTime := st.BlockTime
	if blockTime == 0 {
		if st.BlockHash == "" {
			return nil, fmt.Errorf("%w: confirmed tx without block hash", ErrInvalidResponse)
		}
		header, err := svc.GetBlockHeader(ctx, st.BlockHash)
		if err != nil {
			return nil, err
		}
		if blockTime, err = HeaderTime(header); err != nil {
			return nil, err
		}
	}

	raw, err := svc.GetRawTx(ctx, txid)
	if err != nil {
		return nil, err
	}
	return &Payment{TxID: txid, RawTx: raw, Height: height, Time: blockTime}, nil
}
