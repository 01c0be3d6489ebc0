package payment

import (
	"testing"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	saleAddr      = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	requesterAddr = "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2"
	payload       = `{"mint_nfts":{"count":2}}`
)

// withInput adds a placeholder funding input so the transaction serializes
// in the standard format.
func withInput(tx *transaction.Transaction) *transaction.Transaction {
	dummy := chainhash.DoubleHashH([]byte("funding"))
	s := &script.Script{}
	_ = s.AppendPushData([]byte("sig"))
	tx.AddInput(&transaction.TransactionInput{
		SourceTXID:       &dummy,
		SourceTxOutIndex: 0,
		UnlockingScript:  s,
	})
	return tx
}

func buildRaw(t *testing.T, sats uint64) ([]byte, string) {
	t.Helper()
	tx, err := BuildTransfer(&TransferParams{
		SaleAddress: saleAddr,
		Satoshis:    sats,
		Requester:   requesterAddr,
		Payload:     []byte(payload),
	})
	require.NoError(t, err)
	withInput(tx)
	return tx.Bytes(), tx.TxID().String()
}

func TestDecodeTransfer_RoundTrip(t *testing.T) {
	raw, txid := buildRaw(t, 2000)

	got, err := DecodeTransfer(raw, saleAddr)
	require.NoError(t, err)
	assert.Equal(t, txid, got.TxID)
	assert.Equal(t, requesterAddr, got.Requester)
	assert.Equal(t, uint64(2000), got.Amount.Uint64())
	assert.Equal(t, payload, string(got.Payload))
}

func TestDecodeTransfer_SumsSaleOutputs(t *testing.T) {
	tx, err := BuildTransfer(&TransferParams{
		SaleAddress: saleAddr,
		Satoshis:    1000,
		Requester:   requesterAddr,
		Payload:     []byte(payload),
	})
	require.NoError(t, err)
	require.NoError(t, tx.PayToAddress(saleAddr, 500))
	require.NoError(t, tx.PayToAddress(requesterAddr, 9999)) // change, not counted
	withInput(tx)

	got, err := DecodeTransfer(tx.Bytes(), saleAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), got.Amount.Uint64())
}

func TestDecodeTransfer_Errors(t *testing.T) {
	raw, _ := buildRaw(t, 1000)

	t.Run("empty", func(t *testing.T) {
		_, err := DecodeTransfer(nil, saleAddr)
		assert.ErrorIs(t, err, ErrInvalidTx)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := DecodeTransfer([]byte{0x01, 0x02}, saleAddr)
		assert.ErrorIs(t, err, ErrInvalidTx)
	})

	t.Run("bad sale address", func(t *testing.T) {
		_, err := DecodeTransfer(raw, "not-an-address")
		assert.ErrorIs(t, err, ErrInvalidParams)
	})

	t.Run("other sale address", func(t *testing.T) {
		_, err := DecodeTransfer(raw, requesterAddr)
		assert.ErrorIs(t, err, ErrNoMatchingOutput)
	})

	t.Run("no mint data", func(t *testing.T) {
		tx := transaction.NewTransaction()
		require.NoError(t, tx.PayToAddress(saleAddr, 1000))
		withInput(tx)
		_, err := DecodeTransfer(tx.Bytes(), saleAddr)
		assert.ErrorIs(t, err, ErrNoMintData)
	})

	t.Run("foreign OP_RETURN", func(t *testing.T) {
		tx := transaction.NewTransaction()
		require.NoError(t, tx.PayToAddress(saleAddr, 1000))
		s := &script.Script{}
		*s = append(*s, script.Op0, script.OpRETURN)
		require.NoError(t, s.AppendPushData([]byte("meta")))
		tx.AddOutput(&transaction.TransactionOutput{LockingScript: s})
		withInput(tx)
		_, err := DecodeTransfer(tx.Bytes(), saleAddr)
		assert.ErrorIs(t, err, ErrNoMintData)
	})

	t.Run("missing payload push", func(t *testing.T) {
		tx := transaction.NewTransaction()
		require.NoError(t, tx.PayToAddress(saleAddr, 1000))
		s := &script.Script{}
		*s = append(*s, script.Op0, script.OpRETURN)
		require.NoError(t, s.AppendPushData([]byte(Protocol)))
		require.NoError(t, s.AppendPushData([]byte(requesterAddr)))
		tx.AddOutput(&transaction.TransactionOutput{LockingScript: s})
		withInput(tx)
		_, err := DecodeTransfer(tx.Bytes(), saleAddr)
		assert.ErrorIs(t, err, ErrNoMintData)
	})

	t.Run("bad requester", func(t *testing.T) {
		tx := transaction.NewTransaction()
		require.NoError(t, tx.PayToAddress(saleAddr, 1000))
		s := &script.Script{}
		*s = append(*s, script.Op0, script.OpRETURN)
		for _, p := range []string{Protocol, "alice", payload} {
			require.NoError(t, s.AppendPushData([]byte(p)))
		}
		tx.AddOutput(&transaction.TransactionOutput{LockingScript: s})
		withInput(tx)
		_, err := DecodeTransfer(tx.Bytes(), saleAddr)
		assert.ErrorIs(t, err, ErrInvalidRequester)
	})
}

func TestBuildTransfer_Validation(t *testing.T) {
	valid := TransferParams{SaleAddress: saleAddr, Satoshis: 1, Requester: requesterAddr, Payload: []byte("{}")}

	tests := []struct {
		name    string
		mutate  func(p *TransferParams)
		wantErr error
	}{
		{"zero amount", func(p *TransferParams) { p.Satoshis = 0 }, ErrInvalidParams},
		{"empty payload", func(p *TransferParams) { p.Payload = nil }, ErrInvalidParams},
		{"bad requester", func(p *TransferParams) { p.Requester = "bob" }, ErrInvalidRequester},
		{"bad sale address", func(p *TransferParams) { p.SaleAddress = "nope" }, ErrInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			_, err := BuildTransfer(&p)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := BuildTransfer(nil)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestBuildTransfer_Outputs(t *testing.T) {
	tx, err := BuildTransfer(&TransferParams{
		SaleAddress: saleAddr,
		Satoshis:    750,
		Requester:   requesterAddr,
		Payload:     []byte(payload),
	})
	require.NoError(t, err)
	require.Len(t, tx.Outputs, 2)

	assert.True(t, tx.Outputs[0].LockingScript.IsP2PKH())
	assert.Equal(t, uint64(750), tx.Outputs[0].Satoshis)

	pushes, ok := mintPushes(*tx.Outputs[1].LockingScript)
	require.True(t, ok)
	require.Len(t, pushes, 3)
	assert.Equal(t, requesterAddr, string(pushes[1]))
	assert.Equal(t, uint64(0), tx.Outputs[1].Satoshis)
}
