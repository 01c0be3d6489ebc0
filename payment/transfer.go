// Package payment turns a raw BSV transaction into a payment notification
// for the minter, and builds such transactions.
//
// A mint payment transaction has one or more P2PKH outputs paying the sale
// address and one data output:
//
//	OP_FALSE OP_RETURN <"mint"> <requester address> <JSON payload>
//
// The paid amount is the sum of the satoshis sent to the sale address.
package payment

import (
	"bytes"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/holiman/uint256"
)

// Protocol is the first push of the mint data output.
const Protocol = "mint"

// Transfer is a decoded mint payment.
type Transfer struct {
	TxID      string
	Requester string
	Amount    *uint256.Int // satoshis paid to the sale address
	Payload   []byte
}

// DecodeTransfer parses rawTx and extracts the payment to saleAddress.
//
// Input signatures are not verified. Callers must confirm the transaction
// was accepted by the network and must track TxIDs to prevent replay.
func DecodeTransfer(rawTx []byte, saleAddress string) (*Transfer, error) {
	if len(rawTx) == 0 {
		return nil, fmt.Errorf("%w: empty raw transaction", ErrInvalidTx)
	}
	saleAddr, err := script.NewAddressFromString(saleAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: sale address: %w", ErrInvalidParams, err)
	}
	salePKH := []byte(saleAddr.PublicKeyHash)

	tx, err := transaction.NewTransactionFromBytes(rawTx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTx, err)
	}

	amount := new(uint256.Int)
	paid := false
	var pushes [][]byte
	for _, output := range tx.Outputs {
		if output.LockingScript == nil {
			continue
		}
		if output.LockingScript.IsP2PKH() {
			pkh, err := output.LockingScript.PublicKeyHash()
			if err != nil || !bytes.Equal(pkh, salePKH) {
				continue
			}
			amount.Add(amount, uint256.NewInt(output.Satoshis))
			paid = true
			continue
		}
		if pushes == nil {
			if p, ok := mintPushes(*output.LockingScript); ok {
				pushes = p
			}
		}
	}

	if !paid {
		return nil, ErrNoMatchingOutput
	}
	if pushes == nil {
		return nil, ErrNoMintData
	}
	if len(pushes) < 3 {
		return nil, fmt.Errorf("%w: expected 3 data pushes, got %d", ErrNoMintData, len(pushes))
	}

	requester := string(pushes[1])
	if _, err := script.NewAddressFromString(requester); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidRequester, requester, err)
	}

	return &Transfer{
		TxID:      tx.TxID().String(),
		Requester: requester,
		Amount:    amount,
		Payload:   pushes[2],
	}, nil
}

// mintPushes returns the data pushes of an OP_FALSE OP_RETURN script whose
// first push is Protocol.
func mintPushes(raw []byte) ([][]byte, bool) {
	if len(raw) < 2 || raw[0] != script.Op0 || raw[1] != script.OpRETURN {
		return nil, false
	}
	chunks, err := script.NewFromBytes(raw[2:]).Chunks()
	if err != nil || len(chunks) == 0 {
		return nil, false
	}
	pushes := make([][]byte, 0, len(chunks))
	for _, c := range chunks {
		pushes = append(pushes, c.Data)
	}
	if !bytes.Equal(pushes[0], []byte(Protocol)) {
		return nil, false
	}
	return pushes, true
}

// TransferParams describes the outputs of a mint payment transaction.
type TransferParams struct {
	SaleAddress string
	Satoshis    uint64
	Requester   string
	Payload     []byte
}

// BuildTransfer creates an unsigned transaction with the payment output and
// the mint data output. The caller adds funding inputs, change and
// signatures.
func BuildTransfer(params *TransferParams) (*transaction.Transaction, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: nil params", ErrInvalidParams)
	}
	if params.Satoshis == 0 {
		return nil, fmt.Errorf("%w: zero amount", ErrInvalidParams)
	}
	if len(params.Payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidParams)
	}
	if _, err := script.NewAddressFromString(params.Requester); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequester, err)
	}

	tx := transaction.NewTransaction()
	if err := tx.PayToAddress(params.SaleAddress, params.Satoshis); err != nil {
		return nil, fmt.Errorf("%w: sale address: %w", ErrInvalidParams, err)
	}

	s := &script.Script{}
	*s = append(*s, script.Op0, script.OpRETURN)
	for _, push := range [][]byte{[]byte(Protocol), []byte(params.Requester), params.Payload} {
		if err := s.AppendPushData(push); err != nil {
			return nil, fmt.Errorf("payment: OP_RETURN push data: %w", err)
		}
	}
	tx.AddOutput(&transaction.TransactionOutput{
		LockingScript: s,
		Satoshis:      0,
	})
	return tx, nil
}
