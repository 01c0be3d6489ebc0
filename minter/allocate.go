package minter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/holiman/uint256"

	"github.com/bitfsorg/libmint-go/chain"
	"github.com/bitfsorg/libmint-go/draw"
	"github.com/bitfsorg/libmint-go/entropy"
	"github.com/bitfsorg/libmint-go/issuance"
	"github.com/bitfsorg/libmint-go/payment"
	"github.com/bitfsorg/libmint-go/revshare"
	"github.com/bitfsorg/libmint-go/store"
)

// purchase is a payment to settle. For on-chain payments only txID and
// rawTx are set; the rest is decoded inside the settling transaction.
type purchase struct {
	notifier  string // who delivered the notification; empty for on-chain payments
	requester string
	amount    *uint256.Int
	count     uint16
	txID      string
	rawTx     []byte
}

// receive settles a payment notification from the payment asset and
// allocates the requested number of items to msg.From.
func (e *Engine) receive(ctx context.Context, env Env, msg *ReceiveMsg) ([]issuance.Message, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: nil receive message", ErrInvalidRequest)
	}
	if msg.Amount == nil {
		return nil, fmt.Errorf("%w: missing amount", ErrInvalidRequest)
	}
	if msg.From == "" {
		return nil, fmt.Errorf("%w: missing requester", ErrInvalidRequest)
	}
	count, err := decodeMintCount(msg.Msg)
	if err != nil {
		return nil, err
	}
	return e.allocate(ctx, env, purchase{
		notifier:  env.Caller,
		requester: msg.From,
		amount:    msg.Amount,
		count:     count,
	})
}

// receiveTx settles a confirmed BSV payment to the sale address. The
// transaction and the block holding it come from the chain service; the
// draw is seeded with that block's height and time. Each transaction
// settles at most once.
func (e *Engine) receiveTx(ctx context.Context, env Env, msg *ReceiveTxMsg) ([]issuance.Message, error) {
	if msg == nil || msg.TxID == "" {
		return nil, fmt.Errorf("%w: missing transaction id", ErrInvalidRequest)
	}
	if e.chain == nil {
		return nil, fmt.Errorf("%w: chain settlement is not configured", ErrPreconditionFailed)
	}

	p, err := chain.FetchConfirmed(ctx, e.chain, msg.TxID, e.confirmations)
	switch {
	case errors.Is(err, chain.ErrTxNotFound):
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, chain.ErrNotConfirmed):
		return nil, fmt.Errorf("%w: %w", ErrPreconditionFailed, err)
	case err != nil:
		return nil, err
	}

	return e.allocate(ctx, Env{Caller: env.Caller, Height: p.Height, Time: p.Time}, purchase{
		txID:  msg.TxID,
		rawTx: p.RawTx,
	})
}

// decodeTx fills p from its raw transaction, which must pay the sale
// address and hash to p.txID.
func (p *purchase) decodeTx(saleAddress string) error {
	t, err := payment.DecodeTransfer(p.rawTx, saleAddress)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if t.TxID != p.txID {
		return fmt.Errorf("%w: chain returned %s for %s", ErrInvalidRequest, t.TxID, p.txID)
	}
	count, err := decodeMintCount(t.Payload)
	if err != nil {
		return err
	}
	p.requester = t.Requester
	p.amount = t.Amount
	p.count = count
	return nil
}

// allocate runs the configuration, payment and admission checks, draws
// p.count items and emits the batch. Any failure discards every draw.
func (e *Engine) allocate(ctx context.Context, env Env, p purchase) ([]issuance.Message, error) {
	var (
		msgs      []issuance.Message
		remaining uint32
	)
	err := e.store.Update(func(tx *store.Tx) error {
		cfg, err := loadConfig(tx)
		if err != nil {
			return err
		}
		if p.txID == "" {
			if p.notifier != cfg.PaymentAsset.Address {
				return fmt.Errorf("%w: payment notification from %q", ErrUnauthorized, p.notifier)
			}
		} else {
			if tx.HasReceipt(p.txID) {
				return fmt.Errorf("%w: %s", ErrDuplicatePayment, p.txID)
			}
			if err := p.decodeTx(cfg.PaymentAsset.Address); err != nil {
				return err
			}
		}

		if err := checkConfig(tx, cfg, p.count); err != nil {
			return err
		}
		if err := checkPayment(cfg, p.count, p.amount); err != nil {
			return err
		}
		if err := admit(tx, cfg, p.requester); err != nil {
			return err
		}

		mints, err := drawItems(tx, env, p.requester, p.count)
		if err != nil {
			return err
		}
		msgs = []issuance.Message{{
			Contract:  *cfg.IssuanceTarget,
			BatchMint: &issuance.BatchMint{Mints: mints},
		}}
		transfers, err := revenueTransfers(cfg, p.amount)
		if err != nil {
			return err
		}
		msgs = append(msgs, transfers...)

		if p.txID != "" {
			err := tx.PutReceipt(&store.Receipt{
				TxID:      p.txID,
				Requester: p.requester,
				Amount:    p.amount.Dec(),
				Height:    env.Height,
			})
			if errors.Is(err, store.ErrDuplicateReceipt) {
				return fmt.Errorf("%w: %s", ErrDuplicatePayment, p.txID)
			}
			if err != nil {
				return err
			}
		}

		if remaining, err = tx.Remaining(); err != nil {
			return err
		}
		return e.deliver(ctx, msgs)
	})
	if err != nil {
		return nil, err
	}

	e.metrics.AddDrawn(int(p.count))
	e.metrics.SetRemaining(remaining)
	e.log.Info("items allocated",
		slog.String("requester", p.requester),
		slog.Int("count", int(p.count)),
		slog.String("amount", p.amount.Dec()),
		slog.Uint64("remaining", uint64(remaining)))
	return msgs, nil
}

// checkConfig verifies the sale can serve count items.
func checkConfig(tx *store.Tx, cfg *store.Config, count uint16) error {
	if cfg.IssuanceTarget == nil {
		return ErrNotConfigured
	}
	remaining, err := tx.Remaining()
	if err != nil {
		return err
	}
	if remaining == 0 {
		return ErrInventoryExhausted
	}
	if uint32(count) > remaining {
		return fmt.Errorf("%w: requested %d, %d left", ErrInsufficientInventory, count, remaining)
	}
	if count > cfg.MaxPerRequest {
		return fmt.Errorf("%w: requested %d, max is %d", ErrCapExceeded, count, cfg.MaxPerRequest)
	}
	if !cfg.MintingEnabled() {
		return ErrMintingDisabled
	}
	return nil
}

// checkPayment requires amount to equal price times count exactly.
func checkPayment(cfg *store.Config, count uint16, amount *uint256.Int) error {
	expected, overflow := new(uint256.Int).MulOverflow(&cfg.Price, uint256.NewInt(uint64(count)))
	if overflow {
		return fmt.Errorf("%w: expected amount overflows", ErrPaymentMismatch)
	}
	if !amount.Eq(expected) {
		return fmt.Errorf("%w: received %s, expected %s", ErrPaymentMismatch, amount.Dec(), expected.Dec())
	}
	return nil
}

// admit applies the allow-list while allow-list mode is on. A listed,
// unused requester consumes their entry; everyone else needs public mode.
func admit(tx *store.Tx, cfg *store.Config, requester string) error {
	if !cfg.AllowListEnabled {
		return nil
	}
	state, err := tx.AllowState(requester)
	if err != nil {
		return err
	}
	switch state {
	case store.AllowEligibleUnused:
		if err := tx.MarkUsed(requester); err != nil {
			if errors.Is(err, store.ErrNotListed) {
				return fmt.Errorf("%w: %w", ErrNotFound, err)
			}
			return err
		}
	case store.AllowEligibleUsed:
		if !cfg.PublicEnabled {
			return fmt.Errorf("%w: %s", ErrAlreadyClaimed, requester)
		}
	default:
		if !cfg.PublicEnabled {
			return fmt.Errorf("%w: %s", ErrNotEligible, requester)
		}
	}
	return nil
}

// drawItems draws count items for requester, one seed per 1-based index.
func drawItems(tx *store.Tx, env Env, requester string, count uint16) ([]issuance.Mint, error) {
	secret, err := tx.Seed()
	if err != nil {
		return nil, err
	}
	ectx := entropy.Context{Height: env.Height, Time: env.Time}

	mints := make([]issuance.Mint, 0, count)
	for i := 1; i <= int(count); i++ {
		seed, err := entropy.Derive(secret, ectx, requester, i)
		if err != nil {
			return nil, err
		}
		res, err := draw.Draw(tx, seed)
		if errors.Is(err, draw.ErrPoolEmpty) {
			return nil, ErrInventoryExhausted
		}
		if err != nil {
			return nil, err
		}
		mints = append(mints, newMint(requester, res))
	}
	return mints, nil
}

// revenueTransfers splits amount across the revenue-share list as payment
// asset transfers. Zero shares produce no message.
func revenueTransfers(cfg *store.Config, amount *uint256.Int) ([]issuance.Message, error) {
	if len(cfg.RevenueShares) == 0 || amount.IsZero() {
		return nil, nil
	}
	dists, err := revshare.DistributeRevenue(amount, cfg.RevenueShares)
	if err != nil {
		return nil, fmt.Errorf("minter: revenue split: %w", err)
	}

	var msgs []issuance.Message
	for _, d := range dists {
		if d.Amount.IsZero() {
			continue
		}
		msgs = append(msgs, issuance.Message{
			Contract: cfg.PaymentAsset,
			Transfer: &issuance.Transfer{Recipient: d.Address, Amount: d.Amount.Dec()},
		})
	}
	return msgs, nil
}
