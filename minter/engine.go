// Package minter implements the token allocation engine: the administrator
// state machine, allow-list admission, exact-payment settlement and the
// seeded draw of items without replacement.
//
// Every command runs inside one store write transaction. Outbound messages
// are delivered to the issuance client before the transaction commits, so a
// failed request leaves no trace in the state.
package minter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/holiman/uint256"

	"github.com/bitfsorg/libmint-go/chain"
	"github.com/bitfsorg/libmint-go/entropy"
	"github.com/bitfsorg/libmint-go/issuance"
	"github.com/bitfsorg/libmint-go/logging"
	"github.com/bitfsorg/libmint-go/metrics"
	"github.com/bitfsorg/libmint-go/revshare"
	"github.com/bitfsorg/libmint-go/store"
)

// Options configures an Engine.
type Options struct {
	CodeHash string           // announced to the payment asset at init
	Logger   *slog.Logger     // nil discards logs
	Metrics  *metrics.Metrics // nil records nothing

	// Chain confirms on-chain payments for receive_tx. Without it
	// receive_tx is rejected.
	Chain         chain.Service
	Confirmations uint64 // zero means one
}

// Engine executes minter commands against a store.
type Engine struct {
	store         *store.Store
	client        issuance.Client
	codeHash      string
	log           *slog.Logger
	metrics       *metrics.Metrics
	chain         chain.Service
	confirmations uint64
}

// New creates an Engine over st that delivers outbound messages to client.
func New(st *store.Store, client issuance.Client, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Engine{
		store:    st,
		client:   client,
		codeHash: opts.CodeHash,
		log:      log,
		metrics:  opts.Metrics,

		chain:         opts.Chain,
		confirmations: opts.Confirmations,
	}
}

// Init establishes the configuration, the draw secret, empty inventory
// counters and the allow-list, and asks the payment asset to notify this
// minter of incoming transfers. Initializing twice fails.
func (e *Engine) Init(ctx context.Context, env Env, msg *InitMsg) (*Response, error) {
	msgs, err := e.init(ctx, env, msg)
	e.observe(CmdInit, env, err)
	if err != nil {
		return nil, err
	}
	e.metrics.SetRemaining(0)
	return &Response{Command: CmdInit, Status: StatusSuccess, Messages: msgs}, nil
}

func (e *Engine) init(ctx context.Context, env Env, msg *InitMsg) ([]issuance.Message, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: nil init message", ErrInvalidRequest)
	}
	admin := msg.Admin
	if admin == "" {
		admin = env.Caller
	}
	if admin == "" {
		return nil, fmt.Errorf("%w: no administrator", ErrInvalidRequest)
	}
	if msg.PaymentAsset.Address == "" {
		return nil, fmt.Errorf("%w: payment asset address is empty", ErrInvalidRequest)
	}
	price, err := parsePrice(msg.Price)
	if err != nil {
		return nil, err
	}
	if err := revshare.ValidateEntries(msg.RevenueShares); err != nil {
		return nil, fmt.Errorf("%w: revenue split: %w", ErrInvalidRequest, err)
	}

	cfg := &store.Config{
		Admin:         admin,
		PaymentAsset:  msg.PaymentAsset,
		Price:         *price,
		MaxPerRequest: msg.MaxPerRequest,
		RevenueShares: msg.RevenueShares,
	}
	msgs := []issuance.Message{{
		Contract:        msg.PaymentAsset,
		RegisterReceive: &issuance.RegisterReceive{CodeHash: e.codeHash},
	}}

	err = e.store.Update(func(tx *store.Tx) error {
		if tx.Initialized() {
			return fmt.Errorf("%w: already initialized", ErrPreconditionFailed)
		}
		if err := tx.PutConfig(cfg); err != nil {
			return err
		}
		if err := tx.PutSeed(entropy.NewSecret(msg.Entropy)); err != nil {
			return err
		}
		if err := tx.PutCounters(store.Counters{}); err != nil {
			return err
		}
		for _, id := range msg.AllowList {
			if id = strings.TrimSpace(id); id == "" {
				continue
			}
			if err := tx.AddAllowed(id); err != nil {
				return err
			}
		}
		return e.deliver(ctx, msgs)
	})
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// Status reports the public configuration and inventory counters. TotalIssued
// is queried from the issuance target and is zero while no target is set.
func (e *Engine) Status(ctx context.Context) (*Info, error) {
	var (
		cfg *store.Config
		c   store.Counters
	)
	err := e.store.View(func(tx *store.Tx) error {
		var err error
		if cfg, err = loadConfig(tx); err != nil {
			return err
		}
		c, err = tx.Counters()
		return err
	})
	if err != nil {
		return nil, err
	}

	info := &Info{
		Admin:            cfg.Admin,
		PaymentAsset:     cfg.PaymentAsset,
		IssuanceTarget:   cfg.IssuanceTarget,
		Price:            cfg.Price.Dec(),
		AllowListEnabled: cfg.AllowListEnabled,
		PublicEnabled:    cfg.PublicEnabled,
		MaxPerRequest:    cfg.MaxPerRequest,
		Remaining:        c.Remaining,
		TotalLoaded:      c.TotalLoaded,
	}
	if cfg.IssuanceTarget != nil {
		n, err := e.client.NumTokens(ctx, *cfg.IssuanceTarget)
		if err != nil {
			return nil, fmt.Errorf("minter: query issued count: %w", err)
		}
		info.TotalIssued = n
	}
	return info, nil
}

// deliver hands msgs to the issuance client.
func (e *Engine) deliver(ctx context.Context, msgs []issuance.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if err := e.client.Deliver(ctx, msgs); err != nil {
		return fmt.Errorf("minter: deliver messages: %w", err)
	}
	return nil
}

// observe logs and counts one command outcome.
func (e *Engine) observe(command string, env Env, err error) {
	reason := Reason(err)
	e.metrics.ObserveRequest(command, reason)
	if err != nil {
		e.log.Debug("command rejected",
			slog.String("command", command),
			slog.String("caller", env.Caller),
			slog.String("reason", reason),
			slog.String("error", err.Error()))
		return
	}
	e.log.Info("command accepted",
		slog.String("command", command),
		slog.String("caller", env.Caller),
		slog.Uint64("height", env.Height))
}

// loadConfig loads the configuration, mapping a missing one to
// ErrPreconditionFailed.
func loadConfig(tx *store.Tx) (*store.Config, error) {
	cfg, err := tx.Config()
	if errors.Is(err, store.ErrConfigNotFound) {
		return nil, fmt.Errorf("%w: not initialized", ErrPreconditionFailed)
	}
	return cfg, err
}

// parsePrice parses a decimal price.
func parsePrice(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: price is empty", ErrInvalidRequest)
	}
	p, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: price %q: %w", ErrInvalidRequest, s, err)
	}
	return p, nil
}
