package minter

import (
	"context"
	"fmt"
	"math"

	"github.com/bitfsorg/libmint-go/issuance"
	"github.com/bitfsorg/libmint-go/store"
)

// adminUpdate runs fn in a write transaction after checking that the caller
// is the administrator.
func (e *Engine) adminUpdate(env Env, fn func(tx *store.Tx, cfg *store.Config) error) error {
	return e.store.Update(func(tx *store.Tx) error {
		cfg, err := loadConfig(tx)
		if err != nil {
			return err
		}
		if env.Caller == "" || env.Caller != cfg.Admin {
			return fmt.Errorf("%w: %q is not the administrator", ErrUnauthorized, env.Caller)
		}
		return fn(tx, cfg)
	})
}

// UpdateSaleMode overwrites both sale-mode flags and, when present, the price
// and the per-request maximum.
func (e *Engine) UpdateSaleMode(_ context.Context, env Env, msg *UpdateMintMsg) error {
	if msg == nil {
		return fmt.Errorf("%w: nil update_mint message", ErrInvalidRequest)
	}
	return e.adminUpdate(env, func(tx *store.Tx, cfg *store.Config) error {
		cfg.AllowListEnabled = msg.AllowListEnabled
		cfg.PublicEnabled = msg.PublicEnabled
		if msg.Price != nil {
			cfg.Price = *msg.Price
		}
		if msg.MaxPerRequest != nil {
			cfg.MaxPerRequest = *msg.MaxPerRequest
		}
		return tx.PutConfig(cfg)
	})
}

// SetIssuanceTarget assigns the issuance component. The target is locked
// while either sale mode is on.
func (e *Engine) SetIssuanceTarget(_ context.Context, env Env, target issuance.Contract) error {
	if target.Address == "" {
		return fmt.Errorf("%w: issuance target address is empty", ErrInvalidRequest)
	}
	return e.adminUpdate(env, func(tx *store.Tx, cfg *store.Config) error {
		if cfg.MintingEnabled() {
			return fmt.Errorf("%w: disable minting before changing the issuance target", ErrPreconditionFailed)
		}
		cfg.IssuanceTarget = &target
		return tx.PutConfig(cfg)
	})
}

// ChangeAdministrator replaces the administrator.
func (e *Engine) ChangeAdministrator(_ context.Context, env Env, admin string) error {
	if admin == "" {
		return fmt.Errorf("%w: administrator is empty", ErrInvalidRequest)
	}
	return e.adminUpdate(env, func(tx *store.Tx, cfg *store.Config) error {
		cfg.Admin = admin
		return tx.PutConfig(cfg)
	})
}

// UpdateMetadataEditors replaces the metadata-edit permission list.
func (e *Engine) UpdateMetadataEditors(_ context.Context, env Env, editors []string) error {
	return e.adminUpdate(env, func(tx *store.Tx, cfg *store.Config) error {
		cfg.MetadataEditors = append([]string(nil), editors...)
		return tx.PutConfig(cfg)
	})
}

// PreloadItems appends items to the inventory. It is rejected once any item
// has been drawn. An empty batch succeeds without changes.
func (e *Engine) PreloadItems(_ context.Context, env Env, items []store.ItemRecord) error {
	for i := range items {
		if items[i].ID == "" {
			return fmt.Errorf("%w: item %d has no id", ErrInvalidRequest, i)
		}
	}

	var remaining uint32
	err := e.adminUpdate(env, func(tx *store.Tx, _ *store.Config) error {
		if len(items) == 0 {
			return nil
		}
		c, err := tx.Counters()
		if err != nil {
			return err
		}
		if c.Drawn() {
			return fmt.Errorf("%w: items have already been drawn", ErrPreconditionFailed)
		}
		if uint64(c.TotalLoaded)+uint64(len(items)) > math.MaxUint32 {
			return fmt.Errorf("%w: inventory too large", ErrInvalidRequest)
		}
		for i := range items {
			c.TotalLoaded++
			c.Remaining++
			if err := tx.PutItem(c.TotalLoaded, &items[i]); err != nil {
				return err
			}
		}
		remaining = c.Remaining
		return tx.PutCounters(c)
	})
	if err != nil {
		return err
	}
	if len(items) > 0 {
		e.metrics.SetRemaining(remaining)
	}
	return nil
}
