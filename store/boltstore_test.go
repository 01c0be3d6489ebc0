package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libmint-go/issuance"
	"github.com/bitfsorg/libmint-go/revshare"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testItem(id string) *ItemRecord {
	return &ItemRecord{
		ID:               id,
		ImageURL:         "https://example.com/" + id + ".gif",
		PublicAttributes: []issuance.Trait{{TraitType: "Shell", Value: "Spiral"}},
	}
}

// ---------------------------------------------------------------------------
// Config and seed
// ---------------------------------------------------------------------------

func TestConfig_RoundTrip(t *testing.T) {
	s := tempStore(t)

	cfg := &Config{
		Admin:            "admin",
		PaymentAsset:     issuance.Contract{Address: "asset", CodeHash: "asset-hash"},
		IssuanceTarget:   &issuance.Contract{Address: "nft", CodeHash: "nft-hash"},
		Price:            *uint256.NewInt(1_000_000),
		MaxPerRequest:    5,
		AllowListEnabled: true,
		RevenueShares:    []revshare.Entry{{Address: "team", Weight: revshare.WeightScale}},
		MetadataEditors:  []string{"editor"},
	}

	require.NoError(t, s.View(func(tx *Tx) error {
		assert.False(t, tx.Initialized())
		_, err := tx.Config()
		assert.ErrorIs(t, err, ErrConfigNotFound)
		return nil
	}))

	require.NoError(t, s.Update(func(tx *Tx) error { return tx.PutConfig(cfg) }))

	require.NoError(t, s.View(func(tx *Tx) error {
		assert.True(t, tx.Initialized())
		got, err := tx.Config()
		require.NoError(t, err)
		assert.Equal(t, cfg.Admin, got.Admin)
		assert.Equal(t, cfg.PaymentAsset, got.PaymentAsset)
		require.NotNil(t, got.IssuanceTarget)
		assert.Equal(t, *cfg.IssuanceTarget, *got.IssuanceTarget)
		assert.True(t, cfg.Price.Eq(&got.Price), "price %s", got.Price.Dec())
		assert.Equal(t, cfg.MaxPerRequest, got.MaxPerRequest)
		assert.True(t, got.AllowListEnabled)
		assert.False(t, got.PublicEnabled)
		assert.True(t, got.MintingEnabled())
		assert.Equal(t, cfg.RevenueShares, got.RevenueShares)
		assert.Equal(t, cfg.MetadataEditors, got.MetadataEditors)
		return nil
	}))
}

func TestConfig_NilTargetSurvives(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Update(func(tx *Tx) error { return tx.PutConfig(&Config{Admin: "a"}) }))
	require.NoError(t, s.View(func(tx *Tx) error {
		got, err := tx.Config()
		require.NoError(t, err)
		assert.Nil(t, got.IssuanceTarget)
		assert.True(t, got.Price.IsZero())
		assert.False(t, got.MintingEnabled())
		return nil
	}))
}

func TestPutConfig_Nil(t *testing.T) {
	s := tempStore(t)
	err := s.Update(func(tx *Tx) error { return tx.PutConfig(nil) })
	assert.ErrorIs(t, err, ErrNilParam)
}

func TestSeed_RoundTrip(t *testing.T) {
	s := tempStore(t)
	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i)
	}

	require.NoError(t, s.View(func(tx *Tx) error {
		_, err := tx.Seed()
		assert.ErrorIs(t, err, ErrSeedNotFound)
		return nil
	}))
	require.NoError(t, s.Update(func(tx *Tx) error { return tx.PutSeed(seed) }))
	require.NoError(t, s.View(func(tx *Tx) error {
		got, err := tx.Seed()
		require.NoError(t, err)
		assert.Equal(t, seed, got)
		return nil
	}))
}

// ---------------------------------------------------------------------------
// Inventory
// ---------------------------------------------------------------------------

func TestCounters_RoundTrip(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.View(func(tx *Tx) error {
		_, err := tx.Counters()
		assert.ErrorIs(t, err, ErrCountersNotFound)
		return nil
	}))

	require.NoError(t, s.Update(func(tx *Tx) error {
		return tx.PutCounters(Counters{TotalLoaded: 10, Remaining: 10})
	}))
	require.NoError(t, s.Update(func(tx *Tx) error { return tx.SetRemaining(7) }))

	require.NoError(t, s.View(func(tx *Tx) error {
		c, err := tx.Counters()
		require.NoError(t, err)
		assert.Equal(t, Counters{TotalLoaded: 10, Remaining: 7}, c)
		assert.True(t, c.Drawn())
		n, err := tx.Remaining()
		require.NoError(t, err)
		assert.Equal(t, uint32(7), n)
		return nil
	}))
}

func TestItem_PutGetOverwrite(t *testing.T) {
	s := tempStore(t)

	require.NoError(t, s.Update(func(tx *Tx) error {
		require.NoError(t, tx.PutItem(1, testItem("1")))
		require.NoError(t, tx.PutItem(2, testItem("2")))
		return tx.PutItem(1, testItem("2"))
	}))

	require.NoError(t, s.View(func(tx *Tx) error {
		got, err := tx.Item(1)
		require.NoError(t, err)
		assert.Equal(t, testItem("2"), got)

		_, err = tx.Item(3)
		assert.ErrorIs(t, err, ErrItemNotFound)

		_, err = tx.Item(0)
		assert.ErrorIs(t, err, ErrInvalidSlot)
		return nil
	}))
}

func TestItem_InvalidPut(t *testing.T) {
	s := tempStore(t)
	assert.ErrorIs(t, s.Update(func(tx *Tx) error { return tx.PutItem(0, testItem("x")) }), ErrInvalidSlot)
	assert.ErrorIs(t, s.Update(func(tx *Tx) error { return tx.PutItem(1, nil) }), ErrNilParam)
}

// ---------------------------------------------------------------------------
// Allow-list
// ---------------------------------------------------------------------------

func TestAllowList_Transitions(t *testing.T) {
	s := tempStore(t)

	require.NoError(t, s.Update(func(tx *Tx) error {
		st, err := tx.AllowState("alice")
		require.NoError(t, err)
		assert.Equal(t, AllowUnlisted, st)

		require.NoError(t, tx.AddAllowed("alice"))
		st, err = tx.AllowState("alice")
		require.NoError(t, err)
		assert.Equal(t, AllowEligibleUnused, st)

		require.NoError(t, tx.MarkUsed("alice"))
		st, err = tx.AllowState("alice")
		require.NoError(t, err)
		assert.Equal(t, AllowEligibleUsed, st)
		return nil
	}))
}

func TestAllowList_MarkUsedUnlisted(t *testing.T) {
	s := tempStore(t)
	err := s.Update(func(tx *Tx) error { return tx.MarkUsed("mallory") })
	assert.ErrorIs(t, err, ErrNotListed)
}

func TestAllowState_String(t *testing.T) {
	assert.Equal(t, "unlisted", AllowUnlisted.String())
	assert.Equal(t, "eligible-unused", AllowEligibleUnused.String())
	assert.Equal(t, "eligible-used", AllowEligibleUsed.String())
	assert.Equal(t, "unknown", AllowState(9).String())
}

// ---------------------------------------------------------------------------
// Receipts
// ---------------------------------------------------------------------------

func TestReceipt_Duplicate(t *testing.T) {
	s := tempStore(t)
	r := &Receipt{TxID: "abcd", Requester: "alice", Amount: "30", Height: 9}

	require.NoError(t, s.Update(func(tx *Tx) error { return tx.PutReceipt(r) }))
	err := s.Update(func(tx *Tx) error { return tx.PutReceipt(r) })
	assert.ErrorIs(t, err, ErrDuplicateReceipt)

	require.NoError(t, s.View(func(tx *Tx) error {
		assert.True(t, tx.HasReceipt("abcd"))
		assert.False(t, tx.HasReceipt("ffff"))
		got, err := tx.Receipt("abcd")
		require.NoError(t, err)
		assert.Equal(t, r, got)
		_, err = tx.Receipt("ffff")
		assert.ErrorIs(t, err, ErrReceiptNotFound)
		return nil
	}))
}

// ---------------------------------------------------------------------------
// Transactions
// ---------------------------------------------------------------------------

func TestUpdate_RollsBackOnError(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Update(func(tx *Tx) error {
		if err := tx.PutCounters(Counters{TotalLoaded: 2, Remaining: 2}); err != nil {
			return err
		}
		if err := tx.PutItem(1, testItem("1")); err != nil {
			return err
		}
		return tx.PutItem(2, testItem("2"))
	}))

	boom := errors.New("boom")
	err := s.Update(func(tx *Tx) error {
		require.NoError(t, tx.PutItem(1, testItem("2")))
		require.NoError(t, tx.SetRemaining(1))
		require.NoError(t, tx.AddAllowed("alice"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, s.View(func(tx *Tx) error {
		c, err := tx.Counters()
		require.NoError(t, err)
		assert.Equal(t, uint32(2), c.Remaining)
		got, err := tx.Item(1)
		require.NoError(t, err)
		assert.Equal(t, "1", got.ID)
		st, err := tx.AllowState("alice")
		require.NoError(t, err)
		assert.Equal(t, AllowUnlisted, st)
		return nil
	}))
}

func TestView_RejectsWrites(t *testing.T) {
	s := tempStore(t)
	err := s.View(func(tx *Tx) error { return tx.PutItem(1, testItem("1")) })
	assert.Error(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mint.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Update(func(tx *Tx) error { return tx.AddAllowed("alice") }))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.View(func(tx *Tx) error {
		st, err := tx.AllowState("alice")
		require.NoError(t, err)
		assert.Equal(t, AllowEligibleUnused, st)
		return nil
	}))
}
