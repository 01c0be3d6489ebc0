package store

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketMeta      = []byte("meta")
	bucketItems     = []byte("items")
	bucketAllowList = []byte("allowlist")
	bucketReceipts  = []byte("receipts")

	keyConfig   = []byte("config")
	keySeed     = []byte("prngseed")
	keyCounters = []byte("count")
)

// allow-list values, one byte each.
const (
	allowUnused byte = 0x00
	allowUsed   byte = 0x01
)

// Store wraps a bbolt database holding the minter state.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketItems, bucketAllowList, bucketReceipts} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("store: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Update runs fn in a read-write transaction. Every write made by fn is
// discarded if fn returns an error.
func (s *Store) Update(fn func(*Tx) error) error {
	return s.db.Update(func(btx *bbolt.Tx) error {
		return fn(&Tx{tx: btx})
	})
}

// View runs fn in a read-only transaction.
func (s *Store) View(fn func(*Tx) error) error {
	return s.db.View(func(btx *bbolt.Tx) error {
		return fn(&Tx{tx: btx})
	})
}

// slotKey encodes a slot as a 4-byte big-endian key for sorted storage.
func slotKey(slot uint32) []byte {
	k := make([]byte, 4)
	binary.BigEndian.PutUint32(k, slot)
	return k
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// ---------------------------------------------------------------------------
// Tx exposes typed accessors over one bbolt transaction.
// ---------------------------------------------------------------------------

// Tx is a view of the minter state inside a single transaction. It must not
// be used after the Update or View callback returns.
type Tx struct {
	tx *bbolt.Tx
}

// Initialized reports whether a config has been stored.
func (t *Tx) Initialized() bool {
	return t.tx.Bucket(bucketMeta).Get(keyConfig) != nil
}

// Config loads the sale configuration.
func (t *Tx) Config() (*Config, error) {
	data := t.tx.Bucket(bucketMeta).Get(keyConfig)
	if data == nil {
		return nil, ErrConfigNotFound
	}
	var cfg Config
	if err := decodeGob(data, &cfg); err != nil {
		return nil, fmt.Errorf("store: decode config: %w", err)
	}
	return &cfg, nil
}

// PutConfig stores the sale configuration.
func (t *Tx) PutConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config", ErrNilParam)
	}
	data, err := encodeGob(cfg)
	if err != nil {
		return fmt.Errorf("store: encode config: %w", err)
	}
	if err := t.tx.Bucket(bucketMeta).Put(keyConfig, data); err != nil {
		return fmt.Errorf("store: put config: %w", err)
	}
	return nil
}

// Seed loads the persistent draw secret.
func (t *Tx) Seed() ([32]byte, error) {
	var seed [32]byte
	data := t.tx.Bucket(bucketMeta).Get(keySeed)
	if data == nil {
		return seed, ErrSeedNotFound
	}
	if len(data) != len(seed) {
		return seed, fmt.Errorf("%w: seed is %d bytes", ErrCorrupt, len(data))
	}
	copy(seed[:], data)
	return seed, nil
}

// PutSeed stores the persistent draw secret.
func (t *Tx) PutSeed(seed [32]byte) error {
	if err := t.tx.Bucket(bucketMeta).Put(keySeed, seed[:]); err != nil {
		return fmt.Errorf("store: put seed: %w", err)
	}
	return nil
}

// Counters loads the inventory counters.
func (t *Tx) Counters() (Counters, error) {
	var c Counters
	data := t.tx.Bucket(bucketMeta).Get(keyCounters)
	if data == nil {
		return c, ErrCountersNotFound
	}
	if len(data) != 8 {
		return c, fmt.Errorf("%w: counters are %d bytes", ErrCorrupt, len(data))
	}
	c.TotalLoaded = binary.BigEndian.Uint32(data[0:4])
	c.Remaining = binary.BigEndian.Uint32(data[4:8])
	return c, nil
}

// PutCounters stores the inventory counters.
func (t *Tx) PutCounters(c Counters) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], c.TotalLoaded)
	binary.BigEndian.PutUint32(buf[4:8], c.Remaining)
	if err := t.tx.Bucket(bucketMeta).Put(keyCounters, buf); err != nil {
		return fmt.Errorf("store: put counters: %w", err)
	}
	return nil
}

// Item loads the record at slot.
func (t *Tx) Item(slot uint32) (*ItemRecord, error) {
	if slot == 0 {
		return nil, ErrInvalidSlot
	}
	data := t.tx.Bucket(bucketItems).Get(slotKey(slot))
	if data == nil {
		return nil, fmt.Errorf("%w: slot %d", ErrItemNotFound, slot)
	}
	var rec ItemRecord
	if err := decodeGob(data, &rec); err != nil {
		return nil, fmt.Errorf("store: decode item %d: %w", slot, err)
	}
	return &rec, nil
}

// PutItem stores rec at slot, overwriting whatever was there.
func (t *Tx) PutItem(slot uint32, rec *ItemRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: item record", ErrNilParam)
	}
	if slot == 0 {
		return ErrInvalidSlot
	}
	data, err := encodeGob(rec)
	if err != nil {
		return fmt.Errorf("store: encode item: %w", err)
	}
	if err := t.tx.Bucket(bucketItems).Put(slotKey(slot), data); err != nil {
		return fmt.Errorf("store: put item %d: %w", slot, err)
	}
	return nil
}

// Remaining returns the number of undrawn items.
func (t *Tx) Remaining() (uint32, error) {
	c, err := t.Counters()
	if err != nil {
		return 0, err
	}
	return c.Remaining, nil
}

// SetRemaining updates the undrawn item count, leaving TotalLoaded untouched.
func (t *Tx) SetRemaining(n uint32) error {
	c, err := t.Counters()
	if err != nil {
		return err
	}
	c.Remaining = n
	return t.PutCounters(c)
}

// AllowState returns the allow-list status of identity.
func (t *Tx) AllowState(identity string) (AllowState, error) {
	data := t.tx.Bucket(bucketAllowList).Get([]byte(identity))
	switch {
	case data == nil:
		return AllowUnlisted, nil
	case len(data) == 1 && data[0] == allowUnused:
		return AllowEligibleUnused, nil
	case len(data) == 1 && data[0] == allowUsed:
		return AllowEligibleUsed, nil
	default:
		return AllowUnlisted, fmt.Errorf("%w: allow-list entry for %q", ErrCorrupt, identity)
	}
}

// AddAllowed lists identity as eligible and unused.
func (t *Tx) AddAllowed(identity string) error {
	if err := t.tx.Bucket(bucketAllowList).Put([]byte(identity), []byte{allowUnused}); err != nil {
		return fmt.Errorf("store: put allow-list entry: %w", err)
	}
	return nil
}

// MarkUsed moves a listed identity to eligible-used.
func (t *Tx) MarkUsed(identity string) error {
	b := t.tx.Bucket(bucketAllowList)
	if b.Get([]byte(identity)) == nil {
		return fmt.Errorf("%w: %s", ErrNotListed, identity)
	}
	if err := b.Put([]byte(identity), []byte{allowUsed}); err != nil {
		return fmt.Errorf("store: mark allow-list entry used: %w", err)
	}
	return nil
}

// HasReceipt reports whether txID already settled an allocation.
func (t *Tx) HasReceipt(txID string) bool {
	return t.tx.Bucket(bucketReceipts).Get([]byte(txID)) != nil
}

// PutReceipt stores r. Returns ErrDuplicateReceipt if the TxID already exists.
func (t *Tx) PutReceipt(r *Receipt) error {
	if r == nil {
		return fmt.Errorf("%w: receipt", ErrNilParam)
	}
	b := t.tx.Bucket(bucketReceipts)
	if b.Get([]byte(r.TxID)) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateReceipt, r.TxID)
	}
	data, err := encodeGob(r)
	if err != nil {
		return fmt.Errorf("store: encode receipt: %w", err)
	}
	if err := b.Put([]byte(r.TxID), data); err != nil {
		return fmt.Errorf("store: put receipt: %w", err)
	}
	return nil
}

// Receipt loads the receipt of txID.
func (t *Tx) Receipt(txID string) (*Receipt, error) {
	data := t.tx.Bucket(bucketReceipts).Get([]byte(txID))
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrReceiptNotFound, txID)
	}
	var r Receipt
	if err := decodeGob(data, &r); err != nil {
		return nil, fmt.Errorf("store: decode receipt: %w", err)
	}
	return &r, nil
}
