// Package manifest loads minter init parameters and item batches from YAML
// files.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bitfsorg/libmint-go/minter"
	"github.com/bitfsorg/libmint-go/revshare"
	"github.com/bitfsorg/libmint-go/store"
)

// itemsFile mirrors the YAML layout of an item batch.
type itemsFile struct {
	Items []store.ItemRecord `yaml:"items"`
}

// LoadInit reads init parameters from the YAML file at path.
func LoadInit(path string) (*minter.InitMsg, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read init: %w", err)
	}
	return ParseInit(data)
}

// ParseInit decodes and validates init parameters. Unknown keys are rejected.
func ParseInit(data []byte) (*minter.InitMsg, error) {
	var msg minter.InitMsg
	if err := decodeStrict(data, &msg); err != nil {
		return nil, fmt.Errorf("manifest: decode init: %w", err)
	}
	msg.Admin = strings.TrimSpace(msg.Admin)
	msg.Price = strings.TrimSpace(msg.Price)

	if msg.PaymentAsset.Address == "" {
		return nil, fmt.Errorf("%w: token_contract.address required", ErrInvalidManifest)
	}
	if msg.Price == "" {
		return nil, fmt.Errorf("%w: mint_price required", ErrInvalidManifest)
	}
	if msg.MaxPerRequest == 0 {
		return nil, fmt.Errorf("%w: max_mint_per_tx must be positive", ErrInvalidManifest)
	}
	if err := revshare.ValidateEntries(msg.RevenueShares); err != nil {
		return nil, fmt.Errorf("%w: revenue_split: %w", ErrInvalidManifest, err)
	}
	return &msg, nil
}

// LoadItems reads an item batch from the YAML file at path.
func LoadItems(path string) ([]store.ItemRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: read items: %w", err)
	}
	return ParseItems(data)
}

// ParseItems decodes an item batch. Every item needs an id and an image URL,
// and ids must be unique within the batch.
func ParseItems(data []byte) ([]store.ItemRecord, error) {
	var f itemsFile
	if err := decodeStrict(data, &f); err != nil {
		return nil, fmt.Errorf("manifest: decode items: %w", err)
	}
	seen := make(map[string]struct{}, len(f.Items))
	for i := range f.Items {
		item := &f.Items[i]
		item.ID = strings.TrimSpace(item.ID)
		if item.ID == "" {
			return nil, fmt.Errorf("%w: item %d has no id", ErrInvalidManifest, i)
		}
		if strings.TrimSpace(item.ImageURL) == "" {
			return nil, fmt.Errorf("%w: item %s has no img_url", ErrInvalidManifest, item.ID)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateItem, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return f.Items, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
