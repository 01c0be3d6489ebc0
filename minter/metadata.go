package minter

import (
	"strconv"

	"github.com/bitfsorg/libmint-go/draw"
	"github.com/bitfsorg/libmint-go/issuance"
)

// Issued item template.
const (
	ItemNamePrefix  = "Secret Snail #"
	PrivateCategory = "Stephen Hawking"
	SpeedAttribute  = "speed"

	mediaFileType  = "image"
	mediaExtension = "gif"
)

// newMint builds the batch entry for a drawn item owned by owner. Traits
// supplied with the item follow the templated ones.
func newMint(owner string, res *draw.Result) issuance.Mint {
	rec := res.Item
	name := ItemNamePrefix + rec.ID

	public := []issuance.Trait{
		{TraitType: "Wins", Value: "0"},
		{TraitType: "Loses", Value: "0"},
	}
	public = append(public, rec.PublicAttributes...)

	private := []issuance.Trait{{TraitType: "Category", Value: PrivateCategory}}
	private = append(private, rec.PrivateAttributes...)

	hidden := []issuance.HiddenAttribute{
		{Name: SpeedAttribute, Value: strconv.FormatUint(uint64(res.Secondary), 10)},
	}
	for _, t := range rec.HiddenAttributes {
		hidden = append(hidden, issuance.HiddenAttribute{Name: t.TraitType, Value: t.Value})
	}

	return issuance.Mint{
		TokenID:          rec.ID,
		Owner:            owner,
		PublicMetadata:   metadata(name, public, rec.ImageURL),
		PrivateMetadata:  metadata(name, private, rec.ImageURL),
		HiddenAttributes: hidden,
	}
}

func metadata(name string, traits []issuance.Trait, url string) *issuance.Metadata {
	return &issuance.Metadata{
		Extension: &issuance.Extension{
			Name:       name,
			Attributes: traits,
			Media: []issuance.MediaFile{{
				FileType:       mediaFileType,
				Extension:      mediaExtension,
				Authentication: &issuance.Authentication{},
				URL:            url,
			}},
		},
	}
}
