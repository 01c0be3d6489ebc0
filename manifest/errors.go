package manifest

import "errors"

var (
	// ErrInvalidManifest indicates a manifest that decodes but fails validation.
	ErrInvalidManifest = errors.New("manifest: invalid manifest")

	// ErrDuplicateItem indicates two items with the same id in one batch.
	ErrDuplicateItem = errors.New("manifest: duplicate item id")
)
