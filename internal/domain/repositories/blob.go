package repositories

import (
	"context"
)

// BlobRepository is a key-value blob store holding the serialized document
// collection under a single well-known key. Implementations must make Save
// atomic: a reader never observes a partially written blob.
type BlobRepository interface {
	// Load returns the blob stored under key, or (nil, false, nil) if the
	// key has never been written.
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Save replaces the blob stored under key.
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
