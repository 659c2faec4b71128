package ports

import "context"

// BlobStore is a remote key/value store used for cross-device sync of
// chapter state. Keys are produced by ChapterBlobKey / StoryBlobKey and
// are stable and reversible for listing and debugging.
type BlobStore interface {
	// Get returns the blob for key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores the blob under key, overwriting any previous value.
	Put(ctx context.Context, key string, blob []byte) error

	// Delete removes the blob for key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns all stored keys with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
