package storage

import "context"

// Store is a flat blob namespace used to persist analysis snapshots
// across runs. Download returns (nil, nil) for a missing object so
// callers can distinguish "no snapshot yet" from a real failure.
type Store interface {
	// Upload writes an object, overwriting any previous version.
	Upload(ctx context.Context, path string, data []byte, contentType string) error

	// Download reads an object. Missing objects yield (nil, nil).
	Download(ctx context.Context, path string) ([]byte, error)

	// List returns the object paths under prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error

	Close() error
}
