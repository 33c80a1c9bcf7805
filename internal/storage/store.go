package storage

import "context"

// Store is the persistence adapter: a per-user key-value document store. The
// engine serializes its whole state as one JSON document and is agnostic to
// the medium behind this interface.
type Store interface {
	// Load returns the stored document for the user, or (nil, nil) when no
	// document exists yet.
	Load(ctx context.Context, userKey string) ([]byte, error)
	Save(ctx context.Context, userKey string, doc []byte) error
	Delete(ctx context.Context, userKey string) error
	Close() error
}
