package driven

import "context"

// KeyValueStore persists string values under string keys.
// The catalogue stores its whole serialised list under one key.
type KeyValueStore interface {
	// Get retrieves the value stored under key.
	// Returns domain.ErrNotFound if nothing has been stored yet.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
