// Package store defines the durable key-value blob store used for chat history.
package store

import (
	"context"
	"time"
)

// Store is a JSON blob store scoped to a single namespace. It provides no
// locking across keys or callers; concurrent Set calls on a key are last-write-wins.
type Store interface {
	// Get decodes the record for key into dest. It reports false, and leaves
	// dest untouched, when no record exists.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set serializes value as JSON and overwrites the record for key.
	Set(ctx context.Context, key string, value any) error

	// Delete removes the record for key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// PurgeOlderThan removes records last written before cutoff and returns how many were removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Lifecycle
	Close() error
}
