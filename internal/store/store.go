// Package store persists per-user record files. The unit of exchange is a
// whole snapshot: callers fetch every line, transform, and replace the file
// in one call. Lines carry no structure at this layer.
package store

import "context"

// RecordStore is the snapshot protocol for a user's record file.
type RecordStore interface {
	// Fetch returns every line of the user's file in stored order. A user
	// with no file yet gets an empty slice, not an error.
	Fetch(ctx context.Context, userID string) ([]string, error)

	// Replace atomically overwrites the user's file with the given lines.
	Replace(ctx context.Context, userID string, lines []string) error
}
