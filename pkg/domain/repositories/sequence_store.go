package repositories

import "context"

// SequenceStore issues monotonically increasing numbers per category key.
// Next must be atomic: no two callers ever receive the same number for a
// category, regardless of concurrency or backend.
type SequenceStore interface {
	Next(ctx context.Context, category string) (int64, error)
}
