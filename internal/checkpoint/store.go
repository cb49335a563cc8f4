// Package checkpoint persists the sync watermark: a single non-negative
// integer recording the upper bound of record versions already
// synchronized. A watermark of 0 means no checkpoint exists and the next
// pass performs a full resync.
//
// The Store interface is deliberately small so deployments can slot in a
// linearizable external store (etcd, a SQL database shared by workers)
// behind the same contract. The bundled backends are File, which matches
// the single-worker reference behavior, and SQLite, which is crash-safe
// on one machine. Neither coordinates multiple workers.
package checkpoint

import "context"

// Store loads and saves the watermark for one sync worker.
type Store interface {
	// Load returns the last saved watermark, or 0 if none has been saved
	// yet. A missing checkpoint is a valid initial state, not an error.
	Load(ctx context.Context) (int64, error)

	// Save durably overwrites the stored watermark. The write is an
	// atomic swap: a concurrent reader sees either the old or the new
	// value, never a partial one.
	Save(ctx context.Context, watermark int64) error

	// Reset clears the watermark, forcing a full resync on the next pass.
	// Equivalent to Save(ctx, 0).
	Reset(ctx context.Context) error
}
