// Package store defines the narrow collaborator contracts the sync engine
// needs from each data store: a windowed scanner and a conflict-resolved
// batch writer. The engine never sees driver types; the cassandra and
// elastic subpackages adapt the real clients to these interfaces.
package store

import (
	"context"

	"github.com/tonimelisma/bridgesync/internal/record"
)

// Window is an inclusive version interval [From, To]. The zero value
// means unbounded: scan everything, match everything.
type Window struct {
	From int64
	To   int64
}

// IsZero reports whether the window is unbounded.
func (w Window) IsZero() bool {
	return w.From == 0 && w.To == 0
}

// Contains reports whether a version falls inside the window. An
// unbounded window contains every version.
func (w Window) Contains(version int64) bool {
	if w.IsZero() {
		return true
	}

	return version >= w.From && version <= w.To
}

// Scanner produces a lazy, finite sequence of records, optionally
// filtered to a version window. Implementations push the window into
// the store's query engine when it supports range predicates; otherwise
// they must document that the window is ignored and the caller filters
// client-side.
//
// fn is invoked once per record; a non-nil return stops the scan and is
// propagated unwrapped. A scanner never yields the same record twice
// within one call.
type Scanner interface {
	Scan(ctx context.Context, w Window, fn func(record.Record) error) error
}

// BatchWriter applies a batch of records using the store's native
// conflict-resolution primitive. When err is nil, succeeded + skipped
// equals len(recs): records superseded by a newer stored version are
// counted as skipped, never returned as errors. A non-nil error is a
// pass-level fault and the counts are meaningless.
type BatchWriter interface {
	WriteBatch(ctx context.Context, recs []record.Record) (succeeded, skipped int, err error)
}
