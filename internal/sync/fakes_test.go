package sync

import (
	"context"
	"log/slog"
	"sort"
	"testing"

	"github.com/tonimelisma/bridgesync/internal/record"
	"github.com/tonimelisma/bridgesync/internal/store"
)

// testLogger returns a debug-level logger that writes to t.Log.
func testLogger(t *testing.T) *slog.Logger {
	t.Helper()

	return slog.New(slog.NewTextHandler(&testLogWriter{t: t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct {
	t *testing.T
}

func (w *testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))

	return len(p), nil
}

// sortedRecords returns the store's records in id order for deterministic
// scans.
func sortedRecords(recs map[string]record.Record) []record.Record {
	ids := make([]string, 0, len(recs))
	for id := range recs {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	out := make([]record.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, recs[id])
	}

	return out
}

// memIndex models the search index: window pushdown on scans, external
// versioning on writes (replace only if strictly newer, else skip).
type memIndex struct {
	recs       map[string]record.Record
	writeCalls int
	scanErr    error
	writeErr   error
}

func newMemIndex() *memIndex {
	return &memIndex{recs: make(map[string]record.Record)}
}

func (m *memIndex) Scan(_ context.Context, w store.Window, fn func(record.Record) error) error {
	if m.scanErr != nil {
		return m.scanErr
	}

	for _, rec := range sortedRecords(m.recs) {
		if !w.Contains(rec.Version) {
			continue
		}

		if err := fn(rec); err != nil {
			return err
		}
	}

	return nil
}

func (m *memIndex) WriteBatch(_ context.Context, recs []record.Record) (int, int, error) {
	if m.writeErr != nil {
		return 0, 0, m.writeErr
	}

	m.writeCalls++

	succeeded, skipped := 0, 0

	for _, rec := range recs {
		if existing, ok := m.recs[rec.ID]; ok && existing.Version >= rec.Version {
			skipped++
			continue
		}

		m.recs[rec.ID] = rec
		succeeded++
	}

	return succeeded, skipped, nil
}

// memTable models the column store: full scans only (no window pushdown),
// atomic all-or-nothing batches, cell-level LWW by write timestamp. Like
// the real store, it cannot distinguish an applied write from one
// superseded by a newer timestamp, so every record in a successful batch
// counts as succeeded.
type memTable struct {
	recs        map[string]record.Record
	writeCalls  int
	failBatches bool // atomic batch failure: whole batch reported failed
	scanErr     error
}

func newMemTable() *memTable {
	return &memTable{recs: make(map[string]record.Record)}
}

func (m *memTable) Scan(_ context.Context, _ store.Window, fn func(record.Record) error) error {
	if m.scanErr != nil {
		return m.scanErr
	}

	for _, rec := range sortedRecords(m.recs) {
		if err := fn(rec); err != nil {
			return err
		}
	}

	return nil
}

func (m *memTable) WriteBatch(_ context.Context, recs []record.Record) (int, int, error) {
	m.writeCalls++

	if m.failBatches {
		return 0, len(recs), nil
	}

	for _, rec := range recs {
		if existing, ok := m.recs[rec.ID]; ok && existing.Version >= rec.Version {
			continue // older timestamp, superseded by the stored cell
		}

		m.recs[rec.ID] = rec
	}

	return len(recs), 0, nil
}

// memCheckpoint records every save for monotonicity assertions.
type memCheckpoint struct {
	watermark int64
	saves     []int64
}

func (m *memCheckpoint) Load(context.Context) (int64, error) {
	return m.watermark, nil
}

func (m *memCheckpoint) Save(_ context.Context, watermark int64) error {
	m.watermark = watermark
	m.saves = append(m.saves, watermark)

	return nil
}

func (m *memCheckpoint) Reset(ctx context.Context) error {
	return m.Save(ctx, 0)
}
