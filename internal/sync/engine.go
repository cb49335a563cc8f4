// Package sync implements the replication core: one bidirectional pass
// between the search index and the column table, and the scheduler that
// drives passes once or forever.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tonimelisma/bridgesync/internal/checkpoint"
	"github.com/tonimelisma/bridgesync/internal/record"
	"github.com/tonimelisma/bridgesync/internal/store"
)

// Direction labels for logging.
const (
	dirIndexToTable = "elasticsearch -> cassandra"
	dirTableToIndex = "cassandra -> elasticsearch"
)

// EngineConfig holds the collaborators for NewEngine. Uses a struct
// because six fields is too many for positional parameters.
type EngineConfig struct {
	Checkpoints  checkpoint.Store
	IndexScanner store.Scanner     // search-index side reads
	IndexWriter  store.BatchWriter // search-index side writes (external versioning)
	TableScanner store.Scanner     // column-store side reads (no window pushdown)
	TableWriter  store.BatchWriter // column-store side writes (atomic, timestamped)
	BatchSize    int
	Logger       *slog.Logger
}

// DirectionReport summarizes one direction of a pass.
type DirectionReport struct {
	Batches         int
	Succeeded       int
	SkippedOrFailed int
}

// PassReport summarizes the result of a single sync pass.
type PassReport struct {
	Window       store.Window // zero for a full resync
	FullResync   bool
	IndexToTable DirectionReport
	TableToIndex DirectionReport
	Duration     time.Duration
}

// Engine orchestrates one full bidirectional pass: load watermark, capture
// the new watermark, replicate index→table, replicate table→index, save
// the new watermark. No state persists between passes except the
// checkpoint. Strictly sequential, blocking I/O, no internal parallelism;
// safety under concurrently running engine instances is an emergent
// property of each store's own conflict resolution (timestamp LWW on the
// table side, external versioning on the index side), not something this
// code enforces.
type Engine struct {
	checkpoints  checkpoint.Store
	indexScanner store.Scanner
	indexWriter  store.BatchWriter
	tableScanner store.Scanner
	tableWriter  store.BatchWriter
	batchSize    int
	logger       *slog.Logger
	nowFunc      func() time.Time // injectable for deterministic tests
}

// NewEngine creates an Engine from its collaborators.
func NewEngine(cfg *EngineConfig) *Engine {
	return &Engine{
		checkpoints:  cfg.Checkpoints,
		indexScanner: cfg.IndexScanner,
		indexWriter:  cfg.IndexWriter,
		tableScanner: cfg.TableScanner,
		tableWriter:  cfg.TableWriter,
		batchSize:    cfg.BatchSize,
		logger:       cfg.Logger,
		nowFunc:      time.Now,
	}
}

// Run executes a single pass:
//  1. Load last watermark; capture next watermark from the wall clock.
//  2. Replicate index → table (windowed scan pushed into the index query,
//     full scan on watermark 0).
//  3. Replicate table → index (full table scan, window applied
//     client-side).
//  4. Save the next watermark — only if both directions completed.
//
// The window is captured once at pass start, so writes arriving mid-pass
// are deferred to the next pass, never lost or duplicated. On any fault
// the checkpoint is left unchanged and the next pass redoes the same
// window; that reprocessing is safe because every write is idempotent and
// version-gated.
func (e *Engine) Run(ctx context.Context) (*PassReport, error) {
	start := time.Now()

	last, err := e.checkpoints.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync: loading checkpoint: %w", err)
	}

	next := e.nowFunc().Unix()

	var window store.Window
	if last != 0 {
		window = store.Window{From: last, To: next}
	}

	report := &PassReport{Window: window, FullResync: last == 0}

	e.logger.Info("sync pass starting",
		slog.Bool("full_resync", report.FullResync),
		slog.Int64("window_from", window.From),
		slog.Int64("window_to", window.To),
	)

	// The two directions are logically independent and commute; their
	// order only matters for log readability.
	report.IndexToTable, err = e.replicate(ctx, dirIndexToTable, e.indexScanner, e.tableWriter, window, false)
	if err != nil {
		return nil, err
	}

	report.TableToIndex, err = e.replicate(ctx, dirTableToIndex, e.tableScanner, e.indexWriter, window, true)
	if err != nil {
		return nil, err
	}

	if err := e.checkpoints.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("sync: saving checkpoint: %w", err)
	}

	report.Duration = time.Since(start)

	e.logger.Info("sync pass complete",
		slog.Duration("duration", report.Duration),
		slog.Int("index_to_table_succeeded", report.IndexToTable.Succeeded),
		slog.Int("table_to_index_succeeded", report.TableToIndex.Succeeded),
	)

	return report, nil
}

// replicate streams one direction: scan the source, accumulate batches of
// batchSize, flush each full batch and any trailing partial batch through
// the destination writer. clientFilter marks sources that cannot push the
// window into their query; their scan runs unbounded and records outside
// the window are discarded here, per record.
func (e *Engine) replicate(
	ctx context.Context, direction string, src store.Scanner, dst store.BatchWriter,
	window store.Window, clientFilter bool,
) (DirectionReport, error) {
	var rep DirectionReport

	batch := make([]record.Record, 0, e.batchSize)

	flush := func() error {
		succeeded, skipped, err := dst.WriteBatch(ctx, batch)
		if err != nil {
			return fmt.Errorf("sync: %s: writing batch of %d: %w", direction, len(batch), err)
		}

		rep.Batches++
		rep.Succeeded += succeeded
		rep.SkippedOrFailed += skipped

		e.logger.Info("batch flushed",
			slog.String("direction", direction),
			slog.Int("succeeded", succeeded),
			slog.Int("skipped_or_failed", skipped),
		)

		batch = batch[:0]

		return nil
	}

	scanWindow := window
	if clientFilter {
		scanWindow = store.Window{}
	}

	// Scanner and flush errors are already wrapped at their source; the
	// callback's error propagates through Scan unwrapped.
	err := src.Scan(ctx, scanWindow, func(rec record.Record) error {
		if clientFilter && !window.Contains(rec.Version) {
			return nil
		}

		batch = append(batch, rec)
		if len(batch) >= e.batchSize {
			return flush()
		}

		return nil
	})
	if err != nil {
		return rep, err
	}

	if len(batch) > 0 {
		if err := flush(); err != nil {
			return rep, err
		}
	}

	return rep, nil
}
