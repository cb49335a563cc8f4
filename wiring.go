package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tonimelisma/bridgesync/internal/checkpoint"
	"github.com/tonimelisma/bridgesync/internal/config"
	"github.com/tonimelisma/bridgesync/internal/store/cassandra"
	"github.com/tonimelisma/bridgesync/internal/store/elastic"
	"github.com/tonimelisma/bridgesync/internal/sync"
)

// newCheckpointStore builds the configured checkpoint backend. The
// returned closer is a no-op for the file backend.
func newCheckpointStore(cfg config.CheckpointConfig, logger *slog.Logger) (checkpoint.Store, func() error, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return checkpoint.NewFile(cfg.Path, logger), func() error { return nil }, nil

	case config.BackendSQLite:
		s, err := checkpoint.NewSQLite(cfg.Path, logger)
		if err != nil {
			return nil, nil, err
		}

		return s, s.Close, nil

	default:
		// Unreachable after config validation; kept for defense in depth
		// against programmatic construction.
		return nil, nil, fmt.Errorf("unknown checkpoint backend %q", cfg.Backend)
	}
}

// buildScheduler wires stores, checkpoint, engine, and scheduler from a
// validated config. The returned closer releases every connection.
func buildScheduler(cfg *config.Config, logger *slog.Logger) (*sync.Scheduler, func() error, error) {
	checkpoints, closeCheckpoint, err := newCheckpointStore(cfg.Checkpoint, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Cassandra.ChangesTable != "" {
		// Reserved for incremental change-log sync; parsed but unused.
		logger.Info("changes_table configured but incremental sync is not implemented",
			slog.String("changes_table", cfg.Cassandra.ChangesTable),
		)
	}

	table, err := cassandra.New(cassandra.Options{
		Hosts:        cfg.Cassandra.Hosts,
		Keyspace:     cfg.Cassandra.Keyspace,
		Table:        cfg.Cassandra.Table,
		IDField:      cfg.IDField,
		VersionField: cfg.VersionField,
		SyncFields:   cfg.SyncFields,
		Logger:       logger,
	})
	if err != nil {
		_ = closeCheckpoint()
		return nil, nil, err
	}

	index, err := elastic.New(elastic.Options{
		Hosts:        cfg.Elasticsearch.Hosts,
		Index:        cfg.Elasticsearch.Index,
		IDField:      cfg.IDField,
		VersionField: cfg.VersionField,
		SyncFields:   cfg.SyncFields,
		Logger:       logger,
	})
	if err != nil {
		table.Close()
		_ = closeCheckpoint()
		return nil, nil, err
	}

	engine := sync.NewEngine(&sync.EngineConfig{
		Checkpoints:  checkpoints,
		IndexScanner: index,
		IndexWriter:  index,
		TableScanner: table,
		TableWriter:  table,
		BatchSize:    cfg.BatchSize,
		Logger:       logger,
	})

	interval := time.Duration(cfg.IntervalSeconds) * time.Second
	scheduler := sync.NewScheduler(engine, interval, logger)

	closer := func() error {
		table.Close()
		return closeCheckpoint()
	}

	return scheduler, closer, nil
}
