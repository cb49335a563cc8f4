package checkpoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	// Pure-Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// SQL statements for checkpoint operations. The table holds exactly one
// row; the upsert makes Save an atomic swap under SQLite's transaction.
const (
	sqlLoadWatermark = `SELECT watermark FROM checkpoint WHERE id = 1`

	sqlSaveWatermark = `INSERT INTO checkpoint (id, watermark, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		 watermark = excluded.watermark,
		 updated_at = excluded.updated_at`
)

// SQLite persists the watermark in a single-row SQLite table. The database
// uses WAL mode with synchronous=FULL for crash-safe durability, which the
// plain file backend cannot provide.
type SQLite struct {
	db      *sql.DB
	logger  *slog.Logger
	nowFunc func() time.Time // injectable for deterministic tests
}

// NewSQLite opens the database at dbPath, runs migrations, and returns a
// ready-to-use store.
func NewSQLite(dbPath string, logger *slog.Logger) (*SQLite, error) {
	// DSN parameters ensure pragmas apply to every connection from the pool.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)&_pragma=busy_timeout(5000)",
		dbPath,
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: opening database %s: %w", dbPath, err)
	}

	// Sole-writer pattern: only one connection writes at a time.
	db.SetMaxOpenConns(1)

	if err := runMigrations(context.Background(), db, logger); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("checkpoint store initialized", slog.String("db_path", dbPath))

	return &SQLite{
		db:      db,
		logger:  logger,
		nowFunc: time.Now,
	}, nil
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load reads the saved watermark. An empty table yields 0.
func (s *SQLite) Load(ctx context.Context) (int64, error) {
	var watermark int64

	err := s.db.QueryRowContext(ctx, sqlLoadWatermark).Scan(&watermark)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Info("no checkpoint row, starting from zero")
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("checkpoint: loading watermark: %w", err)
	}

	s.logger.Info("loaded checkpoint", slog.Int64("watermark", watermark))

	return watermark, nil
}

// Save upserts the single checkpoint row.
func (s *SQLite) Save(ctx context.Context, watermark int64) error {
	updatedAt := s.nowFunc().UTC().Format(time.RFC3339)

	if _, err := s.db.ExecContext(ctx, sqlSaveWatermark, watermark, updatedAt); err != nil {
		return fmt.Errorf("checkpoint: saving watermark %d: %w", watermark, err)
	}

	s.logger.Info("saved checkpoint", slog.Int64("watermark", watermark))

	return nil
}

// Reset clears the watermark.
func (s *SQLite) Reset(ctx context.Context) error {
	return s.Save(ctx, 0)
}
