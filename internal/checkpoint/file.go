package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// filePerms restricts checkpoint files to owner read/write.
const filePerms = 0o600

// dirPerms is used when creating the checkpoint directory.
const dirPerms = 0o700

// File persists the watermark as a decimal integer in a text file,
// written via temp-file + rename so readers never observe a torn write.
// Suitable for a single worker on one machine; it is not shared-safe
// across workers and a crash between rename and fsync of the directory
// can lose the latest value. Use SQLite (or an external Store) when that
// matters.
type File struct {
	path   string
	logger *slog.Logger
}

// NewFile returns a file-backed Store at path.
func NewFile(path string, logger *slog.Logger) *File {
	return &File{path: path, logger: logger}
}

// Load reads the saved watermark. A missing file yields 0.
func (f *File) Load(_ context.Context) (int64, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.logger.Info("no checkpoint file, starting from zero", slog.String("path", f.path))
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("checkpoint: reading %s: %w", f.path, err)
	}

	watermark, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("checkpoint: parsing %s: %w", f.path, err)
	}

	f.logger.Info("loaded checkpoint", slog.Int64("watermark", watermark))

	return watermark, nil
}

// Save writes the watermark atomically: temp file in the same directory,
// then rename. Same directory guarantees same filesystem for rename(2).
func (f *File) Save(_ context.Context, watermark int64) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, dirPerms); err != nil {
		return fmt.Errorf("checkpoint: creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".checkpoint-*.tmp")
	if err != nil {
		return fmt.Errorf("checkpoint: creating temp file: %w", err)
	}

	tmpPath := tmp.Name()

	// Clean up the temp file on any error path.
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := os.Chmod(tmpPath, filePerms); err != nil {
		tmp.Close()
		return fmt.Errorf("checkpoint: setting permissions: %w", err)
	}

	if _, err := tmp.WriteString(strconv.FormatInt(watermark, 10)); err != nil {
		tmp.Close()
		return fmt.Errorf("checkpoint: writing: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("checkpoint: syncing: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("checkpoint: closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("checkpoint: renaming into place: %w", err)
	}

	success = true

	f.logger.Info("saved checkpoint", slog.Int64("watermark", watermark))

	return nil
}

// Reset clears the watermark.
func (f *File) Reset(ctx context.Context) error {
	return f.Save(ctx, 0)
}
