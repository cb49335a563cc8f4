package cassandra

import (
	"testing"

	"github.com/tonimelisma/bridgesync/internal/record"
)

func TestBuildSelectAll(t *testing.T) {
	t.Parallel()

	got := buildSelectAll("docs", []string{"id", "version", "name", "body"})
	want := "SELECT id, version, name, body FROM docs"

	if got != want {
		t.Errorf("buildSelectAll = %q, want %q", got, want)
	}
}

func TestBuildInsertWithTS(t *testing.T) {
	t.Parallel()

	got := buildInsertWithTS("docs", []string{"id", "version", "name"})
	want := "INSERT INTO docs (id, version, name) VALUES (?, ?, ?) USING TIMESTAMP ?"

	if got != want {
		t.Errorf("buildInsertWithTS = %q, want %q", got, want)
	}
}

func TestVersionToMicros(t *testing.T) {
	t.Parallel()

	if got := versionToMicros(1700000000); got != 1700000000000000 {
		t.Errorf("versionToMicros(1700000000) = %d, want 1700000000000000", got)
	}

	if got := versionToMicros(0); got != 0 {
		t.Errorf("versionToMicros(0) = %d, want 0", got)
	}
}

func TestBindArgs_OrderAndTimestamp(t *testing.T) {
	t.Parallel()

	c := &Client{
		idField:      "id",
		versionField: "version",
		syncFields:   []string{"name", "body"},
	}

	rec := record.Record{
		ID:      "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		Version: 2000,
		Fields:  map[string]any{"name": "alpha", "body": "text"},
	}

	args, err := c.bindArgs(rec)
	if err != nil {
		t.Fatalf("bindArgs: %v", err)
	}

	// id, version, name, body, timestamp
	if len(args) != 5 {
		t.Fatalf("bindArgs returned %d args, want 5", len(args))
	}

	if args[1] != int64(2000) {
		t.Errorf("version arg = %v, want 2000", args[1])
	}

	if args[2] != "alpha" || args[3] != "text" {
		t.Errorf("field args = %v, %v, want alpha, text", args[2], args[3])
	}

	if args[4] != int64(2000*1_000_000) {
		t.Errorf("timestamp arg = %v, want %d", args[4], 2000*1_000_000)
	}
}

func TestBindArgs_BadIDFails(t *testing.T) {
	t.Parallel()

	c := &Client{idField: "id", versionField: "version"}

	if _, err := c.bindArgs(record.Record{ID: "nope", Version: 1}); err == nil {
		t.Fatal("bindArgs accepted an invalid UUID")
	}
}

func TestRowToRecord(t *testing.T) {
	t.Parallel()

	c := &Client{
		idField:      "id",
		versionField: "version",
		syncFields:   []string{"name"},
	}

	rec, err := c.rowToRecord(map[string]any{
		"id":      "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"version": int64(1500),
		"name":    "alpha",
	})
	if err != nil {
		t.Fatalf("rowToRecord: %v", err)
	}

	if rec.ID != "6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Errorf("ID = %q", rec.ID)
	}

	if rec.Version != 1500 {
		t.Errorf("Version = %d, want 1500", rec.Version)
	}

	if rec.Fields["name"] != "alpha" {
		t.Errorf("Fields[name] = %v, want alpha", rec.Fields["name"])
	}
}

func TestRowToRecord_BadVersionType(t *testing.T) {
	t.Parallel()

	c := &Client{idField: "id", versionField: "version"}

	_, err := c.rowToRecord(map[string]any{
		"id":      "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"version": "1500",
	})
	if err == nil {
		t.Fatal("rowToRecord accepted a string version")
	}
}
