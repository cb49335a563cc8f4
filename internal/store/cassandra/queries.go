package cassandra

import (
	"fmt"
	"strings"
)

// microsPerSecond converts unix-second versions into the microsecond
// write timestamps Cassandra compares for cell-level last-write-wins.
const microsPerSecond = 1_000_000

// versionToMicros derives the deterministic write timestamp for a record
// version. Two writers replicating the same record version always produce
// the same timestamp, so replays are idempotent.
func versionToMicros(version int64) int64 {
	return version * microsPerSecond
}

// buildSelectAll returns the full-table projection query. Cassandra has no
// range-filterable primary scan over a non-key column, so there is no
// windowed variant; callers filter by version client-side.
func buildSelectAll(table string, fields []string) string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(fields, ", "), table)
}

// buildInsertWithTS returns the upsert statement with an explicit write
// timestamp. The trailing placeholder binds the timestamp.
func buildInsertWithTS(table string, fields []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(fields)), ", ")

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) USING TIMESTAMP ?",
		table, strings.Join(fields, ", "), placeholders,
	)
}
