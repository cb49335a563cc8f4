// Package config implements TOML configuration loading and validation for
// bridgesync. The configuration is a single flat file naming the replicated
// fields, batch and interval settings, the two store connections, and the
// checkpoint backend. Decoding is strict: unknown keys are fatal because a
// silently ignored typo in a sync config leads to hard-to-debug behavior.
package config

// Config is the top-level configuration structure parsed from a TOML file.
type Config struct {
	// IDField is the column / document field holding the record identifier.
	IDField string `toml:"id_field"`

	// VersionField is the column / document field holding the record
	// version, conventionally a unix-seconds timestamp.
	VersionField string `toml:"version_field"`

	// SyncFields is the ordered list of additional fields to replicate.
	// It must not repeat IDField or VersionField.
	SyncFields []string `toml:"sync_fields"`

	// BatchSize is the number of records accumulated before a flush, in
	// both directions. Must be positive.
	BatchSize int `toml:"batch_size"`

	// IntervalSeconds is the pause between passes in forever mode.
	// Negative means back-to-back passes with no pause.
	IntervalSeconds int `toml:"interval_seconds"`

	Cassandra     CassandraConfig     `toml:"cassandra"`
	Elasticsearch ElasticsearchConfig `toml:"elasticsearch"`
	Checkpoint    CheckpointConfig    `toml:"checkpoint"`
	Logging       LoggingConfig       `toml:"logging"`
}

// CassandraConfig holds column-store connection parameters.
type CassandraConfig struct {
	Hosts    []string `toml:"hosts"`
	Keyspace string   `toml:"keyspace"`
	Table    string   `toml:"table"`

	// ChangesTable is reserved for future incremental change-log sync.
	// It is parsed and reported at startup but never used by the engine.
	ChangesTable string `toml:"changes_table"`
}

// ElasticsearchConfig holds search-index connection parameters.
type ElasticsearchConfig struct {
	Hosts []string `toml:"hosts"`
	Index string   `toml:"index"`

	// DocumentType is accepted for compatibility with older clusters;
	// mapping types were removed from Elasticsearch and the adapter does
	// not send it.
	DocumentType string `toml:"document_type"`
}

// CheckpointConfig selects the watermark persistence backend.
type CheckpointConfig struct {
	// Backend is "file" or "sqlite".
	Backend string `toml:"backend"`

	// Path is the checkpoint file or database path.
	Path string `toml:"path"`
}

// LoggingConfig controls log output behavior.
type LoggingConfig struct {
	LogLevel string `toml:"log_level"`
}

// AllFields returns the full ordered field list for queries and documents:
// id field, version field, then the configured sync fields.
func (c *Config) AllFields() []string {
	fields := make([]string, 0, len(c.SyncFields)+2)
	fields = append(fields, c.IDField, c.VersionField)
	fields = append(fields, c.SyncFields...)

	return fields
}
