package config

import (
	"errors"
	"fmt"
	"log/slog"
)

// validLogLevels enumerates accepted log_level values.
var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// validBackends enumerates accepted checkpoint backends.
var validBackends = map[string]bool{
	BackendFile: true, BackendSQLite: true,
}

// Validate checks all configuration values and returns all errors found.
// It accumulates every error rather than stopping at the first, so users
// see a complete report and can fix all issues in one pass.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.IDField == "" {
		errs = append(errs, errors.New("id_field: must not be empty"))
	}

	if cfg.VersionField == "" {
		errs = append(errs, errors.New("version_field: must not be empty"))
	}

	if cfg.IDField != "" && cfg.IDField == cfg.VersionField {
		errs = append(errs, fmt.Errorf("version_field: must differ from id_field %q", cfg.IDField))
	}

	for _, f := range cfg.SyncFields {
		if f == cfg.IDField || f == cfg.VersionField {
			errs = append(errs, fmt.Errorf("sync_fields: %q repeats id_field or version_field", f))
		}
	}

	if cfg.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch_size: must be positive, got %d", cfg.BatchSize))
	}

	errs = append(errs, validateCassandra(&cfg.Cassandra)...)
	errs = append(errs, validateElasticsearch(&cfg.Elasticsearch)...)
	errs = append(errs, validateCheckpoint(&cfg.Checkpoint)...)

	if cfg.Logging.LogLevel != "" && !validLogLevels[cfg.Logging.LogLevel] {
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", cfg.Logging.LogLevel))
	}

	return errors.Join(errs...)
}

func validateCassandra(c *CassandraConfig) []error {
	var errs []error

	if len(c.Hosts) == 0 {
		errs = append(errs, errors.New("cassandra.hosts: must not be empty"))
	}

	if c.Keyspace == "" {
		errs = append(errs, errors.New("cassandra.keyspace: must not be empty"))
	}

	if c.Table == "" {
		errs = append(errs, errors.New("cassandra.table: must not be empty"))
	}

	return errs
}

func validateElasticsearch(e *ElasticsearchConfig) []error {
	var errs []error

	if len(e.Hosts) == 0 {
		errs = append(errs, errors.New("elasticsearch.hosts: must not be empty"))
	}

	if e.Index == "" {
		errs = append(errs, errors.New("elasticsearch.index: must not be empty"))
	}

	return errs
}

func validateCheckpoint(c *CheckpointConfig) []error {
	var errs []error

	if !validBackends[c.Backend] {
		errs = append(errs, fmt.Errorf("checkpoint.backend: unknown backend %q", c.Backend))
	}

	if c.Path == "" {
		errs = append(errs, errors.New("checkpoint.path: must not be empty"))
	}

	return errs
}

// SlogLevel maps the configured log level to its slog equivalent.
// Unknown or empty values fall back to info.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch l.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
