package config

// Default values for configuration options. Connection and field settings
// have no defaults — they describe the user's schema and must be explicit.
const (
	defaultIDField         = "id"
	defaultVersionField    = "version"
	defaultBatchSize       = 500
	defaultIntervalSeconds = 60
	defaultBackend         = BackendFile
	defaultCheckpointPath  = "checkpoint.txt"
	defaultLogLevel        = "info"
)

// Checkpoint backend names accepted in the config file.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DefaultConfig returns a Config populated with all default values. It is
// the starting point for TOML decoding, so unset fields retain defaults.
func DefaultConfig() *Config {
	return &Config{
		IDField:         defaultIDField,
		VersionField:    defaultVersionField,
		BatchSize:       defaultBatchSize,
		IntervalSeconds: defaultIntervalSeconds,
		Checkpoint: CheckpointConfig{
			Backend: defaultBackend,
			Path:    defaultCheckpointPath,
		},
		Logging: LoggingConfig{
			LogLevel: defaultLogLevel,
		},
	}
}
