package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/bridgesync/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagVerbose bool
	flagQuiet   bool
)

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bridgesync",
		Short: "Bidirectional Cassandra and Elasticsearch replication",
		Long: `bridgesync replicates records between a Cassandra table and an
Elasticsearch index in both directions. Per-record versions resolve
conflicts (timestamped last-write-wins on the Cassandra side, external
versioning on the Elasticsearch side) and a time-windowed checkpoint
limits each pass to records written since the previous one.`,
		Version: version,
		// Silence Cobra's default error/usage printing — main handles it.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")

	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newResetCmd())

	return cmd
}

// buildLogger creates an slog.Logger from the config-file log level, with
// --verbose and --quiet overriding it because CLI flags always win.
func buildLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Logging.SlogLevel()

	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
