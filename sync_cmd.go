package main

import (
	"github.com/spf13/cobra"

	"github.com/tonimelisma/bridgesync/internal/config"
)

func newSyncCmd() *cobra.Command {
	var forever bool

	cmd := &cobra.Command{
		Use:   "sync <config-file>",
		Short: "Run a bidirectional sync pass",
		Long: `Run one bidirectional sync pass between Cassandra and Elasticsearch.

With --forever, passes repeat indefinitely, pausing interval_seconds
between them (a negative interval means back-to-back passes). A pass
fault stops the loop; process supervision and restarts belong to the
caller.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}

			logger := buildLogger(cfg)

			scheduler, closer, err := buildScheduler(cfg, logger)
			if err != nil {
				return err
			}
			defer closer()

			ctx := cmd.Context()

			if forever {
				return scheduler.RunForever(ctx)
			}

			_, err = scheduler.RunOnce(ctx)

			return err
		},
	}

	cmd.Flags().BoolVar(&forever, "forever", false, "keep running passes on the configured interval")

	return cmd
}
