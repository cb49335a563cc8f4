package main

import (
	"github.com/spf13/cobra"

	"github.com/tonimelisma/bridgesync/internal/config"
)

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <config-file>",
		Short: "Reset the sync checkpoint",
		Long: `Reset the checkpoint watermark to zero, forcing the next sync pass to
perform a full resync of both stores. Safe to run at any time: every
write is version-gated, so a full resync never regresses data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}

			logger := buildLogger(cfg)

			checkpoints, closer, err := newCheckpointStore(cfg.Checkpoint, logger)
			if err != nil {
				return err
			}
			defer closer()

			return checkpoints.Reset(cmd.Context())
		},
	}
}
