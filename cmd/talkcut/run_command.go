package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"talkcut/internal/ledger"
	"talkcut/internal/logging"
	"talkcut/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute the configured pipeline stages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			store, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			runner, err := pipeline.New(cfg, store, logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			summary, err := runner.Run(runCtx)
			if summary != nil {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %s: %d rooms, %d talks (%d rejected)\n",
					summary.RunID, summary.Rooms, summary.Talks, summary.Rejected)
				fmt.Fprintf(out, "  completed %d, skipped %d, review %d, failed %d\n",
					summary.Completed, summary.Skipped, summary.Review, summary.Failed)
			}
			return err
		},
	}
}
