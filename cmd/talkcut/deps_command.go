package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"talkcut/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external binary availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := deps.CheckBinaries(deps.Requirements(cfg))
			rows := make([][]string, 0, len(results))
			missing := 0
			for _, status := range results {
				availability := "ok"
				if !status.Available {
					availability = "missing"
					if !status.Optional {
						missing++
					}
				}
				optional := ""
				if status.Optional {
					optional = "optional"
				}
				rows = append(rows, []string{
					status.Name, status.Command, availability, optional, status.Detail,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Dependency", "Command", "Status", "", "Detail"},
				rows,
			))
			if missing > 0 {
				return fmt.Errorf("%d required dependency(ies) missing", missing)
			}
			return nil
		},
	}
}
