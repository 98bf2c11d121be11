package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"talkcut/internal/ledger"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the ledger for the current batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			items, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list ledger: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Ledger is empty; run `talkcut run` first.")
				return nil
			}

			colorize := false
			if file, ok := out.(*os.File); ok {
				fd := file.Fd()
				colorize = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				status := string(item.Status)
				if colorize {
					status = colorizeStatus(item.Status)
				}
				truncated := ""
				if item.TitleTruncated {
					truncated = "yes"
				}
				rows = append(rows, []string{
					item.Room, item.TalkID, item.Title, status,
					truncated, item.VideoID, item.ErrorMessage,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Room", "Talk", "Title", "Status", "Truncated", "Video", "Error"},
				rows,
			))

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("ledger stats: %w", err)
			}
			statuses := make([]string, 0, len(stats))
			for status := range stats {
				statuses = append(statuses, string(status))
			}
			sort.Strings(statuses)
			for _, status := range statuses {
				fmt.Fprintf(out, "  %-10s %s\n", status, strconv.Itoa(stats[ledger.Status(status)]))
			}
			return nil
		},
	}
}

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func colorizeStatus(status ledger.Status) string {
	switch status {
	case ledger.StatusCompleted:
		return ansiGreen + string(status) + ansiReset
	case ledger.StatusFailed:
		return ansiRed + string(status) + ansiReset
	case ledger.StatusReview:
		return ansiYellow + string(status) + ansiReset
	default:
		return string(status)
	}
}
