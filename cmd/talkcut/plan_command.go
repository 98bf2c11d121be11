package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"talkcut/internal/logging"
	"talkcut/internal/plan"
	"talkcut/internal/schedule"
	"talkcut/internal/talk"
)

type planRow struct {
	Room     string `json:"room"`
	TalkID   string `json:"talk_id"`
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration int    `json:"duration_seconds"`
	Output   string `json:"output"`
	Error    string `json:"error,omitempty"`
}

type planReport struct {
	Rooms      int              `json:"rooms"`
	Plans      []planRow        `json:"plans"`
	Rejections []talk.Rejection `json:"rejections,omitempty"`
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Parse the spreadsheet and print the cut plan without touching media",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger := logging.NewNop()
			parser := talk.NewParser(cfg, logger)
			result, err := parser.ParseFile(cfg.CSV.Path)
			if err != nil {
				return err
			}

			rooms := schedule.GroupByRoom(result.Records, logger)
			planner := plan.NewPlanner(cfg.Assets.Intro, cfg.Assets.Outro)

			report := planReport{Rooms: len(rooms), Rejections: result.Rejections}
			for _, room := range rooms {
				streamPath := cfg.StreamPath(room.Room)
				for _, rec := range room.Talks {
					row := planRow{
						Room:   rec.Room,
						TalkID: rec.ID,
						Title:  rec.Title,
					}
					req, planErr := planner.Plan(streamPath, rec)
					if planErr != nil {
						row.Error = planErr.Error()
					} else {
						row.Start = req.StartTimecode
						row.End = req.EndTimecode
						row.Duration = req.DurationSeconds
						row.Output = req.OutputPath
					}
					report.Plans = append(report.Plans, row)
				}
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(report)
			}

			rows := make([][]string, 0, len(report.Plans))
			for _, row := range report.Plans {
				if row.Error != "" {
					rows = append(rows, []string{row.Room, row.TalkID, "", "", "", row.Error})
					continue
				}
				rows = append(rows, []string{
					row.Room, row.TalkID, row.Start, row.End,
					strconv.Itoa(row.Duration), row.Output,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Room", "Talk", "Start", "End", "Seconds", "Output"},
				rows,
				2, 3, 4,
			))

			if len(result.Rejections) > 0 {
				fmt.Fprintf(out, "\n%d rejected row(s):\n", len(result.Rejections))
				for _, rejection := range result.Rejections {
					fmt.Fprintf(out, "  %s\n", rejection)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the plan as JSON")
	return cmd
}
