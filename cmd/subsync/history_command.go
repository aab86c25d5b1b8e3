package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subsync/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent transfer journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.HistoryDBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			var entries []history.Entry
			if runID != "" {
				entries, err = store.ListRun(cmd.Context(), runID)
			} else {
				entries, err = store.List(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No journal entries")
				return nil
			}
			fmt.Fprintln(out, renderTable(historyColumns(), historyRows(entries)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries")
	cmd.Flags().StringVar(&runID, "run", "", "Show every entry of one run")
	return cmd
}

func historyColumns() []column {
	cols := textColumns("ID", "Time", "Run", "Operation", "Episode", "Encoding", "Outcome", "Target", "Error")
	cols[0].numeric = true
	cols[len(cols)-1].maxWidth = messageWidth
	return cols
}

func historyRows(entries []history.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		target := e.RemotePath
		if target == "" {
			target = e.OutputPath
		}
		errText := e.ErrorMessage
		if e.FailureKind != "" {
			errText = e.FailureKind + ": " + errText
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.ID),
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			shortID(e.RunID),
			e.Operation,
			e.EpisodeKey,
			encodingLabel(e.Encoding),
			string(e.Outcome),
			target,
			errText,
		})
	}
	return rows
}
