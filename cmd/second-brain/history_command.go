package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/0xramDisk/second-brain/internal/runlog"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent ingestion runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("run history is disabled in configuration")
			}

			store, err := runlog.Open(cfg.Paths.HistoryDir)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No recorded runs.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				title := entry.Title
				if len(title) > 48 {
					title = title[:45] + "..."
				}
				rows = append(rows, []string{
					entry.CreatedAt.Local().Format("2006-01-02 15:04"),
					entry.VideoID,
					title,
					entry.Status,
					strconv.Itoa(entry.WarningCount),
					strconv.Itoa(entry.ErrorCount),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Video", "Title", "Status", "Warnings", "Errors"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}
