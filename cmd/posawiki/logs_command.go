package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"posawiki/internal/logging"
	"posawiki/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var filter logs.Filter

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent lines from the posawiki log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(ctx.configValue().Paths.LogDir, logging.LogFileName)
			found, err := logs.Last(path, lines, filter)
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				if found == nil {
					found = []string{}
				}
				return writeJSON(cmd, map[string]any{"path": path, "lines": found})
			}
			out := cmd.OutOrStdout()
			if len(found) == 0 {
				fmt.Fprintf(out, "No matching log lines in %s\n", path)
				return nil
			}
			for _, line := range found {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show (0 for all)")
	cmd.Flags().StringVar(&filter.RunID, "run", "", "Only lines from this run id")
	cmd.Flags().StringVar(&filter.EventType, "event", "", "Only lines with this event_type")
	cmd.Flags().StringVar(&filter.Level, "level", "", "Only lines at this level (debug, info, warn, error)")
	return cmd
}
