package main

import (
	"github.com/caphound/caphound/hunt"
	"github.com/spf13/cobra"
)

var logsTail int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent hunt activity",
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		var snapshot hunt.Snapshot
		if err := client.get(cmd.Context(), "/api/status", &snapshot); err != nil {
			return err
		}

		entries := snapshot.Logs
		if logsTail > 0 && len(entries) > logsTail {
			entries = entries[len(entries)-logsTail:]
		}
		for _, entry := range entries {
			cmd.Printf("%s %s %s\n", entry.Time.Local().Format("02 Jan 15:04:05"), renderLevel(entry.Level), entry.Message)
		}
		return nil
	},
}

func init() {
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 0, "only show the last n entries")
}
