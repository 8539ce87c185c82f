package main

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/caphound/caphound/hunt"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of the hunt",
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		var snapshot hunt.Snapshot
		if err := client.get(cmd.Context(), "/api/status", &snapshot); err != nil {
			return err
		}

		cmd.Printf("%-14s %s\n", "Status:", renderStatus(snapshot.Status))
		if snapshot.StartedAt != nil {
			cmd.Printf("%-14s %s\n", "Started:", snapshot.StartedAt.Local().Format("02 Jan 15:04:05"))
			cmd.Printf("%-14s %s\n", "Uptime:", formatDuration(time.Duration(snapshot.UptimeSeconds*float64(time.Second))))
		}
		cmd.Printf("%-14s %d\n", "Attempts:", snapshot.TotalAttempts)
		if snapshot.CurrentZone != "" {
			cmd.Printf("%-14s %s\n", "Zone:", snapshot.CurrentZone)
		}
		cmd.Printf("%-14s %.1fs\n", "Interval:", snapshot.RetryIntervalSeconds)
		if snapshot.ConsecutiveErrors > 0 {
			cmd.Printf("%-14s %d\n", "Error streak:", snapshot.ConsecutiveErrors)
		}
		if snapshot.LastError != "" {
			cmd.Printf("%-14s %s\n", "Last error:", color.HiRedString(snapshot.LastError))
		}
		if snapshot.LastOutcome != "" {
			cmd.Printf("%-14s %s\n", "Last outcome:", snapshot.LastOutcome)
		}
		if len(snapshot.InstancesCreated) > 0 {
			cmd.Printf("%-14s %s\n", "Instances:", color.HiCyanString(strings.Join(snapshot.InstancesCreated, ", ")))
		}

		if len(snapshot.Statistics.ErrorsByType) > 0 {
			cmd.Println()
			cmd.Println("Errors by type:")
			for _, category := range slices.Sorted(maps.Keys(snapshot.Statistics.ErrorsByType)) {
				cmd.Printf("  %-22s %d\n", category, snapshot.Statistics.ErrorsByType[category])
			}
			cmd.Printf("  %-22s %.2f%%\n", "Success rate", snapshot.Statistics.SuccessRate)
		}
		return nil
	},
}
