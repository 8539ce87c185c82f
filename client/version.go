package main

import (
	"math"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version number of Caphound",

	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("caphound version %s (%s)\n", version, commit[:int(math.Min(float64(len(commit)), 7))])

		var response struct {
			Version string `json:"version"`
			Commit  string `json:"commit"`
		}
		if err := client.get(cmd.Context(), "/api/version", &response); err != nil {
			return err
		}
		cmd.Printf("server version %s (%s)\n", response.Version, response.Commit[:int(math.Min(float64(len(response.Commit)), 7))])
		return nil
	},
}
