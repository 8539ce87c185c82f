package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// Versioning information set at build time
var version, commit = "dev", "n/a"

var client *apiClient

var verbose bool

var caphoundCmd = &cobra.Command{
	Use:   "caphound",
	Short: "Caphound hunts cloud capacity until an instance is yours.",

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		server := lo.Must(cmd.Flags().GetString("server"))
		token := lo.Must(cmd.Flags().GetString("token"))

		client, err = newAPIClient(server, token)
		if err != nil {
			return err
		}

		startSkewCheck(cmd.Context())
		return nil
	},
}

func init() {
	caphoundCmd.AddCommand(completionCmd)
	caphoundCmd.AddCommand(logsCmd)
	caphoundCmd.AddCommand(restartCmd)
	caphoundCmd.AddCommand(startCmd)
	caphoundCmd.AddCommand(statusCmd)
	caphoundCmd.AddCommand(stopCmd)
	caphoundCmd.AddCommand(topCmd)
	caphoundCmd.AddCommand(versionCmd)

	caphoundCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	caphoundCmd.PersistentFlags().String("server", lo.Must(lo.Coalesce(os.Getenv("CAPHOUND_SERVER"), "http://127.0.0.1:8398")), "the server address")
	caphoundCmd.PersistentFlags().String("token", os.Getenv("CAPHOUND_TOKEN"), "the API control token")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	caphoundCmd.SetOut(os.Stdout)
	err := caphoundCmd.ExecuteContext(ctx)
	printSkewNotice()
	if err != nil {
		lo.Must(fmt.Fprintln(os.Stderr, color.HiRedString(fmt.Sprint(err))))
		os.Exit(1)
	}
}
