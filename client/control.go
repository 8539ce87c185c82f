package main

import (
	"github.com/caphound/caphound/client/ui"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start hunting",
	Args:  cobra.NoArgs,
	RunE:  controlRunE("start", "Starting hunt...", "Hunt started"),
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the current hunt",
	Args:  cobra.NoArgs,
	RunE:  controlRunE("stop", "Stopping hunt...", "Hunt stopped"),
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the hunt from a clean slate",
	Args:  cobra.NoArgs,
	RunE:  controlRunE("restart", "Restarting hunt...", "Hunt restarted"),
}

// controlRunE builds the RunE for a control verb. All three verbs are the
// same request with a different action in the URL.
func controlRunE(action, pending, success string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		var spinner *ui.Spinner
		if !verbose {
			spinner = ui.NewSpinner(pending)
		}

		if err := client.post(cmd.Context(), "/api/control/"+action, nil); err != nil {
			spinner.Fail()
			return err
		}

		if spinner != nil {
			spinner.Success(success)
		} else {
			cmd.Println(success)
		}
		return nil
	}
}
