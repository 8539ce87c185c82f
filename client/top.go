package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/caphound/caphound/hunt"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Live dashboard of the hunt",
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		// Fetch once before switching to the dashboard, so connection
		// problems surface as a regular error message.
		var snapshot hunt.Snapshot
		if err := client.get(cmd.Context(), "/api/status", &snapshot); err != nil {
			return err
		}

		app := tview.NewApplication()

		// Header
		header := tview.NewTextView().
			SetDynamicColors(true).
			SetWordWrap(true).
			SetTextAlign(tview.AlignLeft)
		header.SetBorder(true).SetTitle(" Caphound ")

		// Error statistics table
		statsTable := tview.NewTable().
			SetFixed(1, 0).
			SetSelectable(true, false)
		statsTable.SetBorder(true).SetTitle(" Errors by type ")

		// Activity log
		logsView := tview.NewTextView().
			SetDynamicColors(true)
		logsView.SetBorder(true).SetTitle(" Activity ")

		// Layout
		layout := tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(header, 6, 0, false).
			AddItem(statsTable, 0, 1, false).
			AddItem(logsView, 0, 2, false)

		// Focus cycling: Tab switches between the stats table and the log
		focusables := []tview.Primitive{statsTable, logsView}
		focusIndex := 0
		app.SetFocus(statsTable)

		// Input handling
		app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
			if event.Key() == tcell.KeyTab || event.Key() == tcell.KeyBacktab {
				if event.Key() == tcell.KeyBacktab {
					focusIndex = (focusIndex + len(focusables) - 1) % len(focusables)
				} else {
					focusIndex = (focusIndex + 1) % len(focusables)
				}
				app.SetFocus(focusables[focusIndex])
				return nil
			}
			return event
		})

		// State for rendering, only accessed from tview's event loop (via QueueUpdateDraw)
		last := snapshot

		updateHeader := func() {
			header.Clear()

			statusColor := "gray"
			if last.Status == hunt.StatusRunning {
				statusColor = "green"
			}
			uptime := formatDuration(time.Duration(last.UptimeSeconds * float64(time.Second)))

			fmt.Fprintf(header, " [yellow]Caphound[white] %s  |  Status: [%s]%s[white]  |  Uptime: [green]%s[white]\n",
				version, statusColor, last.Status, uptime)
			fmt.Fprintf(header, " Zone: [yellow]%s[white]  |  Interval: [yellow]%.1fs[white]  |  Attempts: [yellow]%d[white]  |  Error streak: [yellow]%d[white]\n",
				tview.Escape(last.CurrentZone), last.RetryIntervalSeconds, last.TotalAttempts, last.ConsecutiveErrors)

			switch {
			case len(last.InstancesCreated) > 0:
				fmt.Fprintf(header, " Instances: [aqua]%s[white]", tview.Escape(strings.Join(last.InstancesCreated, ", ")))
			case last.LastError != "":
				fmt.Fprintf(header, " Last error: [red]%s[white]", tview.Escape(last.LastError))
			case last.LastOutcome != "":
				fmt.Fprintf(header, " Last outcome: [yellow]%s[white]", last.LastOutcome)
			}
		}

		updateStats := func() {
			statsTable.Clear()
			statsTable.ScrollToBeginning()

			// Header row
			for col, title := range []string{"CATEGORY", "COUNT"} {
				statsTable.SetCell(0, col, tview.NewTableCell(title).
					SetTextColor(tcell.ColorYellow).
					SetSelectable(false).
					SetExpansion(1))
			}

			categories := slices.Sorted(maps.Keys(last.Statistics.ErrorsByType))
			for row, category := range categories {
				statsTable.SetCell(row+1, 0, tview.NewTableCell(category).
					SetTextColor(categoryColor(category)).
					SetExpansion(1))
				statsTable.SetCell(row+1, 1, tview.NewTableCell(fmt.Sprintf("%d", last.Statistics.ErrorsByType[category])).
					SetTextColor(tcell.ColorWhite).
					SetExpansion(1))
			}
			statsTable.SetTitle(fmt.Sprintf(" Errors by type  |  Success rate: %.2f%% ", last.Statistics.SuccessRate))
		}

		updateLogs := func() {
			logsView.Clear()
			for _, entry := range last.Logs {
				levelColor := "white"
				switch entry.Level {
				case "WARN":
					levelColor = "yellow"
				case "ERROR":
					levelColor = "red"
				}
				fmt.Fprintf(logsView, "[gray]%s[white] [%s]%-5s[white] %s\n",
					entry.Time.Local().Format("15:04:05"), levelColor, entry.Level, tview.Escape(entry.Message))
			}
			logsView.ScrollToEnd()
		}

		updateAll := func() {
			updateHeader()
			updateStats()
			updateLogs()
		}
		updateAll()

		// done is closed when the app stops, to signal the poller to exit.
		done := make(chan struct{})

		// Poll goroutine: refreshes the snapshot and feeds it into tview's
		// event loop. Transient fetch errors keep the last snapshot on screen.
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					var fresh hunt.Snapshot
					if err := client.get(cmd.Context(), "/api/status", &fresh); err != nil {
						continue
					}
					app.QueueUpdateDraw(func() {
						last = fresh
						updateAll()
					})
				}
			}
		}()

		err := app.SetRoot(layout, true).Run()
		close(done)
		return err
	},
}
