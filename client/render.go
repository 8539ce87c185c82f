package main

import (
	"fmt"
	"time"

	"github.com/caphound/caphound/hunt"
	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
)

func formatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %02ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %02dm %02ds", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}

func renderStatus(status string) string {
	switch status {
	case hunt.StatusRunning:
		return color.HiGreenString(status)
	case hunt.StatusStopped:
		return color.HiBlackString(status)
	default:
		return status
	}
}

func renderLevel(level string) string {
	switch level {
	case "WARN":
		return color.HiYellowString("%-5s", level)
	case "ERROR":
		return color.HiRedString("%-5s", level)
	default:
		return fmt.Sprintf("%-5s", level)
	}
}

// categoryColor picks the dashboard color for an error category. Capacity
// shortages are the expected steady state and stay white.
func categoryColor(category string) tcell.Color {
	if hunt.Category(category).IsCapacity() {
		return tcell.ColorWhite
	}
	switch hunt.Category(category) {
	case hunt.CategoryRateLimited, hunt.CategoryInternalError:
		return tcell.ColorYellow
	case hunt.CategoryQuotaExceeded, hunt.CategoryInvalidConfiguration, hunt.CategoryUnexpected:
		return tcell.ColorRed
	default:
		return tcell.ColorGray
	}
}
